package synthlog

import (
	"context"
	"fmt"
	"os"

	"github.com/okian/melee/pkg/logger"
)

// Run generates a synthetic encounter and either writes it to disk or
// drives it through a running service and prints the resulting report.
func Run(ctx context.Context, cfg *Config) error {
	log := logger.Get()

	payload := Generate(cfg)
	log.Info(ctx, "generated synthetic encounter",
		logger.String("profile", payload.Profile),
		logger.Int64("duration_ms", cfg.DurationMS),
		logger.Int("events", len(payload.Events)),
	)

	if cfg.OutputFile != "" {
		raw, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal payload: %w", err)
		}
		if err := os.WriteFile(cfg.OutputFile, raw, 0o644); err != nil {
			return fmt.Errorf("write payload: %w", err)
		}
		log.Info(ctx, "payload written", logger.String("file", cfg.OutputFile))
		return nil
	}

	c := newClient(cfg.BaseURL, cfg.Timeout)

	ack, err := c.submit(ctx, payload)
	if err != nil {
		return err
	}
	if ack.Duplicate {
		log.Warn(ctx, "payload already analyzed; vary the seed to resubmit")
		return nil
	}
	log.Info(ctx, "submission accepted", logger.String("run_id", ack.RunID))

	pollCtx, cancel := context.WithTimeout(ctx, cfg.PollTimeout)
	defer cancel()

	raw, err := c.fetchReport(pollCtx, ack.RunID, cfg.PollInterval)
	if err != nil {
		return err
	}

	// The report is already JSON; print it as-is.
	fmt.Println(string(raw))
	return nil
}
