package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/okian/melee/internal/synthlog"
	"github.com/okian/melee/pkg/logger"
)

// Default configuration constants.
const (
	defaultDurationMS     = 300_000 // five minutes
	defaultSeed           = 1
	defaultMalformedEvery = 0
	defaultTimeout        = 10 * time.Second
	defaultPollInterval   = 200 * time.Millisecond
	defaultPollTimeout    = 30 * time.Second
)

func main() {
	var (
		baseURL        = flag.String("url", "http://localhost:9090", "Base URL of the analysis service")
		profile        = flag.String("profile", "fury", "Analysis profile to request")
		durationMS     = flag.Int64("duration", defaultDurationMS, "Encounter duration in milliseconds")
		seed           = flag.Int64("seed", defaultSeed, "Random seed for reproducible logs")
		malformedEvery = flag.Int("malformed-every", defaultMalformedEvery, "Inject one malformed event per N valid ones (0 disables)")
		outputFile     = flag.String("output", "", "Write the payload to a file instead of submitting it")
		timeout        = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
	)
	flag.Parse()

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	cfg := &synthlog.Config{
		BaseURL:        *baseURL,
		Profile:        *profile,
		DurationMS:     *durationMS,
		Seed:           *seed,
		MalformedEvery: *malformedEvery,
		OutputFile:     *outputFile,
		Timeout:        *timeout,
		PollInterval:   defaultPollInterval,
		PollTimeout:    defaultPollTimeout,
	}

	if err := synthlog.Run(context.Background(), cfg); err != nil {
		os.Stderr.WriteString("synthlog failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
