package synthlog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// client is a thin HTTP wrapper over the analysis API.
type client struct {
	http    *http.Client
	baseURL string
}

func newClient(baseURL string, timeout time.Duration) *client {
	return &client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// ackResponse mirrors the POST /analyze acknowledgement.
type ackResponse struct {
	RunID     string `json:"run_id"`
	Duplicate bool   `json:"duplicate"`
	Events    int    `json:"events"`
}

// submit posts the payload and returns the acknowledgement.
func (c *client) submit(ctx context.Context, payload *Payload) (*ackResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("submit: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusAccepted && resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("submit rejected: %d: %s", resp.StatusCode, raw)
	}

	var ack ackResponse
	if err := json.Unmarshal(raw, &ack); err != nil {
		return nil, fmt.Errorf("decode acknowledgement: %w", err)
	}
	return &ack, nil
}

// fetchReport polls GET /reports/{id} until the report exists or the
// context expires.
func (c *client) fetchReport(ctx context.Context, runID string, interval time.Duration) ([]byte, error) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for report %s: %w", runID, ctx.Err())
		case <-ticker.C:
			resp, err := c.http.Get(c.baseURL + "/reports/" + runID)
			if err != nil {
				return nil, fmt.Errorf("fetch report: %w", err)
			}
			raw, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return nil, fmt.Errorf("read report: %w", err)
			}
			switch resp.StatusCode {
			case http.StatusOK:
				return raw, nil
			case http.StatusNotFound:
				continue
			default:
				return nil, fmt.Errorf("fetch report: %d: %s", resp.StatusCode, raw)
			}
		}
	}
}
