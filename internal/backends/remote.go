package backends

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/splitq/wirecut/internal/domain"
)

// RemoteBackend is an HTTP client for an execution gateway. The gateway
// receives the circuit as JSON and answers with an outcome histogram.
type RemoteBackend struct {
	baseURL string
	client  *http.Client
	log     zerolog.Logger
}

// NewRemoteBackend creates a new gateway client.
func NewRemoteBackend(baseURL string, log zerolog.Logger) *RemoteBackend {
	return &RemoteBackend{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log.With().Str("backend", "remote").Logger(),
	}
}

// Name implements Backend.
func (b *RemoteBackend) Name() string { return "remote" }

// executeRequest mirrors the gateway's execution endpoint payload.
type executeRequest struct {
	Circuit domain.Circuit `json:"circuit"`
	Shots   int64          `json:"shots"`
}

// executeResponse is the standard response envelope from the gateway.
type executeResponse struct {
	Success bool          `json:"success"`
	Counts  domain.Counts `json:"counts"`
	Error   *string       `json:"error"`
}

// Execute implements Backend.
func (b *RemoteBackend) Execute(ctx context.Context, circuit domain.Circuit, shots int64) (domain.Counts, error) {
	payload, err := json.Marshal(executeRequest{Circuit: circuit, Shots: shots})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal execute request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create execute request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read execute response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(body))
	}

	var envelope executeResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to parse execute response: %w", err)
	}
	if !envelope.Success {
		msg := "unknown error"
		if envelope.Error != nil {
			msg = *envelope.Error
		}
		return nil, fmt.Errorf("gateway execution failed: %s", msg)
	}

	b.log.Debug().
		Str("circuit", circuit.Name).
		Int64("shots", shots).
		Int("outcomes", len(envelope.Counts)).
		Msg("Gateway execution complete")

	return envelope.Counts, nil
}
