// Package remote implements the G2P engine as a client for an external
// transcription service speaking JSON over HTTP. The service takes
// lowercase text and a syllable-marking flag and returns
// whitespace-delimited X-SAMPA phones.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mimir-speech/talfront/internal/version"
)

// Engine calls a remote G2P service.
type Engine struct {
	endpoint string
	apiKey   string
	client   *http.Client
	hash     string
}

// Config holds the remote engine settings.
type Config struct {
	// Endpoint is the transcription URL (e.g. "http://g2p:8000/transcribe").
	Endpoint string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// Timeout bounds each transcription call. Zero means 10 seconds.
	Timeout time.Duration
}

// New creates a remote engine from config.
func New(cfg Config) *Engine {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	return &Engine{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		hash:     version.Hash("remote.Engine", []byte(cfg.Endpoint)),
	}
}

type transcribeRequest struct {
	Text          string `json:"text"`
	MarkSyllables bool   `json:"mark_syllables"`
}

type transcribeResponse struct {
	Phones string `json:"phones"`
}

// Transcribe sends text to the service and returns its phone string.
func (e *Engine) Transcribe(ctx context.Context, text string, markSyllables bool) (string, error) {
	body, err := json.Marshal(transcribeRequest{Text: text, MarkSyllables: markSyllables})
	if err != nil {
		return "", fmt.Errorf("marshalling transcribe request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	slog.Debug("g2p transcribe request", "endpoint", e.endpoint, "text_length", len(text))

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("g2p transcription request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("g2p transcription failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result transcribeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transcribe response: %w", err)
	}
	return result.Phones, nil
}

// Close is a no-op — connections are pooled by the HTTP client.
func (e *Engine) Close() error { return nil }

// VersionHash fingerprints the engine configuration.
func (e *Engine) VersionHash() string { return e.hash }
