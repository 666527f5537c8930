// Package gemini implements the guess.Guesser contract on top of the
// Gemini generateContent API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"sitescout-engine/internal/guess"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // overridable for tests
}

type Client struct {
	cfg Config
	hc  *http.Client
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-3-pro-preview"
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string { return "gemini" }

func (c *Client) Analyze(ctx context.Context, targetURL string) (guess.Result, error) {
	if c.cfg.APIKey == "" {
		return guess.Result{}, fmt.Errorf("gemini: api key not set")
	}

	body := map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]any{{"text": guess.Prompt(targetURL)}}},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
			"responseSchema": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"urls":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"confidence": map[string]any{"type": "number"},
				},
				"required": []string{"urls", "confidence"},
			},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return guess.Result{}, err
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent", c.cfg.BaseURL, c.cfg.Model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(b))
	if err != nil {
		return guess.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return guess.Result{}, fmt.Errorf("gemini: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return guess.Result{}, fmt.Errorf("gemini: status %d: %s", res.StatusCode, msg)
	}

	var payload struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return guess.Result{}, fmt.Errorf("gemini: decode response: %w", err)
	}

	if len(payload.Candidates) == 0 || len(payload.Candidates[0].Content.Parts) == 0 {
		return guess.Result{}, fmt.Errorf("gemini: empty response")
	}

	return guess.DecodePayload(payload.Candidates[0].Content.Parts[0].Text)
}
