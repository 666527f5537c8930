// Package openai implements the guess.Guesser contract on top of the
// OpenAI Responses API.
package openai

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

const defaultBaseURL = "https://api.openai.com/v1"

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
		cfg.Model = "gpt-5.1"
	}
	return &Client{
		cfg: cfg,
		hc:  &http.Client{Timeout: 120 * time.Second},
	}
}

func (c *Client) Name() string { return "gpt" }

func (c *Client) Analyze(ctx context.Context, targetURL string) (guess.Result, error) {
	if c.cfg.APIKey == "" {
		return guess.Result{}, fmt.Errorf("openai: api key not set")
	}

	body := map[string]any{
		"model": c.cfg.Model,
		"input": guess.Prompt(targetURL),
		"response_format": map[string]any{
			"type": "json_schema",
			"json_schema": map[string]any{
				"name": "sitemap_response",
				"schema": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"urls":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
						"confidence": map[string]any{"type": "number"},
					},
					"required": []string{"urls", "confidence"},
				},
			},
		},
	}
	b, err := json.Marshal(body)
	if err != nil {
		return guess.Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/responses", bytes.NewReader(b))
	if err != nil {
		return guess.Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	res, err := c.hc.Do(req)
	if err != nil {
		return guess.Result{}, fmt.Errorf("openai: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		msg, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return guess.Result{}, fmt.Errorf("openai: status %d: %s", res.StatusCode, msg)
	}

	var payload struct {
		OutputText string `json:"output_text"`
		Output     []struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"output"`
	}
	if err := json.NewDecoder(res.Body).Decode(&payload); err != nil {
		return guess.Result{}, fmt.Errorf("openai: decode response: %w", err)
	}

	text := payload.OutputText
	if text == "" && len(payload.Output) > 0 && len(payload.Output[0].Content) > 0 {
		text = payload.Output[0].Content[0].Text
	}
	if text == "" {
		return guess.Result{}, fmt.Errorf("openai: empty response")
	}

	return guess.DecodePayload(text)
}
