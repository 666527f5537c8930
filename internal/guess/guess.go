// Package guess defines the contract for the LLM URL guessers and the
// shared plumbing both providers use: the prompt and the lenient decoding
// of their {urls, confidence} payload.
package guess

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Result is one guesser's contribution: speculative same-site URLs plus a
// self-reported confidence. Confidence is carried through and logged but
// plays no part in merging.
type Result struct {
	URLs       []string
	Confidence float64
}

type Guesser interface {
	Name() string
	Analyze(ctx context.Context, targetURL string) (Result, error)
}

// Prompt asks the model for an exhaustive same-domain URL list in a strict
// JSON shape. Both providers get the same instructions.
func Prompt(targetURL string) string {
	return strings.TrimSpace(fmt.Sprintf(`You are an expert in website structure analysis.
List every page URL that plausibly exists on the website at the URL below.

Target URL: %s

## Approach
1. Identify the domain and infer the typical structure of this kind of site
2. Consider paths that robots.txt or sitemap.xml would usually reveal
3. Cover the common sections (home, about, services, blog, contact, legal)
4. Include child pages and subsections of each page

## Output format
Respond with JSON only:
{
  "urls": ["https://example.com/page1", "https://example.com/page2"],
  "confidence": 0.8
}

## Rules
- Only URLs on the same domain as the target
- Absolute URLs starting with http(s)://
- No duplicates
- Only URLs that are likely to actually exist`, targetURL))
}

// DecodePayload parses the model's JSON text. The payload as a whole must
// be JSON, but individual fields are coerced defensively: a missing or
// mistyped urls/confidence degrades to its zero value instead of failing,
// and non-string list entries are skipped.
func DecodePayload(text string) (Result, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return Result{}, fmt.Errorf("decode guesser payload: %w", err)
	}

	var res Result
	if b, ok := raw["urls"]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(b, &items); err == nil {
			for _, it := range items {
				var s string
				if err := json.Unmarshal(it, &s); err == nil {
					res.URLs = append(res.URLs, s)
				}
			}
		}
	}
	if b, ok := raw["confidence"]; ok {
		var f float64
		if err := json.Unmarshal(b, &f); err == nil {
			res.Confidence = f
		}
	}
	return res, nil
}
