// Package meta extracts a human-readable title and description from raw
// page HTML. Pure function of the content; never fails, missing signals
// just leave the field empty.
package meta

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"sitescout-engine/internal/domain"
)

// Extract parses the page and resolves title and description through an
// ordered fallback: <title> then og:title then twitter:title, and the
// description meta tag then og:description then twitter:description.
// HTML entities are decoded by the parser; values are whitespace-trimmed.
func Extract(html string) domain.PageMeta {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return domain.PageMeta{}
	}
	return domain.PageMeta{
		Title:       extractTitle(doc),
		Description: extractDescription(doc),
	}
}

func extractTitle(doc *goquery.Document) string {
	if t := cleanText(doc.Find("title").First().Text()); t != "" {
		return t
	}
	if t := metaContent(doc, "property", "og:title"); t != "" {
		return t
	}
	return metaContent(doc, "name", "twitter:title")
}

func extractDescription(doc *goquery.Document) string {
	if d := metaContent(doc, "name", "description"); d != "" {
		return d
	}
	if d := metaContent(doc, "property", "og:description"); d != "" {
		return d
	}
	return metaContent(doc, "name", "twitter:description")
}

// metaContent finds the first <meta> whose attr matches value
// (case-insensitive, attribute order inside the tag does not matter)
// and returns its cleaned content.
func metaContent(doc *goquery.Document, attr, value string) string {
	var out string
	doc.Find("meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, ok := s.Attr(attr)
		if !ok || !strings.EqualFold(v, value) {
			return true
		}
		if c := cleanText(s.AttrOr("content", "")); c != "" {
			out = c
			return false
		}
		return true
	})
	return out
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}
