// Package merge reconciles candidate URL lists from the guessers (and an
// optional sitemap list) into one deduplicated, domain-scoped set with
// provenance.
package merge

import (
	"sort"

	"sitescout-engine/internal/domain"
	"sitescout-engine/internal/urlutil"
)

// sourceOrder fixes how Sources slices are ordered inside a MergedURL.
var sourceOrder = map[domain.Source]int{
	domain.SourceGemini:  0,
	domain.SourceGPT:     1,
	domain.SourceSitemap: 2,
}

// URLs merges the per-source candidate lists. Every raw URL is normalized
// and kept only if it lives on baseDomain; scoping compares against an
// assumed https origin regardless of the scheme the probe will end up using.
// Output is sorted ascending by URL and each entry carries every source that
// proposed it. All-empty input yields an empty (valid) result.
func URLs(geminiURLs, gptURLs, sitemapURLs []string, baseDomain string) []domain.MergedURL {
	byURL := make(map[string]map[domain.Source]bool)

	add := func(raw string, src domain.Source) {
		normalized := urlutil.Normalize(raw)
		if !urlutil.SameDomain(normalized, "https://"+baseDomain) {
			return
		}
		set, ok := byURL[normalized]
		if !ok {
			set = make(map[domain.Source]bool)
			byURL[normalized] = set
		}
		set[src] = true
	}

	for _, u := range geminiURLs {
		add(u, domain.SourceGemini)
	}
	for _, u := range gptURLs {
		add(u, domain.SourceGPT)
	}
	for _, u := range sitemapURLs {
		add(u, domain.SourceSitemap)
	}

	out := make([]domain.MergedURL, 0, len(byURL))
	for u, set := range byURL {
		sources := make([]domain.Source, 0, len(set))
		for s := range set {
			sources = append(sources, s)
		}
		sort.Slice(sources, func(i, j int) bool {
			return sourceOrder[sources[i]] < sourceOrder[sources[j]]
		})
		out = append(out, domain.MergedURL{URL: u, Sources: sources})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].URL < out[j].URL })
	return out
}

// PrimarySource resolves one display label per merged URL.
// Priority: sitemap wins outright, both guessers resolve to "merged",
// otherwise whichever single guesser proposed it.
func PrimarySource(sources []domain.Source) domain.Source {
	has := func(s domain.Source) bool {
		for _, v := range sources {
			if v == s {
				return true
			}
		}
		return false
	}
	switch {
	case has(domain.SourceSitemap):
		return domain.SourceSitemap
	case has(domain.SourceGemini) && has(domain.SourceGPT):
		return domain.SourceMerged
	case has(domain.SourceGemini):
		return domain.SourceGemini
	default:
		return domain.SourceGPT
	}
}
