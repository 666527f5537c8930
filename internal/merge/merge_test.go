package merge

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout-engine/internal/domain"
)

func TestURLs(t *testing.T) {
	gemini := []string{"https://example.com/about", "https://example.com/"}
	gpt := []string{"https://example.com/about/", "https://EXAMPLE.com/contact"}

	got := URLs(gemini, gpt, nil, "example.com")

	require.Len(t, got, 3)

	// ascending by URL
	assert.Equal(t, "https://example.com/", got[0].URL)
	assert.Equal(t, "https://example.com/about", got[1].URL)
	assert.Equal(t, "https://example.com/contact", got[2].URL)

	assert.Equal(t, []domain.Source{domain.SourceGemini}, got[0].Sources)
	assert.Equal(t, []domain.Source{domain.SourceGemini, domain.SourceGPT}, got[1].Sources)
	assert.Equal(t, []domain.Source{domain.SourceGPT}, got[2].Sources)
}

func TestURLsScopesToDomain(t *testing.T) {
	gemini := []string{
		"https://example.com/a",
		"https://other.com/b",
		"https://sub.example.com/c",
		"not a url",
		"/relative",
	}
	got := URLs(gemini, nil, nil, "example.com")

	require.Len(t, got, 1)
	assert.Equal(t, "https://example.com/a", got[0].URL)
	for _, m := range got {
		assert.NotEmpty(t, m.Sources)
	}
}

func TestURLsEmptyInput(t *testing.T) {
	got := URLs(nil, nil, nil, "example.com")
	assert.Empty(t, got)
}

func TestURLsSortedAndDeterministic(t *testing.T) {
	gemini := []string{"https://a.com/z", "https://a.com/a", "https://a.com/m"}
	gpt := []string{"https://a.com/m", "https://a.com/b"}

	got := URLs(gemini, gpt, nil, "a.com")
	urls := make([]string, 0, len(got))
	for _, m := range got {
		urls = append(urls, m.URL)
	}
	assert.True(t, sort.StringsAreSorted(urls))

	// union is commutative: swapping which guesser said what keeps the set
	swapped := URLs(gpt, gemini, nil, "a.com")
	swappedURLs := make([]string, 0, len(swapped))
	for _, m := range swapped {
		swappedURLs = append(swappedURLs, m.URL)
	}
	assert.Equal(t, urls, swappedURLs)
}

func TestPrimarySource(t *testing.T) {
	cases := []struct {
		name    string
		sources []domain.Source
		want    domain.Source
	}{
		{"sitemap wins", []domain.Source{domain.SourceSitemap}, domain.SourceSitemap},
		{"sitemap beats guessers", []domain.Source{domain.SourceGemini, domain.SourceSitemap}, domain.SourceSitemap},
		{"both guessers merge", []domain.Source{domain.SourceGemini, domain.SourceGPT}, domain.SourceMerged},
		{"gemini alone", []domain.Source{domain.SourceGemini}, domain.SourceGemini},
		{"gpt alone", []domain.Source{domain.SourceGPT}, domain.SourceGPT},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, PrimarySource(tc.sources))
		})
	}
}
