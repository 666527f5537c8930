package urlutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"trailing slash stripped", "https://a.com/path/", "https://a.com/path"},
		{"root slash kept", "https://a.com/", "https://a.com/"},
		{"no path untouched", "https://a.com", "https://a.com"},
		{"default http port dropped", "http://a.com:80/x", "http://a.com/x"},
		{"default https port dropped", "https://a.com:443/x", "https://a.com/x"},
		{"custom port kept", "https://a.com:8443/x", "https://a.com:8443/x"},
		{"host lowercased", "https://EXAMPLE.com/Contact", "https://example.com/Contact"},
		{"scheme lowercased", "HTTPS://a.com/x", "https://a.com/x"},
		{"query kept", "https://a.com/x/?q=1", "https://a.com/x?q=1"},
		{"relative returned as-is", "/just/a/path", "/just/a/path"},
		{"garbage returned as-is", "not a url at all", "not a url at all"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"https://a.com/path/",
		"http://a.com:80/x",
		"https://EXAMPLE.com/contact/",
		"not a url at all",
		"",
		"https://a.com/",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "input %q", in)
	}
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomain("https://example.com/about"))
	assert.Equal(t, "example.com", ExtractDomain("https://EXAMPLE.com"))
	assert.Equal(t, "example.com", ExtractDomain("https://example.com:8080/x"))
	assert.Equal(t, "", ExtractDomain("no scheme here"))
	assert.Equal(t, "", ExtractDomain("/relative/path"))
	assert.Equal(t, "", ExtractDomain(""))
}

func TestSameDomain(t *testing.T) {
	assert.True(t, SameDomain("https://a.com/x", "http://a.com/y"))
	assert.True(t, SameDomain("https://A.com", "https://a.com"))
	assert.False(t, SameDomain("https://a.com", "https://www.a.com"))
	assert.False(t, SameDomain("https://a.com", "https://b.com"))
	assert.False(t, SameDomain("garbage", "https://a.com"))
	assert.False(t, SameDomain("garbage", "also garbage"))
}

func TestValidateSeed(t *testing.T) {
	got, err := ValidateSeed("  https://Example.com/about/ ")
	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/about", got)

	_, err = ValidateSeed("")
	assert.ErrorIs(t, err, ErrEmptyURL)

	for _, bad := range []string{"ftp://a.com", "example.com/about", "://nope"} {
		_, err := ValidateSeed(bad)
		assert.ErrorIs(t, err, ErrInvalidURL, "input %q", bad)
	}
}
