package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitescout-engine/internal/domain"
)

var sample = []domain.URLResult{
	{
		URL:        "https://example.com/",
		Title:      "Home, sweet home",
		StatusCode: 200,
		Valid:      true,
		Source:     domain.SourceMerged,
	},
	{
		URL:          "https://example.com/gone",
		StatusCode:   404,
		Valid:        false,
		Source:       domain.SourceGPT,
		ErrorMessage: "HTTP 404",
	},
	{
		URL:          "https://example.com/dead",
		StatusCode:   0,
		Valid:        false,
		Source:       domain.SourceGemini,
		ErrorMessage: "request timeout",
	},
}

func TestCSV(t *testing.T) {
	out := CSV(sample)

	// UTF-8 byte-order mark prefix
	assert.True(t, bytes.HasPrefix(out, []byte("\xEF\xBB\xBF")))

	body := strings.TrimPrefix(string(out), "\uFEFF")
	lines := strings.Split(strings.TrimSpace(body), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "URL,Title,Description,Status,Valid,Source,Error", lines[0])

	// comma in the title forces quoting and preserves the comma
	assert.Contains(t, lines[1], `"Home, sweet home"`)
	assert.Contains(t, lines[1], "200")
	assert.Contains(t, lines[1], "valid")

	// no response: empty status column
	assert.Contains(t, lines[3], "https://example.com/dead,,,,invalid,gemini,request timeout")
}

func TestCSVQuoteEscaping(t *testing.T) {
	out := CSV([]domain.URLResult{{
		URL:    "https://example.com/q",
		Title:  `He said "hi"`,
		Source: domain.SourceGemini,
	}})
	assert.Contains(t, string(out), `"He said ""hi"""`)
}

func TestJSON(t *testing.T) {
	out, err := JSON(sample)
	require.NoError(t, err)

	var rows []map[string]any
	require.NoError(t, json.Unmarshal(out, &rows))
	require.Len(t, rows, 3)

	first := rows[0]
	assert.Equal(t, "https://example.com/", first["url"])
	assert.Equal(t, "Home, sweet home", first["title"])
	assert.Equal(t, float64(200), first["statusCode"])
	assert.Equal(t, true, first["isValid"])
	assert.Equal(t, "merged", first["source"])
	assert.Nil(t, first["description"])
	assert.Nil(t, first["errorMessage"])

	// transport failure exports a null status code
	assert.Nil(t, rows[2]["statusCode"])
	assert.Equal(t, "request timeout", rows[2]["errorMessage"])
}

func TestXLSX(t *testing.T) {
	out, err := XLSX(sample)
	require.NoError(t, err)
	// xlsx files are zip archives
	assert.True(t, bytes.HasPrefix(out, []byte("PK")))
}
