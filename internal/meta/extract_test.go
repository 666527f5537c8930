package meta

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTitleFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			"title element wins",
			`<html><head>
				<title>Page Title</title>
				<meta property="og:title" content="OG Title">
			</head></html>`,
			"Page Title",
		},
		{
			"og:title when no title element",
			`<head><meta property="og:title" content="OG Title"></head>`,
			"OG Title",
		},
		{
			"twitter:title last",
			`<head><meta name="twitter:title" content="TW Title"></head>`,
			"TW Title",
		},
		{
			"nothing found",
			`<head><meta name="keywords" content="a,b"></head>`,
			"",
		},
		{
			"title is trimmed",
			"<head><title>\n   Spaced Out   \n</title></head>",
			"Spaced Out",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.html).Title)
		})
	}
}

func TestExtractDescriptionFallbackOrder(t *testing.T) {
	cases := []struct {
		name string
		html string
		want string
	}{
		{
			"meta description wins",
			`<head>
				<meta name="description" content="Plain description">
				<meta property="og:description" content="OG description">
			</head>`,
			"Plain description",
		},
		{
			"content before name attribute order",
			`<head><meta content="Reversed order" name="description"></head>`,
			"Reversed order",
		},
		{
			"og:description fallback",
			`<head><meta property="og:description" content="OG description"></head>`,
			"OG description",
		},
		{
			"twitter:description fallback",
			`<head><meta name="twitter:description" content="TW description"></head>`,
			"TW description",
		},
		{
			"nothing found",
			`<head><title>Only a title</title></head>`,
			"",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Extract(tc.html).Description)
		})
	}
}

func TestExtractDecodesEntities(t *testing.T) {
	html := `<head>
		<title>Tom &amp; Jerry &lt;S1&gt;</title>
		<meta name="description" content="Fish &quot;n&#39; Chips&nbsp;shop">
	</head>`
	got := Extract(html)
	assert.Equal(t, "Tom & Jerry <S1>", got.Title)
	assert.Equal(t, `Fish "n' Chips shop`, got.Description)
}

func TestExtractGarbageInput(t *testing.T) {
	got := Extract("<<<<not really html")
	assert.Equal(t, "", got.Title)
	assert.Equal(t, "", got.Description)

	got = Extract("")
	assert.Equal(t, "", got.Title)
	assert.Equal(t, "", got.Description)
}
