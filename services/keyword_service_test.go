package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractText(t *testing.T) {
	htmlIn := `<div><h1>750 Series</h1><p>Rail-mount terminal blocks</p>
		<script>var x = 1;</script>
		<table><tr><td>Width</td><td>5 mm</td></tr></table></div>`

	text := ExtractText(htmlIn)
	assert.Contains(t, text, "750 Series")
	assert.Contains(t, text, "Rail-mount terminal blocks")
	assert.Contains(t, text, "Width 5 mm")
	assert.NotContains(t, text, "var x")
}

func TestExtractText_InvalidMarkupFallsThrough(t *testing.T) {
	// html.Parse is lenient, so even fragments come back as text.
	assert.Equal(t, "plain words", ExtractText("plain words"))
}

func TestExtractKeywords(t *testing.T) {
	text := "The 750-352 terminal block connects fieldbus couplers. Terminal blocks mount on DIN rail."

	keywords := ExtractKeywords(text, 5)
	assert.Contains(t, keywords, "terminal")
	assert.Contains(t, keywords, "750-352")
	assert.NotContains(t, keywords, "the")
	assert.NotContains(t, keywords, "on")
	assert.LessOrEqual(t, len(keywords), 5)
	// "terminal" appears twice, so it sorts first.
	assert.Equal(t, "terminal", keywords[0])
}

func TestKeywordsFromHTML(t *testing.T) {
	out := KeywordsFromHTML("<p>Compact fieldbus coupler for compact installations</p>", 3)
	assert.Contains(t, out, "compact")
	assert.Contains(t, out, ", ")
}
