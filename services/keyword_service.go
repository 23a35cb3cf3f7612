package services

import (
	"sort"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// stopwords are skipped during keyword extraction. The list is short on
// purpose; product copy is already terse.
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "can": true, "has": true,
	"have": true, "its": true, "not": true, "our": true, "you": true,
	"your": true, "all": true, "via": true, "per": true, "into": true,
	"when": true, "will": true, "more": true, "than": true, "each": true,
}

// ExtractText converts HTML product copy to plain text. Uploaded datasheets
// and marketing pages arrive as HTML fragments; keywords are indexed off
// the rendered text, not the markup.
func ExtractText(htmlContent string) string {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		// If parsing fails, return the original content
		return htmlContent
	}

	var text strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			text.WriteString(n.Data)
		case html.ElementNode:
			switch n.Data {
			case "script", "style":
				return
			case "p", "div", "br", "h1", "h2", "h3", "h4", "h5", "h6", "li", "tr", "table":
				text.WriteString("\n")
			case "td", "th":
				text.WriteString(" ")
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(doc)

	return strings.TrimSpace(strings.Join(strings.Fields(text.String()), " "))
}

// ExtractKeywords tokenizes text and returns up to max keywords ordered by
// frequency, then alphabetically for stable output. Words shorter than three
// characters and stopwords are dropped; part-number-like tokens (containing
// digits) are kept verbatim since those are what users search for.
func ExtractKeywords(text string, max int) []string {
	if max <= 0 {
		max = 10
	}

	counts := map[string]int{}
	for _, field := range strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	}) {
		word := strings.Trim(field, "-")
		if len(word) < 3 || stopwords[word] {
			continue
		}
		counts[word]++
	}

	keywords := make([]string, 0, len(counts))
	for word := range counts {
		keywords = append(keywords, word)
	}
	sort.Slice(keywords, func(i, j int) bool {
		if counts[keywords[i]] != counts[keywords[j]] {
			return counts[keywords[i]] > counts[keywords[j]]
		}
		return keywords[i] < keywords[j]
	})

	if len(keywords) > max {
		keywords = keywords[:max]
	}
	return keywords
}

// KeywordsFromHTML is the one-call path used when an asset is created or
// updated: strip markup, then index the remaining text.
func KeywordsFromHTML(htmlContent string, max int) string {
	return strings.Join(ExtractKeywords(ExtractText(htmlContent), max), ", ")
}
