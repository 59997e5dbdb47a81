// Package classifier maps barcode category tags and product names onto a
// location's categories.
package classifier

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback is returned when no keyword matches.
const Fallback = "Autre"

// Classifier matches free text against a static keyword table. It holds no
// mutable state and is safe for concurrent use.
type Classifier struct {
	keywords map[string][]string
}

// New creates a classifier over the given keyword table.
func New(keywords map[string][]string) *Classifier {
	lower := cases.Lower(language.Und)
	table := make(map[string][]string, len(keywords))
	for category, words := range keywords {
		normalised := make([]string, 0, len(words))
		for _, w := range words {
			if w = lower.String(strings.TrimSpace(w)); w != "" {
				normalised = append(normalised, w)
			}
		}
		table[category] = normalised
	}
	return &Classifier{keywords: table}
}

// NewDefault creates a classifier over DefaultKeywords.
func NewDefault() *Classifier {
	return New(DefaultKeywords)
}

// Classify returns the first category of categories (in order) matched by
// tags or, failing that, by productName. Tags are tried with word-boundary
// matching first, then with plain substring matching; the product name only
// with substring matching.
func (c *Classifier) Classify(tags []string, categories []string, productName string) string {
	if len(tags) > 0 {
		lower := cases.Lower(language.Und)
		lowered := make([]string, len(tags))
		for i, tag := range tags {
			lowered[i] = lower.String(tag)
		}
		joined := strings.Join(lowered, " ")

		if category, ok := c.match(joined, categories, containsWord); ok {
			return category
		}
		if category, ok := c.match(joined, categories, strings.Contains); ok {
			return category
		}
	}

	if productName != "" {
		name := cases.Lower(language.Und).String(productName)
		if category, ok := c.match(name, categories, strings.Contains); ok {
			return category
		}
	}

	return Fallback
}

func (c *Classifier) match(text string, categories []string, matches func(string, string) bool) (string, bool) {
	for _, category := range categories {
		for _, keyword := range c.keywords[category] {
			if matches(text, keyword) {
				return category, true
			}
		}
	}
	return "", false
}

// containsWord reports whether keyword occurs in text delimited on both sides
// by a tag separator or the edge of the text.
func containsWord(text, keyword string) bool {
	for offset := 0; offset <= len(text)-len(keyword); {
		idx := strings.Index(text[offset:], keyword)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(keyword)

		before, _ := utf8.DecodeLastRuneInString(text[:start])
		after, _ := utf8.DecodeRuneInString(text[end:])
		if (start == 0 || isSeparator(before)) && (end == len(text) || isSeparator(after)) {
			return true
		}

		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return false
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', ':', '-', ',', '/':
		return true
	}
	return false
}
