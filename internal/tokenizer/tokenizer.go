// Package tokenizer implements the analyzer applied to text fields at both
// index and query time. Both sides must tokenize identically for match
// semantics to hold.
package tokenizer

import (
	"regexp"
	"strings"
)

// nonAlphanumericRegex matches sequences of non-alphanumeric characters.
var nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// Tokenize converts a string into a slice of whole-word tokens.
// It lowercases the string and splits by non-alphanumeric characters.
func Tokenize(text string) []string {
	split := nonAlphanumericRegex.Split(strings.ToLower(text), -1)

	tokens := make([]string, 0, len(split))
	for _, s := range split {
		if s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

// TermFrequencies tokenizes text and counts occurrences of each token.
func TermFrequencies(text string) map[string]int {
	freqs := make(map[string]int)
	for _, token := range Tokenize(text) {
		freqs[token]++
	}
	return freqs
}
