// Package textutil provides the small lexical helpers shared by the memory
// store's semantic retrieval mode and the evaluator's relevance scoring.
package textutil

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it into alphanumeric tokens, dropping
// punctuation and whitespace.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Overlap returns the fraction of query tokens that also occur in text,
// normalized by the query token count. It is 0 for an empty query.
func Overlap(query, text string) float64 {
	queryTokens := Tokenize(query)
	if len(queryTokens) == 0 {
		return 0
	}
	textSet := make(map[string]struct{})
	for _, tok := range Tokenize(text) {
		textSet[tok] = struct{}{}
	}
	shared := 0
	for _, tok := range dedupe(queryTokens) {
		if _, ok := textSet[tok]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(dedupe(queryTokens)))
}

func dedupe(tokens []string) []string {
	seen := make(map[string]struct{}, len(tokens))
	out := tokens[:0:0]
	for _, tok := range tokens {
		if _, ok := seen[tok]; ok {
			continue
		}
		seen[tok] = struct{}{}
		out = append(out, tok)
	}
	return out
}
