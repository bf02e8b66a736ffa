package usecase

import (
	"regexp"
	"strings"
	"unicode"
)

// Compiled regex patterns for query cleaning
var (
	multiSpacePattern = regexp.MustCompile(`\s+`)
	liveMarkerPattern = regexp.MustCompile(`(?i)#liveweb\b`)
)

// filterStopwords are dropped from queries before relevance matching
// (articles, prepositions, generic shopping verbs)
var filterStopwords = map[string]bool{
	"the":     true,
	"and":     true,
	"for":     true,
	"with":    true,
	"under":   true,
	"over":    true,
	"below":   true,
	"above":   true,
	"less":    true,
	"than":    true,
	"near":    true,
	"from":    true,
	"into":    true,
	"about":   true,
	"that":    true,
	"this":    true,
	"your":    true,
	"deal":    true,
	"deals":   true,
	"buy":     true,
	"need":    true,
	"want":    true,
	"looking": true,
	"find":    true,
	"shop":    true,
	"get":     true,
	"show":    true,
	"please":  true,
	"now":     true,
}

// promotionStopwords are dropped before measuring overlap with a catalog product
var promotionStopwords = map[string]bool{
	"the":     true,
	"a":       true,
	"an":      true,
	"and":     true,
	"or":      true,
	"for":     true,
	"to":      true,
	"of":      true,
	"in":      true,
	"on":      true,
	"with":    true,
	"under":   true,
	"over":    true,
	"near":    true,
	"me":      true,
	"i":       true,
	"my":      true,
	"looking": true,
	"buy":     true,
	"need":    true,
	"want":    true,
}

// usedKeywords signal used or refurbished inventory
var usedKeywords = []string{"used", "refurbished", "preowned", "renewed"}

// splitAlphanumeric lowercases text and splits it on anything that is not a letter or digit
func splitAlphanumeric(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// tokenize returns lowercase alphanumeric tokens of at least minLen runes
// that are not in stopwords. Duplicates are kept in order.
func tokenize(text string, minLen int, stopwords map[string]bool) []string {
	var tokens []string
	for _, tok := range splitAlphanumeric(text) {
		if len([]rune(tok)) < minLen || stopwords[tok] {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// containsAny reports whether text contains any of the words as a substring
func containsAny(text string, words []string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

// countContained counts tokens that occur as substrings of haystack
func countContained(haystack string, tokens []string) int {
	n := 0
	for _, tok := range tokens {
		if strings.Contains(haystack, tok) {
			n++
		}
	}
	return n
}

// mentionsUsed reports whether text signals used or refurbished inventory
func mentionsUsed(text string) bool {
	return containsAny(strings.ToLower(text), usedKeywords)
}

// stripLiveMarker removes the live-search marker and collapses whitespace.
// The second return value reports whether the marker was present.
func stripLiveMarker(text string) (string, bool) {
	found := liveMarkerPattern.MatchString(text)
	cleaned := liveMarkerPattern.ReplaceAllString(text, " ")
	cleaned = multiSpacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned), found
}
