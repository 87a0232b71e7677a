package ats

import (
	"sort"
	"strings"
	"unicode"
)

// TokenSet is a set of normalized words.
type TokenSet map[string]struct{}

// stopWords are dropped from free-text keywords.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "of": {}, "in": {}, "on": {}, "to": {}, "at": {}, "by": {},
	"for": {}, "with": {}, "this": {}, "that": {}, "from": {}, "will": {}, "are": {}, "is": {}, "be": {},
	"have": {}, "has": {}, "been": {}, "were": {}, "was": {}, "can": {}, "our": {}, "you": {}, "your": {},
	"about": {}, "into": {}, "through": {}, "during": {}, "before": {}, "after": {}, "above": {}, "below": {},
	"between": {}, "under": {}, "again": {}, "further": {}, "then": {}, "once": {}, "as": {}, "it": {}, "its": {},
}

// Tokenize lower-cases the texts, strips punctuation and returns the set of remaining words.
// '+' and '#' are kept inside words so "C++" and "C#" stay distinct from "C".
func Tokenize(texts ...string) TokenSet {
	set := make(TokenSet)
	for _, text := range texts {
		for _, token := range tokens(text, false) {
			set[token] = struct{}{}
		}
	}
	return set
}

// Words is Tokenize without stop-word removal.
func Words(texts ...string) TokenSet {
	set := make(TokenSet)
	for _, text := range texts {
		for _, token := range tokens(text, true) {
			set[token] = struct{}{}
		}
	}
	return set
}

// Phrase normalizes a single skill or requirement into its ordered tokens.
// A phrase made only of stop words, such as "IT", keeps them.
func Phrase(text string) []string {
	if result := tokens(text, false); len(result) > 0 {
		return result
	}
	return tokens(text, true)
}

func tokens(text string, keepStopWords bool) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), isSeparator)
	result := make([]string, 0, len(fields))
	for _, field := range fields {
		token := cleanToken(field)
		if token == "" {
			continue
		}
		if _, stop := stopWords[token]; stop && !keepStopWords {
			continue
		}
		result = append(result, token)
	}
	return result
}

func isSeparator(r rune) bool {
	if unicode.IsLetter(r) || unicode.IsDigit(r) || isApostrophe(r) {
		return false
	}
	return r != '+' && r != '#'
}

func isApostrophe(r rune) bool {
	return r == '\'' || r == '’'
}

func cleanToken(field string) string {
	field = strings.TrimSuffix(field, "'s")
	field = strings.TrimSuffix(field, "’s")
	field = strings.Map(func(r rune) rune {
		if isApostrophe(r) {
			return -1
		}
		return r
	}, field)
	return strings.TrimLeft(field, "+#")
}

// Len returns the number of tokens.
func (s TokenSet) Len() int {
	return len(s)
}

// Has reports whether token is in the set.
func (s TokenSet) Has(token string) bool {
	_, ok := s[token]
	return ok
}

// HasAll reports whether every token is in the set. An empty list is never contained.
func (s TokenSet) HasAll(tokens []string) bool {
	if len(tokens) == 0 {
		return false
	}
	for _, token := range tokens {
		if !s.Has(token) {
			return false
		}
	}
	return true
}

// Union returns a new set with the tokens of both sets.
func (s TokenSet) Union(other TokenSet) TokenSet {
	result := make(TokenSet, len(s)+len(other))
	for token := range s {
		result[token] = struct{}{}
	}
	for token := range other {
		result[token] = struct{}{}
	}
	return result
}

// IntersectionLen counts tokens present in both sets.
func (s TokenSet) IntersectionLen(other TokenSet) int {
	small, large := s, other
	if len(small) > len(large) {
		small, large = large, small
	}
	count := 0
	for token := range small {
		if large.Has(token) {
			count++
		}
	}
	return count
}

// Sorted returns the tokens in lexical order.
func (s TokenSet) Sorted() []string {
	result := make([]string, 0, len(s))
	for token := range s {
		result = append(result, token)
	}
	sort.Strings(result)
	return result
}
