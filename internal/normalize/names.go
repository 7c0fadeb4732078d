package normalize

import (
	"regexp"
	"strings"
)

var (
	multiSpace = regexp.MustCompile(`\s+`)
	punct      = regexp.MustCompile(`[^\pL\pN ]+`)
)

// CanonicalName lowercases, strips punctuation, and collapses whitespace.
// This is the canonical key used for procedure and hospital matching.
func CanonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = punct.ReplaceAllString(s, " ")
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeName canonicalizes a nullable name.
// Returns nil if the input is nil or the result is empty.
func NormalizeName(v *string) *string {
	if v == nil {
		return nil
	}
	s := CanonicalName(*v)
	if s == "" {
		return nil
	}
	return &s
}

// Tokens splits a canonicalized name into its word tokens.
func Tokens(s string) []string {
	s = CanonicalName(s)
	if s == "" {
		return nil
	}
	return strings.Split(s, " ")
}
