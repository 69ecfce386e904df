// Package core contains the growth-plan generation pipeline: gap analysis,
// task synthesis, ownership and cannibalisation resolution, cadence
// scheduling, and heading scoring. The pipeline is synchronous and
// deterministic: given identical inputs and plan start date, every phase
// produces byte-identical output.
package core

import (
	"regexp"
	"strings"
)

// genericServiceTerms are service strings too vague to plan content around.
// A service matching this set is filtered before any phase uses it.
var genericServiceTerms = map[string]bool{
	"services":  true,
	"service":   true,
	"solutions": true,
	"solution":  true,
	"products":  true,
	"general":   true,
	"misc":      true,
	"other":     true,
}

// IsGenericService reports whether a service string is too generic to be
// planned against.
func IsGenericService(service string) bool {
	return genericServiceTerms[strings.ToLower(strings.TrimSpace(service))]
}

// ValidServices filters a service list down to non-empty, non-generic
// entries, preserving declaration order.
func ValidServices(services []string) []string {
	var out []string
	for _, s := range services {
		s = strings.TrimSpace(s)
		if s == "" || IsGenericService(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns arbitrary text into a URL slug: lowercase, alphanumeric runs
// joined by single hyphens.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = nonSlugChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// NormalizeSlug canonicalises a path for collision comparison: lowercase,
// leading/trailing slashes stripped.
func NormalizeSlug(path string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(path)), "/")
}

var tokenPattern = regexp.MustCompile(`[a-z0-9]+`)

// Tokens returns the set of lower-cased alphanumeric words of length > 2
// found in the text.
func Tokens(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if len(tok) > 2 {
			set[tok] = struct{}{}
		}
	}
	return set
}

// Jaccard computes intersection-over-union similarity between the token sets
// of two strings. Two empty inputs are identical (1.0); an empty input
// against a non-empty one is 0.0, even when the non-empty side carries no
// tokens long enough to survive tokenisation.
func Jaccard(a, b string) float64 {
	aEmpty := strings.TrimSpace(a) == ""
	bEmpty := strings.TrimSpace(b) == ""
	if aEmpty != bEmpty {
		return 0.0
	}
	if aEmpty && bEmpty {
		return 1.0
	}

	setA := Tokens(a)
	setB := Tokens(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 1.0
	}
	return float64(intersection) / float64(union)
}

// TitleCase capitalises the first letter of each word. Used for templated
// titles built from lowercase service names.
func TitleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if len(w) > 0 {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// ContainsAny reports whether the lower-cased text contains any of the given
// lower-case needles.
func ContainsAny(text string, needles ...string) bool {
	lower := strings.ToLower(text)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
