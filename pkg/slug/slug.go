// Copyright (c) 2026 Inkpress. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs and accent-insensitive search keys
// from arbitrary Unicode strings.
//
// # Usage
//
// Slugs are used as human-readable identifiers for posts, categories and tags
// (e.g., "ielts-tips"). Search keys are stored next to titles so that a plain
// case-insensitive substring match behaves as an accent-insensitive search.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// nonAlphanumeric matches any sequence of non-alphanumeric, non-hyphen characters.
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9-]+`)
	// multiHyphen collapses multiple consecutive hyphens into one.
	multiHyphen = regexp.MustCompile(`-{2,}`)
	// whitespace matches any run of Unicode whitespace.
	whitespace = regexp.MustCompile(`\s+`)

	// đ and Đ are standalone letters in Unicode and survive NFD untouched.
	stroke = strings.NewReplacer("đ", "d", "Đ", "D")
)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD and removes combining marks (é → e).
// 2. Converts to lowercase.
// 3. Replaces non-alphanumeric characters with hyphens.
// 4. Collapses multiple hyphens and trims leading/trailing hyphens.
//
// No uniqueness suffix is added: two equal titles produce the same slug.
func From(s string) string {
	// 1. Normalize and remove accents
	result := strings.ToLower(fold(s))

	// 2. Replace whitespace and special chars with hyphens
	result = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '-'
	}, result)

	// 3. Clean up hyphenation
	result = nonAlphanumeric.ReplaceAllString(result, "-")
	result = multiHyphen.ReplaceAllString(result, "-")
	result = strings.Trim(result, "-")

	return result
}

// Keyword produces the search key of a text: accents removed, lowercased,
// whitespace collapsed to single spaces and trimmed.
//
// The same function feeds the stored vietnameseTitle fields and the user's
// query, so Keyword("Hà Nội") == Keyword("ha  noi").
func Keyword(s string) string {
	result := strings.ToLower(fold(s))
	result = whitespace.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// Pattern returns a regular expression matching Keyword(s) literally.
// It is meant to be used with the case-insensitive option of the store.
func Pattern(s string) string {
	return regexp.QuoteMeta(Keyword(s))
}

// fold decomposes s and strips its non-spacing marks.
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, _ := transform.String(t, s)
	return stroke.Replace(result)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
