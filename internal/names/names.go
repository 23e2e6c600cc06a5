// Package names holds the deterministic name and date helpers used before any Oracle call.
package names

import (
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// VariationProvider looks up informal and canonical forms of a single lower-case given name.
type VariationProvider interface {
	NicknamesOf(name string) []string
	CanonicalsOf(name string) []string
}

var (
	yearExpr    = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	dateLayouts = []string{"2006-01-02", "2 Jan 2006", "2006"}
)

// Normalise collapses whitespace runs, trims and title-cases name.
func Normalise(name string) string {
	return titleCase(strings.Join(strings.Fields(name), " "))
}

// titleCase upper-cases a letter that does not follow another letter and lower-cases the rest,
// so "o'neil-SMITH" becomes "O'Neil-Smith".
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToTitle(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}

	return b.String()
}

// Variations returns the sorted, deduplicated union of nicknames and canonical names
// for every part of name.
func Variations(name string, provider VariationProvider) []string {
	if provider == nil {
		return nil
	}

	seen := map[string]struct{}{}
	for _, part := range strings.Fields(strings.ToLower(name)) {
		for _, v := range provider.NicknamesOf(part) {
			seen[v] = struct{}{}
		}
		for _, v := range provider.CanonicalsOf(part) {
			seen[v] = struct{}{}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	slices.Sort(out)
	return out
}

// ExtractYear pulls a year out of a free-form date string.
func ExtractYear(value string) (int, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, false
	}

	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Year(), true
		}
	}

	match := yearExpr.FindString(value)
	if match == "" {
		return 0, false
	}

	year, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return year, true
}
