package csv

import (
	"strings"
	"unicode"
)

// NormalizeHeader returns the canonical key for a header cell.
//
// The cell is trimmed and lower-cased, and every whitespace, underscore and
// hyphen is removed, so "First Name", "first_name" and "firstname " all
// become "firstname".
func NormalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// JoinList renders a list-valued field as a single cell, elements separated
// by ", ". Blank elements are dropped.
func JoinList(items []string) string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return strings.Join(out, ", ")
}

// SplitList is the inverse of JoinList: it splits on commas and trims each
// element. Returns nil for a blank cell.
func SplitList(cell string) []string {
	if strings.TrimSpace(cell) == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
