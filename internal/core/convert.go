package core

// convert.go turns cell text into typed lead attributes.
//
// Spreadsheet exports are messy: budgets arrive as "$150,000" or "€ 90000",
// phone columns as ="+998901234567" to stop Excel from eating the plus sign.
// The helpers here accept those shapes and reject anything else.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex matches a plain decimal after currency and separator cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)$`)

var currencyStripper = strings.NewReplacer(
	"$", "",
	"€", "", // Euro
	"£", "", // Pound
	",", "",
	" ", "",
)

// parseAmount parses a non-negative money amount. Currency symbols and
// thousands separators are ignored.
func parseAmount(s string) (float64, bool) {
	s = currencyStripper.Replace(strings.TrimSpace(s))
	s = strings.TrimSuffix(strings.TrimSuffix(strings.ToLower(s), "usd"), "uzs")
	if !numericRegex.MatchString(s) {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// parseCount parses a whole number in [0, MaxInt32], the range of the
// INTEGER column. "3.0" is accepted because spreadsheets like to write
// integers that way.
func parseCount(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > math.MaxInt32 {
			return 0, false
		}
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatCount(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// cleanCell trims whitespace and unwraps the Excel text-formula form ="...".
func cleanCell(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 3 && strings.HasPrefix(s, `="`) && strings.HasSuffix(s, `"`) {
		s = strings.TrimSpace(s[2 : len(s)-1])
	}
	return s
}
