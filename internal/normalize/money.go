package normalize

import (
	"strconv"
	"strings"
)

// ParseAmount parses a currency amount captured from bill text.
// Thousands separators are stripped; the result is rupees as float64.
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
