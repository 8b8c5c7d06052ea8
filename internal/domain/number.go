package domain

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a finite number from a decoded JSON or YAML value.
// Numeric strings are accepted; NaN and infinities are not.
func ParseNumber(v any) (float64, bool) {
	var n float64
	switch t := v.(type) {
	case float64:
		n = t
	case int:
		n = float64(t)
	case int64:
		n = float64(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		n = f
	default:
		return 0, false
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}
