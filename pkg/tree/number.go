package tree

import (
	"math"
	"strconv"
	"strings"
)

// FormatNumber renders f the way JavaScript's String(number) does:
// plain decimal notation with the shortest round-trip digits for magnitudes
// in [1e-6, 1e21), exponent notation ("1e+21", "1.5e-7") outside it.
func FormatNumber(f float64) string {
	f = normalizeZero(f)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}

	abs := math.Abs(f)
	if abs == 0 || (abs >= 1e-6 && abs < 1e21) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mantissa, exp, _ := strings.Cut(s, "e")
	sign := exp[:1]
	digits := strings.TrimLeft(exp[1:], "0")
	return mantissa + "e" + sign + digits
}

// normalizeZero folds negative zero into zero.
func normalizeZero(f float64) float64 {
	if f == 0 {
		return 0
	}
	return f
}
