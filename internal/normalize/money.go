package normalize

import (
	"math"
	"strconv"
	"strings"

	"github.com/gyeh/pricemelt/internal/vocab"
)

var amountStrip = strings.NewReplacer(
	"$", "",
	",", "",
	"\u20ac", "",
	"\u00a3", "",
	" ", "",
	"\u00a0", "",
)

// CleanAmount parses a price cell. Currency symbols and thousands
// separators are stripped; a trailing percent sign is stripped only when
// percent is set. Null sentinels, unparseable text and placeholder values
// such as 999999999 yield ok=false.
func CleanAmount(v *vocab.Vocabulary, raw string, percent bool) (float64, bool) {
	if v.IsNull(raw) {
		return 0, false
	}
	s := amountStrip.Replace(strings.TrimSpace(raw))
	if percent {
		s = strings.TrimSuffix(s, "%")
	}
	if s == "" || v.IsNull(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if v.IsAbsurd(f) {
		return 0, false
	}
	return f, true
}

// ParseNumber reports whether a cell is numeric after trimming, without
// currency handling. Used for column type inference.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
