package normalize

import (
	"regexp"
	"strings"
)

var invisible = regexp.MustCompile(`[\x{00a0}\x{200b}\x{feff}]`)

// CleanCode trims a billing code cell and removes non-breaking and
// zero-width characters. Punctuation is kept (NDC codes carry hyphens).
func CleanCode(s string) string {
	s = strings.ToValidUTF8(s, "")
	s = invisible.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
