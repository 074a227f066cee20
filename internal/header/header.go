// Package header normalizes raw column names so that vendor spelling
// differences collapse to one comparable form.
package header

import (
	"regexp"
	"strconv"
	"strings"
)

// Separator joins a duplicate column name and its occurrence counter.
const Separator = "#"

var (
	spaceRun  = regexp.MustCompile(`[\s\p{Zs}]+`)
	pipeSpace = regexp.MustCompile(` ?\| ?`)
)

// Normalize trims, lowercases, maps hyphens to underscores, collapses
// whitespace runs to one space and drops spaces around pipes.
// Normalize(Normalize(x)) == Normalize(x).
func Normalize(name string) string {
	s := strings.TrimSpace(name)
	if s == "" {
		return ""
	}
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "_")
	s = spaceRun.ReplaceAllString(s, " ")
	s = pipeSpace.ReplaceAllString(s, "|")
	return s
}

// NormalizeAll applies Normalize to every name.
func NormalizeAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = Normalize(n)
	}
	return out
}

// MakeUnique keeps the first occurrence of each name and suffixes later
// duplicates with #1, #2, ... A counter whose result collides with another
// name in the input (or one already generated) is skipped.
func MakeUnique(names []string) []string {
	used := make(map[string]struct{}, len(names))
	for _, n := range names {
		used[n] = struct{}{}
	}

	counters := make(map[string]int, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		k, dup := counters[n]
		if !dup {
			counters[n] = 0
			out[i] = n
			continue
		}
		for {
			k++
			cand := n + Separator + strconv.Itoa(k)
			if _, taken := used[cand]; taken {
				continue
			}
			used[cand] = struct{}{}
			counters[n] = k
			out[i] = cand
			break
		}
	}
	return out
}
