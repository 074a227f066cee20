package tableread

import (
	"bytes"
	"slices"
	"strings"
)

// Candidates tried by SniffDelimiter, in tie-break order.
var candidates = []rune{',', '\t', ';', '|', '^'}

const sniffLines = 6

// SniffDelimiter picks the candidate that gives the sample's first lines
// the highest median field count, then the smallest spread. The pipe is
// skipped when the sample carries pipe-qualified CMS header names, since
// those pipes are part of the names.
func SniffDelimiter(sample []byte) rune {
	lines := headLines(sample, sniffLines)
	if len(lines) == 0 {
		return ','
	}
	pipeNames := false
	for _, l := range lines {
		low := strings.ToLower(l)
		if strings.Contains(low, "standard_charge|") || strings.Contains(low, "code|") {
			pipeNames = true
			break
		}
	}

	best, bestMedian, bestSpread := ',', -1, 0
	for _, d := range candidates {
		if d == '|' && pipeNames {
			continue
		}
		counts := make([]int, len(lines))
		for i, l := range lines {
			counts[i] = strings.Count(l, string(d)) + 1
		}
		slices.Sort(counts)
		median := counts[len(counts)/2]
		spread := counts[len(counts)-1] - counts[0]
		if median > bestMedian || (median == bestMedian && spread < bestSpread) {
			best, bestMedian, bestSpread = d, median, spread
		}
	}
	if bestMedian <= 1 {
		return ','
	}
	return best
}

// headLines returns up to n complete, non-empty lines. A trailing partial
// line is kept only when the sample holds no complete line.
func headLines(sample []byte, n int) []string {
	var out []string
	for len(sample) > 0 && len(out) < n {
		i := bytes.IndexByte(sample, '\n')
		if i < 0 {
			if len(out) == 0 {
				out = append(out, string(sample))
			}
			break
		}
		line := strings.TrimRight(string(sample[:i]), "\r")
		if line != "" {
			out = append(out, line)
		}
		sample = sample[i+1:]
	}
	return out
}
