package shape

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gyeh/pricemelt/internal/model"
)

var periodSuffix = regexp.MustCompile(`(?i)^(?P<base>.+?)[_\-]?(?P<suf>\d{2,4}|Q[1-4]|Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec|0?[1-9]|[12][0-9]|3[01])$`)

var (
	valueNames    = map[string]bool{"value": true, "amount": true, "val": true, "measurement": true, "score": true, "reading": true}
	variableNames = map[string]bool{"variable": true, "metric": true, "measure": true, "attribute": true, "feature": true, "name": true, "type": true, "category": true}
)

// SuffixGroup is the largest set of columns sharing a base name with
// period/index suffixes.
type SuffixGroup struct {
	Base    string
	Members []string
}

// LargestSuffixGroup groups column names by base after stripping a year,
// quarter, month or day suffix. Ties go to the base seen first.
func LargestSuffixGroup(names []string) SuffixGroup {
	baseIdx := periodSuffix.SubexpIndex("base")
	var order []string
	groups := make(map[string][]string)
	for _, n := range names {
		m := periodSuffix.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		base := strings.TrimSpace(m[baseIdx])
		if _, ok := groups[base]; !ok {
			order = append(order, base)
		}
		groups[base] = append(groups[base], n)
	}
	var best SuffixGroup
	for _, base := range order {
		if len(groups[base]) > len(best.Members) {
			best = SuffixGroup{Base: base, Members: groups[base]}
		}
	}
	return best
}

func detectWidePattern(p *Profile, o Options) (Verdict, bool) {
	g := LargestSuffixGroup(p.Names)
	if len(g.Members) == 0 || len(g.Members) < o.MinWideGroup {
		return Verdict{}, false
	}
	return Verdict{
		Shape:  model.ShapeWide,
		Reason: fmt.Sprintf("wide: %d columns share base '%s' with time/index suffixes", len(g.Members), g.Base),
	}, true
}

func detectWideStructure(p *Profile, o Options) (Verdict, bool) {
	numeric := p.NumericCount()
	ratio := float64(numeric) / float64(max(p.Cols, 1))

	var reasons []string
	if ratio >= o.NumericRatio && p.Cols >= o.NumericMinCols {
		reasons = append(reasons, fmt.Sprintf("many numeric columns (%d/%d ~ %.0f%%)", numeric, p.Cols, ratio*100))
	}
	if p.Cols >= o.WideMinCols && p.Rows > 0 && float64(p.Cols)/float64(p.Rows) >= o.WideColRowRatio {
		reasons = append(reasons, fmt.Sprintf("more columns relative to rows (cols/rows=%d/%d)", p.Cols, p.Rows))
	}
	if len(reasons) == 0 {
		return Verdict{}, false
	}
	return Verdict{Shape: model.ShapeWide, Reason: "wide: " + strings.Join(reasons, "; ")}, true
}

func detectTallSchema(p *Profile, o Options) (Verdict, bool) {
	var reasons []string
	votes := 0

	for _, n := range p.Names {
		if valueNames[strings.ToLower(n)] {
			votes++
			reasons = append(reasons, "found 'value-like' column name")
			break
		}
	}
	for _, n := range p.Names {
		if variableNames[strings.ToLower(n)] {
			votes++
			reasons = append(reasons, "found 'variable/metric' column name")
			break
		}
	}
	if p.NumericCount() <= o.MaxTallNumeric {
		votes++
		reasons = append(reasons, "one/few numeric measure columns")
	}
	if id, ok := repeatedID(p, o); ok {
		votes++
		reasons = append(reasons, fmt.Sprintf("repeated IDs: avg ≥ %g rows per '%s'", o.RepeatedIDAvg, id))
	}
	if p.Rows > p.Cols*o.RowsPerCol && p.Rows >= o.MinTallRows {
		votes++
		reasons = append(reasons, fmt.Sprintf("rows ≫ cols (%d ≫ %d)", p.Rows, p.Cols))
	}

	if votes < o.TallVotes {
		return Verdict{}, false
	}
	return Verdict{Shape: model.ShapeTall, Reason: "tall: " + strings.Join(reasons, "; ")}, true
}

// repeatedID finds the first high-cardinality text column whose values
// repeat on average at least RepeatedIDAvg times.
func repeatedID(p *Profile, o Options) (string, bool) {
	if p.Rows == 0 {
		return "", false
	}
	for c := range p.Names {
		if p.Numeric[c] {
			continue
		}
		if float64(p.Distinct[c]) < o.IDUniqueness*float64(p.Rows) {
			continue
		}
		if p.Groups[c] == 0 {
			continue
		}
		if float64(p.Rows)/float64(p.Groups[c]) >= o.RepeatedIDAvg {
			return p.Names[c], true
		}
	}
	return "", false
}
