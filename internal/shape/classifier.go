// Package shape classifies a parsed table as tall (one fact per row) or
// wide (facts spread across columns) and explains why.
package shape

import (
	"fmt"

	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/table"
)

// Verdict is a classification and a human-readable reason.
type Verdict struct {
	Shape  string
	Reason string
}

// Detector is one step of the cascade. Detect returns ok=false when it has
// no opinion about the table.
type Detector struct {
	Name   string
	Detect func(p *Profile, o Options) (Verdict, bool)
}

// Classifier runs detectors in order; the first verdict wins.
type Classifier struct {
	opts      Options
	detectors []Detector
}

// New returns a Classifier running the default cascade.
func New(opts Options) *Classifier {
	return &Classifier{opts: opts, detectors: DefaultDetectors()}
}

// NewWithDetectors returns a Classifier running a custom cascade.
func NewWithDetectors(opts Options, detectors ...Detector) *Classifier {
	return &Classifier{opts: opts, detectors: append([]Detector(nil), detectors...)}
}

// DefaultDetectors is the stock cascade: degenerate, wide by column
// pattern, wide by structure, tall by schema, fallback.
func DefaultDetectors() []Detector {
	return []Detector{
		{Name: "degenerate", Detect: detectDegenerate},
		{Name: "wide_pattern", Detect: detectWidePattern},
		{Name: "wide_structure", Detect: detectWideStructure},
		{Name: "tall_schema", Detect: detectTallSchema},
		{Name: "fallback", Detect: detectFallback},
	}
}

// Classify is deterministic: the same table always yields the same verdict.
func (c *Classifier) Classify(t table.Table) Verdict {
	return c.ClassifyProfile(NewProfile(t))
}

// ClassifyProfile classifies an already computed profile.
func (c *Classifier) ClassifyProfile(p *Profile) Verdict {
	for _, d := range c.detectors {
		if v, ok := d.Detect(p, c.opts); ok {
			return v
		}
	}
	return Verdict{Shape: model.ShapeUnknown, Reason: "no detector matched"}
}

func detectDegenerate(p *Profile, _ Options) (Verdict, bool) {
	if p.Rows == 0 || p.Cols == 0 {
		return Verdict{Shape: model.ShapeUnknown, Reason: "empty/degenerate data frame"}, true
	}
	return Verdict{}, false
}

func detectFallback(p *Profile, _ Options) (Verdict, bool) {
	if p.Rows > p.Cols {
		return Verdict{Shape: model.ShapeTall, Reason: fmt.Sprintf("fallback: rows>cols (%d>%d)", p.Rows, p.Cols)}, true
	}
	return Verdict{Shape: model.ShapeWide, Reason: fmt.Sprintf("fallback: cols>=rows (%d>=%d)", p.Cols, p.Rows)}, true
}
