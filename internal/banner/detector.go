// Package banner finds publisher banner rows (hospital name, attestation,
// last-updated dates) sitting above the real header of a price table.
package banner

import (
	"fmt"
	"strings"

	"github.com/gyeh/pricemelt/internal/header"
	"github.com/gyeh/pricemelt/internal/table"
	"github.com/gyeh/pricemelt/internal/vocab"
)

// Strategy names accepted by New.
const (
	StrategyVocabulary = "vocabulary"
	StrategyScoring    = "scoring"
)

// maxBannerRows is how many rows a detector may strip.
const maxBannerRows = 2

// Detector decides whether a table starts with banner rows. It returns
// the table with its header as row 0, and the stripped rows as a Blob.
type Detector interface {
	Strategy() string
	Detect(t table.Table) (table.Table, Blob)
}

// New returns the detector for strategy; "" selects the vocabulary rule.
func New(strategy string, v *vocab.Vocabulary) (Detector, error) {
	switch strategy {
	case "", StrategyVocabulary:
		return &VocabularyDetector{vocab: v}, nil
	case StrategyScoring:
		return &ScoringDetector{vocab: v}, nil
	default:
		return nil, fmt.Errorf("unknown banner strategy %q", strategy)
	}
}

// VocabularyDetector treats row 0 as the header when any of its normalized
// names is a known pricing header name (standard_charge*, code, code|1,
// payer_name, ...). Otherwise up to two rows are stripped.
type VocabularyDetector struct {
	vocab *vocab.Vocabulary
}

// Strategy implements Detector.
func (d *VocabularyDetector) Strategy() string { return StrategyVocabulary }

// Detect implements Detector.
func (d *VocabularyDetector) Detect(t table.Table) (table.Table, Blob) {
	if len(t.Rows) == 0 {
		return t, Blob{}
	}
	for _, name := range t.Header() {
		if d.vocab.IsHeaderName(header.Normalize(name)) {
			return t, Blob{}
		}
	}
	return strip(t)
}

// ScoringDetector compares a token score of row 1 against row 3 and strips
// two rows when row 3 looks more like a pricing header.
type ScoringDetector struct {
	vocab *vocab.Vocabulary
}

// Strategy implements Detector.
func (d *ScoringDetector) Strategy() string { return StrategyScoring }

// Detect implements Detector.
func (d *ScoringDetector) Detect(t table.Table) (table.Table, Blob) {
	if len(t.Rows) == 0 {
		return t, Blob{}
	}
	first := d.vocab.Score(joinRow(t.Row(0)))
	third := d.vocab.Score(joinRow(t.Row(maxBannerRows)))
	if third > first {
		return strip(t)
	}
	return t, Blob{}
}

func joinRow(row []string) string {
	return header.Normalize(strings.Join(row, ","))
}

func strip(t table.Table) (table.Table, Blob) {
	n := maxBannerRows
	if len(t.Rows) < n {
		n = len(t.Rows)
	}
	var blob Blob
	for i := 0; i < n; i++ {
		if row := captureRow(t.Rows[i]); len(row) > 0 {
			blob.Rows = append(blob.Rows, row)
		}
	}
	return t.DropRows(n), blob
}
