// Package report writes classifier summaries as CSV.
package report

import (
	"cmp"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"

	"github.com/gyeh/pricemelt/internal/model"
)

// Header is the column layout of a summary report.
var Header = []string{"file", "rows", "cols", "classification", "reason"}

// Sort orders summaries by classification, then file.
func Sort(s []model.FileSummary) {
	slices.SortStableFunc(s, func(a, b model.FileSummary) int {
		return cmp.Or(
			cmp.Compare(a.Classification, b.Classification),
			cmp.Compare(a.File, b.File),
		)
	})
}

// Write sorts s and writes it as CSV with a header row.
func Write(w io.Writer, s []model.FileSummary) error {
	Sort(s)
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, fs := range s {
		rec := []string{
			fs.File,
			strconv.Itoa(fs.Rows),
			strconv.Itoa(fs.Cols),
			fs.Classification,
			fs.Reason,
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the report to path.
func WriteFile(path string, s []model.FileSummary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := Write(f, s); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

// Tally counts summaries per classification.
func Tally(s []model.FileSummary) map[string]int {
	out := make(map[string]int)
	for _, fs := range s {
		out[fs.Classification]++
	}
	return out
}
