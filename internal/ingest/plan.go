package ingest

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"github.com/gyeh/pricemelt/internal/normalize"
	"github.com/gyeh/pricemelt/internal/semantics"
	"github.com/gyeh/pricemelt/internal/tableread"
)

// ColumnPlan is one resolved header column.
type ColumnPlan struct {
	Index    int
	Original string
	Name     string
	Role     string
}

// TablePlan is the dry-run view of one table.
type TablePlan struct {
	Label          string
	BannerRows     int
	Banner         string
	Hospital       string
	LicenseNumber  string
	LastUpdatedOn  string
	Classification string
	Reason         string
	Variant        string
	Groups         []semantics.Group
	Columns        []ColumnPlan
	DataRows       int
	PriceColumns   int
	Candidates     int64
	RowsEmitted    int64
	DropReasons    map[string]int64
	MeltReason     string
}

// PlanReport is the dry-run result for one file. Nothing is written.
type PlanReport struct {
	FilePath string
	SHA256   string
	Size     int64
	Tables   []TablePlan
}

// Plan inspects and melts every table in path in memory and reports what
// a load would produce.
func Plan(ctx context.Context, p *Processor, path string) (*PlanReport, error) {
	sha, err := normalize.FileHash(path)
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, File: path, Err: err}
	}
	stat, err := os.Stat(path)
	if err != nil {
		return nil, &PipelineError{Phase: PhasePreflight, File: path, Err: err}
	}
	tables, err := tableread.ReadFile(path, tableread.Options{})
	if err != nil {
		return nil, &PipelineError{Phase: PhaseRead, File: path, Err: err}
	}

	rep := &PlanReport{FilePath: path, SHA256: sha, Size: stat.Size()}
	for _, t := range tables {
		in := p.Inspect(path, t)
		res, err := p.Melt(ctx, path, in)
		if err != nil {
			return nil, &PipelineError{Phase: PhaseNormalize, File: t.Label, Err: err}
		}
		tp := TablePlan{
			Label:          DisplayName(t.Label),
			BannerRows:     in.BannerRows,
			Hospital:       in.Hospital,
			LicenseNumber:  in.Meta.LicenseNumber,
			LastUpdatedOn:  in.Meta.LastUpdatedOn,
			Classification: in.Verdict.Shape,
			Reason:         in.Verdict.Reason,
			Variant:        in.HeaderMap.Variant().String(),
			Groups:         in.HeaderMap.Groups(),
			DataRows:       res.Stats.DataRows,
			PriceColumns:   res.Stats.PriceColumns,
			Candidates:     res.Stats.Candidates,
			RowsEmitted:    int64(len(res.Rows)),
			DropReasons:    res.Stats.DropReasons,
			MeltReason:     res.Reason,
		}
		if !in.Blob.Empty() {
			tp.Banner = in.Blob.JSON()
		}
		for _, c := range in.HeaderMap.Columns {
			tp.Columns = append(tp.Columns, ColumnPlan{
				Index:    c.Index,
				Original: c.Original,
				Name:     c.Name,
				Role:     c.Role.String(),
			})
		}
		rep.Tables = append(rep.Tables, tp)
	}
	return rep, nil
}

// Render prints the report in a fixed human-readable layout.
func (r *PlanReport) Render(w io.Writer) {
	fmt.Fprintln(w, "=== mrfmelt plan ===")
	fmt.Fprintf(w, "File:       %s\n", r.FilePath)
	fmt.Fprintf(w, "SHA-256:    %s\n", r.SHA256)
	fmt.Fprintf(w, "Size:       %d bytes\n", r.Size)
	fmt.Fprintf(w, "Tables:     %d\n", len(r.Tables))

	for _, t := range r.Tables {
		fmt.Fprintf(w, "\n--- %s ---\n", t.Label)
		fmt.Fprintf(w, "Hospital:       %s\n", t.Hospital)
		if t.LicenseNumber != "" {
			fmt.Fprintf(w, "License:        %s\n", t.LicenseNumber)
		}
		if t.LastUpdatedOn != "" {
			fmt.Fprintf(w, "Last updated:   %s\n", t.LastUpdatedOn)
		}
		fmt.Fprintf(w, "Banner rows:    %d\n", t.BannerRows)
		if t.Banner != "" {
			fmt.Fprintf(w, "Banner:         %s\n", t.Banner)
		}
		fmt.Fprintf(w, "Classification: %s (%s)\n", t.Classification, t.Reason)
		fmt.Fprintf(w, "Variant:        %s\n", t.Variant)
		if len(t.Groups) > 0 {
			names := make([]string, len(t.Groups))
			for i, g := range t.Groups {
				names[i] = g.Payer + "/" + g.Plan
			}
			fmt.Fprintf(w, "Groups:         %s\n", strings.Join(names, ", "))
		}

		fmt.Fprintln(w, "\nHeader map:")
		for _, c := range t.Columns {
			fmt.Fprintf(w, "  %3d  %-40s %-40s %s\n", c.Index, c.Original, c.Name, c.Role)
		}

		fmt.Fprintf(w, "\nData rows:      %d\n", t.DataRows)
		fmt.Fprintf(w, "Price columns:  %d\n", t.PriceColumns)
		fmt.Fprintf(w, "Candidates:     %d\n", t.Candidates)
		fmt.Fprintf(w, "Long rows:      %d\n", t.RowsEmitted)
		for _, reason := range slices.Sorted(maps.Keys(t.DropReasons)) {
			fmt.Fprintf(w, "  dropped %-20s %d\n", reason, t.DropReasons[reason])
		}
		if t.MeltReason != "" {
			fmt.Fprintf(w, "Note:           %s\n", t.MeltReason)
		}
	}
}
