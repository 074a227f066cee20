package model

import "time"

// Shape classifications reported by the classifier.
const (
	ShapeTall    = "tall"
	ShapeWide    = "wide"
	ShapeUnknown = "unknown"
)

// FileSummary is one line of the classifier report.
type FileSummary struct {
	File           string
	Rows           int
	Cols           int
	Classification string
	Reason         string
}

// RunSummary captures metrics from normalizing (and optionally loading) a
// single source table.
type RunSummary struct {
	FilePath       string
	Table          string
	FileSHA256     string
	SourceFileID   int64
	BatchID        string
	Classification string
	Variant        string
	HospitalName   string
	BannerRows     int
	RowsRead       int64
	RowsEmitted    int64
	RowsDropped    int64
	DropReasons    map[string]int64
	UncleanValues  int64
	RowsLoaded     int64
	OutputPath     string
	Skipped        bool
	Reason         string

	DurationRead      time.Duration
	DurationNormalize time.Duration
	DurationWrite     time.Duration
	DurationTotal     time.Duration
}
