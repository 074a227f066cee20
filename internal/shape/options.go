package shape

// Options holds every threshold the classifier uses.
type Options struct {
	MinWideGroup    int     `yaml:"min_wide_group"`
	NumericRatio    float64 `yaml:"numeric_ratio"`
	NumericMinCols  int     `yaml:"numeric_min_cols"`
	WideMinCols     int     `yaml:"wide_min_cols"`
	WideColRowRatio float64 `yaml:"wide_col_row_ratio"`
	MaxTallNumeric  int     `yaml:"max_tall_numeric"`
	IDUniqueness    float64 `yaml:"id_uniqueness"`
	RepeatedIDAvg   float64 `yaml:"repeated_id_avg"`
	RowsPerCol      int     `yaml:"rows_per_col"`
	MinTallRows     int     `yaml:"min_tall_rows"`
	TallVotes       int     `yaml:"tall_votes"`
}

// DefaultOptions returns the stock thresholds.
func DefaultOptions() Options {
	return Options{
		MinWideGroup:    3,
		NumericRatio:    0.6,
		NumericMinCols:  8,
		WideMinCols:     20,
		WideColRowRatio: 0.5,
		MaxTallNumeric:  2,
		IDUniqueness:    0.5,
		RepeatedIDAvg:   2.0,
		RowsPerCol:      5,
		MinTallRows:     100,
		TallVotes:       2,
	}
}

// Merge returns o with every non-zero field of override applied.
func (o Options) Merge(override Options) Options {
	if override.MinWideGroup != 0 {
		o.MinWideGroup = override.MinWideGroup
	}
	if override.NumericRatio != 0 {
		o.NumericRatio = override.NumericRatio
	}
	if override.NumericMinCols != 0 {
		o.NumericMinCols = override.NumericMinCols
	}
	if override.WideMinCols != 0 {
		o.WideMinCols = override.WideMinCols
	}
	if override.WideColRowRatio != 0 {
		o.WideColRowRatio = override.WideColRowRatio
	}
	if override.MaxTallNumeric != 0 {
		o.MaxTallNumeric = override.MaxTallNumeric
	}
	if override.IDUniqueness != 0 {
		o.IDUniqueness = override.IDUniqueness
	}
	if override.RepeatedIDAvg != 0 {
		o.RepeatedIDAvg = override.RepeatedIDAvg
	}
	if override.RowsPerCol != 0 {
		o.RowsPerCol = override.RowsPerCol
	}
	if override.MinTallRows != 0 {
		o.MinTallRows = override.MinTallRows
	}
	if override.TallVotes != 0 {
		o.TallVotes = override.TallVotes
	}
	return o
}
