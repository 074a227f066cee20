package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/parquetio"
)

// ErrOutputExists is returned when an output file is already present and
// overwriting was not requested.
var ErrOutputExists = errors.New("output file exists (use --overwrite)")

var (
	inputExt   = regexp.MustCompile(`(?i)(\.(csv|tsv|txt|xlsx|xlsm))?(\.gz)?$`)
	unsafeName = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// OutputPath names the long-format output for one table:
// <dir>/<name>.tall.csv, or <dir>/<name>.<sheet>.tall.parquet for a
// workbook sheet. An empty dir means the input's directory.
func OutputPath(dir, path, label, format string) string {
	if dir == "" {
		dir = filepath.Dir(path)
	}
	name := inputExt.ReplaceAllString(filepath.Base(path), "")
	if _, sheet, ok := strings.Cut(label, "::"); ok && sheet != "" {
		name += "." + strings.Trim(unsafeName.ReplaceAllString(sheet, "_"), "_")
	}
	ext := ".tall.csv"
	if format == config.FormatParquet {
		ext = ".tall.parquet"
	}
	return filepath.Join(dir, name+ext)
}

// writeOutput writes rows to dest through a temporary file renamed into
// place, so readers never see a partial file.
func writeOutput(dest, format string, overwrite bool, rows []model.LongRow) error {
	if !overwrite && fileExists(dest) {
		return fmt.Errorf("%s: %w", dest, ErrOutputExists)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmp := dest + ".partial"
	var err error
	if format == config.FormatParquet {
		err = writeParquet(tmp, rows)
	} else {
		err = writeCSV(tmp, rows)
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}

const writeBatchSize = 10000

func writeParquet(path string, rows []model.LongRow) error {
	w, err := parquetio.Create(path)
	if err != nil {
		return err
	}
	for lo := 0; lo < len(rows); lo += writeBatchSize {
		hi := min(lo+writeBatchSize, len(rows))
		if err := w.Write(rows[lo:hi]); err != nil {
			w.Close()
			return err
		}
	}
	return w.Close()
}

func writeCSV(path string, rows []model.LongRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(model.LongColumns()); err != nil {
		f.Close()
		return fmt.Errorf("write csv header: %w", err)
	}
	for i := range rows {
		if err := w.Write(rows[i].Record()); err != nil {
			f.Close()
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}
