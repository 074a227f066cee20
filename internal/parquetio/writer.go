// Package parquetio writes and reads long-format price rows as Parquet.
package parquetio

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"

	"github.com/gyeh/pricemelt/internal/model"
)

// Writer writes LongRow records to a Parquet file.
//
// Zstd keeps files small with good decode speed; 64MB row groups give
// typical hospital files a handful of groups for min/max skipping, and
// page statistics let engines filter inside a group.
type Writer struct {
	file   *os.File
	writer *parquet.GenericWriter[model.LongRow]
	count  int
}

// Create opens path for writing, truncating any existing file.
func Create(path string) (*Writer, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create parquet file: %w", err)
	}

	writer := parquet.NewGenericWriter[model.LongRow](file,
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedDefault}),
		parquet.PageBufferSize(8*1024),
		parquet.WriteBufferSize(64*1024*1024),
		parquet.DataPageStatistics(true),
		parquet.CreatedBy("pricemelt", "1.0", ""),
	)
	return &Writer{file: file, writer: writer}, nil
}

// Write appends a batch of rows.
func (w *Writer) Write(rows []model.LongRow) error {
	n, err := w.writer.Write(rows)
	w.count += n
	if err != nil {
		return fmt.Errorf("write parquet rows: %w", err)
	}
	return nil
}

// Close flushes the final row group and closes the file.
func (w *Writer) Close() error {
	if err := w.writer.Close(); err != nil {
		w.file.Close()
		return fmt.Errorf("close parquet writer: %w", err)
	}
	return w.file.Close()
}

// Count returns the number of rows written.
func (w *Writer) Count() int {
	return w.count
}
