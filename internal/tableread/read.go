// Package tableread loads delimited text files and workbooks into
// in-memory tables of string cells.
package tableread

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/klauspost/compress/gzip"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/gyeh/pricemelt/internal/table"
)

const (
	bufSize    = 256 * 1024
	sniffBytes = 64 * 1024
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrUnsupported is returned for file extensions ReadFile cannot parse.
var ErrUnsupported = errors.New("unsupported file type")

// Options controls how files are parsed.
type Options struct {
	// MaxRecords caps the records read per table, header and banner rows
	// included. 0 reads everything.
	MaxRecords int
	// Delimiter overrides sniffing for delimited text.
	Delimiter rune
}

// IsSupported reports whether ReadFile understands path's extension.
func IsSupported(path string) bool {
	switch kind(path) {
	case kindText, kindWorkbook:
		return true
	}
	return false
}

type fileKind int

const (
	kindUnknown fileKind = iota
	kindText
	kindWorkbook
)

func kind(path string) fileKind {
	name := strings.ToLower(filepath.Base(path))
	name = strings.TrimSuffix(name, ".gz")
	switch filepath.Ext(name) {
	case ".csv", ".tsv", ".txt":
		return kindText
	case ".xlsx", ".xlsm":
		if strings.HasSuffix(strings.ToLower(path), ".gz") {
			return kindUnknown
		}
		return kindWorkbook
	}
	return kindUnknown
}

// ReadFile parses path into one table per sheet. Delimited text files
// (optionally gzip-compressed) yield a single table labeled with path;
// workbook sheets are labeled "path::sheet".
func ReadFile(path string, opts Options) ([]table.Table, error) {
	switch kind(path) {
	case kindText:
		t, err := readTextFile(path, opts)
		if err != nil {
			return nil, err
		}
		return []table.Table{t}, nil
	case kindWorkbook:
		return readWorkbook(path, opts)
	}
	return nil, fmt.Errorf("%s: %w", path, ErrUnsupported)
}

func readTextFile(path string, opts Options) (table.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return table.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return table.Table{}, fmt.Errorf("gzip %s: %w", path, err)
		}
		defer gz.Close()
		r = gz
	}
	if opts.Delimiter == 0 && strings.HasSuffix(strings.ToLower(strings.TrimSuffix(path, ".gz")), ".tsv") {
		opts.Delimiter = '\t'
	}

	t, err := ReadDelimited(r, path, opts)
	if err != nil {
		return table.Table{}, fmt.Errorf("read %s: %w", path, err)
	}
	return t, nil
}

// ReadDelimited parses delimited text. A UTF-8 byte-order mark is
// dropped, input that is not valid UTF-8 is decoded as Windows-1252, and
// the delimiter is sniffed unless opts.Delimiter is set.
func ReadDelimited(r io.Reader, label string, opts Options) (table.Table, error) {
	br := bufio.NewReaderSize(r, bufSize)
	if bom, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(bom, utf8BOM) {
		br.Discard(len(utf8BOM))
	}

	sample, err := br.Peek(sniffBytes)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return table.Table{}, err
	}

	var src io.Reader = br
	if !validUTF8Prefix(sample) {
		src = transform.NewReader(br, charmap.Windows1252.NewDecoder())
		sample, _ = charmap.Windows1252.NewDecoder().Bytes(sample)
	}

	delim := opts.Delimiter
	if delim == 0 {
		delim = SniffDelimiter(sample)
	}

	cr := csv.NewReader(src)
	cr.Comma = delim
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	var rows [][]string
	for opts.MaxRecords <= 0 || len(rows) < opts.MaxRecords {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table.Table{}, err
		}
		rows = append(rows, rec)
	}
	return table.New(label, rows), nil
}

// validUTF8Prefix is utf8.Valid tolerant of a rune cut at the end of a
// sample window.
func validUTF8Prefix(b []byte) bool {
	if utf8.Valid(b) {
		return true
	}
	for cut := 1; cut < utf8.UTFMax && cut <= len(b); cut++ {
		if utf8.Valid(b[:len(b)-cut]) {
			return true
		}
	}
	return false
}

func readWorkbook(path string, opts Options) ([]table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	var out []table.Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %s of %s: %w", sheet, path, err)
		}
		if opts.MaxRecords > 0 && len(rows) > opts.MaxRecords {
			rows = rows[:opts.MaxRecords]
		}
		// empty sheets are kept so they are reported as unknown
		out = append(out, table.New(path+"::"+sheet, rows))
	}
	return out, nil
}
