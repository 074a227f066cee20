package tableread

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/pricemelt/internal/table"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", p, err)
	}
	return p
}

func TestSniffDelimiter(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   rune
	}{
		{"comma", "a,b,c\n1,2,3\n", ','},
		{"tab", "a\tb\tc\n1\t2\t3\n", '\t'},
		{"semicolon", "a;b;c\n1;2,5;3\n", ';'},
		{"caret", "a^b^c\n1^2^3\n", '^'},
		{"pipe", "a|b|c\n1|2|3\n", '|'},
		{"pipe names stay comma", "code|1,code|1|type,standard_charge|gross\n1,CPT,10\n", ','},
		{"single column", "a\nb\n", ','},
		{"empty", "", ','},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, string(tt.want), string(SniffDelimiter([]byte(tt.sample))))
		})
	}
}

func TestReadDelimited_BOM(t *testing.T) {
	data := append([]byte{0xEF, 0xBB, 0xBF}, []byte("description,code\nx,1\n")...)
	tb, err := ReadDelimited(bytes.NewReader(data), "bom.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"description", "code"}, tb.Header())
	assert.Equal(t, "bom.csv", tb.Label)
}

func TestReadDelimited_Windows1252(t *testing.T) {
	// 0xE9 is é in Windows-1252 and invalid as UTF-8
	data := []byte("description,code\nCaf\xe9 visit,1\n")
	tb, err := ReadDelimited(bytes.NewReader(data), "w.csv", Options{})
	require.NoError(t, err)
	assert.Equal(t, "Café visit", table.Cell(tb.Row(1), 0))
}

func TestReadDelimited_RaggedAndQuoted(t *testing.T) {
	data := "a,b,c\n\"x, y\",2\n1,2,3,4\n"
	tb, err := ReadDelimited(strings.NewReader(data), "r.csv", Options{})
	require.NoError(t, err)
	require.Equal(t, 2, tb.NumRows())
	assert.Equal(t, "x, y", table.Cell(tb.Row(1), 0))
	assert.Equal(t, "", table.Cell(tb.Row(1), 2))
	assert.Equal(t, "4", table.Cell(tb.Row(2), 3))
}

func TestReadDelimited_MaxRecords(t *testing.T) {
	data := "a,b\n1,2\n3,4\n5,6\n"
	tb, err := ReadDelimited(strings.NewReader(data), "m.csv", Options{MaxRecords: 2})
	require.NoError(t, err)
	assert.Len(t, tb.Rows, 2)
}

func TestReadFile_Gzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte("a;b\n1;2\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	p := writeFile(t, "prices.csv.gz", buf.Bytes())
	tables, err := ReadFile(p, Options{})
	require.NoError(t, err)
	require.Len(t, tables, 1)
	assert.Equal(t, []string{"a", "b"}, tables[0].Header())
	assert.Equal(t, p, tables[0].Label)
}

func TestReadFile_TSV(t *testing.T) {
	p := writeFile(t, "prices.tsv", []byte("a,x\tb\n1\t2\n"))
	tables, err := ReadFile(p, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a,x", "b"}, tables[0].Header())
}

func TestReadFile_Workbook(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"code", "standard_charge|gross"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"99213", "100"}))
	_, err := f.NewSheet("Empty")
	require.NoError(t, err)
	_, err = f.NewSheet("Drugs")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("Drugs", "A1", &[]any{"ndc", "price"}))

	p := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(p))
	require.NoError(t, f.Close())

	tables, err := ReadFile(p, Options{})
	require.NoError(t, err)
	require.Len(t, tables, 3)
	assert.Equal(t, p+"::Sheet1", tables[0].Label)
	assert.Equal(t, "99213", table.Cell(tables[0].Row(1), 0))
	assert.Equal(t, p+"::Empty", tables[1].Label)
	assert.Zero(t, tables[1].NumCols())
	assert.Equal(t, p+"::Drugs", tables[2].Label)
}

func TestReadFile_Unsupported(t *testing.T) {
	p := writeFile(t, "prices.json", []byte("{}"))
	_, err := ReadFile(p, Options{})
	assert.ErrorIs(t, err, ErrUnsupported)
	assert.False(t, IsSupported("x.xlsx.gz"))
	assert.True(t, IsSupported("X.CSV.GZ"))
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0o755))
	for _, p := range []string{
		filepath.Join(dir, "b.csv"),
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "notes.md"),
		filepath.Join(sub, "c.csv.gz"),
	} {
		require.NoError(t, os.WriteFile(p, nil, 0o644))
	}

	flat, err := Discover([]string{dir}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.csv")}, flat)

	deep, err := Discover([]string{dir, filepath.Join(dir, "b.csv")}, true)
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.xlsx"),
		filepath.Join(dir, "b.csv"),
		filepath.Join(sub, "c.csv.gz"),
	}, deep)

	_, err = Discover([]string{filepath.Join(dir, "missing")}, false)
	assert.Error(t, err)
}
