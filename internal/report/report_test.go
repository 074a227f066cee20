package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/pricemelt/internal/model"
)

func TestWrite(t *testing.T) {
	s := []model.FileSummary{
		{File: "b.csv", Rows: 10, Cols: 4, Classification: model.ShapeWide, Reason: "many price columns"},
		{File: "c.csv", Rows: 0, Cols: 0, Classification: model.ShapeUnknown, Reason: "empty"},
		{File: "a.csv", Rows: 5, Cols: 3, Classification: model.ShapeWide, Reason: "x, y"},
		{File: "d.csv", Rows: 7, Cols: 6, Classification: model.ShapeTall, Reason: "repeated ids"},
	}

	var buf bytes.Buffer
	if err := Write(&buf, s); err != nil {
		t.Fatalf("Write: %v", err)
	}

	want := "file,rows,cols,classification,reason\n" +
		"d.csv,7,6," + model.ShapeTall + ",repeated ids\n" +
		"c.csv,0,0," + model.ShapeUnknown + ",empty\n" +
		"a.csv,5,3," + model.ShapeWide + ",\"x, y\"\n" +
		"b.csv,10,4," + model.ShapeWide + ",many price columns\n"
	if got := buf.String(); got != want {
		t.Errorf("report mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteFileAndTally(t *testing.T) {
	path := filepath.Join(t.TempDir(), "summary.csv")
	s := []model.FileSummary{
		{File: "a.csv", Classification: model.ShapeTall},
		{File: "b.csv", Classification: model.ShapeTall},
		{File: "c.csv", Classification: model.ShapeWide},
	}
	if err := WriteFile(path, s); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("file,rows,cols,classification,reason\n")) {
		t.Errorf("missing header: %q", data)
	}

	got := Tally(s)
	if got[model.ShapeTall] != 2 || got[model.ShapeWide] != 1 {
		t.Errorf("Tally = %v", got)
	}
}
