package normalize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gyeh/pricemelt/internal/vocab"
)

func TestCleanAmount(t *testing.T) {
	v := vocab.Default()
	tests := []struct {
		in      string
		percent bool
		want    float64
		ok      bool
	}{
		{"100.00", false, 100, true},
		{"$1,234.50", false, 1234.5, true},
		{" 80 ", false, 80, true},
		{"45%", true, 45, true},
		{"45%", false, 0, false},
		{"N/A", false, 0, false},
		{"not disclosed", false, 0, false},
		{"", false, 0, false},
		{"999999999", false, 0, false},
		{"999999999.00", false, 0, false},
		{"abc", false, 0, false},
		{"NaN", false, 0, false},
		{"Inf", false, 0, false},
		{"-12.5", false, -12.5, true},
	}
	for _, tt := range tests {
		got, ok := CleanAmount(v, tt.in, tt.percent)
		if ok != tt.ok || got != tt.want {
			t.Errorf("CleanAmount(%q, %v) = (%v, %v), want (%v, %v)", tt.in, tt.percent, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseNumber(t *testing.T) {
	if _, ok := ParseNumber("12.5"); !ok {
		t.Error("12.5 should be numeric")
	}
	if _, ok := ParseNumber("$12"); ok {
		t.Error("$12 should not be numeric")
	}
	if _, ok := ParseNumber(" "); ok {
		t.Error("blank should not be numeric")
	}
}

func TestCleanCode(t *testing.T) {
	tests := map[string]string{
		" 99213 ":      "99213",
		"0409-4888-02": "0409-4888-02",
		" J1100\u200b": "J1100",
	}
	for in, want := range tests {
		if got := CleanCode(in); got != want {
			t.Errorf("CleanCode(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestISODate(t *testing.T) {
	tests := map[string]string{
		"2024-01-01":  "2024-01-01",
		"1/2/2024":    "2024-01-02",
		"Jan 5, 2024": "2024-01-05",
		"ongoing":     "ongoing",
		"":            "",
	}
	for in, want := range tests {
		if got := ISODate(in); got != want {
			t.Errorf("ISODate(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestCleanName(t *testing.T) {
	if got := CleanName("  Blue\tCross   Blue Shield "); got != "Blue Cross Blue Shield" {
		t.Errorf("CleanName = %q", got)
	}
}

func TestGuessHospitalName(t *testing.T) {
	tests := map[string]string{
		"/data/91-0750229_Main-St-Hospital_standardcharges.csv": "Main St Hospital",
		"20240101_mercy_general_machine_readable.csv.gz":        "Mercy General",
		"st-joseph-chargemaster.xlsx":                           "St Joseph",
		"standard_charges.csv":                                  "Standard Charges",
	}
	for in, want := range tests {
		if got := GuessHospitalName(in); got != want {
			t.Errorf("GuessHospitalName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFileHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.csv")
	if err := os.WriteFile(path, []byte("abc"), 0644); err != nil {
		t.Fatal(err)
	}
	got, err := FileHash(path)
	if err != nil {
		t.Fatalf("FileHash: %v", err)
	}
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got != want {
		t.Errorf("FileHash = %s, want %s", got, want)
	}
	if _, err := FileHash(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected error for missing file")
	}
}
