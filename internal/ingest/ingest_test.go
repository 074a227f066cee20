package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gyeh/pricemelt/internal/banner"
	"github.com/gyeh/pricemelt/internal/config"
	"github.com/gyeh/pricemelt/internal/fixture"
	"github.com/gyeh/pricemelt/internal/model"
	"github.com/gyeh/pricemelt/internal/parquetio"
)

func newTestProcessor(t *testing.T, cfg *config.Config) *Processor {
	t.Helper()
	p, err := NewProcessor(cfg)
	require.NoError(t, err)
	return p
}

func writeFixture(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, fixture.WriteCSV(path, rows))
	return path
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		dir    string
		path   string
		label  string
		format string
		want   string
	}{
		{"csv next to input", "", "/data/prices.csv", "/data/prices.csv", config.FormatCSV, "/data/prices.tall.csv"},
		{"gz stripped", "/out", "/data/prices.csv.gz", "/data/prices.csv.gz", config.FormatParquet, "/out/prices.tall.parquet"},
		{"sheet suffix", "/out", "/data/book.xlsx", "/data/book.xlsx::Rates 2024", config.FormatCSV, "/out/book.Rates_2024.tall.csv"},
		{"unknown extension kept", "/out", "/data/prices.dat", "/data/prices.dat", config.FormatCSV, "/out/prices.dat.tall.csv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.dir, tt.path, tt.label, tt.format))
		})
	}
}

func TestMeltFile_CSV(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "tall.csv", fixture.WithBanner(fixture.Tall(20, nil)))

	cfg := config.Default()
	cfg.OutDir = filepath.Join(dir, "out")
	p := newTestProcessor(t, &cfg)

	sums, err := MeltFile(context.Background(), p, zerolog.Nop(), &cfg, path)
	require.NoError(t, err)
	require.Len(t, sums, 1)

	s := sums[0]
	assert.Equal(t, filepath.Join(dir, "out", "tall.tall.csv"), s.OutputPath)
	assert.Equal(t, "Main St Hospital", s.HospitalName)
	assert.Equal(t, 2, s.BannerRows)
	assert.Equal(t, int64(110), s.RowsEmitted)
	assert.Equal(t, int64(50), s.RowsDropped)
	assert.False(t, s.Skipped)

	f, err := os.Open(s.OutputPath)
	require.NoError(t, err)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 111)
	assert.Equal(t, model.LongColumns(), records[0])

	_, err = os.Stat(s.OutputPath + ".partial")
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestMeltFile_Parquet(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "wide.csv", fixture.Wide(10, nil))

	cfg := config.Default()
	cfg.Format = config.FormatParquet
	cfg.MeltWorkers = 2
	p := newTestProcessor(t, &cfg)

	sums, err := MeltFile(context.Background(), p, zerolog.Nop(), &cfg, path)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, model.ShapeWide, sums[0].Classification)
	assert.Equal(t, "wide", sums[0].Variant)

	rows, err := parquetio.ReadAll(filepath.Join(dir, "wide.tall.parquet"))
	require.NoError(t, err)
	assert.Len(t, rows, 38)
	assert.Equal(t, "wide.csv", rows[0].SourceFile)
}

func TestMeltFile_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "tall.csv", fixture.Tall(5, nil))

	cfg := config.Default()
	p := newTestProcessor(t, &cfg)
	ctx := context.Background()

	_, err := MeltFile(ctx, p, zerolog.Nop(), &cfg, path)
	require.NoError(t, err)

	_, err = MeltFile(ctx, p, zerolog.Nop(), &cfg, path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutputExists)
	assert.Equal(t, PhaseWrite, Phase(err))

	cfg.Overwrite = true
	_, err = MeltFile(ctx, p, zerolog.Nop(), &cfg, path)
	assert.NoError(t, err)
}

func TestMeltFile_NoPriceColumns(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "revenue.csv", fixture.Periodic(6))

	cfg := config.Default()
	p := newTestProcessor(t, &cfg)

	sums, err := MeltFile(context.Background(), p, zerolog.Nop(), &cfg, path)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.True(t, sums[0].Skipped)
	assert.NotEmpty(t, sums[0].Reason)
	assert.Empty(t, sums[0].OutputPath)
	assert.NoFileExists(t, filepath.Join(dir, "revenue.tall.csv"))
}

func TestMeltFile_ReadError(t *testing.T) {
	cfg := config.Default()
	p := newTestProcessor(t, &cfg)

	_, err := MeltFile(context.Background(), p, zerolog.Nop(), &cfg, filepath.Join(t.TempDir(), "missing.csv"))
	require.Error(t, err)
	assert.Equal(t, PhaseRead, Phase(err))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRunFiles(t *testing.T) {
	boom := errors.New("boom")
	fn := func(_ context.Context, path string) ([]*model.RunSummary, error) {
		if path == "b" {
			return nil, boom
		}
		return []*model.RunSummary{{FilePath: path}}, nil
	}

	results := RunFiles(context.Background(), []string{"a", "b", "c"}, 2, fn)
	require.Len(t, results, 3)
	for i, want := range []string{"a", "b", "c"} {
		assert.Equal(t, want, results[i].Path)
	}
	assert.ErrorIs(t, results[1].Err, boom)
	assert.Equal(t, "c", results[2].Summaries[0].FilePath)

	ok, failed := Tally(results)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
}

func TestRunFiles_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	results := RunFiles(ctx, []string{"a", "b"}, 1, func(context.Context, string) ([]*model.RunSummary, error) {
		called = true
		return nil, nil
	})
	assert.False(t, called)
	for _, r := range results {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}

func TestClassifyFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "revenue.csv", fixture.Periodic(20))

	// row 0 carries no pricing names, so keep the vocabulary detector
	// from treating it as a banner
	cfg := config.Default()
	cfg.BannerStrategy = banner.StrategyScoring
	p := newTestProcessor(t, &cfg)

	sums, err := ClassifyFile(p, path, 4)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "revenue.csv", sums[0].File)
	assert.Equal(t, 4, sums[0].Rows)
	assert.Equal(t, 4, sums[0].Cols)
	assert.Equal(t, model.ShapeWide, sums[0].Classification)

	all, err := ClassifyFile(p, path, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, all[0].Rows)
}

func TestClassifyFile_EmptySheet(t *testing.T) {
	f := excelize.NewFile()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"code", "description", "standard_charge|gross"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{"99213", "Office visit", "100"}))
	_, err := f.NewSheet("Notes")
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "book.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := config.Default()
	p := newTestProcessor(t, &cfg)

	sums, err := ClassifyFile(p, path, 0)
	require.NoError(t, err)
	require.Len(t, sums, 2)
	assert.Equal(t, "book.xlsx::Notes", sums[1].File)
	assert.Equal(t, model.ShapeUnknown, sums[1].Classification)
	assert.Equal(t, 0, sums[1].Rows)
}

func TestClassifyFiles(t *testing.T) {
	dir := t.TempDir()
	wide := writeFixture(t, dir, "wide.csv", fixture.Wide(10, nil))
	tall := writeFixture(t, dir, "tall.csv", fixture.Tall(30, nil))
	missing := filepath.Join(dir, "missing.csv")

	cfg := config.Default()
	p := newTestProcessor(t, &cfg)

	lines, results := ClassifyFiles(context.Background(), p, []string{wide, missing, tall}, 2, 0)
	require.Len(t, lines, 2)
	assert.Equal(t, "wide.csv", lines[0].File)
	assert.Equal(t, "tall.csv", lines[1].File)
	assert.Equal(t, 60, lines[1].Rows)

	ok, failed := Tally(results)
	assert.Equal(t, 2, ok)
	assert.Equal(t, 1, failed)
	assert.Equal(t, PhaseRead, Phase(results[1].Err))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "prices.csv", DisplayName("/data/in/prices.csv"))
	assert.Equal(t, "book.xlsx::Sheet1", DisplayName("/data/in/book.xlsx::Sheet1"))
}

func TestHospitalOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "tall.csv", fixture.WithBanner(fixture.Tall(3, nil)))

	cfg := config.Default()
	cfg.Hospital = "Override Medical Center"
	cfg.OutDir = dir
	p := newTestProcessor(t, &cfg)

	sums, err := MeltFile(context.Background(), p, zerolog.Nop(), &cfg, path)
	require.NoError(t, err)
	assert.Equal(t, "Override Medical Center", sums[0].HospitalName)
}

func TestPlan(t *testing.T) {
	dir := t.TempDir()
	path := writeFixture(t, dir, "wide.csv", fixture.WithBanner(fixture.Wide(10, nil)))

	cfg := config.Default()
	p := newTestProcessor(t, &cfg)

	rep, err := Plan(context.Background(), p, path)
	require.NoError(t, err)
	require.Len(t, rep.Tables, 1)
	assert.Len(t, rep.SHA256, 64)

	tp := rep.Tables[0]
	assert.Equal(t, "wide.csv", tp.Label)
	assert.Equal(t, 2, tp.BannerRows)
	assert.Equal(t, "12345", tp.LicenseNumber)
	assert.NotEmpty(t, tp.Banner)
	assert.Equal(t, "wide", tp.Variant)
	assert.Len(t, tp.Groups, 2)
	assert.Equal(t, int64(60), tp.Candidates)
	assert.Equal(t, int64(38), tp.RowsEmitted)
	assert.Len(t, tp.Columns, len(fixture.Wide(1, nil)[0]))

	var buf bytes.Buffer
	rep.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, "Variant:        wide")
	assert.Contains(t, out, "Aetna/PPO, Cigna/HMO")
	assert.Contains(t, out, "Long rows:      38")

	assert.NoFileExists(t, filepath.Join(dir, "wide.tall.csv"))
}

func TestPipelineError(t *testing.T) {
	inner := errors.New("disk full")
	err := error(&PipelineError{Phase: PhaseWrite, File: "a.csv", Err: inner})
	assert.Equal(t, "write a.csv: disk full", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, PhaseWrite, Phase(err))
	assert.Equal(t, "", Phase(inner))
}
