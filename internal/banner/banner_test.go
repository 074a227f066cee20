package banner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyeh/pricemelt/internal/table"
	"github.com/gyeh/pricemelt/internal/vocab"
)

func bannerTable() table.Table {
	return table.New("f.csv", [][]string{
		{"Hospital Name", "Main St Hospital", ""},
		{"Last Updated", "2024-01-01", ""},
		{"description", "code|1", "code|1|type"},
		{"Office visit", "99213", "CPT"},
	})
}

func TestVocabularyDetector_StripsBanner(t *testing.T) {
	d, err := New(StrategyVocabulary, vocab.Default())
	require.NoError(t, err)

	out, blob := d.Detect(bannerTable())
	assert.Equal(t, []string{"description", "code|1", "code|1|type"}, out.Header())
	assert.Equal(t, 1, out.NumRows())
	require.Len(t, blob.Rows, 2)
	assert.Equal(t,
		`{"header_rows":[{"0":"Hospital Name","1":"Main St Hospital"},{"0":"Last Updated","1":"2024-01-01"}]}`,
		blob.JSON())
}

func TestVocabularyDetector_GenuineHeader(t *testing.T) {
	d, _ := New("", vocab.Default())
	in := table.New("f.csv", [][]string{
		{"Description", "Code | 1", "Standard_Charge | Gross"},
		{"x", "1", "2"},
	})
	out, blob := d.Detect(in)
	assert.True(t, blob.Empty())
	assert.Equal(t, "", blob.JSON())
	assert.Equal(t, in.Rows, out.Rows)
}

func TestVocabularyDetector_ShortTables(t *testing.T) {
	d, _ := New(StrategyVocabulary, vocab.Default())

	out, blob := d.Detect(table.New("empty", nil))
	assert.Equal(t, 0, out.NumCols())
	assert.True(t, blob.Empty())

	out, blob = d.Detect(table.New("one", [][]string{{"Hospital", "St Mary"}}))
	assert.Equal(t, 0, out.NumCols())
	require.Len(t, blob.Rows, 1)
	assert.Equal(t, "St Mary", blob.Rows[0].Value(1))
}

func TestScoringDetector(t *testing.T) {
	d, err := New(StrategyScoring, vocab.Default())
	require.NoError(t, err)

	cms := table.New("f.csv", [][]string{
		{"hospital_name", "last_updated_on", "version", "hospital_location"},
		{"Main St Hospital", "2024-01-01", "2.0.0", "Springfield"},
		{"description", "code|1", "code|1|type", "standard_charge|gross"},
		{"Office visit", "99213", "CPT", "100"},
	})
	out, blob := d.Detect(cms)
	assert.Equal(t, "description", out.Header()[0])
	require.Len(t, blob.Rows, 2)

	plain := table.New("f.csv", [][]string{
		{"description", "code|1", "standard_charge|gross"},
		{"Office visit", "99213", "100"},
	})
	out, blob = d.Detect(plain)
	assert.True(t, blob.Empty())
	assert.Equal(t, plain.Rows, out.Rows)
}

func TestNew_UnknownStrategy(t *testing.T) {
	_, err := New("magic", vocab.Default())
	assert.Error(t, err)
}

func TestBlobMeta(t *testing.T) {
	v := vocab.Default()

	cms := Blob{Rows: []Row{
		{{0, "hospital_name"}, {1, "last_updated_on"}, {2, "license_number|CA"}},
		{{0, "Main St Hospital"}, {1, "2024-01-01"}, {2, "12345"}},
	}}
	m := cms.Meta(v)
	assert.Equal(t, "Main St Hospital", m.HospitalName)
	assert.Equal(t, "2024-01-01", m.LastUpdatedOn)
	assert.Equal(t, "12345", m.LicenseNumber)

	_, pairs := mustDetect(t, bannerTable())
	m = pairs.Meta(v)
	assert.Equal(t, "Main St Hospital", m.HospitalName)
	assert.Equal(t, "2024-01-01", m.LastUpdatedOn)

	assert.Equal(t, HospitalMeta{}, Blob{}.Meta(v))
}

func mustDetect(t *testing.T, in table.Table) (table.Table, Blob) {
	t.Helper()
	d, err := New(StrategyVocabulary, vocab.Default())
	require.NoError(t, err)
	return d.Detect(in)
}
