package banner

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gyeh/pricemelt/internal/vocab"
)

// Cell is one non-empty banner cell and the column position it came from.
type Cell struct {
	Pos   int
	Value string
}

// Row is an ordered banner row.
type Row []Cell

// Value returns the cell at column pos, or "".
func (r Row) Value(pos int) string {
	for _, c := range r {
		if c.Pos == pos {
			return c.Value
		}
	}
	return ""
}

// Blob holds the publisher rows removed from above a table's real header.
// It is built once per table and never modified.
type Blob struct {
	Rows []Row
}

// Empty reports whether no banner rows were captured.
func (b Blob) Empty() bool {
	return len(b.Rows) == 0
}

func captureRow(cells []string) Row {
	var r Row
	for i, v := range cells {
		if strings.TrimSpace(v) == "" {
			continue
		}
		r = append(r, Cell{Pos: i, Value: v})
	}
	return r
}

// MarshalJSON renders {"header_rows":[{"0":"...","1":"..."}, ...]} with
// keys in column order.
func (b Blob) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"header_rows":[`)
	for i, row := range b.Rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		for j, c := range row {
			if j > 0 {
				buf.WriteByte(',')
			}
			buf.WriteString(strconv.Quote(strconv.Itoa(c.Pos)))
			buf.WriteByte(':')
			val, err := json.Marshal(c.Value)
			if err != nil {
				return nil, err
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteString(`]}`)
	return buf.Bytes(), nil
}

// JSON returns the serialized blob, or "" when empty.
func (b Blob) JSON() string {
	if b.Empty() {
		return ""
	}
	data, err := b.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(data)
}

// HospitalMeta is the hospital identity carried in a banner.
type HospitalMeta struct {
	HospitalName     string
	HospitalLocation string
	HospitalAddress  string
	LastUpdatedOn    string
	Version          string
	LicenseNumber    string
}

func (m *HospitalMeta) set(field, val string) {
	var dst *string
	switch field {
	case vocab.MetaHospitalName:
		dst = &m.HospitalName
	case vocab.MetaHospitalLocation:
		dst = &m.HospitalLocation
	case vocab.MetaHospitalAddress:
		dst = &m.HospitalAddress
	case vocab.MetaLastUpdatedOn:
		dst = &m.LastUpdatedOn
	case vocab.MetaVersion:
		dst = &m.Version
	case vocab.MetaLicenseNumber:
		dst = &m.LicenseNumber
	}
	if dst != nil && *dst == "" {
		*dst = strings.TrimSpace(val)
	}
}

// Meta resolves banner keys through the vocabulary's metadata synonyms.
// Two layouts are recognized: the CMS template, where the first banner row
// holds several keys and the second row holds their values, and key/value
// pairs laid out across each row ("Hospital Name", "Main St Hospital").
// The first key that maps to a field wins.
func (b Blob) Meta(v *vocab.Vocabulary) HospitalMeta {
	var m HospitalMeta
	if b.Empty() {
		return m
	}

	keyed := 0
	for _, c := range b.Rows[0] {
		if _, ok := v.MetaKey(c.Value); ok {
			keyed++
		}
	}

	if keyed >= 2 && len(b.Rows) >= 2 {
		values := b.Rows[1]
		for _, k := range b.Rows[0] {
			if field, ok := v.MetaKey(k.Value); ok {
				if val := values.Value(k.Pos); strings.TrimSpace(val) != "" {
					m.set(field, val)
				}
			}
		}
		return m
	}

	for _, row := range b.Rows {
		for i := 0; i+1 < len(row); i++ {
			field, ok := v.MetaKey(row[i].Value)
			if !ok {
				continue
			}
			m.set(field, row[i+1].Value)
			i++
		}
	}
	return m
}
