// Package fixture builds small synthetic price tables in the CMS tall and
// wide layouts, with or without a banner, for tests and demo data.
package fixture

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Group is a payer/plan pair in a wide table.
type Group struct {
	Payer string
	Plan  string
}

// DefaultGroups are used when a builder is given none.
var DefaultGroups = []Group{
	{Payer: "Aetna", Plan: "PPO"},
	{Payer: "Cigna", Plan: "HMO"},
}

// Banner is the two-row CMS banner: keys, then values.
var Banner = [][]string{
	{"hospital_name", "last_updated_on", "version", "hospital_location", "license_number|NY"},
	{"Main St Hospital", "2024-07-01", "2.0.0", "Springfield, NY", "12345"},
}

// Every nullEvery-th negotiated cell is a "N/A" sentinel, and every
// absurdEvery-th gross charge is the 999999999 placeholder.
const (
	nullEvery   = 5
	absurdEvery = 17
)

func code(i int) string { return strconv.Itoa(99200 + i) }

func gross(i int) string {
	if i > 0 && i%absurdEvery == 0 {
		return "999999999"
	}
	return fmt.Sprintf("%d.00", 100+i)
}

// Tall builds a CMS tall table: one row per item and payer/plan.
func Tall(items int, groups []Group) [][]string {
	if len(groups) == 0 {
		groups = DefaultGroups
	}
	rows := [][]string{{
		"description", "code|1", "code|1|type", "billing_class", "setting",
		"standard_charge|gross", "standard_charge|discounted_cash",
		"payer_name", "plan_name",
		"standard_charge|negotiated_dollar", "standard_charge|negotiated_percentage",
		"standard_charge|methodology", "additional_generic_notes",
	}}
	for i := 0; i < items; i++ {
		for j, g := range groups {
			neg := strconv.Itoa(70 + i + j)
			if (i+j)%nullEvery == 0 {
				neg = "N/A"
			}
			rows = append(rows, []string{
				fmt.Sprintf("Service %d", i), code(i), "CPT", "professional", "outpatient",
				gross(i), fmt.Sprintf("%d", 80+i),
				g.Payer, g.Plan,
				neg, "",
				"fee schedule", "",
			})
		}
	}
	return rows
}

// Wide builds a CMS wide table: one row per item, payer/plan embedded in
// the price column headers.
func Wide(items int, groups []Group) [][]string {
	if len(groups) == 0 {
		groups = DefaultGroups
	}
	head := []string{
		"description", "code|1", "code|1|type", "code|2", "code|2|type", "billing_class", "setting",
		"standard_charge|gross", "standard_charge|discounted_cash",
	}
	for _, g := range groups {
		p := g.Payer + "|" + g.Plan
		head = append(head,
			"standard_charge|"+p+"|negotiated_dollar",
			"standard_charge|"+p+"|negotiated_percentage",
			"standard_charge|"+p+"|methodology",
			"estimated_amount|"+p,
		)
	}
	rows := [][]string{head}
	for i := 0; i < items; i++ {
		row := []string{
			fmt.Sprintf("Service %d", i), code(i), "CPT", "0" + strconv.Itoa(300+i%100), "RC",
			"facility", "inpatient", gross(i), strconv.Itoa(80 + i),
		}
		for j := range groups {
			dollar, pct := strconv.Itoa(70+i+j), ""
			if (i+j)%2 == 1 {
				dollar, pct = "", strconv.Itoa(40+j)+"%"
			}
			if (i+j)%nullEvery == 0 {
				dollar = "N/A"
			}
			row = append(row, dollar, pct, "case rate", "$"+strconv.Itoa(50+i))
		}
		rows = append(rows, row)
	}
	return rows
}

// Periodic builds a non-price wide table whose measure columns share a
// base name with year suffixes (revenue_2019, revenue_2020, ...).
func Periodic(items int, years ...int) [][]string {
	if len(years) == 0 {
		years = []int{2019, 2020, 2021}
	}
	head := []string{"region"}
	for _, y := range years {
		head = append(head, "revenue_"+strconv.Itoa(y))
	}
	rows := [][]string{head}
	for i := 0; i < items; i++ {
		row := []string{"region " + strconv.Itoa(i)}
		for j := range years {
			row = append(row, strconv.Itoa(1000*(i+1)+j))
		}
		rows = append(rows, row)
	}
	return rows
}

// WithBanner prepends the CMS banner rows.
func WithBanner(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows)+len(Banner))
	for _, b := range Banner {
		out = append(out, append([]string(nil), b...))
	}
	return append(out, rows...)
}

// WriteCSV writes rows to path, gzip-compressed when path ends in ".gz".
func WriteCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var zw *gzip.Writer
	w := csv.NewWriter(f)
	if strings.HasSuffix(path, ".gz") {
		zw = gzip.NewWriter(f)
		w = csv.NewWriter(zw)
	}
	if err := w.WriteAll(rows); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if zw != nil {
		if err := zw.Close(); err != nil {
			f.Close()
			return fmt.Errorf("gzip %s: %w", path, err)
		}
	}
	return f.Close()
}
