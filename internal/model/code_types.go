package model

import "strings"

// CodeType is one canonical billing code vocabulary with the spellings
// vendors use for it.
type CodeType struct {
	Name    string   // canonical spelling, e.g. "CPT"
	Aliases []string // upper-case variants that collapse to Name
}

// AllCodeTypes lists the canonical code types in display order. Types not
// listed here pass through upper-cased.
var AllCodeTypes = []CodeType{
	{Name: "CPT", Aliases: []string{"CPT", "CPT®", "CPT-4", "CPT4"}},
	{Name: "HCPCS", Aliases: []string{"HCPCS", "HCPCS-CODE"}},
	{Name: "DRG", Aliases: []string{"DRG", "MS-DRG", "MSDRG"}},
	{Name: "ICD10", Aliases: []string{"ICD", "ICD10", "ICD-10"}},
	{Name: "NDC", Aliases: []string{"NDC"}},
	{Name: "RC", Aliases: []string{"RC"}},
	{Name: "CDM", Aliases: []string{"CDM"}},
	{Name: "APC", Aliases: []string{"APC"}},
	{Name: "CDT", Aliases: []string{"CDT"}},
	{Name: "LOCAL", Aliases: []string{"LOCAL"}},
}

// CodeTypeAliases flattens AllCodeTypes into alias → canonical name.
func CodeTypeAliases() map[string]string {
	m := make(map[string]string)
	for _, ct := range AllCodeTypes {
		for _, a := range ct.Aliases {
			m[a] = ct.Name
		}
	}
	return m
}

// CodeTypeByName returns the CodeType whose Name or alias matches name
// case-insensitively.
func CodeTypeByName(name string) (CodeType, bool) {
	up := strings.ToUpper(strings.TrimSpace(name))
	for _, ct := range AllCodeTypes {
		if ct.Name == up {
			return ct, true
		}
		for _, a := range ct.Aliases {
			if a == up {
				return ct, true
			}
		}
	}
	return CodeType{}, false
}
