package normalize

import (
	"path/filepath"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var multiSpace = regexp.MustCompile(`[\s\p{Zs}]+`)

// CleanName collapses whitespace and trims. Casing is preserved.
func CleanName(s string) string {
	return strings.TrimSpace(multiSpace.ReplaceAllString(s, " "))
}

// TitleCase upper-cases the first letter of each word and lower-cases the
// rest ("AETNA ppo" → "Aetna Ppo").
func TitleCase(s string) string {
	return cases.Title(language.Und).String(s)
}

var fileExt = regexp.MustCompile(`(?i)\.(csv|tsv|txt|xlsx|xlsm)(\.gz)?$`)

var idPrefixes = []*regexp.Regexp{
	regexp.MustCompile(`^[0-9]{2} [0-9]{7}\s+`), // EIN like 91-0750229
	regexp.MustCompile(`^[0-9]{8}\s+`),          // YYYYMMDD
	regexp.MustCompile(`^[0-9]{9}\s+`),          // 9-digit id
	regexp.MustCompile(`^[0-9]+\s+`),
}

var boilerplate = regexp.MustCompile(`(?i)\b(standard ?charges?|machine ?readable|prices?|chargemaster|cdm|inpatient|outpatient|shoppable)\b`)

// GuessHospitalName derives a display name from a price file name by
// dropping ids, dates and boilerplate words, e.g.
// "91-0750229_Main-St-Hospital_standardcharges.csv" → "Main St Hospital".
func GuessHospitalName(path string) string {
	base := filepath.Base(path)
	base = fileExt.ReplaceAllString(base, "")
	s := strings.NewReplacer("_", " ", "-", " ").Replace(base)
	for _, re := range idPrefixes {
		s = re.ReplaceAllString(s, "")
	}
	s = boilerplate.ReplaceAllString(s, " ")
	s = CleanName(s)
	if s == "" {
		return TitleCase(CleanName(strings.NewReplacer("_", " ", "-", " ").Replace(base)))
	}
	return TitleCase(s)
}
