// Package extract derives structured attributes (brand, size, concentration,
// gender, product line, classification, identifying numbers) from free-text
// product names. Every extractor is total: empty or unrecognizable input
// yields the zero value, never an error.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mahwous/pricewatch/internal/textnorm"
)

// MLPerOunce converts fluid ounces to milliliters.
const MLPerOunce = 29.5735

// Concentration is the fragrance strength category. The zero value means
// unknown.
type Concentration string

const (
	ConcentrationUnknown Concentration = ""
	ConcentrationEDP     Concentration = "EDP"
	ConcentrationEDT     Concentration = "EDT"
	ConcentrationEDC     Concentration = "EDC"
)

// Gender is the target gender flagged in the name. The zero value means
// unknown (neither or both keyword sets present).
type Gender string

const (
	GenderUnknown Gender = ""
	GenderMale    Gender = "male"
	GenderFemale  Gender = "female"
)

// Attributes bundles everything extracted from one product name.
type Attributes struct {
	Brand          string         `json:"brand,omitempty"`
	SizeML         float64        `json:"size_ml,omitempty"`
	Concentration  Concentration  `json:"concentration,omitempty"`
	Gender         Gender         `json:"gender,omitempty"`
	ProductLine    string         `json:"product_line,omitempty"`
	Classification Classification `json:"classification"`
}

// All runs every extractor over the original text. Classification is always
// computed from the original text, not the normalized residual, so
// stop-word stripping cannot lose classification keywords.
func All(text string) Attributes {
	brand := Brand(text)
	return Attributes{
		Brand:          brand,
		SizeML:         Size(text),
		Concentration:  ConcentrationOf(text),
		Gender:         GenderOf(text),
		ProductLine:    ProductLine(text, brand),
		Classification: Classify(text),
	}
}

var (
	ozRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:oz|ounce)`)
	mlRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*(?:ml|مل|ملي|milliliter)`)
)

// Size returns the volume in milliliters, or 0 when no size token is found.
// Ounce patterns are checked first so "3.4 oz" is never misread through the
// milliliter pattern.
func Size(text string) float64 {
	tl := lower(text)
	if m := ozRe.FindStringSubmatch(tl); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v * MLPerOunce
		}
	}
	if m := mlRe.FindStringSubmatch(tl); m != nil {
		v, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			return v
		}
	}
	return 0
}

// Brand returns the first gazetteer brand found in either the normalized or
// the raw lowercased text, or "" when none matches. Normalized matching
// catches Arabic transliterations folded by the synonym table.
func Brand(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}
	n := textnorm.Normalize(text)
	tl := lower(text)
	for _, e := range brandLookup {
		if strings.Contains(n, e.norm) || strings.Contains(tl, e.lower) {
			return e.display
		}
	}
	return ""
}

// ConcentrationOf returns the concentration by substring presence in the
// normalized text, first match wins: EDP (also triggered by "extrait"),
// then EDT, then EDC.
func ConcentrationOf(text string) Concentration {
	n := textnorm.Normalize(text)
	switch {
	case strings.Contains(n, "edp") || strings.Contains(n, "extrait"):
		return ConcentrationEDP
	case strings.Contains(n, "edt"):
		return ConcentrationEDT
	case strings.Contains(n, "edc"):
		return ConcentrationEDC
	default:
		return ConcentrationUnknown
	}
}

var maleKeywords = []string{
	"pour homme", "for men", " men ", " man ", "رجالي", "للرجال",
	" مان ", " هوم ", "homme", " uomo",
}

var femaleKeywords = []string{
	"pour femme", "for women", "women", " woman ", "نسائي", "للنساء",
	"النسائي", "lady", "femme", " donna",
}

// GenderOf flags male or female from keyword sets on the raw lowercased
// text. Both or neither flagged returns unknown.
func GenderOf(text string) Gender {
	tl := lower(text)
	m := containsAny(tl, maleKeywords)
	f := containsAny(tl, femaleKeywords)
	switch {
	case m && !f:
		return GenderMale
	case f && !m:
		return GenderFemale
	default:
		return GenderUnknown
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func lower(s string) string {
	return strings.ToLower(s)
}
