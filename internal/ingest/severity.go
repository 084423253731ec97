package ingest

import (
	"strings"
	"unicode"

	"plainrecalls/pkg/models"
)

// SeverityFromClassification maps an FDA/FSIS style class code ("Class I",
// "Class II", "Class III") to a tier. The roman numeral is matched as a
// whole token so that words containing the letter I do not read as Class I.
// Empty or unrecognised codes are tier 2.
func SeverityFromClassification(code string) int {
	tokens := strings.FieldsFunc(strings.ToUpper(code), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	var hasI, hasII, hasIII bool
	for _, tok := range tokens {
		switch tok {
		case "I":
			hasI = true
		case "II":
			hasII = true
		case "III":
			hasIII = true
		}
	}

	switch {
	case hasIII:
		return models.SeverityLow
	case hasII:
		return models.SeverityModerate
	case hasI:
		return models.SeverityCritical
	default:
		return models.SeverityModerate
	}
}

// consequenceSeverity is tier 1 when the consequence text describes a
// death, crash or fire.
func consequenceSeverity(consequence string) int {
	c := strings.ToLower(consequence)
	for _, marker := range []string{"death", "crash", "fire"} {
		if strings.Contains(c, marker) {
			return models.SeverityCritical
		}
	}
	return models.SeverityModerate
}
