package classify

import (
	"strings"

	"plainrecalls/pkg/models"
)

// Single-domain agencies skip keyword matching entirely.
var agencyOverride = map[string]string{
	models.AgencyNHTSA:     Vehicles,
	models.AgencyUSDA:      MeatPoultry,
	models.AgencyFDADevice: MedicalDevices,
}

// Used when no keyword matches.
var agencyFallback = map[string]string{
	models.AgencyFDAFood: Food,
	models.AgencyFDADrug: Drugs,
}

// Fallback is the category of last resort.
const Fallback = Household

// AssignCategory returns the category id for a recall of agency whose
// combined text is text. It always returns a known id.
func AssignCategory(agency, text string) string {
	if id, ok := agencyOverride[agency]; ok {
		return id
	}

	lower := strings.ToLower(text)
	for _, c := range Categories {
		for _, kw := range c.Keywords {
			if strings.Contains(lower, kw) {
				return c.ID
			}
		}
	}

	if id, ok := agencyFallback[agency]; ok {
		return id
	}
	return Fallback
}

// Classify sets r.CategoryID from its title, description and reason.
func Classify(r *models.Recall) {
	r.CategoryID = AssignCategory(r.Agency, r.Title+" "+r.ProductDescription+" "+r.Reason)
}

// ClassifyAll classifies every record in place.
func ClassifyAll(recalls []models.Recall) {
	for i := range recalls {
		Classify(&recalls[i])
	}
}
