package ingest

import (
	"strings"

	"plainrecalls/pkg/models"
)

// CPSC maps SaferProducts.gov recall objects. Hazards, remedies, firms and
// products arrive as lists of named sub-objects.
type CPSC struct{}

func (CPSC) Name() string { return models.AgencyCPSC }
func (CPSC) File() string { return "cpsc.json" }

func (CPSC) Normalize(rec Record) models.Recall {
	hazard := strings.Join(rec.Pluck("Hazards", "Name"), "; ")
	remedy := strings.Join(rec.Pluck("Remedies", "Name"), "; ")

	var firm string
	if mfrs := rec.Pluck("Manufacturers", "Name"); len(mfrs) > 0 {
		firm = mfrs[0]
	} else if dists := rec.Pluck("Distributors", "Name"); len(dists) > 0 {
		firm = dists[0]
	}

	date := rec.Str("RecallDate")

	return models.Recall{
		Agency:             models.AgencyCPSC,
		RecallNumber:       firstNonEmpty(rec.Str("RecallNumber"), rec.Str("RecallID")),
		Title:              truncateRunes(rec.Str("Title"), models.MaxTitleLen),
		ProductDescription: rec.Str("Description"),
		Reason:             hazard,
		Hazard:             hazard,
		Remedy:             remedy,
		Severity:           models.SeverityModerate,
		DateReported:       NormalizeDate(date),
		DateInitiated:      NormalizeDate(date),
		Status:             "Active",
		AffectedCount:      strings.Join(rec.Pluck("Products", "NumberOfUnits"), ", "),
		RecallingFirm:      firm,
		Country:            strings.Join(rec.Pluck("ManufacturerCountries", "Country"), ", "),
		URL:                rec.Str("URL"),
	}
}
