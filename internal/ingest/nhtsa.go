package ingest

import (
	"strings"

	"plainrecalls/pkg/models"
)

const (
	usJurisdiction = "United States"
	nhtsaRecallURL = "https://www.nhtsa.gov/recalls?nhtsaId="
)

// NHTSA maps one vehicle recall campaign (already grouped per campaign
// number, with make names concatenated and a model-year range).
type NHTSA struct{}

func (NHTSA) Name() string { return models.AgencyNHTSA }
func (NHTSA) File() string { return "nhtsa.json" }

func (NHTSA) Normalize(rec Record) models.Recall {
	makes := rec.Str("makes")
	campaign := rec.Str("campaign_number")
	summary := rec.Str("summary")
	consequence := rec.Str("consequence")
	date := rec.Str("report_date")

	title := strings.TrimSpace(makes + " " + yearRange(rec.Str("year_min"), rec.Str("year_max")) +
		": " + truncateRunes(rec.Str("component"), 200))

	affected := rec.Str("affected_count")
	if affected == "0" {
		affected = ""
	}

	var url string
	if campaign != "" {
		url = nhtsaRecallURL + campaign
	}

	return models.Recall{
		Agency:             models.AgencyNHTSA,
		RecallNumber:       campaign,
		Title:              truncateRunes(title, models.MaxTitleLen),
		ProductDescription: summary,
		Reason:             summary,
		Hazard:             consequence,
		Remedy:             rec.Str("remedy"),
		Severity:           consequenceSeverity(consequence),
		DateReported:       NormalizeDate(date),
		DateInitiated:      NormalizeDate(date),
		Status:             "Active",
		AffectedCount:      affected,
		Distribution:       usJurisdiction,
		RecallingFirm:      makes,
		Country:            usJurisdiction,
		URL:                url,
	}
}

// yearRange collapses to a single year when lo == hi.
func yearRange(lo, hi string) string {
	if lo == hi {
		return lo
	}
	return lo + "-" + hi
}
