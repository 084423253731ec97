package ingest

import (
	"strings"

	"plainrecalls/pkg/models"
)

// USDA maps FSIS recall API records (flat `field_*` keys).
type USDA struct{}

func (USDA) Name() string { return models.AgencyUSDA }
func (USDA) File() string { return "usda.json" }

func (USDA) Normalize(rec Record) models.Recall {
	class := firstNonEmpty(rec.Str("field_recall_classification"), rec.Str("field_risk_level"))
	reason := rec.Str("field_recall_reason")
	date := rec.Str("field_recall_date")

	status := "Active"
	if strings.EqualFold(rec.Str("field_active_notice"), "false") {
		status = "Closed"
	}

	return models.Recall{
		Agency:             models.AgencyUSDA,
		RecallNumber:       rec.Str("field_recall_number"),
		Title:              truncateRunes(rec.Str("field_title"), models.MaxTitleLen),
		ProductDescription: firstNonEmpty(rec.Str("field_product_items"), rec.Str("field_summary")),
		Reason:             reason,
		Hazard:             reason,
		Classification:     class,
		Severity:           SeverityFromClassification(class),
		DateReported:       NormalizeDate(date),
		DateInitiated:      NormalizeDate(date),
		Status:             status,
		AffectedCount:      rec.Str("field_qty_recovered"),
		Distribution:       rec.Str("field_states"),
		RecallingFirm:      rec.Str("field_establishment"),
		Country:            usJurisdiction,
	}
}
