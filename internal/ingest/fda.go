package ingest

import "plainrecalls/pkg/models"

// FDA maps openFDA enforcement reports (food, drug and device endpoints
// share one shape; Agency tells them apart).
type FDA struct {
	Agency string
}

func (s FDA) Name() string { return s.Agency }
func (s FDA) File() string { return s.Agency + ".json" }

func (s FDA) Normalize(rec Record) models.Recall {
	desc := rec.Str("product_description")
	reason := rec.Str("reason_for_recall")
	class := rec.Str("classification")

	return models.Recall{
		Agency:             s.Agency,
		RecallNumber:       rec.Str("recall_number"),
		Title:              truncateRunes(desc, models.MaxTitleLen),
		ProductDescription: desc,
		Reason:             reason,
		Hazard:             reason,
		Classification:     class,
		Severity:           SeverityFromClassification(class),
		DateReported:       NormalizeDate(rec.Str("report_date")),
		DateInitiated:      NormalizeDate(rec.Str("recall_initiation_date")),
		Status:             rec.Str("status"),
		AffectedCount:      rec.Str("product_quantity"),
		Distribution:       rec.Str("distribution_pattern"),
		RecallingFirm:      rec.Str("recalling_firm"),
		City:               rec.Str("city"),
		State:              rec.Str("state"),
		Country:            rec.Str("country"),
	}
}
