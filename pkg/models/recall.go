package models

// Recall is the canonical, source-independent form of one recall notice.
//
// Every raw source record is mapped into this structure first; the
// classifier, identity pass and aggregator fill in the derived fields,
// then the store writer persists it as one row of the `recalls` table.
type Recall struct {
	RecallID           string  `json:"recall_id"`     // agency + "-" + (recall_number or slug)
	Agency             string  `json:"agency"`        // source tag, e.g. "fda_food"
	RecallNumber       string  `json:"recall_number"` // source-native id, not globally unique
	Slug               string  `json:"slug"`          // URL-safe, unique per store
	Title              string  `json:"title"`         // at most MaxTitleLen runes
	ProductDescription string  `json:"product_description"`
	Reason             string  `json:"reason"`
	Hazard             string  `json:"hazard"`
	Remedy             string  `json:"remedy"`
	Classification     string  `json:"classification"` // free-text severity code from the source
	Severity           int     `json:"severity"`       // 1 = most serious, 3 = least
	DateReported       *string `json:"date_reported"`  // YYYY-MM-DD or nil
	DateInitiated      *string `json:"date_initiated"` // YYYY-MM-DD or nil
	Status             string  `json:"status"`
	AffectedCount      string  `json:"affected_count"`  // free text, units vary by source
	ManufacturerID     *string `json:"manufacturer_id"` // set iff RecallingFirm is non-empty
	Distribution       string  `json:"distribution"`
	CategoryID         string  `json:"category_id"` // always set after classification
	RecallingFirm      string  `json:"recalling_firm"`
	City               string  `json:"city"`
	State              string  `json:"state"`
	Country            string  `json:"country"`
	URL                string  `json:"url"`
}

// MaxTitleLen caps Recall.Title.
const MaxTitleLen = 500

// Severity tiers.
const (
	SeverityCritical = 1
	SeverityModerate = 2
	SeverityLow      = 3
)
