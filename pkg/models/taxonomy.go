package models

// Agency source tags.
const (
	AgencyFDAFood   = "fda_food"
	AgencyFDADrug   = "fda_drug"
	AgencyFDADevice = "fda_device"
	AgencyCPSC      = "cpsc"
	AgencyNHTSA     = "nhtsa"
	AgencyUSDA      = "usda"
)

// Agency is one row of the `agencies` table.
type Agency struct {
	AgencyID    string `json:"agency_id"`
	AgencyName  string `json:"agency_name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	URL         string `json:"url"`
	RecallCount int    `json:"recall_count"`
}

// Agencies is the closed list of data sources, in load order.
var Agencies = []Agency{
	{
		AgencyID:    AgencyFDAFood,
		AgencyName:  "FDA Food Safety",
		Slug:        "fda-food",
		Description: "U.S. Food and Drug Administration - Food recalls and safety alerts",
		URL:         "https://www.fda.gov/safety/recalls-market-withdrawals-safety-alerts",
	},
	{
		AgencyID:    AgencyFDADrug,
		AgencyName:  "FDA Drug Safety",
		Slug:        "fda-drug",
		Description: "U.S. Food and Drug Administration - Drug recalls and safety communications",
		URL:         "https://www.fda.gov/drugs/drug-safety-and-availability",
	},
	{
		AgencyID:    AgencyFDADevice,
		AgencyName:  "FDA Medical Devices",
		Slug:        "fda-device",
		Description: "U.S. Food and Drug Administration - Medical device recalls",
		URL:         "https://www.fda.gov/medical-devices/medical-device-recalls",
	},
	{
		AgencyID:    AgencyCPSC,
		AgencyName:  "CPSC",
		Slug:        "cpsc",
		Description: "U.S. Consumer Product Safety Commission - Consumer product recalls",
		URL:         "https://www.cpsc.gov/Recalls",
	},
	{
		AgencyID:    AgencyNHTSA,
		AgencyName:  "NHTSA",
		Slug:        "nhtsa",
		Description: "National Highway Traffic Safety Administration - Vehicle safety recalls",
		URL:         "https://www.nhtsa.gov/recalls",
	},
	{
		AgencyID:    AgencyUSDA,
		AgencyName:  "USDA FSIS",
		Slug:        "usda",
		Description: "U.S. Department of Agriculture Food Safety and Inspection Service - Meat and poultry recalls",
		URL:         "https://www.fsis.usda.gov/recalls",
	},
}

// Category is one row of the `categories` table.
type Category struct {
	CategoryID   string `json:"category_id"`
	CategoryName string `json:"category_name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	RecallCount  int    `json:"recall_count"`
}

// Manufacturer is a roll-up of all recalls sharing a slugified firm name.
type Manufacturer struct {
	ManufacturerID   string  `json:"manufacturer_id"` // same as Slug
	Name             string  `json:"name"`            // first-seen casing
	Slug             string  `json:"slug"`
	RecallCount      int     `json:"recall_count"`
	LatestRecallDate *string `json:"latest_recall_date"`
}

// YearCount is one bucket of the per-year histogram stored in _stats.
type YearCount struct {
	Year  string `json:"year"`
	Count int    `json:"count"`
}

// Stats holds the precomputed aggregates kept in the `_stats` table.
type Stats struct {
	TotalRecalls  int         `json:"total_recalls"`
	YearMin       *string     `json:"year_min"`
	YearMax       *string     `json:"year_max"`
	RecallsByYear []YearCount `json:"recalls_by_year"`
}

// SourceManifest describes one raw input file consumed by a run.
type SourceManifest struct {
	Source  string `json:"source"`
	File    string `json:"file"`
	Records int    `json:"records"`
	Digest  string `json:"digest"` // blake2b-256 hex of the raw bytes, empty when missing
}
