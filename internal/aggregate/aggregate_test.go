package aggregate

import (
	"testing"

	"plainrecalls/pkg/models"
)

func date(s string) *string { return &s }

func TestManufacturers(t *testing.T) {
	recalls := []models.Recall{
		{RecallingFirm: "  Acme Foods, Inc. ", DateReported: date("2022-01-05")},
		{RecallingFirm: "Zeta Corp"},
		{RecallingFirm: "ACME FOODS INC", DateReported: date("2023-11-30")},
		{RecallingFirm: "acme foods inc.", DateReported: date("2021-07-01")},
		{RecallingFirm: "   "},
		{RecallingFirm: "!!!"},
	}
	mfrs := Manufacturers(recalls)

	if len(mfrs) != 2 {
		t.Fatalf("len = %d, want 2: %+v", len(mfrs), mfrs)
	}
	acme := mfrs[0]
	if acme.ManufacturerID != "acme-foods-inc" || acme.Slug != acme.ManufacturerID {
		t.Errorf("id = %q slug = %q", acme.ManufacturerID, acme.Slug)
	}
	if acme.Name != "Acme Foods, Inc." {
		t.Errorf("name = %q, want first-seen trimmed spelling", acme.Name)
	}
	if acme.RecallCount != 3 {
		t.Errorf("count = %d, want 3", acme.RecallCount)
	}
	if acme.LatestRecallDate == nil || *acme.LatestRecallDate != "2023-11-30" {
		t.Errorf("latest = %v, want 2023-11-30", acme.LatestRecallDate)
	}

	zeta := mfrs[1]
	if zeta.ManufacturerID != "zeta-corp" || zeta.LatestRecallDate != nil {
		t.Errorf("zeta = %+v", zeta)
	}
}

func TestLinkManufacturers(t *testing.T) {
	recalls := []models.Recall{
		{RecallingFirm: "Acme"},
		{RecallingFirm: ""},
		{RecallingFirm: "Other"},
	}
	mfrs := []models.Manufacturer{{ManufacturerID: "acme", Slug: "acme"}}
	LinkManufacturers(recalls, mfrs)

	if recalls[0].ManufacturerID == nil || *recalls[0].ManufacturerID != "acme" {
		t.Errorf("recall 0 not linked: %v", recalls[0].ManufacturerID)
	}
	if recalls[1].ManufacturerID != nil {
		t.Errorf("blank firm linked to %q", *recalls[1].ManufacturerID)
	}
	if recalls[2].ManufacturerID != nil {
		t.Errorf("unknown firm linked to %q", *recalls[2].ManufacturerID)
	}
}

func TestComputeStats(t *testing.T) {
	recalls := []models.Recall{
		{DateReported: date("2021-03-01")},
		{DateReported: date("2023-01-01")},
		{DateReported: date("2023-12-31")},
		{},
		{DateReported: date("2019-06-15")},
	}
	stats := ComputeStats(recalls)

	if stats.TotalRecalls != 5 {
		t.Errorf("total = %d, want 5", stats.TotalRecalls)
	}
	if stats.YearMin == nil || *stats.YearMin != "2019" {
		t.Errorf("year_min = %v", stats.YearMin)
	}
	if stats.YearMax == nil || *stats.YearMax != "2023" {
		t.Errorf("year_max = %v", stats.YearMax)
	}

	want := []models.YearCount{{Year: "2023", Count: 2}, {Year: "2021", Count: 1}, {Year: "2019", Count: 1}}
	if len(stats.RecallsByYear) != len(want) {
		t.Fatalf("histogram = %+v", stats.RecallsByYear)
	}
	for i, yc := range want {
		if stats.RecallsByYear[i] != yc {
			t.Errorf("histogram[%d] = %+v, want %+v", i, stats.RecallsByYear[i], yc)
		}
	}
}

func TestComputeStats_NoDates(t *testing.T) {
	stats := ComputeStats([]models.Recall{{}, {}})
	if stats.TotalRecalls != 2 {
		t.Errorf("total = %d", stats.TotalRecalls)
	}
	if stats.YearMin != nil || stats.YearMax != nil {
		t.Errorf("expected nil year bounds, got %v %v", stats.YearMin, stats.YearMax)
	}
	if stats.RecallsByYear == nil || len(stats.RecallsByYear) != 0 {
		t.Errorf("histogram = %#v, want empty non-nil", stats.RecallsByYear)
	}
}

func TestRun(t *testing.T) {
	recalls := []models.Recall{
		{Agency: models.AgencyCPSC, CategoryID: "children", RecallingFirm: "Toyco"},
		{Agency: models.AgencyCPSC, CategoryID: "household", RecallingFirm: "Toyco"},
		{Agency: models.AgencyNHTSA, CategoryID: "vehicles"},
	}
	res := Run(recalls)

	if res.AgencyCounts[models.AgencyCPSC] != 2 || res.AgencyCounts[models.AgencyNHTSA] != 1 {
		t.Errorf("agency counts = %v", res.AgencyCounts)
	}
	if res.CategoryCounts["children"] != 1 || res.CategoryCounts["vehicles"] != 1 {
		t.Errorf("category counts = %v", res.CategoryCounts)
	}

	// sum(manufacturers.recall_count) <= recalls with a firm
	sum, withFirm := 0, 0
	for _, m := range res.Manufacturers {
		sum += m.RecallCount
	}
	for _, r := range recalls {
		if r.RecallingFirm != "" {
			withFirm++
		}
		if (r.RecallingFirm != "") != (r.ManufacturerID != nil) {
			t.Errorf("manufacturer link mismatch for firm %q", r.RecallingFirm)
		}
	}
	if sum > withFirm {
		t.Errorf("manufacturer total %d exceeds %d recalls with a firm", sum, withFirm)
	}

	rows := AgencyRows(res.AgencyCounts)
	if len(rows) != len(models.Agencies) {
		t.Fatalf("agency rows = %d", len(rows))
	}
	for _, a := range rows {
		if a.RecallCount != res.AgencyCounts[a.AgencyID] {
			t.Errorf("%s count = %d", a.AgencyID, a.RecallCount)
		}
	}
	if models.Agencies[3].RecallCount != 0 {
		t.Error("AgencyRows mutated models.Agencies")
	}
}
