// Package aggregate derives the roll-up tables and global statistics from
// the final, deduplicated recall set.
package aggregate

import (
	"sort"
	"strings"

	"plainrecalls/internal/identity"
	"plainrecalls/pkg/models"
)

// Result bundles everything the store writer needs besides the recalls.
type Result struct {
	Manufacturers  []models.Manufacturer
	CategoryCounts map[string]int
	AgencyCounts   map[string]int
	Stats          models.Stats
}

// firmSlug returns the manufacturer key for a recalling firm, or "" when the
// firm is blank or has no slug-able characters.
func firmSlug(firm string) string {
	firm = strings.TrimSpace(firm)
	if firm == "" {
		return ""
	}
	return identity.Slugify(firm)
}

// Manufacturers groups recalls by slugified firm name. The first spelling
// seen becomes the display name; rows are returned in first-seen order.
// latest_recall_date is the greatest date_reported string, which is the
// latest date as long as dates are zero-padded YYYY-MM-DD.
func Manufacturers(recalls []models.Recall) []models.Manufacturer {
	index := make(map[string]int)
	var out []models.Manufacturer

	for _, r := range recalls {
		slug := firmSlug(r.RecallingFirm)
		if slug == "" {
			continue
		}
		i, ok := index[slug]
		if !ok {
			i = len(out)
			index[slug] = i
			out = append(out, models.Manufacturer{
				ManufacturerID: slug,
				Name:           strings.TrimSpace(r.RecallingFirm),
				Slug:           slug,
			})
		}
		m := &out[i]
		m.RecallCount++
		if d := r.DateReported; d != nil && *d != "" {
			if m.LatestRecallDate == nil || *d > *m.LatestRecallDate {
				latest := *d
				m.LatestRecallDate = &latest
			}
		}
	}
	return out
}

// LinkManufacturers sets ManufacturerID on every recall whose firm slug is
// present in mfrs.
func LinkManufacturers(recalls []models.Recall, mfrs []models.Manufacturer) {
	known := make(map[string]struct{}, len(mfrs))
	for _, m := range mfrs {
		known[m.ManufacturerID] = struct{}{}
	}
	for i := range recalls {
		slug := firmSlug(recalls[i].RecallingFirm)
		if _, ok := known[slug]; ok && slug != "" {
			id := slug
			recalls[i].ManufacturerID = &id
		} else {
			recalls[i].ManufacturerID = nil
		}
	}
}

func CategoryCounts(recalls []models.Recall) map[string]int {
	counts := make(map[string]int)
	for _, r := range recalls {
		counts[r.CategoryID]++
	}
	return counts
}

func AgencyCounts(recalls []models.Recall) map[string]int {
	counts := make(map[string]int)
	for _, r := range recalls {
		counts[r.Agency]++
	}
	return counts
}

// ComputeStats returns the total count, the min/max year prefix of
// date_reported and a year-descending histogram. Recalls without a date
// only count towards the total; with no dated recall at all YearMin and
// YearMax stay nil and the histogram is empty.
func ComputeStats(recalls []models.Recall) models.Stats {
	stats := models.Stats{
		TotalRecalls:  len(recalls),
		RecallsByYear: []models.YearCount{},
	}

	byYear := make(map[string]int)
	for _, r := range recalls {
		if r.DateReported == nil || len(*r.DateReported) < 4 {
			continue
		}
		byYear[(*r.DateReported)[:4]]++
	}
	if len(byYear) == 0 {
		return stats
	}

	for year, n := range byYear {
		stats.RecallsByYear = append(stats.RecallsByYear, models.YearCount{Year: year, Count: n})
	}
	sort.Slice(stats.RecallsByYear, func(i, j int) bool {
		return stats.RecallsByYear[i].Year > stats.RecallsByYear[j].Year
	})

	newest := stats.RecallsByYear[0].Year
	oldest := stats.RecallsByYear[len(stats.RecallsByYear)-1].Year
	stats.YearMax = &newest
	stats.YearMin = &oldest
	return stats
}

// Run computes every aggregate and links manufacturers back into recalls.
func Run(recalls []models.Recall) Result {
	mfrs := Manufacturers(recalls)
	LinkManufacturers(recalls, mfrs)
	return Result{
		Manufacturers:  mfrs,
		CategoryCounts: CategoryCounts(recalls),
		AgencyCounts:   AgencyCounts(recalls),
		Stats:          ComputeStats(recalls),
	}
}

// AgencyRows returns models.Agencies with RecallCount filled from counts.
func AgencyRows(counts map[string]int) []models.Agency {
	rows := make([]models.Agency, len(models.Agencies))
	copy(rows, models.Agencies)
	for i := range rows {
		rows[i].RecallCount = counts[rows[i].AgencyID]
	}
	return rows
}
