package identity

import (
	"plainrecalls/pkg/models"
)

// titlePrefixLen is how much of the title goes into a slug base.
const titlePrefixLen = 80

// BaseSlug derives the slug base for r before collision resolution.
func BaseSlug(r models.Recall) string {
	title := r.Title
	if runes := []rune(title); len(runes) > titlePrefixLen {
		title = string(runes[:titlePrefixLen])
	}

	if base := Slugify(r.RecallNumber + "-" + title); base != "" {
		return base
	}
	if base := Slugify(r.RecallNumber); base != "" {
		return base
	}
	return "unknown"
}

// Assign fills Slug and RecallID for every record, in slice order.
// Collision suffixes depend on that order, so callers must pass records in
// source concatenation order to get reproducible slugs.
func Assign(recalls []models.Recall, slugs *SlugSet) {
	for i := range recalls {
		r := &recalls[i]
		r.Slug = slugs.Claim(BaseSlug(*r))

		key := r.RecallNumber
		if key == "" {
			key = r.Slug
		}
		r.RecallID = r.Agency + "-" + key
	}
}

// Dedupe keeps the first record for each RecallID and drops later ones,
// preserving order. A reused upstream number therefore hides a later
// re-issue; records are never merged.
func Dedupe(recalls []models.Recall) []models.Recall {
	seen := make(map[string]struct{}, len(recalls))
	out := make([]models.Recall, 0, len(recalls))
	for _, r := range recalls {
		if _, dup := seen[r.RecallID]; dup {
			continue
		}
		seen[r.RecallID] = struct{}{}
		out = append(out, r)
	}
	return out
}
