// Package identity gives every recall a stable recall_id and a unique slug,
// then drops repeated recall_ids.
package identity

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxSlugLen caps a slug base before collision suffixes are added.
const MaxSlugLen = 200

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses every run of characters outside
// [a-z0-9] into one hyphen, trims hyphens at both ends and caps the
// result at MaxSlugLen bytes.
func Slugify(s string) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(s), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > MaxSlugLen {
		slug = slug[:MaxSlugLen]
	}
	return slug
}

// SlugSet tracks the slugs handed out during one run. Build a fresh one
// per run; it is not safe for concurrent use.
type SlugSet struct {
	used map[string]struct{}
}

func NewSlugSet() *SlugSet {
	return &SlugSet{used: make(map[string]struct{})}
}

// Claim returns base if unused, otherwise the first free base-1, base-2, ...
// and marks the returned slug as used.
func (s *SlugSet) Claim(base string) string {
	slug := base
	for i := 1; s.Has(slug); i++ {
		slug = base + "-" + strconv.Itoa(i)
	}
	s.used[slug] = struct{}{}
	return slug
}

func (s *SlugSet) Has(slug string) bool {
	_, ok := s.used[slug]
	return ok
}

func (s *SlugSet) Len() int { return len(s.used) }
