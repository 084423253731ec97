package ingest

import (
	"regexp"
	"strings"
	"time"
)

var (
	compactDate = regexp.MustCompile(`^\d{8}$`)
	slashDate   = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	isoDate     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// NormalizeDate converts the date shapes found across sources to
// YYYY-MM-DD:
//
//	20230615             -> 2023-06-15 (FDA)
//	15/06/2023           -> 2023-06-15 (day/month/year, NHTSA)
//	2023-06-15T00:00:00  -> 2023-06-15 (ISO datetime, CPSC)
//	2023-06-15           -> 2023-06-15
//
// Anything else, including impossible calendar dates, is nil. Manufacturer
// roll-ups compare these strings lexically, so only zero-padded ISO dates
// may leave this function.
func NormalizeDate(raw string) *string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var out string
	switch {
	case compactDate.MatchString(s):
		out = s[0:4] + "-" + s[4:6] + "-" + s[6:8]
	case slashDate.MatchString(s):
		parts := strings.Split(s, "/")
		out = parts[2] + "-" + parts[1] + "-" + parts[0]
	case strings.Contains(s, "T"):
		out, _, _ = strings.Cut(strings.TrimLeft(s, "T"), "T")
	default:
		out = s
	}

	if !isoDate.MatchString(out) {
		return nil
	}
	if _, err := time.Parse(time.DateOnly, out); err != nil {
		return nil
	}
	return &out
}
