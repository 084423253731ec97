// Package ingest loads the raw per-source JSON dumps and maps every record
// into the canonical models.Recall shape.
package ingest

import "plainrecalls/pkg/models"

// Source is implemented by each upstream data source family. A source
// knows the file its fetcher writes and how to map one raw record of that
// file into a Recall. Normalize must never fail: missing or oddly typed
// fields degrade to "" / nil / the default severity.
type Source interface {
	Name() string
	File() string
	Normalize(rec Record) models.Recall
}

// DefaultSources returns the sources in concatenation order. Slug
// collision suffixes and first-wins dedup depend on this order.
func DefaultSources() []Source {
	return []Source{
		FDA{Agency: models.AgencyFDAFood},
		FDA{Agency: models.AgencyFDADrug},
		FDA{Agency: models.AgencyFDADevice},
		CPSC{},
		NHTSA{},
		USDA{},
	}
}
