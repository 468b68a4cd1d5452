// Package filtermanager chains filters.Filter selections into one pass over
// a decoded record stream.
package filtermanager

import (
	"github.com/aarsakian/ntfsforensics/filters"
	"github.com/aarsakian/ntfsforensics/mft"
)

type FilterManager struct {
	filters []filters.Filter
}

func (fm *FilterManager) Register(filter filters.Filter) {
	fm.filters = append(fm.filters, filter)
}

func (fm FilterManager) ApplyFilters(records []mft.MftRecord) []mft.MftRecord {
	for _, filter := range fm.filters {
		records = filter.Execute(records)
	}
	return records
}
