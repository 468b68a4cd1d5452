package filtermanager

import (
	"testing"

	"github.com/aarsakian/ntfsforensics/filters"
	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/stretchr/testify/assert"
)

func TestApplyFiltersChainsInRegistrationOrder(t *testing.T) {
	records := []mft.MftRecord{
		{FileName: "report.docx", IsDirectory: false, InUse: true},
		{FileName: "report.txt", IsDirectory: false, InUse: true},
		{FileName: "Photos", IsDirectory: true, InUse: true},
	}

	var fm FilterManager
	fm.Register(filters.ExtensionsFilter{Extensions: []string{"docx", "txt"}})
	fm.Register(filters.FoldersFilter{Include: false})

	out := fm.ApplyFilters(records)
	assert.Len(t, out, 2)
	for _, r := range out {
		assert.False(t, r.IsDirectory)
	}
}

func TestApplyFiltersNoneRegisteredIsIdentity(t *testing.T) {
	records := []mft.MftRecord{{FileName: "a"}, {FileName: "b"}}
	var fm FilterManager
	out := fm.ApplyFilters(records)
	assert.Equal(t, records, out)
}

func TestApplyFiltersEmptyResultStaysEmpty(t *testing.T) {
	records := []mft.MftRecord{{FileName: "a"}}
	var fm FilterManager
	fm.Register(filters.NameFilter{Filenames: []string{"nonexistent"}})
	fm.Register(filters.FoldersFilter{Include: true})

	out := fm.ApplyFilters(records)
	assert.Empty(t, out)
}
