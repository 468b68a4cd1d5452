// Package filters implements the file-selection boundary named in the
// record sink discussion: narrowing a decoded record stream before it
// reaches a RecordSink. Selection logic is explicitly a boundary concern,
// so these operate on the already-decoded []mft.MftRecord slice rather than
// reaching back into the decoder.
package filters

import (
	"strings"

	"github.com/aarsakian/ntfsforensics/mft"
)

// Filter narrows a decoded record slice.
type Filter interface {
	Execute(records []mft.MftRecord) []mft.MftRecord
}

// NameFilter keeps only records whose FileName is in Filenames.
type NameFilter struct {
	Filenames []string
}

func (f NameFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	var out []mft.MftRecord
	for _, r := range records {
		for _, name := range f.Filenames {
			if strings.EqualFold(r.FileName, name) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// PathFilter keeps only records whose resolved FullPath starts with NamePath.
// Requires IncludePath to have been set on the decoding pass; records with
// an empty FullPath never match.
type PathFilter struct {
	NamePath string
}

func (f PathFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	var out []mft.MftRecord
	for _, r := range records {
		if r.FullPath != "" && strings.HasPrefix(r.FullPath, f.NamePath) {
			out = append(out, r)
		}
	}
	return out
}

// ExtensionsFilter keeps only records whose FileName ends in one of
// Extensions (each compared case-insensitively, with or without a leading
// dot).
type ExtensionsFilter struct {
	Extensions []string
}

func (f ExtensionsFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	var out []mft.MftRecord
	for _, r := range records {
		for _, ext := range f.Extensions {
			ext = strings.TrimPrefix(ext, ".")
			if strings.HasSuffix(strings.ToLower(r.FileName), "."+strings.ToLower(ext)) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// OrphansFilter keeps only records whose resolved path carries the
// "<orphan>" marker left by a stale-parent resolution.
type OrphansFilter struct {
	Include bool
}

func (f OrphansFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	if !f.Include {
		return records
	}
	var out []mft.MftRecord
	for _, r := range records {
		if strings.HasPrefix(r.FullPath, "<orphan>") {
			out = append(out, r)
		}
	}
	return out
}

// DeletedFilter keeps only records with the in-use flag cleared.
type DeletedFilter struct {
	Include bool
}

func (f DeletedFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	if !f.Include {
		return records
	}
	var out []mft.MftRecord
	for _, r := range records {
		if !r.InUse {
			out = append(out, r)
		}
	}
	return out
}

// FoldersFilter drops directory entries unless Include is set.
type FoldersFilter struct {
	Include bool
}

func (f FoldersFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	if f.Include {
		return records
	}
	var out []mft.MftRecord
	for _, r := range records {
		if !r.IsDirectory {
			out = append(out, r)
		}
	}
	return out
}

// PrefixesSuffixesFilter keeps only records whose FileName has one of the
// given prefix/suffix pairs (matched positionally).
type PrefixesSuffixesFilter struct {
	Prefixes []string
	Suffixes []string
}

func (f PrefixesSuffixesFilter) Execute(records []mft.MftRecord) []mft.MftRecord {
	var out []mft.MftRecord
	for _, r := range records {
		for i, prefix := range f.Prefixes {
			suffix := ""
			if i < len(f.Suffixes) {
				suffix = f.Suffixes[i]
			}
			if strings.HasPrefix(r.FileName, prefix) && strings.HasSuffix(r.FileName, suffix) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
