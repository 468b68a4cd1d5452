// Package pathresolver implements PathResolver: it builds and caches an
// entry# -> (name, parent_ref) mapping from decoded MFT entries and answers
// full-path queries used by both the MFT path-reconstruction pass and the
// (read-only, during that pass) USN pass.
package pathresolver

import (
	"fmt"
	"strings"

	"github.com/aarsakian/ntfsforensics/errs"
)

const rootEntry = 5

type node struct {
	name        string
	parentEntry uint32
	parentSeq   uint16
	sequence    uint16
}

// PathResolver is an arena of entry-indexed nodes with parent references as
// indices, never pointer graphs, so a cyclic path graph never leaks into a
// real cycle at the Go level — Resolve's own visited set is what terminates
// it (invariant 6 / S5).
type PathResolver struct {
	byEntry map[uint32]node
}

func New() *PathResolver {
	return &PathResolver{byEntry: make(map[uint32]node)}
}

// Add records one entry's chosen name and parent reference. Called once per
// decoded MFT record during the MFT pass; the cache is read-only afterwards.
func (pr *PathResolver) Add(entry uint32, sequence uint16, name string, parentEntry uint32, parentSeq uint16) {
	pr.byEntry[entry] = node{name: name, parentEntry: parentEntry, parentSeq: parentSeq, sequence: sequence}
}

// Sequence returns the cached sequence number for entry, if known.
func (pr *PathResolver) Sequence(entry uint32) (uint16, bool) {
	n, ok := pr.byEntry[entry]
	return n.sequence, ok
}

// Resolve walks the parent chain of entry until it reaches the volume root
// (entry 5, rendered "\"), returning the assembled path. A cycle in the
// parent chain terminates the walk with "<cycle>/<name@entry>" followed by
// the partial path walked so far, and PathCycle; invariant 6 guarantees this loop
// bound is at most the number of cached entries.
func (pr *PathResolver) Resolve(entry uint32) (string, *errs.Error) {
	visited := make(map[uint32]bool)
	var segments []string
	current := entry
	orphan := false

	for {
		if current == rootEntry {
			break
		}
		if visited[current] {
			path := strings.Join(reverse(segments), "\\")
			return fmt.Sprintf("<cycle>/<name@%d>%s", entry, prefixSep(path)), errs.New(errs.PathCycle, fmt.Sprintf("parent chain of entry %d cycles back to entry %d", entry, current))
		}
		visited[current] = true

		n, ok := pr.byEntry[current]
		if !ok {
			segments = append(segments, fmt.Sprintf("<unresolved:%d>", current))
			break
		}
		segments = append(segments, n.name)

		parentInfo, parentKnown := pr.byEntry[n.parentEntry]
		if parentKnown && parentInfo.sequence != n.parentSeq && n.parentEntry != current {
			orphan = true
		}

		current = n.parentEntry
	}

	path := "\\" + strings.Join(reverse(segments), "\\")
	if orphan {
		return "<orphan>" + path, errs.New(errs.StaleParent, fmt.Sprintf("entry %d has a stale parent reference", entry))
	}
	return path, nil
}

func prefixSep(path string) string {
	if path == "" {
		return ""
	}
	return "/" + path
}

func reverse(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[len(in)-1-i] = v
	}
	return out
}

// ResolveForUsn implements §4.8's USN-pass contract: if the file reference's
// sequence doesn't match the cached entry's sequence, the full path is left
// empty and only the bare name (supplied by the caller from the USN record
// itself) is meaningful.
func (pr *PathResolver) ResolveForUsn(entry uint32, sequence uint16) (fullPath string, ok bool) {
	n, known := pr.byEntry[entry]
	if !known || n.sequence != sequence {
		return "", false
	}
	path, _ := pr.Resolve(entry)
	return path, true
}
