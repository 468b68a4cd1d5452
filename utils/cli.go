package utils

import (
	"strconv"
	"strings"
)

// GetEntries splits a comma separated CLI argument into its trimmed parts,
// ignoring empty segments.
func GetEntries(arg string) []string {
	if arg == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(arg, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// GetEntriesInt parses a comma separated list of MFT entry numbers. Entries
// that fail to parse are skipped rather than aborting the whole selection.
func GetEntriesInt(arg string) []int {
	var out []int
	for _, part := range GetEntries(arg) {
		n, err := strconv.Atoi(part)
		if err != nil {
			continue
		}
		out = append(out, n)
	}
	return out
}
