// Package reporter prints a human-readable dump of decoded records to
// stdout, independent of the RecordSink boundary's CSV/JSON serializers —
// a debugging aid rather than an analyst deliverable.
package reporter

import (
	"fmt"

	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/usnjrnl"
)

type Reporter struct {
	ShowTimestamps bool
	ShowParent     bool
	ShowPath       bool
}

func (rp Reporter) ShowMftRecords(records []mft.MftRecord) {
	for _, r := range records {
		fmt.Printf("entry %d: %q", r.EntryNumber, r.FileName)
		if rp.ShowParent {
			fmt.Printf(" parent=%d", r.ParentEntryNumber)
		}
		if rp.ShowPath && r.FullPath != "" {
			fmt.Printf(" path=%s", r.FullPath)
		}
		if rp.ShowTimestamps {
			fmt.Printf(" created=%s modified=%s", r.SITimes.Created.ConvertToIsoTime(), r.SITimes.Modified.ConvertToIsoTime())
		}
		if r.Corrupt {
			fmt.Printf(" corrupt note=%q", r.Note)
		}
		fmt.Println()
	}
}

func (rp Reporter) ShowUsnEvents(events []usnjrnl.Event) {
	for _, e := range events {
		fmt.Printf("usn %d: %s %q\n", e.USN, e.EventName, e.FileName)
	}
}
