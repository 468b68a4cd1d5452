package mft

import (
	"context"
	"fmt"

	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/logger"
	"github.com/aarsakian/ntfsforensics/progress"
)

// Table decodes a range of $MFT entries, read one by one through its Reader
// from the volume, into MftRecords, tallying structural errors per §7.
type Table struct {
	Reader  *Reader
	Records []MftRecord
	Tally   *errs.Tally
}

func NewTable(reader *Reader) *Table {
	return &Table{Reader: reader, Tally: errs.NewTally()}
}

// DecodeRange decodes entries fromEntry..toEntry (inclusive), or every
// entry up to entryCount when toEntry < 0. Corrupt entries are recovered
// locally: skipped from the output unless includeDeleted is set, in which
// case they are emitted with Corrupt=true and a note. ctx is polled once per
// entry (a record boundary); a cancelled context stops the pass early with
// whatever records were already decoded, counted under errs.Cancelled.
func (t *Table) DecodeRange(ctx context.Context, entryCount int, fromEntry, toEntry int, includeDeleted bool, rp progress.Reporter) {
	if toEntry < 0 || toEntry >= entryCount {
		toEntry = entryCount - 1
	}
	if fromEntry < 0 {
		fromEntry = 0
	}

	rp.Begin(toEntry - fromEntry + 1)
	for n := fromEntry; n <= toEntry; n++ {
		if ctx.Err() != nil {
			t.Tally.Add(errs.Cancelled)
			break
		}
		record, err := t.Reader.ReadEntry(uint32(n))
		if err != nil {
			if fe, ok := err.(*errs.Error); ok {
				t.Tally.Add(fe.Kind)
			}
			logger.NtfsForensicsLogger.Warning(fmt.Sprintf("entry %d: %v", n, err))
		}
		if record.Corrupt && !includeDeleted {
			rp.Advance(1)
			continue
		}
		t.Records = append(t.Records, Decode(record))
		rp.Advance(1)
	}
	rp.End()
}

// ByEntry returns the decoded record for entry n, or false if it wasn't
// selected/decoded in this pass.
func (t Table) ByEntry(n uint32) (MftRecord, bool) {
	for _, r := range t.Records {
		if r.EntryNumber == n {
			return r, true
		}
	}
	return MftRecord{}, false
}
