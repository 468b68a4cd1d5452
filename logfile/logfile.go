// Package logfile implements the thin $LogFile record walker described as
// an open area: the restart area and record page header walk are decoded,
// but transaction-level redo/undo semantics are not (see the design notes
// on LogFile in the top-level documentation).
package logfile

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/utils"
)

const pageSize = 4096

// RestartPage is the RSTR page header: log geometry and the current LSN at
// the time the journal was last flushed.
type RestartPage struct {
	SystemPageSize uint32
	LogPageSize    uint32
	RestartOffset  uint16
	MinorVersion   uint16
	MajorVersion   uint16
	CurrentLSN     uint64
	LogClients     uint16
}

// RecordPage is one RCRD page's common header; individual log records within
// the page are not decoded (see package doc).
type RecordPage struct {
	PageOffset       int64
	LastLSN          uint64
	Flags            uint32
	PageCount        uint16
	PagePosition     uint16
	NextRecordOffset uint16
	LastEndLSN       uint64
}

// Walk parses every RSTR and RCRD page in a reconstituted $LogFile byte
// stream, applying fixup to each page before reading its header.
func Walk(data []byte) (restarts []RestartPage, records []RecordPage) {
	for offset := 0; offset+pageSize <= len(data); offset += pageSize {
		page := make([]byte, pageSize)
		copy(page, data[offset:offset+pageSize])

		signature := string(page[0:4])
		switch signature {
		case "RSTR":
			if err := applyPageFixup(page); err != nil {
				continue
			}
			restarts = append(restarts, parseRestartPage(page))
		case "RCRD":
			if err := applyPageFixup(page); err != nil {
				continue
			}
			rp := parseRecordPage(page)
			rp.PageOffset = int64(offset)
			records = append(records, rp)
		}
	}
	return restarts, records
}

func parseRestartPage(page []byte) RestartPage {
	return RestartPage{
		SystemPageSize: uint32(utils.ReadLE(page, 0x10, 4)),
		LogPageSize:    uint32(utils.ReadLE(page, 0x14, 4)),
		RestartOffset:  uint16(utils.ReadLE(page, 0x18, 2)),
		MinorVersion:   uint16(utils.ReadLE(page, 0x1A, 2)),
		MajorVersion:   uint16(utils.ReadLE(page, 0x1C, 2)),
		CurrentLSN:     utils.ReadLE(page, 0x30, 8),
		LogClients:     uint16(utils.ReadLE(page, 0x38, 2)),
	}
}

func parseRecordPage(page []byte) RecordPage {
	return RecordPage{
		LastLSN:          utils.ReadLE(page, 0x08, 8),
		Flags:            uint32(utils.ReadLE(page, 0x10, 4)),
		PageCount:        uint16(utils.ReadLE(page, 0x14, 2)),
		PagePosition:     uint16(utils.ReadLE(page, 0x16, 2)),
		NextRecordOffset: uint16(utils.ReadLE(page, 0x18, 2)),
		LastEndLSN:       utils.ReadLE(page, 0x20, 8),
	}
}

// applyPageFixup mirrors the MFT entry fixup convention (S1): RSTR/RCRD
// pages carry the same update-sequence-array scheme, keyed off a 512-byte
// sector size rather than the volume's own bytes-per-sector, since $LogFile
// pages are sector-fixed regardless of cluster geometry.
func applyPageFixup(page []byte) error {
	usaOffset := uint16(utils.ReadLE(page, 4, 2))
	usaCount := uint16(utils.ReadLE(page, 6, 2))
	const sectorSize = 512

	if int(usaOffset)+2*int(usaCount) > len(page) {
		return errs.New(errs.FixupMismatch, "logfile page update sequence array out of bounds")
	}
	usn := page[usaOffset : usaOffset+2]
	for i := 1; i < int(usaCount); i++ {
		slotEnd := i * sectorSize
		slotStart := slotEnd - 2
		if slotEnd > len(page) {
			break
		}
		if page[slotStart] != usn[0] || page[slotStart+1] != usn[1] {
			return errs.Newf(errs.FixupMismatch, "logfile page sector %d fingerprint mismatch", i-1)
		}
		original := page[usaOffset+2*uint16(i) : usaOffset+2*uint16(i)+2]
		page[slotStart] = original[0]
		page[slotStart+1] = original[1]
	}
	return nil
}
