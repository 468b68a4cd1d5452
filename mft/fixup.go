package mft

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/utils"
)

// applyFixup verifies and restores the per-sector update-sequence slots of
// one raw MFT entry in place (S1). usaOffset/usaCount come from the entry's
// own header (offsets 4 and 6). Returns FixupMismatch if any sector's
// fingerprint slot disagrees with usa[0].
func applyFixup(raw []byte, usaOffset uint16, usaCount uint16, bytesPerSector int) error {
	if bytesPerSector <= 0 || int(usaOffset)+2*int(usaCount) > len(raw) {
		return errs.New(errs.FixupMismatch, "update sequence array out of bounds")
	}
	usn := raw[usaOffset : usaOffset+2]

	for i := 1; i < int(usaCount); i++ {
		slotEnd := i * bytesPerSector
		slotStart := slotEnd - 2
		if slotEnd > len(raw) {
			break
		}
		if raw[slotStart] != usn[0] || raw[slotStart+1] != usn[1] {
			return errs.Newf(errs.FixupMismatch, "sector %d fingerprint mismatch", i-1)
		}
		original := raw[usaOffset+2*uint16(i) : usaOffset+2*uint16(i)+2]
		raw[slotStart] = original[0]
		raw[slotStart+1] = original[1]
	}
	return nil
}

// entryUSAFields reads the update-sequence array offset/count out of a raw
// entry's common header (the same offsets 4 and 6 that $LogFile RSTR/RCRD
// page headers use for their own fixup).
func entryUSAFields(raw []byte) (offset uint16, count uint16) {
	return uint16(utils.ReadLE(raw, 4, 2)), uint16(utils.ReadLE(raw, 6, 2))
}
