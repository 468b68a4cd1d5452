package attributes

import "github.com/aarsakian/ntfsforensics/utils"

// AttributeListEntry is one entry of a $ATTRIBUTE_LIST (0x20) resident
// value: it names an attribute living (possibly) in a different MFT record
// and the reference of that record.
type AttributeListEntry struct {
	Type          TypeCode
	Length        uint16
	NameLength    uint8
	NameOffset    uint8
	StartVCN      uint64
	RefEntry      uint32
	RefSeq        uint16
	ID            uint16
	Name          string
}

// parseAttributeList walks the fixed 26-byte-header entries of a resident
// $ATTRIBUTE_LIST value, each followed by an optional UTF-16 name and
// advancing by its own declared Length (entries are not uniformly sized).
func parseAttributeList(value []byte) []AttributeListEntry {
	var entries []AttributeListEntry
	pos := 0
	for pos+26 <= len(value) {
		entryLen := int(utils.ReadLE(value, pos+4, 2))
		if entryLen < 26 {
			break
		}
		ref := utils.ReadLE(value, pos+16, 8)
		e := AttributeListEntry{
			Type:       TypeCode(utils.ReadLE(value, pos, 4)),
			Length:     uint16(entryLen),
			NameLength: value[pos+6],
			NameOffset: value[pos+7],
			StartVCN:   utils.ReadLE(value, pos+8, 8),
			RefEntry:   uint32(ref & 0x0000FFFFFFFFFFFF),
			RefSeq:     uint16(ref >> 48),
			ID:         uint16(utils.ReadLE(value, pos+24, 2)),
		}
		if e.NameLength > 0 {
			nameStart := pos + int(e.NameOffset)
			nameEnd := nameStart + 2*int(e.NameLength)
			if nameEnd <= len(value) {
				e.Name = utils.DecodeUTF16(value[nameStart:nameEnd])
			}
		}
		entries = append(entries, e)
		if entryLen == 0 {
			break
		}
		pos += entryLen
	}
	return entries
}
