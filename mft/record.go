package mft

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/mft/attributes"
	"github.com/aarsakian/ntfsforensics/utils"
)

// Record is one decoded MFT entry header plus its resolved attribute list
// (base record attributes plus any extension-record attributes folded in by
// the MftReader's $ATTRIBUTE_LIST walk).
type Record struct {
	Entry       uint32
	Sequence    uint16
	Signature   string
	Corrupt     bool
	LinkCount   uint16
	Flags       uint16
	UsedSize    uint32
	AllocSize   uint32
	BaseRef     uint32
	BaseSeq     uint16
	NextAttrID  uint16
	Attributes  []attributes.Attribute
}

func (r Record) InUse() bool       { return r.Flags&0x1 != 0 }
func (r Record) IsDirectory() bool { return r.Flags&0x2 != 0 }
func (r Record) IsBase() bool      { return r.BaseRef == 0 }

// FindAttribute returns the first attribute of the given kind, or nil.
func (r Record) FindAttribute(kind attributes.Kind) *attributes.Attribute {
	for i := range r.Attributes {
		if r.Attributes[i].Kind == kind {
			return &r.Attributes[i]
		}
	}
	return nil
}

// FileNames returns every $FILE_NAME attribute's decoded value.
func (r Record) FileNames() []*attributes.FileName {
	var names []*attributes.FileName
	for i := range r.Attributes {
		if r.Attributes[i].Kind == attributes.KindFileName && r.Attributes[i].FileName != nil {
			names = append(names, r.Attributes[i].FileName)
		}
	}
	return names
}

// parseRecordHeader decodes the fixed MFT entry header (the fields common to
// every entry regardless of version); raw must already be fixed up.
func parseRecordHeader(raw []byte) (Record, error) {
	if len(raw) < 48 {
		return Record{}, errs.New(errs.BadBootSector, "mft entry shorter than fixed header")
	}
	signature := string(raw[0:4])
	r := Record{
		Signature:  signature,
		Corrupt:    signature != "FILE",
		Sequence:   uint16(utils.ReadLE(raw, 16, 2)),
		LinkCount:  uint16(utils.ReadLE(raw, 18, 2)),
		Flags:      uint16(utils.ReadLE(raw, 22, 2)),
		UsedSize:   uint32(utils.ReadLE(raw, 24, 4)),
		AllocSize:  uint32(utils.ReadLE(raw, 28, 4)),
		NextAttrID: uint16(utils.ReadLE(raw, 40, 2)),
	}
	baseRef := utils.ReadLE(raw, 32, 8)
	r.BaseRef = uint32(baseRef & 0x0000FFFFFFFFFFFF)
	r.BaseSeq = uint16(baseRef >> 48)
	if signature != "FILE" && signature != "BAAD" {
		r.Corrupt = true
	}
	return r, nil
}

// attrOffset reads the first-attribute offset (@20) out of a fixed-up entry.
func attrOffset(raw []byte) uint16 {
	return uint16(utils.ReadLE(raw, 20, 2))
}

// walkAttributes decodes every attribute record starting at off until the
// 0xFFFFFFFF terminator or exhaustion of usedSize/len(raw).
func walkAttributes(raw []byte, off uint16, usedSize uint32) ([]attributes.Attribute, error) {
	var out []attributes.Attribute
	pos := int(off)
	limit := len(raw)
	if int(usedSize) > 0 && int(usedSize) < limit {
		limit = int(usedSize)
	}

	for pos+4 <= limit {
		if attributes.IsTerminator(raw[pos:]) {
			break
		}
		attr, err := attributes.Decode(raw[pos:], raw[pos:])
		if err != nil || attr.Header.RecordLen == 0 {
			break
		}
		out = append(out, attr)
		pos += int(attr.Header.RecordLen)
	}
	return out, nil
}
