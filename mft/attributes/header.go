// Package attributes decodes MFT attribute headers and their resident
// content into a tagged variant, replacing runtime type-dispatch with a
// small table keyed on the NTFS attribute type code.
package attributes

import "github.com/aarsakian/ntfsforensics/utils"

// TypeCode is the raw NTFS attribute type code.
type TypeCode uint32

const (
	TypeStandardInformation TypeCode = 0x10
	TypeAttributeList       TypeCode = 0x20
	TypeFileName            TypeCode = 0x30
	TypeData                TypeCode = 0x80
	typeTerminator          TypeCode = 0xFFFFFFFF
)

// Header is the common attribute record header shared by resident and
// non-resident variants, plus whichever of the two variant-specific blocks
// applies.
type Header struct {
	Type        TypeCode
	RecordLen   uint32
	NonResident bool
	NameLength  uint8
	NameOffset  uint16
	Flags       uint16
	ID          uint16
	Name        string

	// resident
	ValueLength uint32
	ValueOffset uint16

	// non-resident
	StartVCN           uint64
	LastVCN            uint64
	MappingPairsOffset uint16
	CompressionUnit    uint16
	AllocatedSize      uint64
	RealSize           uint64
	InitializedSize    uint64
	RawMappingPairs    []byte
}

// ParseHeader decodes the common 16-byte header at the start of data and,
// depending on NonResident, the resident (offsets 16-23) or non-resident
// (offsets 16-63) block that follows. It returns the decoded header, or an
// error when data is too short for the block it declares; advancing past
// the attribute by RecordLen is left to the caller.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < 16 {
		return Header{}, errShortHeader
	}
	var h Header
	h.Type = TypeCode(utils.ReadLE(data, 0, 4))
	h.RecordLen = uint32(utils.ReadLE(data, 4, 4))
	h.NonResident = data[8] != 0
	h.NameLength = data[9]
	h.NameOffset = uint16(utils.ReadLE(data, 10, 2))
	h.Flags = uint16(utils.ReadLE(data, 12, 2))
	h.ID = uint16(utils.ReadLE(data, 14, 2))

	if h.NonResident {
		if len(data) < 64 {
			return h, errShortHeader
		}
		h.StartVCN = utils.ReadLE(data, 16, 8)
		h.LastVCN = utils.ReadLE(data, 24, 8)
		h.MappingPairsOffset = uint16(utils.ReadLE(data, 32, 2))
		h.CompressionUnit = uint16(utils.ReadLE(data, 34, 2))
		h.AllocatedSize = utils.ReadLE(data, 40, 8)
		if h.StartVCN == 0 {
			h.RealSize = utils.ReadLE(data, 48, 8)
			h.InitializedSize = utils.ReadLE(data, 56, 8)
		} else {
			h.RealSize = h.AllocatedSize
			h.InitializedSize = h.AllocatedSize
		}
		if start, end := int(h.MappingPairsOffset), int(h.RecordLen); start >= 0 && end <= len(data) && end >= start {
			h.RawMappingPairs = append([]byte(nil), data[start:end]...)
		}
	} else {
		if len(data) < 24 {
			return h, errShortHeader
		}
		h.ValueLength = uint32(utils.ReadLE(data, 16, 4))
		h.ValueOffset = uint16(utils.ReadLE(data, 20, 2))
	}

	if h.NameLength > 0 && int(h.NameOffset)+2*int(h.NameLength) <= len(data) {
		h.Name = utils.DecodeUTF16(data[h.NameOffset : int(h.NameOffset)+2*int(h.NameLength)])
	}
	return h, nil
}

// IsTerminator reports whether the 4 bytes at the current cursor are the
// 0xFFFFFFFF attribute-list terminator.
func IsTerminator(data []byte) bool {
	return len(data) >= 4 && TypeCode(utils.ReadLE(data, 0, 4)) == typeTerminator
}

// ResidentValue slices out the resident value bytes described by h from the
// attribute's raw record bytes.
func (h Header) ResidentValue(record []byte) []byte {
	start := int(h.ValueOffset)
	end := start + int(h.ValueLength)
	if start < 0 || end > len(record) || end < start {
		return nil
	}
	return record[start:end]
}

