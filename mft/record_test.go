package mft

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
)

func buildEntryHeader(signature string, flags uint16, usedSize, allocSize uint32, firstAttrOffset uint16) []byte {
	raw := make([]byte, 56)
	copy(raw[0:4], signature)
	binary.LittleEndian.PutUint16(raw[20:], firstAttrOffset)
	binary.LittleEndian.PutUint16(raw[16:], 1) // sequence
	binary.LittleEndian.PutUint16(raw[18:], 1) // link count
	binary.LittleEndian.PutUint16(raw[22:], flags)
	binary.LittleEndian.PutUint32(raw[24:], usedSize)
	binary.LittleEndian.PutUint32(raw[28:], allocSize)
	return raw
}

func TestParseRecordHeaderFile(t *testing.T) {
	raw := buildEntryHeader("FILE", 0x3, 56, 1024, 56)
	r, err := parseRecordHeader(raw)
	assert.NoError(t, err)
	assert.False(t, r.Corrupt)
	assert.True(t, r.InUse())
	assert.True(t, r.IsDirectory())
	assert.Equal(t, uint16(1), r.Sequence)
}

func TestParseRecordHeaderBadSignatureMarksCorrupt(t *testing.T) {
	raw := buildEntryHeader("JUNK", 0x1, 56, 1024, 56)
	r, err := parseRecordHeader(raw)
	assert.NoError(t, err)
	assert.True(t, r.Corrupt)
}

func TestParseRecordHeaderTooShort(t *testing.T) {
	_, err := parseRecordHeader(make([]byte, 10))
	assert.Error(t, err)
}

func TestRecordIsBase(t *testing.T) {
	r := Record{BaseRef: 0}
	assert.True(t, r.IsBase())
	r.BaseRef = 12
	assert.False(t, r.IsBase())
}

func TestAttrOffset(t *testing.T) {
	raw := buildEntryHeader("FILE", 0x1, 56, 1024, 56)
	assert.Equal(t, uint16(56), attrOffset(raw))
}

func TestEntryUSAFields(t *testing.T) {
	raw := make([]byte, 16)
	binary.LittleEndian.PutUint16(raw[4:], 0x30)
	binary.LittleEndian.PutUint16(raw[6:], 3)
	off, count := entryUSAFields(raw)
	assert.Equal(t, uint16(0x30), off)
	assert.Equal(t, uint16(3), count)
}
