package usnjrnl

import (
	"encoding/binary"
	"testing"

	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/stretchr/testify/assert"
)

// buildV2Record assembles one USN v2 record with the given filename and
// reason flags, per the 60-byte-plus-name layout parseRecord expects.
func buildV2Record(filename string, reasonFlags uint32, fileRef, parentRef uint64) []byte {
	nameBytes := utf16Encode(filename)
	recLen := 60 + len(nameBytes)
	pad := (8 - recLen%8) % 8
	total := recLen + pad

	b := make([]byte, total)
	binary.LittleEndian.PutUint32(b[0:], uint32(recLen))
	binary.LittleEndian.PutUint16(b[4:], 2) // major version
	binary.LittleEndian.PutUint16(b[6:], 0) // minor version
	putUint48(b[8:], fileRef)
	binary.LittleEndian.PutUint16(b[14:], 1) // file seq
	putUint48(b[16:], parentRef)
	binary.LittleEndian.PutUint16(b[22:], 1) // parent seq
	binary.LittleEndian.PutUint64(b[24:], 12345)
	binary.LittleEndian.PutUint64(b[32:], 131000000000000000)
	binary.LittleEndian.PutUint32(b[40:], reasonFlags)
	binary.LittleEndian.PutUint32(b[44:], 0)
	binary.LittleEndian.PutUint32(b[48:], 0)
	binary.LittleEndian.PutUint32(b[52:], 0x20) // FILE_ATTRIBUTE_ARCHIVE
	binary.LittleEndian.PutUint16(b[56:], uint16(len(nameBytes)))
	binary.LittleEndian.PutUint16(b[58:], 60)
	copy(b[60:], nameBytes)
	return b
}

func putUint48(b []byte, v uint64) {
	for i := 0; i < 6; i++ {
		b[i] = byte(v >> (8 * i))
	}
}

func utf16Encode(s string) []byte {
	out := make([]byte, 0, len(s)*2)
	for _, r := range s {
		out = append(out, byte(r), 0)
	}
	return out
}

func TestDecoderNextDecodesV2Record(t *testing.T) {
	rec := buildV2Record("report.docx", 0x00000100, 42, 5)
	d := NewDecoder(rec, 4096)

	got, ok := d.Next()
	assert.True(t, ok)
	assert.Equal(t, "report.docx", got.FileName)
	assert.Equal(t, uint64(42), got.FileRefEntry)
	assert.Equal(t, uint64(5), got.ParentRefEntry)
	assert.Equal(t, uint32(0x00000100), got.ReasonFlags)

	_, ok = d.Next()
	assert.False(t, ok)
}

func TestDecoderNextSkipsSparseGranule(t *testing.T) {
	sparse := make([]byte, 4096)
	rec := buildV2Record("a.txt", 0x00000001, 7, 5)
	buf := append(sparse, rec...)

	d := NewDecoder(buf, 4096)
	got, ok := d.Next()
	assert.True(t, ok)
	assert.Equal(t, "a.txt", got.FileName)
	assert.Equal(t, uint64(4096), d.SparseSkipped)
}

func TestDecoderNextFlagsCorruptLength(t *testing.T) {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:], 1000000) // within maxRecordLength but longer than the buffer
	binary.LittleEndian.PutUint16(buf[4:], 2)

	d := NewDecoder(buf, 4096)
	_, ok := d.Next()
	assert.False(t, ok)
	assert.Equal(t, 1, d.CorruptionCount)
	assert.Equal(t, 1, d.Tally.Count(errs.UsnCorrupt))
}

func TestEventsFansOutMultipleReasonBits(t *testing.T) {
	rec := Record{ReasonFlags: 0x00000100 | 0x00002000, FileName: "x.txt"}
	events := Events(rec)
	assert.Len(t, events, 2)
	names := []string{events[0].EventName, events[1].EventName}
	assert.Contains(t, names, "FILE_CREATE")
	assert.Contains(t, names, "RENAME_NEW_NAME")
}

func TestEventsNoReasonBitsSetProducesNoEvents(t *testing.T) {
	rec := Record{ReasonFlags: 0, FileName: "x.txt"}
	assert.Empty(t, Events(rec))
}
