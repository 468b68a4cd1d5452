package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNoNullPrintNulls(t *testing.T) {
	s := NoNull("MFT\x00\x00\x00\x00\x00")
	assert.Equal(t, "MFT", s.PrintNulls())
}

func TestHexify(t *testing.T) {
	assert.Equal(t, "0a1b", Hexify([]byte{0x0a, 0x1b}))
}

func TestBytereverse(t *testing.T) {
	assert.Equal(t, []byte{0x03, 0x02, 0x01}, Bytereverse([]byte{0x01, 0x02, 0x03}))
	assert.Empty(t, Bytereverse(nil))
}

func TestStringifyGUID(t *testing.T) {
	guid := []byte{
		0x03, 0x02, 0x01, 0x00,
		0x05, 0x04,
		0x07, 0x06,
		0x08, 0x09,
		0x0a, 0x0b, 0x0c, 0x0d, 0x0e, 0x0f,
	}
	assert.Equal(t, "00010203-0405-0607-0809-0a0b0c0d0e0f", StringifyGUID(guid))
}

func TestStringifyGUIDShortInput(t *testing.T) {
	assert.Equal(t, Hexify([]byte{1, 2}), StringifyGUID([]byte{1, 2}))
}

func TestDecodeUTF16(t *testing.T) {
	// "hi" as little-endian UTF-16.
	b := []byte{'h', 0, 'i', 0}
	assert.Equal(t, "hi", DecodeUTF16(b))
}

func TestDecodeUTF16DanglingByte(t *testing.T) {
	b := []byte{'h', 0, 'i'}
	out := DecodeUTF16(b)
	assert.Contains(t, out, "h")
}

func TestFilter(t *testing.T) {
	nums := []int{1, 2, 3, 4, 5, 6}
	even := Filter(nums, func(n int) bool { return n%2 == 0 })
	assert.Equal(t, []int{2, 4, 6}, even)
}

func TestFilterEmptyResultNotNil(t *testing.T) {
	out := Filter([]int{1, 3, 5}, func(n int) bool { return n%2 == 0 })
	assert.NotNil(t, out)
	assert.Empty(t, out)
}

func TestReadLE(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}
	assert.Equal(t, uint64(0x01), ReadLE(buf, 0, 1))
	assert.Equal(t, uint64(0x0201), ReadLE(buf, 0, 2))
	assert.Equal(t, uint64(0x04030201), ReadLE(buf, 0, 4))
	assert.Equal(t, uint64(0x0807060504030201), ReadLE(buf, 0, 8))
}

func TestReadLEMiddleOffset(t *testing.T) {
	buf := []byte{0xff, 0x2a, 0x00, 0xff}
	assert.Equal(t, uint64(0x2a), ReadLE(buf, 1, 1))
}

type bootSectorFixture struct {
	Signature string
	OEMName   [8]byte
	Reserved1 uint8
	Count     uint16
}

func TestUnmarshal(t *testing.T) {
	data := make([]byte, 32)
	copy(data[0:4], "NTFS")
	copy(data[4:12], "MSDOS5.0")
	data[12] = 0x07
	data[13] = 0x34
	data[14] = 0x12

	var out bootSectorFixture
	err := Unmarshal(data, &out)
	assert.NoError(t, err)
	assert.Equal(t, "NTFS", out.Signature)
	assert.Equal(t, [8]byte{'M', 'S', 'D', 'O', 'S', '5', '.', '0'}, out.OEMName)
	assert.Equal(t, uint8(0x07), out.Reserved1)
	assert.Equal(t, uint16(0x1234), out.Count)
}

func TestUnmarshalRejectsNonStruct(t *testing.T) {
	var n int
	err := Unmarshal([]byte{1, 2, 3}, &n)
	assert.Error(t, err)
}

func TestWindowsTimeConvertToIsoTimeZero(t *testing.T) {
	var wt WindowsTime
	assert.Equal(t, "---", wt.ConvertToIsoTime())
	assert.True(t, wt.IsZero())
}

func TestWindowsTimeRoundTrip(t *testing.T) {
	wt := NewWindowsTimeFromUnix(1700000000)
	assert.Equal(t, int64(1700000000), wt.ToUnix())
	assert.False(t, wt.IsZero())
}
