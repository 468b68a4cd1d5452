package attributes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDataRunsSingleBackedRun(t *testing.T) {
	// header 0x31: length field 1 byte, offset field 3 bytes.
	// length=0x0a (10 clusters), offset=0x001234 (LCN 0x1234).
	mp := []byte{0x31, 0x0a, 0x34, 0x12, 0x00, 0x00}
	runs, err := ParseDataRuns(mp)
	assert.NoError(t, err)
	assert.Equal(t, []DataRun{
		{LengthClusters: 10, AbsoluteLCN: 0x1234, Sparse: false},
	}, runs)
	assert.Equal(t, uint64(10), TotalClusters(runs))
}

func TestParseDataRunsRunningOffsetAccumulates(t *testing.T) {
	// Two runs: first at LCN 100, second offset by -20 -> LCN 80.
	mp := []byte{
		0x11, 0x05, 0x64, // header, length=5, offset=+100
		0x11, 0x03, 0xec, // header, length=3, offset=-20 (0xec = -20 as int8)
		0x00,
	}
	runs, err := ParseDataRuns(mp)
	assert.NoError(t, err)
	assert.Len(t, runs, 2)
	assert.Equal(t, uint64(100), runs[0].AbsoluteLCN)
	assert.Equal(t, uint64(80), runs[1].AbsoluteLCN)
}

func TestParseDataRunsSparse(t *testing.T) {
	// header 0x01: length field 1 byte, offset field 0 bytes -> sparse.
	mp := []byte{0x01, 0x20, 0x00}
	runs, err := ParseDataRuns(mp)
	assert.NoError(t, err)
	assert.Len(t, runs, 1)
	assert.True(t, runs[0].Sparse)
	assert.Equal(t, uint64(0x20), runs[0].LengthClusters)
}

func TestParseDataRunsTruncatedLength(t *testing.T) {
	mp := []byte{0x33} // claims a 3-byte length field but no bytes follow.
	_, err := ParseDataRuns(mp)
	assert.Error(t, err)
}

func TestParseDataRunsTruncatedOffset(t *testing.T) {
	mp := []byte{0x31, 0x05} // claims a 3-byte offset field but none follow.
	_, err := ParseDataRuns(mp)
	assert.Error(t, err)
}

func TestParseDataRunsNegativeAbsoluteLCNRejected(t *testing.T) {
	mp := []byte{0x11, 0x01, 0xff} // offset -1 with no prior run -> LCN -1.
	_, err := ParseDataRuns(mp)
	assert.Error(t, err)
}

func TestParseDataRunsEmptyInput(t *testing.T) {
	runs, err := ParseDataRuns(nil)
	assert.NoError(t, err)
	assert.Empty(t, runs)
}
