package extractor

import (
	"bytes"
	"context"
	"encoding/binary"
	"testing"

	"github.com/aarsakian/ntfsforensics/img"
	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/mft/attributes"
	"github.com/aarsakian/ntfsforensics/volume"
	"github.com/stretchr/testify/assert"
)

type fakeDisk struct {
	data []byte
}

func (f *fakeDisk) CreateHandler() error { return nil }
func (f *fakeDisk) CloseHandler()        {}
func (f *fakeDisk) GetDiskSize() int64   { return int64(len(f.data)) }
func (f *fakeDisk) ReadFile(offset int64, length int) []byte {
	if offset < 0 || offset >= int64(len(f.data)) {
		return nil
	}
	end := offset + int64(length)
	if end > int64(len(f.data)) {
		end = int64(len(f.data))
	}
	return f.data[offset:end]
}

var _ img.DiskReader = (*fakeDisk)(nil)

func buildVolume(t *testing.T, clusterCount int) (*volume.NtfsVolume, []byte) {
	t.Helper()
	boot := make([]byte, 512)
	copy(boot[3:11], "NTFS    ")
	binary.LittleEndian.PutUint16(boot[0x0B:], 512)
	boot[0x0D] = 1 // sectors per cluster -> cluster size 512
	boot[0x40] = 2 // clusters per MFT record, unused here

	image := make([]byte, 512+clusterCount*512)
	copy(image[0:512], boot)

	v, err := volume.Parse(&fakeDisk{data: image}, 0)
	assert.NoError(t, err)
	return v, image
}

func TestExtractUnnamedDataResidentWritesContentDirectly(t *testing.T) {
	e := &Extractor{}
	record := mft.Record{
		Attributes: []attributes.Attribute{
			{Kind: attributes.KindData, Data: &attributes.DataAttribute{Content: []byte("hello")}},
		},
	}
	var buf bytes.Buffer
	err := e.extractUnnamedData(context.Background(), record, &buf)
	assert.NoError(t, err)
	assert.Equal(t, "hello", buf.String())
}

func TestExtractUnnamedDataMissingAttributeErrors(t *testing.T) {
	e := &Extractor{}
	record := mft.Record{}
	var buf bytes.Buffer
	err := e.extractUnnamedData(context.Background(), record, &buf)
	assert.Error(t, err)
}

func TestExtractUnnamedDataSkipsNamedStreams(t *testing.T) {
	e := &Extractor{}
	record := mft.Record{
		Attributes: []attributes.Attribute{
			{Kind: attributes.KindData, Header: attributes.Header{NameLength: 2}, Data: &attributes.DataAttribute{Content: []byte("named")}},
		},
	}
	var buf bytes.Buffer
	err := e.extractUnnamedData(context.Background(), record, &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.Bytes())
}

func TestFindNamedDataMatchesCaseInsensitively(t *testing.T) {
	record := mft.Record{
		Attributes: []attributes.Attribute{
			{Kind: attributes.KindData, Header: attributes.Header{Name: "$j"}},
		},
	}
	attr := findNamedData(record, "$J")
	assert.NotNil(t, attr)
}

func TestFindNamedDataReturnsNilWhenAbsent(t *testing.T) {
	record := mft.Record{}
	assert.Nil(t, findNamedData(record, "$J"))
}

func TestFindUsnJrnlEntryLocatesByName(t *testing.T) {
	records := []mft.MftRecord{
		{EntryNumber: 3, FileName: "report.docx"},
		{EntryNumber: 44, FileName: "$UsnJrnl"},
	}
	entry, ok := FindUsnJrnlEntry(records)
	assert.True(t, ok)
	assert.Equal(t, uint32(44), entry)
}

func TestFindUsnJrnlEntryNotFound(t *testing.T) {
	_, ok := FindUsnJrnlEntry([]mft.MftRecord{{FileName: "foo"}})
	assert.False(t, ok)
}

func TestStreamAttributeResidentWritesContent(t *testing.T) {
	e := &Extractor{}
	attr := attributes.Attribute{Data: &attributes.DataAttribute{Content: []byte("resident value")}}
	var buf bytes.Buffer
	err := e.streamAttribute(context.Background(), attr, &buf)
	assert.NoError(t, err)
	assert.Equal(t, "resident value", buf.String())
}

func TestStreamAttributeNonResidentWalksBackedAndSparseRuns(t *testing.T) {
	v, image := buildVolume(t, 4)
	backed := bytes.Repeat([]byte{0xAB}, 512)
	copy(image[1024:1536], backed) // cluster LCN 2

	// run1: backed, length 1 cluster, offset +2; run2: sparse, length 1 cluster.
	mappingPairs := []byte{0x11, 0x01, 0x02, 0x01, 0x01, 0x00}

	e := &Extractor{Volume: v}
	attr := attributes.Attribute{
		Header: attributes.Header{
			NonResident:     true,
			RawMappingPairs: mappingPairs,
			RealSize:        1024,
		},
	}
	var buf bytes.Buffer
	err := e.streamAttribute(context.Background(), attr, &buf)
	assert.NoError(t, err)
	assert.Equal(t, 1024, buf.Len())
	assert.Equal(t, backed, buf.Bytes()[:512])
	assert.Equal(t, make([]byte, 512), buf.Bytes()[512:])
}

func TestStreamAttributeRespectsCancellation(t *testing.T) {
	v, _ := buildVolume(t, 4)
	mappingPairs := []byte{0x11, 0x01, 0x02, 0x00}

	e := &Extractor{Volume: v}
	attr := attributes.Attribute{
		Header: attributes.Header{NonResident: true, RawMappingPairs: mappingPairs, RealSize: 512},
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	err := e.streamAttribute(ctx, attr, &buf)
	assert.Error(t, err)
	assert.Empty(t, buf.Bytes())
}

func TestStreamAttributeInvalidRunListErrors(t *testing.T) {
	e := &Extractor{}
	attr := attributes.Attribute{
		Header: attributes.Header{NonResident: true, RawMappingPairs: []byte{0x11, 0x05}},
	}
	var buf bytes.Buffer
	err := e.streamAttribute(context.Background(), attr, &buf)
	assert.Error(t, err)
}
