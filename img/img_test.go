package img

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTempFile(t *testing.T, name string, content []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(p, content, 0o644))
	return p
}

func TestRawReaderReadsBackExactBytes(t *testing.T) {
	content := []byte("0123456789abcdef")
	path := writeTempFile(t, "image.raw", content)

	r := &RawReader{PathToImage: path}
	assert.NoError(t, r.CreateHandler())
	defer r.CloseHandler()

	assert.Equal(t, int64(len(content)), r.GetDiskSize())
	assert.Equal(t, []byte("456789"), r.ReadFile(4, 6))
}

func TestRawReaderReadPastEndReturnsShortSlice(t *testing.T) {
	content := []byte("hello")
	path := writeTempFile(t, "short.raw", content)

	r := &RawReader{PathToImage: path}
	assert.NoError(t, r.CreateHandler())
	defer r.CloseHandler()

	got := r.ReadFile(2, 100)
	assert.Equal(t, []byte("llo"), got)
}

func TestRawReaderCreateHandlerErrorsOnMissingFile(t *testing.T) {
	r := &RawReader{PathToImage: filepath.Join(t.TempDir(), "does-not-exist.raw")}
	err := r.CreateHandler()
	assert.Error(t, err)
}

func TestGetHandlerDispatchesRawByDefault(t *testing.T) {
	path := writeTempFile(t, "plain.dd", []byte("data"))
	dr, err := GetHandler(path, "")
	assert.NoError(t, err)
	defer dr.CloseHandler()
	_, ok := dr.(*RawReader)
	assert.True(t, ok)
}

func TestGetHandlerDispatchesExplicitRawKindRegardlessOfExtension(t *testing.T) {
	path := writeTempFile(t, "image.e01", []byte("data"))
	dr, err := GetHandler(path, "raw")
	assert.NoError(t, err)
	defer dr.CloseHandler()
	_, ok := dr.(*RawReader)
	assert.True(t, ok)
}

func TestIsEvfSignatureDetectsMagicBytes(t *testing.T) {
	path := writeTempFile(t, "segment.noext", []byte{'E', 'V', 'F', 0x09, 0, 0})
	assert.True(t, isEvfSignature(path))
}

func TestIsEvfSignatureFalseForPlainData(t *testing.T) {
	path := writeTempFile(t, "plain.noext", []byte("not evf"))
	assert.False(t, isEvfSignature(path))
}

func TestIsEvfSignatureFalseForMissingFile(t *testing.T) {
	assert.False(t, isEvfSignature(filepath.Join(t.TempDir(), "missing")))
}

func TestGetHandlerRejectsEvfSignatureWithoutE01Extension(t *testing.T) {
	path := writeTempFile(t, "segment.dat", []byte{'E', 'V', 'F', 0x09, 0, 0})
	_, err := GetHandler(path, "")
	assert.Error(t, err)
}
