package reporter

import (
	"io"
	"os"
	"testing"

	"github.com/aarsakian/ntfsforensics/mft"
	"github.com/aarsakian/ntfsforensics/usnjrnl"
	"github.com/stretchr/testify/assert"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	os.Stdout = w

	fn()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	assert.NoError(t, err)
	return string(out)
}

func TestShowMftRecordsPrintsBaseFields(t *testing.T) {
	rp := Reporter{}
	out := captureStdout(t, func() {
		rp.ShowMftRecords([]mft.MftRecord{{EntryNumber: 10, FileName: "report.docx"}})
	})
	assert.Contains(t, out, `entry 10: "report.docx"`)
	assert.NotContains(t, out, "parent=")
	assert.NotContains(t, out, "path=")
}

func TestShowMftRecordsHonorsOptionalFields(t *testing.T) {
	rp := Reporter{ShowParent: true, ShowPath: true, ShowTimestamps: true}
	out := captureStdout(t, func() {
		rp.ShowMftRecords([]mft.MftRecord{{
			EntryNumber: 10, FileName: "report.docx",
			ParentEntryNumber: 5, FullPath: "\\report.docx",
		}})
	})
	assert.Contains(t, out, "parent=5")
	assert.Contains(t, out, "path=\\report.docx")
	assert.Contains(t, out, "created=")
}

func TestShowMftRecordsFlagsCorruptEntries(t *testing.T) {
	rp := Reporter{}
	out := captureStdout(t, func() {
		rp.ShowMftRecords([]mft.MftRecord{{EntryNumber: 3, Corrupt: true, Note: "signature FREE"}})
	})
	assert.Contains(t, out, `corrupt note="signature FREE"`)
}

func TestShowUsnEventsPrintsOneLinePerEvent(t *testing.T) {
	rp := Reporter{}
	out := captureStdout(t, func() {
		rp.ShowUsnEvents([]usnjrnl.Event{
			{Record: usnjrnl.Record{USN: 4096, FileName: "report.docx"}, EventName: "FILE_CREATE"},
		})
	})
	assert.Contains(t, out, "usn 4096: FILE_CREATE \"report.docx\"")
}
