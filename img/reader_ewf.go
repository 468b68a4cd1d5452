package img

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ewfLib "github.com/aarsakian/EWF_Reader/ewf"

	"github.com/aarsakian/ntfsforensics/errs"
)

// EWFReader is the ImageSource over an EnCase E01/EWF segment set. When the
// EWF_Reader capability cannot parse the evidence (missing/mismatched
// segments), CreateHandler surfaces UnsupportedImageFormat rather than
// attempting a partial decode.
type EWFReader struct {
	PathToEvidenceFiles string
	image               ewfLib.EWF_Image
}

func (r *EWFReader) CreateHandler() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errs.Newf(errs.UnsupportedImageFormat, "EWF evidence %s: %v", r.PathToEvidenceFiles, rec)
		}
	}()

	if strings.ToLower(filepath.Ext(r.PathToEvidenceFiles)) != ".e01" {
		return errs.Newf(errs.UnsupportedImageFormat, "%s is not an E01 segment", r.PathToEvidenceFiles)
	}

	filenames := findEvidenceFiles(r.PathToEvidenceFiles)
	var image ewfLib.EWF_Image
	image.ParseEvidence(filenames)
	r.image = image
	return nil
}

func (r *EWFReader) CloseHandler() {}

func (r *EWFReader) ReadFile(offset int64, length int) []byte {
	return r.image.RetrieveData(offset, int64(length))
}

func (r *EWFReader) GetDiskSize() int64 {
	return int64(r.image.Chunksize) * int64(r.image.NofChunks)
}

// findEvidenceFiles enumerates the sibling segment files (.E01, .E02, ...)
// belonging to one evidence set given its first segment path.
func findEvidenceFiles(firstSegment string) []string {
	base := strings.TrimSuffix(firstSegment, filepath.Ext(firstSegment))
	filenames := []string{firstSegment}
	for i := 2; i < 100; i++ {
		candidate := fmt.Sprintf("%s.E%02d", base, i)
		if _, err := os.Stat(candidate); err != nil {
			break
		}
		filenames = append(filenames, candidate)
	}
	return filenames
}
