// Package img implements the ImageSource abstraction: a uniform, seekable
// byte source over a raw/DD image, an EnCase E01/EWF container, or a VMDK
// sparse extent file.
package img

import (
	"os"
	"path"
	"strings"

	"github.com/aarsakian/ntfsforensics/errs"
)

// DiskReader is the ImageSource contract: positioned reads and a total
// length. Reads past end return fewer bytes; callers treat a short read as
// end-of-stream rather than error unless a structural minimum is unmet.
type DiskReader interface {
	CreateHandler() error
	CloseHandler()
	ReadFile(offset int64, length int) []byte
	GetDiskSize() int64
}

// GetHandler selects a DiskReader implementation from kind ("ewf", "vmdk",
// "physicalDrive" or "raw"), regardless of the path's extension; any other
// kind falls back to selecting by the path's extension. "physicalDrive"
// yields the platform's block-device reader (a RawReader off Linux).
func GetHandler(pathToImage string, kind string) (DiskReader, error) {
	var dr DiskReader
	switch kind {
	case "ewf":
		dr = &EWFReader{PathToEvidenceFiles: pathToImage}
	case "vmdk":
		dr = &VMDKReader{PathToImage: pathToImage}
	case "physicalDrive":
		dr = newPhysicalDriveReader(pathToImage)
	case "raw":
		dr = &RawReader{PathToImage: pathToImage}
	default:
		ext := strings.ToLower(path.Ext(pathToImage))
		switch ext {
		case ".e01":
			dr = &EWFReader{PathToEvidenceFiles: pathToImage}
		case ".vmdk":
			dr = &VMDKReader{PathToImage: pathToImage}
		default:
			if isEvfSignature(pathToImage) {
				return nil, errs.Newf(errs.UnsupportedImageFormat,
					"%s looks like an EWF segment but lacks the .E01 extension", pathToImage)
			}
			dr = &RawReader{PathToImage: pathToImage}
		}
	}
	if err := dr.CreateHandler(); err != nil {
		return nil, err
	}
	return dr, nil
}

// isEvfSignature reports whether the first bytes of a file look like an EWF
// segment ("EVF\x09") without a backing capability to decode it; used to
// distinguish UnsupportedImageFormat from a plain raw image.
func isEvfSignature(pathToImage string) bool {
	f, err := os.Open(pathToImage)
	if err != nil {
		return false
	}
	defer f.Close()
	magic := make([]byte, 4)
	if n, _ := f.Read(magic); n < 4 {
		return false
	}
	return magic[0] == 'E' && magic[1] == 'V' && magic[2] == 'F' && magic[3] == 0x09
}

var ErrUnsupportedImage = errs.New(errs.UnsupportedImageFormat, "container not recognized")
