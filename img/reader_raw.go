package img

import (
	"os"

	"github.com/aarsakian/ntfsforensics/errs"
)

// RawReader is the ImageSource over a plain DD/raw image file or a raw block
// device path; GetHandler uses it for any path whose extension is not
// recognized, and it backs the physical-drive kind on non-Linux platforms.
type RawReader struct {
	PathToImage string
	fd          *os.File
	size        int64
}

func (r *RawReader) CreateHandler() error {
	fd, err := os.Open(r.PathToImage)
	if err != nil {
		return errs.Newf(errs.IoError, "opening %s: %v", r.PathToImage, err)
	}
	r.fd = fd
	if info, err := fd.Stat(); err == nil {
		r.size = info.Size()
	}
	return nil
}

func (r *RawReader) CloseHandler() {
	if r.fd != nil {
		r.fd.Close()
	}
}

func (r *RawReader) ReadFile(offset int64, length int) []byte {
	buffer := make([]byte, length)
	n, err := r.fd.ReadAt(buffer, offset)
	if err != nil && n == 0 {
		return buffer[:0]
	}
	return buffer[:n]
}

func (r *RawReader) GetDiskSize() int64 {
	return r.size
}
