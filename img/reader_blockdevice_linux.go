//go:build linux

package img

import (
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/aarsakian/ntfsforensics/errs"
)

// blkGetSize64 is the ioctl request number for BLKGETSIZE64 on Linux.
const blkGetSize64 = 0x80081272

func newPhysicalDriveReader(pathToDevice string) DiskReader {
	return &BlockDeviceReader{PathToDevice: pathToDevice}
}

// BlockDeviceReader is the ImageSource over a raw Linux block device
// (/dev/sdX, /dev/nvme0n1, ...), used for direct physical-drive acquisition
// instead of a pre-extracted image file.
type BlockDeviceReader struct {
	PathToDevice string
	fd           int
	size         int64
}

func (r *BlockDeviceReader) CreateHandler() error {
	fd, err := unix.Open(r.PathToDevice, unix.O_RDONLY, 0)
	if err != nil {
		return errs.Newf(errs.IoError, "opening block device %s: %v", r.PathToDevice, err)
	}
	r.fd = fd

	var sizeBytes uint64
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(fd), blkGetSize64, uintptr(unsafe.Pointer(&sizeBytes))); errno == 0 {
		r.size = int64(sizeBytes)
	}
	return nil
}

func (r *BlockDeviceReader) CloseHandler() {
	unix.Close(r.fd)
}

func (r *BlockDeviceReader) ReadFile(offset int64, length int) []byte {
	buffer := make([]byte, length)
	n, err := unix.Pread(r.fd, buffer, offset)
	if err != nil || n <= 0 {
		return buffer[:0]
	}
	return buffer[:n]
}

func (r *BlockDeviceReader) GetDiskSize() int64 {
	return r.size
}
