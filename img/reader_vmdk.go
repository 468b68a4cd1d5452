package img

import (
	"path/filepath"
	"strings"

	extent "github.com/aarsakian/VMDK_Reader/extent"

	"github.com/aarsakian/ntfsforensics/errs"
)

// VMDKReader is the ImageSource over a VMware sparse extent (.vmdk) chain.
type VMDKReader struct {
	PathToImage string
	extents     extent.Extents
}

func (r *VMDKReader) CreateHandler() (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = errs.Newf(errs.UnsupportedImageFormat, "VMDK %s: %v", r.PathToImage, rec)
		}
	}()
	if strings.ToLower(filepath.Ext(r.PathToImage)) != ".vmdk" {
		return errs.Newf(errs.UnsupportedImageFormat, "%s is not a VMDK descriptor", r.PathToImage)
	}
	r.extents = extent.ProcessExtents(r.PathToImage)
	return nil
}

func (r *VMDKReader) CloseHandler() {}

func (r *VMDKReader) ReadFile(offset int64, length int) []byte {
	return r.extents.RetrieveData(filepath.Dir(r.PathToImage), offset, int64(length))
}

func (r *VMDKReader) GetDiskSize() int64 {
	return r.extents.GetHDSize()
}
