// Package volume implements NtfsVolume: parsing the NTFS boot sector and
// exposing cluster-addressed reads over an ImageSource.
package volume

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/img"
	"github.com/aarsakian/ntfsforensics/utils"
)

// NtfsVolume is the decoded boot sector plus its backing partition offset.
type NtfsVolume struct {
	VolumeOffsetB        int64
	BytesPerSector       uint16
	SectorsPerCluster    uint8
	TotalSectors         uint64
	MFTClusterLCN        uint64
	MFTMirrClusterLCN    uint64
	ClustersPerMFTRecord int8
	ClustersPerIdxRecord int8

	hD img.DiskReader
}

// ClusterSize is bytes_per_sector * sectors_per_cluster.
func (v NtfsVolume) ClusterSize() int {
	return int(v.BytesPerSector) * int(v.SectorsPerCluster)
}

// MFTEntrySize decodes the signed-byte record-size convention: non-negative
// is "clusters per record", negative k means 1 << -k bytes.
func (v NtfsVolume) MFTEntrySize() int {
	return sizeFromSignedByte(v.ClustersPerMFTRecord, v.ClusterSize())
}

// IndexEntrySize is the same convention applied to index records.
func (v NtfsVolume) IndexEntrySize() int {
	return sizeFromSignedByte(v.ClustersPerIdxRecord, v.ClusterSize())
}

func sizeFromSignedByte(b int8, clusterSize int) int {
	if b >= 0 {
		return int(b) * clusterSize
	}
	return 1 << uint(-b)
}

// Parse decodes the NTFS boot sector starting at volumeOffsetB on hD.
func Parse(hD img.DiskReader, volumeOffsetB int64) (*NtfsVolume, error) {
	bootSector := hD.ReadFile(volumeOffsetB, 512)
	if len(bootSector) < 512 {
		return nil, errs.New(errs.IoError, "short read of NTFS boot sector")
	}
	if string(bootSector[3:11]) != "NTFS    " {
		return nil, errs.New(errs.BadBootSector, "boot sector signature is not NTFS")
	}

	v := &NtfsVolume{
		VolumeOffsetB:        volumeOffsetB,
		BytesPerSector:       uint16(utils.ReadLE(bootSector, 0x0B, 2)),
		SectorsPerCluster:    uint8(bootSector[0x0D]),
		TotalSectors:         utils.ReadLE(bootSector, 0x28, 8),
		MFTClusterLCN:        utils.ReadLE(bootSector, 0x30, 8),
		MFTMirrClusterLCN:    utils.ReadLE(bootSector, 0x38, 8),
		ClustersPerMFTRecord: int8(bootSector[0x40]),
		ClustersPerIdxRecord: int8(bootSector[0x44]),
		hD:                   hD,
	}

	if v.BytesPerSector == 0 || v.MFTEntrySize()%int(v.BytesPerSector) != 0 {
		return nil, errs.Newf(errs.BadBootSector,
			"mft entry size %d is not a multiple of bytes per sector %d", v.MFTEntrySize(), v.BytesPerSector)
	}
	return v, nil
}

// ReadCluster translates a volume-relative LCN + cluster count into an
// absolute image read.
func (v *NtfsVolume) ReadCluster(lcn uint64, count int) []byte {
	offset := v.VolumeOffsetB + int64(lcn)*int64(v.ClusterSize())
	return v.hD.ReadFile(offset, count*v.ClusterSize())
}

// ReadBytes performs an arbitrary positioned read relative to the volume's
// own start (used by the MftReader for entry-granularity reads that don't
// land on a cluster boundary).
func (v *NtfsVolume) ReadBytes(volumeRelativeOffset int64, length int) []byte {
	return v.hD.ReadFile(v.VolumeOffsetB+volumeRelativeOffset, length)
}
