package partition

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/img"
)

// Locate reads sector 0 and enumerates every partition on the image,
// dispatching to the MBR or GPT path per the 0x1FE..0x200 boot signature and
// the protective-MBR convention (first entry type 0xEE).
func Locate(hD img.DiskReader) ([]Partition, error) {
	sector0 := hD.ReadFile(0, sectorSize)
	if len(sector0) < sectorSize {
		return nil, errs.New(errs.IoError, "short read of sector 0")
	}
	if looksLikeNTFS(sector0) {
		// no partition table at all: the image is itself a bare NTFS volume
		return []Partition{{Index: 0, StartOffsetB: 0, LengthB: hD.GetDiskSize(), TypeTag: "NTFS", IsNTFS: true, BootSectorRaw: sector0}}, nil
	}
	if sector0[0x1FE] != 0x55 || sector0[0x1FF] != 0xAA {
		if tag := detectForeignContainer(hD, 0); tag != "" {
			return []Partition{{Index: 0, StartOffsetB: 0, LengthB: hD.GetDiskSize(), TypeTag: tag, IsNTFS: false, BootSectorRaw: sector0}}, nil
		}
		return nil, errs.New(errs.BadBootSector, "sector 0 missing 55 AA boot signature")
	}

	mbr := ParseMBR(sector0)
	if !mbr.IsProtective() {
		return mbr.Partitions(hD), nil
	}

	headerSector := hD.ReadFile(1*sectorSize, sectorSize)
	header := ParseGPTHeader(headerSector)
	if !header.HasValidSignature() {
		return nil, errs.New(errs.BadBootSector, "GPT header missing EFI PART signature")
	}

	arraySize := int(header.NumPartitionEntries * header.PartitionEntrySize)
	arrayData := hD.ReadFile(int64(header.PartitionEntryLBA)*sectorSize, arraySize)
	entries := ParseGPTEntries(arrayData, header.NumPartitionEntries, header.PartitionEntrySize)

	return Partitions(hD, entries), nil
}

// SelectNTFS returns the NTFS-tagged partitions in enumeration order; when
// partitionNum is >= 0, only that 0-based selection is returned (S6).
func SelectNTFS(partitions []Partition, partitionNum int) ([]Partition, error) {
	var ntfsPartitions []Partition
	for _, p := range partitions {
		if !p.IsNTFS {
			continue
		}
		ntfsPartitions = append(ntfsPartitions, p)
	}
	if len(ntfsPartitions) == 0 {
		for _, p := range partitions {
			if p.TypeTag == "lvm2-pv" || p.TypeTag == "mdraid-member" {
				return nil, errs.Newf(errs.NoNtfsPartition,
					"no NTFS boot sector found on any partition (partition %d is a %s, not a bare NTFS volume)", p.Index, p.TypeTag)
			}
		}
		return nil, errs.New(errs.NoNtfsPartition, "no NTFS boot sector found on any partition")
	}
	if partitionNum < 0 {
		return ntfsPartitions, nil
	}
	if partitionNum >= len(ntfsPartitions) {
		return nil, errs.Newf(errs.NoNtfsPartition, "requested partition %d, only %d NTFS partitions found", partitionNum, len(ntfsPartitions))
	}
	return ntfsPartitions[partitionNum : partitionNum+1], nil
}
