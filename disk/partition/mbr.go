package partition

import (
	"github.com/aarsakian/ntfsforensics/img"
	"github.com/aarsakian/ntfsforensics/utils"
)

// MBREntry is one raw 16-byte MBR partition table entry.
type MBREntry struct {
	Status   uint8
	CHSStart [3]byte
	Type     uint8
	CHSEnd   [3]byte
	StartLBA uint32
	Sectors  uint32
}

// MBR is the classic (non-GPT-protective) partition table at sector 0.
type MBR struct {
	BootCode  [446]byte
	Entries   [4]MBREntry
	Signature [2]byte
}

// IsProtective reports whether the first entry marks a GPT-protective MBR
// (type 0xEE), meaning the real partition table lives in the GPT header.
func (mbr MBR) IsProtective() bool {
	return mbr.Entries[0].Type == 0xEE
}

// ParseMBR decodes the 512-byte boot sector as a classic MBR.
func ParseMBR(sector []byte) MBR {
	var mbr MBR
	copy(mbr.BootCode[:], sector[0:446])
	pos := 446
	for i := 0; i < 4; i++ {
		entryBytes := sector[pos : pos+16]
		mbr.Entries[i] = MBREntry{
			Status:   entryBytes[0],
			Type:     entryBytes[4],
			StartLBA: uint32(utils.ReadLE(entryBytes, 8, 4)),
			Sectors:  uint32(utils.ReadLE(entryBytes, 12, 4)),
		}
		copy(mbr.Entries[i].CHSStart[:], entryBytes[1:4])
		copy(mbr.Entries[i].CHSEnd[:], entryBytes[5:8])
		pos += 16
	}
	copy(mbr.Signature[:], sector[510:512])
	return mbr
}

// Partitions returns the locator's uniform Partition view of every non-empty
// MBR entry, probing each partition's own first sector for the NTFS
// signature.
func (mbr MBR) Partitions(hD img.DiskReader) []Partition {
	var partitions []Partition
	for i, entry := range mbr.Entries {
		if entry.Type == 0x00 {
			continue
		}
		startOffsetB := int64(entry.StartLBA) * sectorSize
		bootSector := hD.ReadFile(startOffsetB, sectorSize)
		isNTFS := looksLikeNTFS(bootSector)
		typeTag := utils.Hexify([]byte{entry.Type})
		if !isNTFS {
			if tag := detectForeignContainer(hD, startOffsetB); tag != "" {
				typeTag = tag
			}
		}
		partitions = append(partitions, Partition{
			Index:         i,
			StartOffsetB:  startOffsetB,
			LengthB:       int64(entry.Sectors) * sectorSize,
			TypeTag:       typeTag,
			IsNTFS:        isNTFS,
			BootSectorRaw: bootSector,
		})
	}
	return partitions
}
