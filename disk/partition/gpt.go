package partition

import (
	"github.com/aarsakian/ntfsforensics/img"
	"github.com/aarsakian/ntfsforensics/utils"
)

// GPTHeader is the fixed 92-byte portion of the GPT header at LBA 1; the
// remainder of the sector up to the 512 boundary is reserved.
type GPTHeader struct {
	Signature          [8]byte
	Revision           [4]byte
	HeaderSize         uint32
	HeaderCRC32        uint32
	Reserved           [4]byte
	CurrentLBA         uint64
	BackupLBA          uint64
	FirstUsableLBA     uint64
	LastUsableLBA      uint64
	DiskGUID           [16]byte
	PartitionEntryLBA  uint64
	NumPartitionEntries uint32
	PartitionEntrySize  uint32
	PartitionArrayCRC32 uint32
}

// HasValidSignature checks the 8-byte "EFI PART" magic.
func (h GPTHeader) HasValidSignature() bool {
	return string(h.Signature[:]) == "EFI PART"
}

// ParseGPTHeader decodes the 92-byte fixed header starting at sector offset
// 0 of the buffer passed (the caller reads LBA 1, one full sector).
func ParseGPTHeader(sector []byte) GPTHeader {
	var h GPTHeader
	copy(h.Signature[:], sector[0:8])
	copy(h.Revision[:], sector[8:12])
	h.HeaderSize = uint32(utils.ReadLE(sector, 12, 4))
	h.HeaderCRC32 = uint32(utils.ReadLE(sector, 16, 4))
	h.CurrentLBA = utils.ReadLE(sector, 24, 8)
	h.BackupLBA = utils.ReadLE(sector, 32, 8)
	h.FirstUsableLBA = utils.ReadLE(sector, 40, 8)
	h.LastUsableLBA = utils.ReadLE(sector, 48, 8)
	copy(h.DiskGUID[:], sector[56:72])
	h.PartitionEntryLBA = utils.ReadLE(sector, 72, 8)
	h.NumPartitionEntries = uint32(utils.ReadLE(sector, 80, 4))
	h.PartitionEntrySize = uint32(utils.ReadLE(sector, 84, 4))
	h.PartitionArrayCRC32 = uint32(utils.ReadLE(sector, 88, 4))
	return h
}

// GPTEntry is one raw partition entry from the GPT partition array.
type GPTEntry struct {
	TypeGUID [16]byte
	UniqueGUID [16]byte
	StartLBA uint64
	EndLBA   uint64
	Attributes uint64
	NameUTF16 [72]byte
}

// IsEmpty reports a zero type GUID, the GPT convention for an unused slot.
func (e GPTEntry) IsEmpty() bool {
	for _, b := range e.TypeGUID {
		if b != 0 {
			return false
		}
	}
	return true
}

func (e GPTEntry) Name() string {
	return utils.DecodeUTF16(e.NameUTF16[:])
}

func (e GPTEntry) TypeGUIDString() string {
	return utils.StringifyGUID(e.TypeGUID[:])
}

// ParseGPTEntries decodes the partition entry array; entrySize is the GPT
// header's declared per-entry stride (usually 128 bytes, may exceed the 128
// bytes this struct reads).
func ParseGPTEntries(data []byte, numEntries, entrySize uint32) []GPTEntry {
	entries := make([]GPTEntry, 0, numEntries)
	for i := uint32(0); i < numEntries; i++ {
		off := int(i * entrySize)
		if off+128 > len(data) {
			break
		}
		raw := data[off : off+128]
		var e GPTEntry
		copy(e.TypeGUID[:], raw[0:16])
		copy(e.UniqueGUID[:], raw[16:32])
		e.StartLBA = utils.ReadLE(raw, 32, 8)
		e.EndLBA = utils.ReadLE(raw, 40, 8)
		e.Attributes = utils.ReadLE(raw, 48, 8)
		copy(e.NameUTF16[:], raw[56:128])
		if e.IsEmpty() {
			continue
		}
		entries = append(entries, e)
	}
	return entries
}

// Partitions probes each GPT entry's boot sector for the NTFS signature and
// returns the locator's uniform Partition view, preserving enumeration
// order (S6: partition selection indexes into this slice).
func Partitions(hD img.DiskReader, entries []GPTEntry) []Partition {
	var partitions []Partition
	for i, e := range entries {
		startOffsetB := int64(e.StartLBA) * sectorSize
		lengthB := int64(e.EndLBA-e.StartLBA+1) * sectorSize
		bootSector := hD.ReadFile(startOffsetB, sectorSize)
		isNTFS := looksLikeNTFS(bootSector)
		typeTag := e.TypeGUIDString()
		if !isNTFS {
			if tag := detectForeignContainer(hD, startOffsetB); tag != "" {
				typeTag = tag
			}
		}
		partitions = append(partitions, Partition{
			Index:         i,
			StartOffsetB:  startOffsetB,
			LengthB:       lengthB,
			TypeTag:       typeTag,
			IsNTFS:        isNTFS,
			BootSectorRaw: bootSector,
		})
	}
	return partitions
}
