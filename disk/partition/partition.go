// Package partition implements the PartitionLocator: it reads sector 0,
// decides between a classic MBR and a GPT-protected disk, and tags each
// discovered partition as NTFS by inspecting its boot sector signature.
package partition

// Partition is the locator's uniform view over an MBR or GPT entry.
type Partition struct {
	Index         int
	StartOffsetB  int64
	LengthB       int64
	TypeTag       string
	IsNTFS        bool
	BootSectorRaw []byte
}

const sectorSize = 512

// looksLikeNTFS reports whether a boot sector begins with "NTFS    " at
// offset 3, the signature the locator uses to tag a partition.
func looksLikeNTFS(bootSector []byte) bool {
	if len(bootSector) < 11 {
		return false
	}
	return string(bootSector[3:11]) == "NTFS    "
}
