package attributes

import "github.com/aarsakian/ntfsforensics/utils"

// Namespace is the $FILE_NAME namespace byte (POSIX=0, Win32=1, DOS=2,
// Win32&DOS=3).
type Namespace uint8

const (
	NamespacePOSIX     Namespace = 0
	NamespaceWin32     Namespace = 1
	NamespaceDOS       Namespace = 2
	NamespaceWin32DOS  Namespace = 3
)

var namespaceNames = map[Namespace]string{
	NamespacePOSIX: "POSIX", NamespaceWin32: "Win32", NamespaceDOS: "Dos", NamespaceWin32DOS: "Win32 & Dos",
}

func (n Namespace) String() string {
	return namespaceNames[n]
}

// FileName is a decoded $FILE_NAME (0x30) resident value.
type FileName struct {
	ParentEntry uint32
	ParentSeq   uint16
	Created     utils.WindowsTime
	Modified    utils.WindowsTime
	MFTModified utils.WindowsTime
	Accessed    utils.WindowsTime
	AllocSize   uint64
	RealSize    uint64
	Flags       uint32
	Namespace   Namespace
	Name        string
}

func parseFileName(value []byte) *FileName {
	if len(value) < 66 {
		return nil
	}
	parentRef := utils.ReadLE(value, 0, 8)
	fn := &FileName{
		ParentEntry: uint32(parentRef & 0x0000FFFFFFFFFFFF),
		ParentSeq:   uint16(parentRef >> 48),
		Created:     utils.WindowsTime{Stamp: utils.ReadLE(value, 8, 8)},
		Modified:    utils.WindowsTime{Stamp: utils.ReadLE(value, 16, 8)},
		MFTModified: utils.WindowsTime{Stamp: utils.ReadLE(value, 24, 8)},
		Accessed:    utils.WindowsTime{Stamp: utils.ReadLE(value, 32, 8)},
		AllocSize:   utils.ReadLE(value, 40, 8),
		RealSize:    utils.ReadLE(value, 48, 8),
		Flags:       uint32(utils.ReadLE(value, 56, 4)),
		Namespace:   Namespace(value[65]),
	}
	nameLen := int(value[64])
	nameStart := 66
	nameEnd := nameStart + 2*nameLen
	if nameEnd <= len(value) {
		fn.Name = utils.DecodeUTF16(value[nameStart:nameEnd])
	}
	return fn
}

// SelectPreferred picks the $FILE_NAME to surface on an MftRecord per S3's
// priority order: Win32&DOS, then Win32, then POSIX, then DOS.
func SelectPreferred(names []*FileName) *FileName {
	byNamespace := map[Namespace]*FileName{}
	for _, n := range names {
		if n == nil {
			continue
		}
		byNamespace[n.Namespace] = n
	}
	for _, ns := range []Namespace{NamespaceWin32DOS, NamespaceWin32, NamespacePOSIX, NamespaceDOS} {
		if fn, ok := byNamespace[ns]; ok {
			return fn
		}
	}
	if len(names) > 0 {
		return names[0]
	}
	return nil
}
