package mft

import "github.com/aarsakian/ntfsforensics/utils"

// Times holds the four FILETIME stamps carried by both $STANDARD_INFORMATION
// and $FILE_NAME attributes.
type Times struct {
	Created     utils.WindowsTime
	Modified    utils.WindowsTime
	MFTModified utils.WindowsTime
	Accessed    utils.WindowsTime
}

// MftRecord is the MftDecoder's normalized output: one row per decoded MFT
// entry, matching the record sink's field set.
type MftRecord struct {
	EntryNumber        uint32
	SequenceNumber     uint16
	InUse              bool
	IsDirectory        bool
	FileName           string
	ParentEntryNumber  uint32
	ParentSequenceNum  uint16
	FileAttrFlags      uint32
	SITimes            Times
	FNTimes            Times
	DataSize           uint64
	IsResident         bool
	Corrupt            bool
	FullPath           string
	Note               string
}
