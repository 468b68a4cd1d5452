package attributes

import "github.com/aarsakian/ntfsforensics/utils"

// StandardInformation is the decoded $STANDARD_INFORMATION (0x10) resident
// value: the four FILETIME stamps plus DOS file attribute flags.
type StandardInformation struct {
	Created        utils.WindowsTime
	Modified       utils.WindowsTime
	MFTModified    utils.WindowsTime
	Accessed       utils.WindowsTime
	FileAttrFlags  uint32
}

func parseStandardInformation(value []byte) *StandardInformation {
	if len(value) < 36 {
		return nil
	}
	return &StandardInformation{
		Created:       utils.WindowsTime{Stamp: utils.ReadLE(value, 0, 8)},
		Modified:      utils.WindowsTime{Stamp: utils.ReadLE(value, 8, 8)},
		MFTModified:   utils.WindowsTime{Stamp: utils.ReadLE(value, 16, 8)},
		Accessed:      utils.WindowsTime{Stamp: utils.ReadLE(value, 24, 8)},
		FileAttrFlags: uint32(utils.ReadLE(value, 32, 4)),
	}
}
