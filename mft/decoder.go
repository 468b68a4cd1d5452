package mft

import "github.com/aarsakian/ntfsforensics/mft/attributes"

// Decode builds the MftDecoder's normalized MftRecord from one already
// attribute-list-resolved Record. Entries with an invalid signature are
// still decoded with null times and the raw header only, per §4.6 — the
// caller (Table.DecodeRange) decides whether to keep or drop them based on
// includeDeleted/active-only selection.
func Decode(r Record) MftRecord {
	out := MftRecord{
		EntryNumber:    r.Entry,
		SequenceNumber: r.Sequence,
		InUse:          r.InUse(),
		IsDirectory:    r.IsDirectory(),
		Corrupt:        r.Corrupt,
	}
	if r.Corrupt && r.Signature != "FILE" {
		out.Note = "signature " + r.Signature
		return out
	}

	if si := r.FindAttribute(attributes.KindStandardInformation); si != nil && si.StandardInformation != nil {
		out.SITimes = Times{
			Created:     si.StandardInformation.Created,
			Modified:    si.StandardInformation.Modified,
			MFTModified: si.StandardInformation.MFTModified,
			Accessed:    si.StandardInformation.Accessed,
		}
		out.FileAttrFlags = si.StandardInformation.FileAttrFlags
	}

	if fn := attributes.SelectPreferred(r.FileNames()); fn != nil {
		out.FileName = fn.Name
		out.ParentEntryNumber = fn.ParentEntry
		out.ParentSequenceNum = fn.ParentSeq
		out.FNTimes = Times{
			Created:     fn.Created,
			Modified:    fn.Modified,
			MFTModified: fn.MFTModified,
			Accessed:    fn.Accessed,
		}
	}

	if unnamedData := findUnnamedData(r); unnamedData != nil {
		out.IsResident = !unnamedData.Header.NonResident
		if out.IsResident {
			out.DataSize = uint64(unnamedData.Header.ValueLength)
		} else {
			out.DataSize = unnamedData.Header.RealSize
		}
	}

	return out
}

// findUnnamedData returns the record's unnamed $DATA attribute (named
// streams are counted but ignored for size reporting, per §4.6).
func findUnnamedData(r Record) *attributes.Attribute {
	for i := range r.Attributes {
		if r.Attributes[i].Kind == attributes.KindData && r.Attributes[i].Header.NameLength == 0 {
			return &r.Attributes[i]
		}
	}
	return nil
}
