// Package mft implements the MftReader and MftDecoder components: reading
// arbitrary $MFT entries by record number (following $ATTRIBUTE_LIST when an
// entry's attributes are scattered across extension records) and decoding
// them into MftRecord.
package mft

import (
	"github.com/aarsakian/ntfsforensics/errs"
	"github.com/aarsakian/ntfsforensics/mft/attributes"
	"github.com/aarsakian/ntfsforensics/volume"
)

// maxExtensionFanout bounds how many extension records one base record's
// $ATTRIBUTE_LIST walk may follow, guarding against pathological lists.
const maxExtensionFanout = 256

// Reader reads individual $MFT entries from a volume once the MFT's own
// byte offset and entry size are known.
type Reader struct {
	Volume        *volume.NtfsVolume
	MFTByteOffset int64
	EntrySize     int
}

// NewReader bootstraps the reader from MFT record 0: its own $DATA runs
// describe the layout of the rest of the table, but the reader only needs
// record 0's own offset (mft_cluster_lcn * cluster_size) to read record 0,
// then every other entry is byte_offset + n*entry_size from that same base.
func NewReader(v *volume.NtfsVolume) *Reader {
	entrySize := v.MFTEntrySize()
	mftOffset := int64(v.MFTClusterLCN) * int64(v.ClusterSize())
	return &Reader{Volume: v, MFTByteOffset: mftOffset, EntrySize: entrySize}
}

// ReadRawEntry reads and fixes up the raw bytes of MFT entry n, without
// decoding attributes. A "BAAD" signature is tolerated (corrupt=true);
// FixupMismatch causes the record to be returned with corrupt=true as well,
// counted by the caller rather than treated as fatal.
func (rd *Reader) ReadRawEntry(n uint32) (raw []byte, corrupt bool, err error) {
	// fixup rewrites sector slots in place, so work on a private copy rather
	// than on a buffer the DiskReader may hand out again
	raw = append([]byte(nil), rd.Volume.ReadBytes(rd.MFTByteOffset+int64(n)*int64(rd.EntrySize), rd.EntrySize)...)
	if len(raw) < rd.EntrySize {
		return raw, true, errs.Newf(errs.IoError, "short read of mft entry %d", n)
	}
	signature := string(raw[0:4])
	if signature != "FILE" && signature != "BAAD" {
		return raw, true, nil
	}
	if signature == "BAAD" {
		return raw, true, nil
	}

	usaOffset, usaCount := entryUSAFields(raw)
	if fixupErr := applyFixup(raw, usaOffset, usaCount, int(rd.Volume.BytesPerSector)); fixupErr != nil {
		return raw, true, fixupErr
	}
	return raw, false, nil
}

// ref is an MFT reference: entry number plus sequence number, used to key
// the attribute-list visited set.
type ref struct {
	entry uint32
	seq   uint16
}

// ReadEntry reads entry n, decodes its base header, and folds in every
// attribute reachable through its $ATTRIBUTE_LIST (base plus extension
// records), honoring a visited-set cycle guard and the bounded fanout.
func (rd *Reader) ReadEntry(n uint32) (Record, error) {
	raw, corrupt, err := rd.ReadRawEntry(n)
	if corrupt && err != nil {
		return Record{Entry: n, Corrupt: true}, err
	}

	record, herr := parseRecordHeader(raw)
	if herr != nil {
		return Record{Entry: n, Corrupt: true}, herr
	}
	record.Entry = n
	record.Corrupt = record.Corrupt || corrupt
	if record.Corrupt && record.Signature != "FILE" {
		return record, nil
	}

	attrs, werr := walkAttributes(raw, attrOffset(raw), record.UsedSize)
	if werr != nil {
		return record, werr
	}
	record.Attributes = attrs

	extAttrs, listErr := rd.followAttributeList(ref{entry: n, seq: record.Sequence}, attrs)
	if listErr != nil {
		return record, listErr
	}
	record.Attributes = append(record.Attributes, extAttrs...)
	return record, nil
}

// followAttributeList walks every $ATTRIBUTE_LIST entry referencing a record
// other than base, reading each extension record and collecting its
// attributes, with cycle protection keyed by MFT reference and a bounded
// fanout of maxExtensionFanout extension records per base.
func (rd *Reader) followAttributeList(base ref, baseAttrs []attributes.Attribute) ([]attributes.Attribute, error) {
	listAttr := findAttributeList(baseAttrs)
	if listAttr == nil {
		return nil, nil
	}

	entries, err := rd.resolveAttributeListEntries(*listAttr, baseAttrs)
	if err != nil {
		return nil, err
	}

	visited := map[ref]bool{base: true}
	var extAttrs []attributes.Attribute
	fanout := 0

	for _, e := range entries {
		target := ref{entry: e.RefEntry, seq: e.RefSeq}
		if target == base || visited[target] {
			continue
		}
		if fanout >= maxExtensionFanout {
			return extAttrs, errs.New(errs.AttributeListCycle, "attribute list fanout exceeds bound")
		}
		visited[target] = true
		fanout++

		extRaw, extCorrupt, extErr := rd.ReadRawEntry(e.RefEntry)
		if extCorrupt || extErr != nil {
			continue
		}
		extHeader, herr := parseRecordHeader(extRaw)
		if herr != nil {
			continue
		}
		attrs, werr := walkAttributes(extRaw, attrOffset(extRaw), extHeader.UsedSize)
		if werr != nil {
			continue
		}
		extAttrs = append(extAttrs, attrs...)
	}
	return extAttrs, nil
}

func findAttributeList(attrs []attributes.Attribute) *attributes.Attribute {
	for i := range attrs {
		if attrs[i].Kind == attributes.KindAttributeList {
			return &attrs[i]
		}
	}
	return nil
}

// resolveAttributeListEntries returns the list's decoded entries, decoding
// them lazily from the reconstituted non-resident stream when the
// $ATTRIBUTE_LIST itself is non-resident.
func (rd *Reader) resolveAttributeListEntries(listAttr attributes.Attribute, baseAttrs []attributes.Attribute) ([]attributes.AttributeListEntry, error) {
	if !listAttr.Header.NonResident {
		return listAttr.AttributeList, nil
	}
	stream, rerr := rd.reconstituteNonResident(listAttr.Header)
	if rerr != nil {
		return nil, rerr
	}
	return attributes.DecodeAttributeListFromStream(stream), nil
}

// reconstituteNonResident reassembles a non-resident attribute's full value
// by walking its data runs and reading cluster-sized extents, zero-filling
// sparse runs, mirroring the ArtifactExtractor's extraction policy.
func (rd *Reader) reconstituteNonResident(h attributes.Header) ([]byte, error) {
	runs, err := attributes.ParseDataRuns(h.RawMappingPairs)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, h.RealSize)
	clusterSize := rd.Volume.ClusterSize()
	for _, run := range runs {
		n := int(run.LengthClusters) * clusterSize
		if run.Sparse {
			out = append(out, make([]byte, n)...)
			continue
		}
		out = append(out, rd.Volume.ReadCluster(run.AbsoluteLCN, int(run.LengthClusters))...)
	}
	if uint64(len(out)) > h.RealSize {
		out = out[:h.RealSize]
	}
	return out, nil
}
