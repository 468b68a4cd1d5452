package attributes

import "github.com/aarsakian/ntfsforensics/errs"

// DataRun is one decoded mapping-pairs entry: a run of LengthClusters
// clusters, either backed at AbsoluteLCN (sparse == false) or unbacked
// (sparse == true, AbsoluteLCN is meaningless).
type DataRun struct {
	LengthClusters uint64
	AbsoluteLCN    uint64
	Sparse         bool
}

// ParseDataRuns decodes an NTFS mapping-pairs byte stream into a sequence of
// DataRun, maintaining the running LCN sum across runs (S2). Each header
// byte packs the offset field's byte width in its high nibble and the
// length field's byte width in its low nibble; a header byte of 0x00
// terminates the stream. The offset field is sign-extended (two's
// complement) before being added to the running total; an absent offset
// field (length-width nibble high, offset-width nibble zero) marks a sparse
// run.
func ParseDataRuns(mappingPairs []byte) ([]DataRun, error) {
	var runs []DataRun
	var runningLCN int64
	pos := 0

	for pos < len(mappingPairs) {
		header := mappingPairs[pos]
		if header == 0x00 {
			break
		}
		lengthSize := int(header & 0x0F)
		offsetSize := int(header>>4) & 0x0F
		pos++

		if pos+lengthSize > len(mappingPairs) {
			return runs, errs.Newf(errs.BadRunList, "run length field exceeds remaining %d bytes", len(mappingPairs)-pos)
		}
		length := readUnsigned(mappingPairs[pos : pos+lengthSize])
		pos += lengthSize

		if offsetSize == 0 {
			runs = append(runs, DataRun{LengthClusters: length, Sparse: true})
			continue
		}

		if pos+offsetSize > len(mappingPairs) {
			return runs, errs.Newf(errs.BadRunList, "run offset field exceeds remaining %d bytes", len(mappingPairs)-pos)
		}
		offset := readSigned(mappingPairs[pos : pos+offsetSize])
		pos += offsetSize

		runningLCN += offset
		if runningLCN < 0 {
			return runs, errs.Newf(errs.BadRunList, "run decodes to negative absolute LCN %d", runningLCN)
		}

		runs = append(runs, DataRun{LengthClusters: length, AbsoluteLCN: uint64(runningLCN)})
	}
	return runs, nil
}

// readUnsigned reads a little-endian unsigned value of arbitrary byte width
// (NTFS run lengths are always non-negative).
func readUnsigned(b []byte) uint64 {
	var v uint64
	for i, by := range b {
		v |= uint64(by) << uint(8*i)
	}
	return v
}

// readSigned reads a little-endian two's-complement signed value of
// arbitrary byte width, sign-extending from the top bit of the last byte.
func readSigned(b []byte) int64 {
	var v int64
	for i, by := range b {
		v |= int64(by) << uint(8*i)
	}
	topBit := b[len(b)-1] & 0x80
	if topBit != 0 {
		v -= 1 << uint(8*len(b))
	}
	return v
}

// TotalClusters sums the length of every run, backed or sparse.
func TotalClusters(runs []DataRun) uint64 {
	var total uint64
	for _, r := range runs {
		total += r.LengthClusters
	}
	return total
}
