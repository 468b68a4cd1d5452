package attributes

// DataAttribute is the decoded $DATA (0x80) attribute shell: the content
// bytes when resident, or the run list when non-resident (run decoding
// happens lazily via the header, since it requires the full attribute
// record and is shared with the ArtifactExtractor).
type DataAttribute struct {
	Named   bool
	Content []byte // only populated when resident
}

func parseData(header Header, record []byte) *DataAttribute {
	d := &DataAttribute{Named: header.NameLength > 0}
	if !header.NonResident {
		d.Content = header.ResidentValue(record)
	}
	return d
}
