package attributes

// Kind tags which concrete variant an Attribute carries. This replaces
// runtime IsXxx()-style type dispatch with a closed tag set the caller can
// switch on directly.
type Kind int

const (
	KindStandardInformation Kind = iota
	KindAttributeList
	KindFileName
	KindData
	KindOther
)

// Attribute is the tagged variant over the attribute set this decoder
// recognizes: {StandardInformation, AttributeList, FileName, Data,
// Other(type_code)}. Exactly one of the pointer/slice fields is populated,
// selected by Kind.
type Attribute struct {
	Header Header
	Kind   Kind

	StandardInformation *StandardInformation
	AttributeList       []AttributeListEntry
	FileName             *FileName
	Data                 *DataAttribute
}

// decoders maps a recognized type code to the function that builds its
// tagged variant from the header and the attribute's own raw bytes (value
// offsets are relative to the attribute's start). Type
// codes absent from this table decode to KindOther with no populated
// variant field; the raw header is still returned.
var decoders = map[TypeCode]func(h Header, record []byte) Attribute{
	TypeStandardInformation: func(h Header, record []byte) Attribute {
		return Attribute{Header: h, Kind: KindStandardInformation, StandardInformation: parseStandardInformation(h.ResidentValue(record))}
	},
	TypeAttributeList: func(h Header, record []byte) Attribute {
		value := h.ResidentValue(record)
		if h.NonResident {
			// decoded later from the reconstituted non-resident stream by the caller
			return Attribute{Header: h, Kind: KindAttributeList}
		}
		return Attribute{Header: h, Kind: KindAttributeList, AttributeList: parseAttributeList(value)}
	},
	TypeFileName: func(h Header, record []byte) Attribute {
		return Attribute{Header: h, Kind: KindFileName, FileName: parseFileName(h.ResidentValue(record))}
	},
	TypeData: func(h Header, record []byte) Attribute {
		return Attribute{Header: h, Kind: KindData, Data: parseData(h, record)}
	},
}

// Decode parses one attribute's header at data[0:] and dispatches to the
// recognized decoder for its type code, falling back to KindOther. The
// decoders read the value out of data itself; record is not consulted.
func Decode(data []byte, record []byte) (Attribute, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return Attribute{}, err
	}
	if build, ok := decoders[h.Type]; ok {
		return build(h, data), nil
	}
	return Attribute{Header: h, Kind: KindOther}, nil
}

// DecodeAttributeListFromStream decodes a non-resident $ATTRIBUTE_LIST's
// reconstituted value stream (already assembled by the caller from its data
// runs) into entries, since resident decoding can't reach it directly.
func DecodeAttributeListFromStream(value []byte) []AttributeListEntry {
	return parseAttributeList(value)
}
