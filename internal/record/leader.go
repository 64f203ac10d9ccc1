// Package record implements the MARC 21 (ISO 2709) record codec and the
// read-only in-memory view over a decoded record.
package record

// LeaderSize is the fixed byte width of the MARC 21 leader.
const LeaderSize = 24

// MaxRecordSize is the largest record the 5-digit length prefix can encode.
const MaxRecordSize = 99999

const (
	subfieldDelimiter = 0x1f
	fieldTerminator   = 0x1e
	recordTerminator  = 0x1d
)

// Leader is the fixed 24-byte record header, exposed by the semantic slot
// names the filter language addresses it by (spec §3, §4.D "LeaderSlot").
type Leader struct {
	Length                       int
	Status                       byte
	Type                         byte
	BibliographicLevel           byte
	ControlType                  byte
	CharacterCoding              byte
	IndicatorCount               byte
	SubfieldCodeLength           byte
	BaseAddress                  int
	EncodingLevel                byte
	DescriptiveCatalogingForm    byte
	MultipartResourceRecordLevel byte
}

// Slot returns the value of a named leader slot, for the filter language's
// "ldr.<slot>" LHS form. ok is false for an unknown slot name.
func (l Leader) Slot(name string) (value []byte, ok bool) {
	switch name {
	case "length":
		return []byte(formatDecimal(l.Length, 5)), true
	case "status":
		return []byte{l.Status}, true
	case "type":
		return []byte{l.Type}, true
	case "bibliographic_level":
		return []byte{l.BibliographicLevel}, true
	case "control_type":
		return []byte{l.ControlType}, true
	case "character_coding":
		return []byte{l.CharacterCoding}, true
	case "encoding_level":
		return []byte{l.EncodingLevel}, true
	case "descriptive_cataloging_form":
		return []byte{l.DescriptiveCatalogingForm}, true
	case "multipart_resource_record_level":
		return []byte{l.MultipartResourceRecordLevel}, true
	default:
		return nil, false
	}
}

// parseLeader validates and decodes the 24-byte leader out of raw, which
// must be the full record buffer (invariant 2 of spec §3).
func parseLeader(raw []byte) (Leader, bool) {
	if len(raw) < LeaderSize {
		return Leader{}, false
	}

	length, ok := parseDecimal(raw[0:5])
	if !ok {
		return Leader{}, false
	}
	if raw[10] != '2' || raw[11] != '2' {
		return Leader{}, false
	}
	baseAddress, ok := parseDecimal(raw[12:17])
	if !ok {
		return Leader{}, false
	}
	if string(raw[20:24]) != "4500" {
		return Leader{}, false
	}

	return Leader{
		Length:                       length,
		Status:                       raw[5],
		Type:                         raw[6],
		BibliographicLevel:           raw[7],
		ControlType:                  raw[8],
		CharacterCoding:              raw[9],
		IndicatorCount:               raw[10],
		SubfieldCodeLength:           raw[11],
		BaseAddress:                  baseAddress,
		EncodingLevel:                raw[17],
		DescriptiveCatalogingForm:    raw[18],
		MultipartResourceRecordLevel: raw[19],
	}, true
}

func parseDecimal(digits []byte) (int, bool) {
	if len(digits) == 0 {
		return 0, false
	}
	n := 0
	for _, d := range digits {
		if d < '0' || d > '9' {
			return 0, false
		}
		n = n*10 + int(d-'0')
	}
	return n, true
}

func formatDecimal(n, width int) string {
	buf := make([]byte, width)
	for i := width - 1; i >= 0; i-- {
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf)
}
