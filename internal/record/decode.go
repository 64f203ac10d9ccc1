package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// InvalidRecord is returned by Decoder.Next when a record fails any of the
// invariants in spec §3. Bytes holds whatever was read for the offending
// record (possibly short, for a truncated trailer at EOF); Ordinal is the
// zero-based position of the record within the source, counting valid and
// invalid records alike (spec §4.B).
type InvalidRecord struct {
	Bytes   []byte
	Ordinal int
	Reason  string
}

func (e *InvalidRecord) Error() string {
	return fmt.Sprintf("marc21: invalid record at ordinal %d: %s", e.Ordinal, e.Reason)
}

// Decoder reads a stream of length-prefixed ISO 2709 records from an
// io.Reader, one at a time, validating each against spec §3's invariants.
type Decoder struct {
	r       *bufio.Reader
	ordinal int
}

// NewDecoder wraps r for record-at-a-time decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: bufio.NewReaderSize(r, 64*1024)}
}

// Next decodes the next record. It returns (record, nil) for a valid
// record, (nil, *InvalidRecord) for an invalid one (with resynchronization
// already performed so the next call continues at the following record),
// (nil, io.EOF) at a clean end of stream, or (nil, err) for an underlying
// I/O error.
func (d *Decoder) Next() (*Record, error) {
	ordinal := d.ordinal
	d.ordinal++

	prefix := make([]byte, 5)
	n, err := io.ReadFull(d.r, prefix)
	if n == 0 && errors.Is(err, io.EOF) {
		d.ordinal--
		return nil, io.EOF
	}
	if err != nil {
		// Short/garbled length prefix: whatever bytes we got constitute a
		// truncated trailing record, always invalid (spec §8).
		d.resync()
		return nil, &InvalidRecord{Bytes: prefix[:n], Ordinal: ordinal, Reason: "truncated length prefix"}
	}

	length, ok := parseDecimal(prefix)
	if !ok || length < LeaderSize+2 || length > MaxRecordSize {
		bad := append([]byte(nil), prefix...)
		bad = append(bad, d.resync()...)
		return nil, &InvalidRecord{Bytes: bad, Ordinal: ordinal, Reason: "invalid length prefix"}
	}

	buf := make([]byte, length)
	copy(buf, prefix)
	n, err = io.ReadFull(d.r, buf[5:])
	if err != nil {
		// Partial trailing record at EOF: always invalid, whatever we got.
		return nil, &InvalidRecord{Bytes: buf[:5+n], Ordinal: ordinal, Reason: "truncated record body"}
	}

	rec, reason := decodeValidated(buf)
	if reason != "" {
		if buf[len(buf)-1] != recordTerminator {
			buf = append(buf, d.resync()...)
		}
		return nil, &InvalidRecord{Bytes: buf, Ordinal: ordinal, Reason: reason}
	}
	return rec, nil
}

// resync scans forward, byte-wise, for the next record terminator (0x1D)
// and consumes through it, per spec §4.B's "Failure semantics", returning
// the bytes it consumed (terminator included). It is a no-op if the stream
// is already exhausted.
func (d *Decoder) resync() []byte {
	var skipped []byte
	for {
		b, err := d.r.ReadByte()
		if err != nil {
			return skipped
		}
		skipped = append(skipped, b)
		if b == recordTerminator {
			return skipped
		}
	}
}

// decodeValidated validates every invariant in spec §3 against the
// already-length-delimited buf and builds the field/subfield span table.
// reason is empty on success.
func decodeValidated(buf []byte) (*Record, string) {
	if buf[len(buf)-1] != recordTerminator {
		return nil, "record does not end in a record terminator"
	}

	leader, ok := parseLeader(buf)
	if !ok {
		return nil, "invalid leader"
	}
	if leader.Length != len(buf) {
		return nil, "leader length does not match actual record length"
	}
	if leader.BaseAddress < LeaderSize+1 || leader.BaseAddress >= len(buf) {
		return nil, "base address out of range"
	}

	dirEnd := leader.BaseAddress - 1
	if buf[dirEnd] != fieldTerminator {
		return nil, "directory does not end in a field terminator"
	}
	dir := buf[LeaderSize:dirEnd]
	if len(dir)%12 != 0 {
		return nil, "directory is not a whole number of entries"
	}

	dataArea := buf[leader.BaseAddress : len(buf)-1] // data area, record terminator excluded

	fields := make([]field, 0, len(dir)/12)
	for i := 0; i < len(dir); i += 12 {
		entry := dir[i : i+12]
		tag := entry[0:3]
		for _, c := range tag {
			if c < '0' || c > '9' {
				return nil, "directory tag is not 3 ASCII digits"
			}
		}
		flen, ok := parseDecimal(entry[3:7])
		if !ok {
			return nil, "directory entry length is not numeric"
		}
		foff, ok := parseDecimal(entry[7:12])
		if !ok {
			return nil, "directory entry offset is not numeric"
		}
		if flen < 1 || foff < 0 || foff+flen > len(dataArea) {
			return nil, "directory entry out of bounds"
		}
		raw := dataArea[foff : foff+flen]
		if raw[len(raw)-1] != fieldTerminator {
			return nil, "field value does not end in a field terminator"
		}
		base := leader.BaseAddress + foff

		var tagArr [3]byte
		copy(tagArr[:], tag)

		if isControlTag(tagArr) {
			value := raw[:len(raw)-1] // drop trailing field terminator
			for _, c := range value {
				if c == subfieldDelimiter {
					return nil, "control field contains a subfield delimiter"
				}
			}
			f := field{tag: tagArr, control: true, val: span{base, base + flen - 1}}
			fields = append(fields, f)
			continue
		}
		if !isDataTag(tagArr) {
			return nil, "tag is outside both control and data field ranges"
		}

		content := raw[:len(raw)-1] // drop trailing field terminator
		if len(content) < 2 {
			return nil, "data field is missing indicators"
		}
		ind1, ind2 := content[0], content[1]
		rest := content[2:]
		if len(rest) == 0 || rest[0] != subfieldDelimiter {
			return nil, "data field has no subfields"
		}

		var subs []subfield
		pos := 0
		for pos < len(rest) {
			if rest[pos] != subfieldDelimiter {
				return nil, "malformed subfield delimiter"
			}
			if pos+1 >= len(rest) {
				return nil, "subfield missing code byte"
			}
			code := rest[pos+1]
			valStart := pos + 2
			valEnd := valStart
			for valEnd < len(rest) && rest[valEnd] != subfieldDelimiter {
				valEnd++
			}
			sBase := base + 2 + valStart
			subs = append(subs, subfield{code: code, val: span{sBase, base + 2 + valEnd}})
			pos = valEnd
		}

		fields = append(fields, field{tag: tagArr, control: false, ind1: ind1, ind2: ind2, subfields: subs})
	}

	return &Record{buf: buf, leader: leader, fields: fields}, ""
}

func isControlTag(tag [3]byte) bool {
	return tag[0] == '0' && tag[1] == '0' && tag[2] >= '1' && tag[2] <= '9'
}

func isDataTag(tag [3]byte) bool {
	return !(tag[0] == '0' && tag[1] == '0')
}
