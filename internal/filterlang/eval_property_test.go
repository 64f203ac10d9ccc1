package filterlang

import (
	"bytes"
	"fmt"
	"testing"

	"pgregory.net/rapid"

	"github.com/go-marc21/marc21toolkit/internal/record"
)

const (
	subfieldDelimiterByte = 0x1f
	fieldTerminatorByte   = 0x1e
	recordTerminatorByte  = 0x1d
)

// buildRecordWith700Values assembles a minimal valid ISO 2709 record: a
// "001" control field plus one "700" data field per element of values,
// each carrying a single subfield "a" set to that value.
func buildRecordWith700Values(values []string) []byte {
	var data, dir bytes.Buffer
	offset := 0

	writeField := func(tag string, raw []byte) {
		dir.WriteString(fmt.Sprintf("%s%04d%05d", tag, len(raw), offset))
		data.Write(raw)
		offset += len(raw)
	}

	ctrl := append([]byte("1"), byte(fieldTerminatorByte))
	writeField("001", ctrl)

	for _, v := range values {
		raw := []byte{' ', ' ', byte(subfieldDelimiterByte), 'a'}
		raw = append(raw, v...)
		raw = append(raw, byte(fieldTerminatorByte))
		writeField("700", raw)
	}

	dir.WriteByte(byte(fieldTerminatorByte))
	baseAddress := record.LeaderSize + dir.Len()
	total := baseAddress + data.Len() + 1

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%05d", total)
	buf.WriteByte('a')
	buf.WriteByte('a')
	buf.WriteByte(' ')
	buf.WriteByte(' ')
	buf.WriteByte(' ')
	buf.WriteString("22")
	fmt.Fprintf(&buf, "%05d", baseAddress)
	buf.WriteByte(' ')
	buf.WriteByte(' ')
	buf.WriteByte(' ')
	buf.WriteString("4500")
	buf.Write(dir.Bytes())
	buf.Write(data.Bytes())
	buf.WriteByte(byte(recordTerminatorByte))
	return buf.Bytes()
}

func drawWord(t *rapid.T, label string) string {
	n := rapid.IntRange(0, 6).Draw(t, label+"/len")
	buf := make([]byte, n)
	for i := 0; i < n; i++ {
		buf[i] = byte(rapid.IntRange(int('a'), int('z')).Draw(t, fmt.Sprintf("%s/%d", label, i)))
	}
	return string(buf)
}

// TestNegatedOperatorPartitionsRecordsWithBindings is Testable Property 6,
// checked for the ==/!= pair: exactly one of the two holds whenever the
// LHS selector has at least one binding, and neither holds when it has
// none.
func TestNegatedOperatorPartitionsRecordsWithBindings(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 4).Draw(t, "n")
		values := make([]string, n)
		for i := range values {
			values[i] = drawWord(t, fmt.Sprintf("val-%d", i))
		}

		var target string
		if n > 0 && rapid.Bool().Draw(t, "targetFromValues") {
			target = rapid.SampledFrom(values).Draw(t, "target")
		} else {
			target = drawWord(t, "target")
		}

		raw := buildRecordWith700Values(values)
		d := record.NewDecoder(bytes.NewReader(raw))
		rec, err := d.Next()
		if err != nil {
			t.Fatalf("expected a valid record, got error: %v\nraw: %q", err, raw)
		}

		posExpr, err := Parse(fmt.Sprintf("700.a == %q", target), 0.8)
		if err != nil {
			t.Fatalf("parse ==: %v", err)
		}
		negExpr, err := Parse(fmt.Sprintf("700.a != %q", target), 0.8)
		if err != nil {
			t.Fatalf("parse !=: %v", err)
		}

		pos := Eval(posExpr, rec)
		neg := Eval(negExpr, rec)

		if n == 0 {
			if pos || neg {
				t.Fatalf("zero bindings must satisfy neither form, got pos=%v neg=%v", pos, neg)
			}
			return
		}
		if pos == neg {
			t.Fatalf("exactly one of ==/!= must hold with >=1 binding, got pos=%v neg=%v values=%v target=%q", pos, neg, values, target)
		}
	})
}
