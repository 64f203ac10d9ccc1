package filterlang

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-marc21/marc21toolkit/internal/record"
)

const sampleRecord = "00458nam a22001577u 4500001001200000005001700012008004100029035001600070245005400086260004100140300003500181650003100216710003300247988001300280906000700293\x1e000000002-7\x1e20120831093346.0\x1e821202|1937    |||||||  |||| |0||||eng|d\x1e0 \x1faocm83544809\x1e00\x1faGarden exhibition /\x1fcSan Francisco Museum of Art.\x1e0 \x1faSan Francisco :\x1fbThe Museum,\x1fc[1937]\x1e  \x1fa1 folded sheet (4p.) ;\x1fc14 cm.\x1e 0\x1faHorticultural exhibitions.\x1e2 \x1faSan Francisco Museum of Art.\x1e  \x1fa20020608\x1e  \x1f0MH\x1e\x1d"

// decodeSample decodes sampleRecord. It has no 075 or 999 field, so
// selectors on those tags exercise the dual-quantifier "zero bindings"
// case for negated operators.
func decodeSample(t *testing.T) *record.Record {
	t.Helper()
	d := record.NewDecoder(strings.NewReader(sampleRecord))
	rec, err := d.Next()
	require.NoError(t, err)
	return rec
}

func mustParse(t *testing.T, src string) Expr {
	t.Helper()
	e, err := Parse(src, 0.8)
	require.NoError(t, err)
	return e
}

func TestEvalExistsTrueAndFalse(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `245?`), rec))
	require.False(t, Eval(mustParse(t, `999?`), rec))
}

func TestEvalSubfieldEquality(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `245.a == "Garden exhibition /"`), rec))
	require.False(t, Eval(mustParse(t, `245.a == "nope"`), rec))
}

func TestEvalSubstringList(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `650.a =? ["nothere", "Horticultural"]`), rec))
}

func TestEvalNegatedOperatorRequiresAtLeastOneBinding(t *testing.T) {
	rec := decodeSample(t)
	// 999 never occurs: neither the positive nor the negated form may
	// match, since the selector has zero bindings on this record.
	require.False(t, Eval(mustParse(t, `999.a == "anything"`), rec))
	require.False(t, Eval(mustParse(t, `999.a != "anything"`), rec))
}

func TestEvalNegatedOperatorAllBindingsMustFail(t *testing.T) {
	rec := decodeSample(t)
	// Both 245 and 260 match "2..", and neither has an "a" subfield equal
	// to "nonexistent-value".
	require.False(t, Eval(mustParse(t, `2...a == "nonexistent-value"`), rec))
	require.True(t, Eval(mustParse(t, `2...a != "nonexistent-value"`), rec))
}

func TestEvalNegatedOperatorFalseWhenAnyBindingMatches(t *testing.T) {
	rec := decodeSample(t)
	// 245.a exists and equals "Garden exhibition /"; != must be false
	// because not ALL bindings differ from the RHS.
	require.False(t, Eval(mustParse(t, `245.a != "Garden exhibition /"`), rec))
}

func TestEvalLeaderNumeric(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `ldr.length > 100`), rec))
	require.False(t, Eval(mustParse(t, `ldr.length > 100000`), rec))
}

func TestEvalAndOr(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `245? && 710?`), rec))
	require.True(t, Eval(mustParse(t, `999? || 245?`), rec))
	require.False(t, Eval(mustParse(t, `999? && 245?`), rec))
}

func TestEvalScopeBindsCurrentField(t *testing.T) {
	rec := decodeSample(t)
	// 260 has subfield a="San Francisco :" and c="[1937]"; the scope form
	// must only see 260's own subfields, not any other field's.
	require.True(t, Eval(mustParse(t, `260{ a =^ "San Francisco" }`), rec))
	require.False(t, Eval(mustParse(t, `260{ a =^ "Horticultural" }`), rec))
}

func TestEvalSimilarity(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `245.a =* "Garden exhibitio /"`), rec))
}

func TestEvalInOperator(t *testing.T) {
	rec := decodeSample(t)
	require.True(t, Eval(mustParse(t, `001 in ["000000002-7", "other"]`), rec))
	require.False(t, Eval(mustParse(t, `001 in ["nope"]`), rec))
}
