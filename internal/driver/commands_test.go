package driver

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-marc21/marc21toolkit/internal/record"
)

// sample is the Harvard Library Open Metadata record used across this
// module's fixtures.
const sample = "00458nam a22001577u 4500001001200000005001700012008004100029035001600070245005400086260004100140300003500181650003100216710003300247988001300280906000700293\x1e000000002-7\x1e20120831093346.0\x1e821202|1937    |||||||  |||| |0||||eng|d\x1e0 \x1faocm83544809\x1e00\x1faGarden exhibition /\x1fcSan Francisco Museum of Art.\x1e0 \x1faSan Francisco :\x1fbThe Museum,\x1fc[1937]\x1e  \x1fa1 folded sheet (4p.) ;\x1fc14 cm.\x1e 0\x1faHorticultural exhibitions.\x1e2 \x1faSan Francisco Museum of Art.\x1e  \x1fa20020608\x1e  \x1f0MH\x1e\x1d"

const badLeader = "00000nam a22001577u 4500\x1e\x1d"

func TestConcatPassesThroughValidRecords(t *testing.T) {
	var out bytes.Buffer
	err := Concat(context.Background(), strings.NewReader(sample+sample), &out, Options{})
	require.NoError(t, err)
	assert.Equal(t, sample+sample, out.String())
}

func TestConcatAbortsOnInvalidWithoutSkip(t *testing.T) {
	var out bytes.Buffer
	err := Concat(context.Background(), strings.NewReader(badLeader+sample), &out, Options{})
	var inv *record.InvalidRecord
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, 0, inv.Ordinal)
}

func TestConcatSkipsInvalidWithFlag(t *testing.T) {
	var out bytes.Buffer
	err := Concat(context.Background(), strings.NewReader(badLeader+sample), &out, Options{SkipInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, sample, out.String())
}

func TestConcatWhereFiltersRecords(t *testing.T) {
	var out bytes.Buffer
	err := Concat(context.Background(), strings.NewReader(sample), &out, Options{Where: `245.a =? ["Garden"]`})
	require.NoError(t, err)
	assert.Equal(t, sample, out.String())

	out.Reset()
	err = Concat(context.Background(), strings.NewReader(sample), &out, Options{Where: `245.a =? ["Nothing"]`})
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestCountCountsMatchingRecords(t *testing.T) {
	n, err := Count(context.Background(), strings.NewReader(sample+sample), Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestFilterRequiresNonEmptyExpression(t *testing.T) {
	var out bytes.Buffer
	err := Filter(context.Background(), strings.NewReader(sample), &out, "", 0.8, false, false)
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}

func TestFilterEmitsMatchingRecordsOnly(t *testing.T) {
	var out bytes.Buffer
	err := Filter(context.Background(), strings.NewReader(sample), &out, `650.a =~ "Horticultural"`, 0.8, false, false)
	require.NoError(t, err)
	assert.Equal(t, sample, out.String())
}

func TestHashEmitsIDAndDigest(t *testing.T) {
	var out bytes.Buffer
	err := Hash(context.Background(), strings.NewReader(sample), &out, false, Options{})
	require.NoError(t, err)
	fields := strings.Fields(out.String())
	require.Len(t, fields, 2)
	assert.Equal(t, "000000002-7", fields[0])
	assert.Len(t, fields[1], 64) // hex sha256
}

func TestHashTSVUsesTab(t *testing.T) {
	var out bytes.Buffer
	err := Hash(context.Background(), strings.NewReader(sample), &out, true, Options{})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "\t")
}

func TestInvalidWithoutSkipEmitsFirstThenAborts(t *testing.T) {
	var out bytes.Buffer
	err := Invalid(context.Background(), strings.NewReader(badLeader+sample), &out, Options{})
	var inv *record.InvalidRecord
	require.ErrorAs(t, err, &inv)
	assert.Equal(t, badLeader, out.String())
}

func TestInvalidWithSkipExtractsAllToCompletion(t *testing.T) {
	var out bytes.Buffer
	err := Invalid(context.Background(), strings.NewReader(badLeader+sample+badLeader), &out, Options{SkipInvalid: true})
	require.NoError(t, err)
	assert.Equal(t, badLeader+badLeader, out.String())
}

func TestPrintRendersLeaderAndFields(t *testing.T) {
	var out bytes.Buffer
	err := Print(context.Background(), strings.NewReader(sample), &out, Options{})
	require.NoError(t, err)
	text := out.String()
	assert.Contains(t, text, "LDR ")
	assert.Contains(t, text, "245/00")
	assert.Contains(t, text, "$a Garden exhibition /")
}

func TestSampleSizeMustBePositive(t *testing.T) {
	var out bytes.Buffer
	err := Sample(context.Background(), strings.NewReader(sample), &out, 0, nil, Options{})
	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}

func TestSampleDeterministicWithSeed(t *testing.T) {
	seed := int64(42)
	var first, second bytes.Buffer
	require.NoError(t, Sample(context.Background(), strings.NewReader(sample+sample+sample), &first, 2, &seed, Options{}))
	require.NoError(t, Sample(context.Background(), strings.NewReader(sample+sample+sample), &second, 2, &seed, Options{}))
	assert.Equal(t, first.String(), second.String())
}

func TestSplitWritesChunkFiles(t *testing.T) {
	dir := t.TempDir()
	err := Split(context.Background(), strings.NewReader(sample+sample+sample), dir, "chunk_{}.mrc", 2, -1, Options{})
	require.NoError(t, err)

	first, err := os.ReadFile(dir + "/chunk_0.mrc")
	require.NoError(t, err)
	assert.Equal(t, sample+sample, string(first))

	second, err := os.ReadFile(dir + "/chunk_1.mrc")
	require.NoError(t, err)
	assert.Equal(t, sample, string(second))
}

func TestSplitWithNoMatchesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	err := Split(context.Background(), strings.NewReader(""), dir, "chunk_{}.mrc", 2, -1, Options{})
	require.NoError(t, err)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestContextCancellationStopsThePipeline(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	err := Concat(ctx, strings.NewReader(sample+sample), &out, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
