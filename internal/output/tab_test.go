package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varanno/internal/annotate"
)

func sampleRows() []*annotate.AnnotatedVariant {
	return []*annotate.AnnotatedVariant{
		{
			VariantID:       "1-931393-G-T",
			VariantType:     "snp",
			VariantEffect:   "nonsense",
			CoverageDepth:   4124,
			VariantReads:    5,
			VariantPercent:  0,
			AlleleFrequency: 0.02,
		},
		{
			VariantID:       "1-1647778-TTTC-TTTCTTC",
			VariantType:     "ins",
			VariantEffect:   "frameshift",
			CoverageDepth:   2401,
			VariantReads:    22,
			VariantPercent:  0.01,
			AlleleFrequency: 1.2e-05,
			AdditionalInfo:  annotate.MultiValueNote,
		},
	}
}

func TestTabWriter_WriteHeader(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	require.NoError(t, w.Flush())

	assert.Equal(t, "variant_id\tvariant_type\tvariant_effect\tcoverage_depth\t"+
		"variant_reads\tvariant_percent\tallele_frequency\tadditional_info\n", buf.String())
}

func TestTabWriter_Write(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	require.NoError(t, w.WriteHeader())
	for _, row := range sampleRows() {
		require.NoError(t, w.Write(row))
	}
	require.NoError(t, w.Flush())

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "1-931393-G-T\tsnp\tnonsense\t4124\t5\t0.00\t0.02\t", lines[1])
	assert.Equal(t, "1-1647778-TTTC-TTTCTTC\tins\tframeshift\t2401\t22\t0.01\t1.2e-05\t"+annotate.MultiValueNote, lines[2])
}

func TestTabWriter_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewTabWriter(&buf)

	rows := sampleRows()
	require.NoError(t, w.WriteHeader())
	for _, row := range rows {
		require.NoError(t, w.Write(row))
	}
	require.NoError(t, w.Flush())

	got, err := ReadTable(&buf)
	require.NoError(t, err)
	assert.Equal(t, rows, got)
}

func TestReadTable_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"empty", "", "empty table"},
		{"wrong header", "a\tb\n", "unexpected header"},
		{"short row", strings.Join(annotate.Columns, "\t") + "\nx\ty\n", "expected 8 columns"},
		{"bad depth", strings.Join(annotate.Columns, "\t") + "\nid\tsnp\tnonsense\tx\t1\t0.5\t0.1\t\n", "coverage_depth"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

type failingWriter struct{ calls int }

func (f *failingWriter) WriteHeader() error { f.calls++; return errors.New("header failed") }
func (f *failingWriter) Write(*annotate.AnnotatedVariant) error {
	f.calls++
	return errors.New("write failed")
}
func (f *failingWriter) Flush() error { f.calls++; return nil }

func TestMultiWriter(t *testing.T) {
	var a, b bytes.Buffer
	m := NewMultiWriter(NewTabWriter(&a), NewTabWriter(&b))

	require.NoError(t, m.WriteHeader())
	require.NoError(t, m.Write(sampleRows()[0]))
	require.NoError(t, m.Flush())

	assert.Equal(t, a.String(), b.String())
	assert.Contains(t, a.String(), "1-931393-G-T")
}

func TestMultiWriter_StopsAtFirstError(t *testing.T) {
	first := &failingWriter{}
	second := &failingWriter{}
	m := NewMultiWriter(first, second)

	assert.EqualError(t, m.WriteHeader(), "header failed")
	assert.EqualError(t, m.Write(sampleRows()[0]), "write failed")
	assert.Equal(t, 2, first.calls)
	assert.Equal(t, 0, second.calls)
}
