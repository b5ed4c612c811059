package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	m, err := ComputeMetrics(ReadFields{DP: "10", SAF: "3", SAR: "4", SRF: "1", SRR: "2"})
	require.NoError(t, err)

	assert.Equal(t, int64(10), m.CoverageDepth)
	assert.Equal(t, int64(7), m.VariantReads)
	assert.Equal(t, 0.7, m.VariantPercent)
}

func TestComputeMetrics_Rounding(t *testing.T) {
	tests := []struct {
		name   string
		fields ReadFields
		want   float64
	}{
		{"one third", ReadFields{DP: "3", SAF: "1", SAR: "0", SRF: "1", SRR: "1"}, 0.33},
		{"two thirds", ReadFields{DP: "3", SAF: "1", SAR: "1", SRF: "1", SRR: "0"}, 0.67},
		{"half up", ReadFields{DP: "8", SAF: "1", SAR: "0", SRF: "4", SRR: "3"}, 0.13},
		{"all variant", ReadFields{DP: "5", SAF: "2", SAR: "3", SRF: "0", SRR: "0"}, 1},
		{"no variant reads", ReadFields{DP: "5", SAF: "0", SAR: "0", SRF: "2", SRR: "3"}, 0},
		{"tiny fraction", ReadFields{DP: "4124", SAF: "5", SAR: "0", SRF: "2665", SRR: "1454"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ComputeMetrics(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.VariantPercent)
		})
	}
}

func TestComputeMetrics_DivisionByZero(t *testing.T) {
	_, err := ComputeMetrics(ReadFields{DP: "10", SAF: "0", SAR: "0", SRF: "0", SRR: "0"})

	var divErr *DivisionByZeroError
	require.True(t, errors.As(err, &divErr))
	assert.Equal(t, "variant_percent", divErr.Field)
}

func TestComputeMetrics_NonNumeric(t *testing.T) {
	tests := []struct {
		name   string
		fields ReadFields
		key    string
	}{
		{"word depth", ReadFields{DP: "deep", SAF: "1", SAR: "1", SRF: "1", SRR: "1"}, "DP"},
		{"list left unresolved", ReadFields{DP: "1", SAF: "3,4", SAR: "1", SRF: "1", SRR: "1"}, "SAF"},
		{"float count", ReadFields{DP: "1", SAF: "1", SAR: "1.5", SRF: "1", SRR: "1"}, "SAR"},
		{"empty", ReadFields{DP: "1", SAF: "1", SAR: "1", SRF: "", SRR: "1"}, "SRF"},
		{"expression", ReadFields{DP: "1", SAF: "1", SAR: "1", SRF: "1", SRR: "1+1"}, "SRR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeMetrics(tt.fields)

			var numErr *NonNumericFieldError
			require.True(t, errors.As(err, &numErr), "got %v", err)
			assert.Equal(t, tt.key, numErr.Key)
		})
	}
}

func TestParseFrequency(t *testing.T) {
	f, err := parseFrequency("AF", "0.25")
	require.NoError(t, err)
	assert.Equal(t, 0.25, f)

	for _, bad := range []string{"NaN", "Inf", "-Inf", "abc", ""} {
		_, err := parseFrequency("AF", bad)
		var numErr *NonNumericFieldError
		assert.True(t, errors.As(err, &numErr), "value %q", bad)
	}
}
