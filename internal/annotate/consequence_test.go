package annotate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyEffect(t *testing.T) {
	tests := []struct {
		variantType string
		want        string
	}{
		{TypeSNP, EffectNonsense},
		{TypeMNP, EffectNonsense},
		{TypeIns, EffectFrameshift},
		{TypeDel, EffectFrameshift},
		{TypeComplex, EffectFrameshift},
	}

	for _, tt := range tests {
		t.Run(tt.variantType, func(t *testing.T) {
			got, err := ClassifyEffect(tt.variantType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClassifyEffect_Unknown(t *testing.T) {
	for _, variantType := range []string{"bogus", "", "SNP", "snp,ins"} {
		t.Run(variantType, func(t *testing.T) {
			effect, err := ClassifyEffect(variantType)
			assert.Empty(t, effect)

			var unknown *UnknownVariantTypeError
			require.True(t, errors.As(err, &unknown))
			assert.Equal(t, variantType, unknown.Type)
		})
	}
}

func TestFormatVariantID(t *testing.T) {
	assert.Equal(t, "1-12345-A-T", FormatVariantID("1", 12345, "A", "T"))
	assert.Equal(t, "X-1-TTTC-TTTCTTC", FormatVariantID("X", 1, "TTTC", "TTTCTTC"))
}
