package annotate

// Variant types as reported in the INFO TYPE attribute.
const (
	TypeSNP     = "snp"
	TypeMNP     = "mnp"
	TypeIns     = "ins"
	TypeDel     = "del"
	TypeComplex = "complex"
)

// Variant effects.
const (
	EffectNonsense   = "nonsense"
	EffectFrameshift = "frameshift"
)

// effectTable maps each variant type to its most deleterious consequence.
var effectTable = map[string]string{
	TypeSNP:     EffectNonsense,
	TypeMNP:     EffectNonsense,
	TypeIns:     EffectFrameshift,
	TypeDel:     EffectFrameshift,
	TypeComplex: EffectFrameshift,
}

// ClassifyEffect returns the most deleterious effect for a variant type.
// Types missing from the table yield an *UnknownVariantTypeError.
func ClassifyEffect(variantType string) (string, error) {
	effect, ok := effectTable[variantType]
	if !ok {
		return "", &UnknownVariantTypeError{Type: variantType}
	}
	return effect, nil
}
