// Package annotate derives per-variant annotations from parsed VCF records.
package annotate

import "strconv"

// MultiValueNote is the additional_info marker for records whose INFO
// attributes carried more than one alternate allele.
const MultiValueNote = "multiple alt alleles; first allele reported"

// Columns are the output column names, in order.
var Columns = []string{
	"variant_id",
	"variant_type",
	"variant_effect",
	"coverage_depth",
	"variant_reads",
	"variant_percent",
	"allele_frequency",
	"additional_info",
}

// AnnotatedVariant is one output row.
type AnnotatedVariant struct {
	VariantID       string  // CHROM-POS-REF-ALT
	VariantType     string  // snp, mnp, ins, del or complex
	VariantEffect   string  // Most deleterious consequence of VariantType
	CoverageDepth   int64   // DP
	VariantReads    int64   // SAF + SAR
	VariantPercent  float64 // Alternate read fraction, two decimals
	AlleleFrequency float64 // Reference service frequency, else INFO AF
	AdditionalInfo  string  // MultiValueNote or empty
}

// FormatVariantID creates the canonical variant identifier CHROM-POS-REF-ALT.
func FormatVariantID(chrom string, pos int64, ref, alt string) string {
	return chrom + "-" + strconv.FormatInt(pos, 10) + "-" + ref + "-" + alt
}
