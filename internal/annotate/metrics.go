package annotate

import (
	"math"
	"strconv"
)

// ReadFields holds the raw, already multi-value resolved INFO values
// needed for read-support metrics.
type ReadFields struct {
	DP  string // Total read depth
	SAF string // Alternate reads, forward strand
	SAR string // Alternate reads, reverse strand
	SRF string // Reference reads, forward strand
	SRR string // Reference reads, reverse strand
}

// Metrics are the read-support statistics of one variant.
type Metrics struct {
	CoverageDepth  int64
	VariantReads   int64
	VariantPercent float64
}

// ComputeMetrics derives coverage, supporting reads and the supporting
// read fraction (rounded to two decimals) from ReadFields.
func ComputeMetrics(f ReadFields) (Metrics, error) {
	dp, err := parseCount("DP", f.DP)
	if err != nil {
		return Metrics{}, err
	}
	saf, err := parseCount("SAF", f.SAF)
	if err != nil {
		return Metrics{}, err
	}
	sar, err := parseCount("SAR", f.SAR)
	if err != nil {
		return Metrics{}, err
	}
	srf, err := parseCount("SRF", f.SRF)
	if err != nil {
		return Metrics{}, err
	}
	srr, err := parseCount("SRR", f.SRR)
	if err != nil {
		return Metrics{}, err
	}

	reads := saf + sar
	total := reads + srf + srr
	if total == 0 {
		return Metrics{}, &DivisionByZeroError{Field: "variant_percent"}
	}

	return Metrics{
		CoverageDepth:  dp,
		VariantReads:   reads,
		VariantPercent: roundTo2(float64(reads) / float64(total)),
	}, nil
}

// roundTo2 rounds half away from zero to two decimal places.
func roundTo2(x float64) float64 {
	return math.Round(x*100) / 100
}

func parseCount(key, value string) (int64, error) {
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, &NonNumericFieldError{Key: key, Value: value, Err: err}
	}
	return n, nil
}

// parseFrequency parses an allele frequency, rejecting NaN and infinities.
func parseFrequency(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, &NonNumericFieldError{Key: key, Value: value, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, &NonNumericFieldError{Key: key, Value: value}
	}
	return f, nil
}
