package vcf

import "strconv"

// Record is a single row of the input table.
type Record struct {
	Chrom string // Chromosome name (e.g., "1", "chr1")
	Pos   int64  // 1-based genomic position
	Ref   string // Reference allele
	Alt   string // Alternate allele field, possibly comma separated
	Info  string // Raw INFO field
	Line  int    // Source line number
}

// String returns the raw identity of the record, e.g. "1:12345 A>T,G".
func (r *Record) String() string {
	return r.Chrom + ":" + strconv.FormatInt(r.Pos, 10) + " " + r.Ref + ">" + r.Alt
}
