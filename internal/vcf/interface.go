// Package vcf reads VCF-style variant tables and parses their INFO fields.
package vcf

// RecordReader is the interface for sources that yield variant records.
type RecordReader interface {
	// Next reads the next record.
	// Returns nil, nil when there are no more records.
	Next() (*Record, error)

	// Close closes the reader and releases resources.
	Close() error

	// LineNumber returns the current line number being processed.
	LineNumber() int
}
