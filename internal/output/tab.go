// Package output provides annotation output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/varanno/internal/annotate"
)

// TabWriter writes annotated variants in tab-delimited format.
type TabWriter struct {
	w *bufio.Writer
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{w: bufio.NewWriter(w)}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(annotate.Columns, "\t") + "\n")
	return err
}

// Write writes a single annotated variant.
func (tw *TabWriter) Write(row *annotate.AnnotatedVariant) error {
	values := []string{
		row.VariantID,
		row.VariantType,
		row.VariantEffect,
		strconv.FormatInt(row.CoverageDepth, 10),
		strconv.FormatInt(row.VariantReads, 10),
		strconv.FormatFloat(row.VariantPercent, 'f', 2, 64),
		strconv.FormatFloat(row.AlleleFrequency, 'g', -1, 64),
		row.AdditionalInfo,
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

// ReadTable reads a table written by TabWriter back into rows.
func ReadTable(r io.Reader) ([]*annotate.AnnotatedVariant, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("read header: %w", err)
		}
		return nil, fmt.Errorf("read header: empty table")
	}
	if header := scanner.Text(); header != strings.Join(annotate.Columns, "\t") {
		return nil, fmt.Errorf("unexpected header %q", header)
	}

	var rows []*annotate.AnnotatedVariant
	line := 1
	for scanner.Scan() {
		line++
		if scanner.Text() == "" {
			continue
		}
		row, err := parseRow(scanner.Text())
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading table: %w", err)
	}

	return rows, nil
}

func parseRow(text string) (*annotate.AnnotatedVariant, error) {
	fields := strings.Split(text, "\t")
	if len(fields) != len(annotate.Columns) {
		return nil, fmt.Errorf("expected %d columns, found %d", len(annotate.Columns), len(fields))
	}

	depth, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("coverage_depth: %w", err)
	}
	reads, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("variant_reads: %w", err)
	}
	percent, err := strconv.ParseFloat(fields[5], 64)
	if err != nil {
		return nil, fmt.Errorf("variant_percent: %w", err)
	}
	freq, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return nil, fmt.Errorf("allele_frequency: %w", err)
	}

	return &annotate.AnnotatedVariant{
		VariantID:       fields[0],
		VariantType:     fields[1],
		VariantEffect:   fields[2],
		CoverageDepth:   depth,
		VariantReads:    reads,
		VariantPercent:  percent,
		AlleleFrequency: freq,
		AdditionalInfo:  fields[7],
	}, nil
}
