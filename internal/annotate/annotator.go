package annotate

import (
	"context"
	"errors"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/varanno/internal/vcf"
)

// Annotator turns variant records into annotated rows.
type Annotator struct {
	freq    *FrequencyResolver
	workers int
	strict  bool
	logger  *zap.Logger
}

// NewAnnotator creates a new annotator resolving allele frequencies with freq.
// A nil freq resolves every frequency from the record's AF.
func NewAnnotator(freq *FrequencyResolver) *Annotator {
	if freq == nil {
		freq = NewFrequencyResolver(nil)
	}
	return &Annotator{
		freq:    freq,
		workers: 1,
		logger:  zap.NewNop(),
	}
}

// SetWorkers sets how many records are annotated concurrently.
// Output order always follows input order.
func (a *Annotator) SetWorkers(n int) {
	if n < 1 {
		n = 1
	}
	a.workers = n
}

// SetStrict configures whether the first failed record aborts the run
// instead of being skipped and reported.
func (a *Annotator) SetStrict(strict bool) {
	a.strict = strict
}

// SetLogger sets the logger for warning and info messages.
func (a *Annotator) SetLogger(l *zap.Logger) {
	a.logger = l
}

// Annotate annotates a single record. Failures are returned as *RecordError.
func (a *Annotator) Annotate(ctx context.Context, rec *vcf.Record) (*AnnotatedVariant, error) {
	row, _, err := a.annotate(ctx, rec)
	return row, err
}

func (a *Annotator) annotate(ctx context.Context, rec *vcf.Record) (*AnnotatedVariant, FrequencyOrigin, error) {
	row, origin, err := a.buildRow(ctx, rec)
	if err != nil {
		return nil, origin, &RecordError{
			Line:  rec.Line,
			Chrom: rec.Chrom,
			Pos:   rec.Pos,
			Ref:   rec.Ref,
			Alt:   rec.Alt,
			Err:   err,
		}
	}
	return row, origin, nil
}

func (a *Annotator) buildRow(ctx context.Context, rec *vcf.Record) (*AnnotatedVariant, FrequencyOrigin, error) {
	info, err := vcf.ParseInfo(rec.Info)
	if err != nil {
		return nil, OriginFallback, err
	}

	rawType, err := info.Get("TYPE")
	if err != nil {
		return nil, OriginFallback, err
	}

	// TYPE alone decides whether every field of this record is multi-valued.
	f := &recordFields{info: info, multi: vcf.IsMultiValued(rawType)}

	variantType := f.resolve(rawType)
	variantID := FormatVariantID(rec.Chrom, rec.Pos, rec.Ref, f.resolve(rec.Alt))

	effect, err := ClassifyEffect(variantType)
	if err != nil {
		return nil, OriginFallback, err
	}

	reads := ReadFields{
		DP:  f.get("DP"),
		SAF: f.get("SAF"),
		SAR: f.get("SAR"),
		SRF: f.get("SRF"),
		SRR: f.get("SRR"),
	}
	if f.err != nil {
		return nil, OriginFallback, f.err
	}
	metrics, err := ComputeMetrics(reads)
	if err != nil {
		return nil, OriginFallback, err
	}

	rawAF := f.get("AF")
	if f.err != nil {
		return nil, OriginFallback, f.err
	}
	fallback, err := parseFrequency("AF", rawAF)
	if err != nil {
		return nil, OriginFallback, err
	}
	freq, origin := a.freq.Resolve(ctx, variantID, fallback)

	row := &AnnotatedVariant{
		VariantID:       variantID,
		VariantType:     variantType,
		VariantEffect:   effect,
		CoverageDepth:   metrics.CoverageDepth,
		VariantReads:    metrics.VariantReads,
		VariantPercent:  metrics.VariantPercent,
		AlleleFrequency: freq,
	}
	if f.multi {
		row.AdditionalInfo = MultiValueNote
	}

	return row, origin, nil
}

// recordFields reads INFO values of one record, applying the record's
// multi-value decision to each. The first missing key is kept in err.
type recordFields struct {
	info  vcf.InfoMap
	multi bool
	err   error
}

func (f *recordFields) resolve(raw string) string {
	if f.multi {
		return vcf.FirstValue(raw)
	}
	return raw
}

func (f *recordFields) get(key string) string {
	if f.err != nil {
		return ""
	}
	v, err := f.info.Get(key)
	if err != nil {
		f.err = err
		return ""
	}
	return f.resolve(v)
}

// Summary describes the outcome of an AnnotateAll run.
type Summary struct {
	Records             int
	Annotated           int
	RemoteFrequencies   int
	FallbackFrequencies int
	Skipped             []*RecordError
}

// WriteSummary writes a human-readable summary of the run.
func (s *Summary) WriteSummary(w io.Writer) {
	fmt.Fprintf(w, "\nAnnotation Summary:\n")
	fmt.Fprintf(w, "  Records read:        %d\n", s.Records)
	fmt.Fprintf(w, "  Annotated:           %d\n", s.Annotated)
	fmt.Fprintf(w, "  Skipped:             %d\n", len(s.Skipped))
	fmt.Fprintf(w, "  Remote frequencies:  %d\n", s.RemoteFrequencies)
	fmt.Fprintf(w, "  Fallback (INFO AF):  %d\n", s.FallbackFrequencies)
	for _, skipped := range s.Skipped {
		fmt.Fprintf(w, "    skipped %v\n", skipped)
	}
}

// AnnotateAll annotates all records from reader and writes one row per
// successfully annotated record, in input order. Failed records are
// skipped and listed in the summary unless the annotator is strict, in
// which case the first failure aborts the run.
func (a *Annotator) AnnotateAll(ctx context.Context, reader vcf.RecordReader, writer AnnotationWriter) (*Summary, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	items := make(chan WorkItem, 2*a.workers)
	var readErr error

	go func() {
		defer close(items)
		seq := 0
		for {
			rec, err := reader.Next()
			var parseErr *vcf.ParseError
			if err != nil && !errors.As(err, &parseErr) {
				readErr = fmt.Errorf("read variant: %w", err)
				return
			}
			if err == nil && rec == nil {
				return
			}

			item := WorkItem{Seq: seq, Record: rec}
			if parseErr != nil {
				item.Err = &RecordError{Line: parseErr.Line, Err: parseErr}
			}
			select {
			case items <- item:
			case <-ctx.Done():
				return
			}
			seq++
		}
	}()

	results := a.ParallelAnnotate(ctx, items, a.workers)

	summary := &Summary{}
	if err := OrderedCollect(results, func(r WorkResult) error {
		summary.Records++
		if r.Err != nil {
			var recErr *RecordError
			if !errors.As(r.Err, &recErr) {
				recErr = &RecordError{Err: r.Err}
			}
			if a.strict {
				cancel()
				return recErr
			}
			a.logger.Warn("skipping record",
				zap.Int("line", recErr.Line),
				zap.String("chrom", recErr.Chrom),
				zap.Int64("pos", recErr.Pos),
				zap.Error(recErr.Err))
			summary.Skipped = append(summary.Skipped, recErr)
			return nil
		}

		if err := writer.Write(r.Row); err != nil {
			cancel()
			return fmt.Errorf("write annotation: %w", err)
		}
		summary.Annotated++
		if r.Origin == OriginRemote {
			summary.RemoteFrequencies++
		} else {
			summary.FallbackFrequencies++
		}
		return nil
	}); err != nil {
		return summary, err
	}

	if readErr != nil {
		return summary, readErr
	}
	if err := ctx.Err(); err != nil {
		return summary, err
	}

	if summary.Records == 0 {
		a.logger.Info("0 variants processed")
	}

	return summary, writer.Flush()
}

// AnnotationWriter defines the interface for writing annotated rows.
type AnnotationWriter interface {
	WriteHeader() error
	Write(row *AnnotatedVariant) error
	Flush() error
}
