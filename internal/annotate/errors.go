package annotate

import "fmt"

// UnknownVariantTypeError reports a variant type with no known effect.
type UnknownVariantTypeError struct {
	Type string
}

func (e *UnknownVariantTypeError) Error() string {
	return fmt.Sprintf("unknown variant type %q", e.Type)
}

// NonNumericFieldError reports an INFO value that does not parse as a number.
type NonNumericFieldError struct {
	Key   string
	Value string
	Err   error
}

func (e *NonNumericFieldError) Error() string {
	return fmt.Sprintf("INFO field %s=%q is not numeric", e.Key, e.Value)
}

func (e *NonNumericFieldError) Unwrap() error { return e.Err }

// DivisionByZeroError reports a variant percent with no supporting reads at all.
type DivisionByZeroError struct {
	Field string
}

func (e *DivisionByZeroError) Error() string {
	return fmt.Sprintf("%s: division by zero, all read counts are zero", e.Field)
}

// RecordError wraps a failure to annotate one record with its raw identity.
type RecordError struct {
	Line  int
	Chrom string
	Pos   int64
	Ref   string
	Alt   string
	Err   error
}

func (e *RecordError) Error() string {
	if e.Chrom == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d (%s:%d %s>%s): %v", e.Line, e.Chrom, e.Pos, e.Ref, e.Alt, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
