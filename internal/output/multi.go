package output

import "github.com/inodb/varanno/internal/annotate"

// MultiWriter fans every call out to several writers, stopping at the first error.
type MultiWriter struct {
	writers []annotate.AnnotationWriter
}

// NewMultiWriter creates a writer that duplicates output to all writers.
func NewMultiWriter(writers ...annotate.AnnotationWriter) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) WriteHeader() error {
	for _, w := range m.writers {
		if err := w.WriteHeader(); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Write(row *annotate.AnnotatedVariant) error {
	for _, w := range m.writers {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Flush() error {
	for _, w := range m.writers {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	return nil
}
