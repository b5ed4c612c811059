package vcf

import (
	"fmt"
	"strings"
)

// InfoMap maps INFO attribute names to their raw, unparsed values.
type InfoMap map[string]string

// ParseInfo parses a semicolon-delimited INFO field of key=value pairs.
// Empty pieces (e.g. a trailing ';') are ignored. A piece without '=',
// a repeated key, or a field with no pairs at all is malformed.
func ParseInfo(info string) (InfoMap, error) {
	result := make(InfoMap)

	for _, kv := range strings.Split(info, ";") {
		if kv == "" {
			continue
		}
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, &MalformedInfoError{Info: info, Piece: kv, Reason: "missing '='"}
		}
		if _, dup := result[key]; dup {
			return nil, &MalformedInfoError{Info: info, Piece: kv, Reason: "duplicate key"}
		}
		result[key] = value
	}

	if len(result) == 0 {
		return nil, &MalformedInfoError{Info: info, Reason: "no key=value pairs"}
	}

	return result, nil
}

// Get returns the raw value for key, or a *MissingFieldError when absent.
func (m InfoMap) Get(key string) (string, error) {
	v, ok := m[key]
	if !ok {
		return "", &MissingFieldError{Key: key}
	}
	return v, nil
}

// FirstValue returns the part of a comma-separated value before the first
// comma, or the value unchanged when it holds a single entry.
func FirstValue(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		return raw[:i]
	}
	return raw
}

// IsMultiValued reports whether raw holds more than one comma-separated entry.
func IsMultiValued(raw string) bool {
	return strings.IndexByte(raw, ',') >= 0
}

// MalformedInfoError reports an INFO field that is not a list of key=value pairs.
type MalformedInfoError struct {
	Info   string
	Piece  string
	Reason string
}

func (e *MalformedInfoError) Error() string {
	if e.Piece == "" {
		return fmt.Sprintf("malformed INFO %q: %s", e.Info, e.Reason)
	}
	return fmt.Sprintf("malformed INFO %q: %s in %q", e.Info, e.Reason, e.Piece)
}

// MissingFieldError reports an INFO attribute required for annotation that is absent.
type MissingFieldError struct {
	Key string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing INFO field %s", e.Key)
}
