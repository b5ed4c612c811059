package annotate

import (
	"context"

	"go.uber.org/zap"
)

// FrequencySource looks up a known allele frequency for a variant.
type FrequencySource interface {
	AlleleFrequency(ctx context.Context, variantID string) (float64, error)
}

// FrequencyOrigin records which source an allele frequency came from.
type FrequencyOrigin int

const (
	// OriginRemote means the reference service supplied the frequency.
	OriginRemote FrequencyOrigin = iota
	// OriginFallback means the record's own AF value was used.
	OriginFallback
)

func (o FrequencyOrigin) String() string {
	switch o {
	case OriginRemote:
		return "remote"
	case OriginFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// FrequencyResolver resolves allele frequencies from a remote source,
// falling back to a locally supplied value when the lookup fails.
type FrequencyResolver struct {
	remote FrequencySource
	logger *zap.Logger
}

// NewFrequencyResolver creates a resolver. A nil remote always uses the fallback.
func NewFrequencyResolver(remote FrequencySource) *FrequencyResolver {
	return &FrequencyResolver{
		remote: remote,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for lookup failures.
func (r *FrequencyResolver) SetLogger(l *zap.Logger) {
	r.logger = l
}

// Resolve returns the remote frequency for variantID, or fallback when the
// remote source is absent or fails for any reason.
func (r *FrequencyResolver) Resolve(ctx context.Context, variantID string, fallback float64) (float64, FrequencyOrigin) {
	if r.remote == nil {
		return fallback, OriginFallback
	}

	freq, err := r.remote.AlleleFrequency(ctx, variantID)
	if err != nil {
		r.logger.Debug("allele frequency lookup failed, using INFO AF",
			zap.String("variant_id", variantID),
			zap.Float64("fallback", fallback),
			zap.Error(err))
		return fallback, OriginFallback
	}

	return freq, OriginRemote
}
