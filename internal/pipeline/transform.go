package pipeline

import (
	"context"

	"github.com/couchcryptid/crowflies/internal/domain"
)

// QueryTransformer implements Transformer by resolving each decoded query
// against a Resolver.
type QueryTransformer struct {
	resolver *domain.Resolver
}

// NewTransformer creates a QueryTransformer backed by resolver.
func NewTransformer(resolver *domain.Resolver) *QueryTransformer {
	return &QueryTransformer{resolver: resolver}
}

// Transform decodes raw and resolves it. Unknown codes and invalid
// coordinates come back as a failed result rather than an error, so the
// caller still publishes an answer; only undecodable or incomplete queries
// return an error.
func (t *QueryTransformer) Transform(_ context.Context, raw domain.RawMessage) (domain.DistanceResult, error) {
	q, err := domain.ParseQuery(raw)
	if err != nil {
		return domain.DistanceResult{}, err
	}

	res, err := t.resolver.Resolve(q)
	if err != nil && !res.Failed() {
		return domain.DistanceResult{}, err
	}
	return res, nil
}
