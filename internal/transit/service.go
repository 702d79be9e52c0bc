package transit

import (
	"context"
	"fmt"

	"github.com/randytsao24/nextshuttle/internal/logger"
)

// Service answers the questions the skill asks: one provider at the
// default stop, or the closest arrivals across all providers.
type Service struct {
	providers  map[ProviderKind]Provider
	aggregator *Aggregator
}

// NewService wires providers into single-provider lookups and an aggregator.
func NewService(log logger.Logger, providers ...Provider) *Service {
	m := make(map[ProviderKind]Provider, len(providers))
	for _, p := range providers {
		m[p.Kind()] = p
	}
	return &Service{providers: m, aggregator: NewAggregator(log, providers...)}
}

// Predictions fetches one provider at its Beacon St stop. Failures are returned
// to the caller untouched.
func (s *Service) Predictions(ctx context.Context, kind ProviderKind) (Result, error) {
	p, ok := s.providers[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s not configured", ErrUnknownProvider, kind)
	}
	q, _ := BeaconStreet.Query(kind)
	return p.Fetch(ctx, q)
}

// Describe is Predictions rendered as a sentence.
func (s *Service) Describe(ctx context.Context, kind ProviderKind) (string, error) {
	result, err := s.Predictions(ctx, kind)
	if err != nil {
		return "", err
	}
	return Describe(result), nil
}

// Closest ranks arrivals across providers for the named direction.
func (s *Service) Closest(ctx context.Context, direction string) (Ranking, error) {
	cfg, err := Direction(direction)
	if err != nil {
		return Ranking{}, err
	}
	return s.aggregator.Closest(ctx, cfg)
}
