package transit

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/randytsao24/nextshuttle/internal/logger"
)

// LabeledQuery pairs a provider query with the route label used when its
// predictions are ranked against other providers.
type LabeledQuery struct {
	Query RouteQuery
	Label string
}

// StopConfig is one physical stop and direction, expressed as a query per provider.
type StopConfig struct {
	Name     string
	StopName string
	Queries  []LabeledQuery
}

// BeaconStreet is Beacon St @ Mass Ave towards MIT.
var BeaconStreet = StopConfig{
	Name:     "mit",
	StopName: "Beacon street",
	Queries: []LabeledQuery{
		{Query: RouteQuery{Provider: MIT, Stop: "13", RouteFilter: DefaultMITRoute}, Label: "MIT Shuttle"},
		{Query: RouteQuery{Provider: OneBus, Stop: "95"}, Label: "One Bus"},
		{Query: RouteQuery{Provider: Harvard, Stop: "4068606"}, Label: "Harvard Shuttle"},
	},
}

// Boston is Beacon St @ Mass Ave towards Boston.
var Boston = StopConfig{
	Name:     "boston",
	StopName: "84 Mass Ave",
	Queries: []LabeledQuery{
		{Query: RouteQuery{Provider: MIT, Stop: "3", RouteFilter: DefaultMITRoute}, Label: "MIT Shuttle"},
		{Query: RouteQuery{Provider: OneBus, Stop: "75"}, Label: "One Bus"},
		{Query: RouteQuery{Provider: Harvard, Stop: "4221960"}, Label: "M Two Shuttle"},
	},
}

// Direction resolves a stop configuration by name. The empty name is BeaconStreet.
func Direction(name string) (StopConfig, error) {
	switch strings.ToLower(name) {
	case "", BeaconStreet.Name:
		return BeaconStreet, nil
	case Boston.Name:
		return Boston, nil
	}
	return StopConfig{}, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}

// Query returns the configured query for a provider.
func (c StopConfig) Query(kind ProviderKind) (RouteQuery, bool) {
	for _, lq := range c.Queries {
		if lq.Query.Provider == kind {
			return lq.Query, true
		}
	}
	return RouteQuery{}, false
}

// Ranking is the aggregated answer for a stop configuration.
type Ranking struct {
	Stop        string       `json:"stop"`
	Predictions []Prediction `json:"predictions"`
	// Failed names providers that could not be reached.
	Failed []string `json:"failed,omitempty"`
}

// Aggregator merges predictions from every provider of a stop configuration.
type Aggregator struct {
	providers map[ProviderKind]Provider
	log       logger.Logger
}

// NewAggregator creates an aggregator over the given providers. A later
// provider of the same kind replaces an earlier one.
func NewAggregator(log logger.Logger, providers ...Provider) *Aggregator {
	if log == nil {
		log = logger.Nop{}
	}
	m := make(map[ProviderKind]Provider, len(providers))
	for _, p := range providers {
		m[p.Kind()] = p
	}
	return &Aggregator{providers: m, log: log}
}

// Closest queries each provider in turn and ranks the two soonest arrivals.
// A provider that fails contributes no predictions; only when all of them
// fail is an error returned.
func (a *Aggregator) Closest(ctx context.Context, cfg StopConfig) (Ranking, error) {
	ranking := Ranking{Stop: cfg.StopName}
	var candidates []Prediction
	var errs []error

	for _, lq := range cfg.Queries {
		result, err := a.fetch(ctx, lq.Query)
		if err != nil {
			a.log.Warnf("closest %s: skipping %s: %v", cfg.Name, lq.Query.Provider, err)
			ranking.Failed = append(ranking.Failed, lq.Query.Provider.String())
			errs = append(errs, err)
			continue
		}
		for _, m := range result.Minutes {
			candidates = append(candidates, Prediction{Minutes: m, Route: lq.Label})
		}
	}

	if len(cfg.Queries) > 0 && len(errs) == len(cfg.Queries) {
		return Ranking{}, fmt.Errorf("%w: %w", ErrAllProvidersFailed, errors.Join(errs...))
	}

	ranking.Predictions = Rank(candidates)
	return ranking, nil
}

func (a *Aggregator) fetch(ctx context.Context, q RouteQuery) (Result, error) {
	p, ok := a.providers[q.Provider]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s not configured", ErrUnknownProvider, q.Provider)
	}
	return p.Fetch(ctx, q)
}

// Rank returns the two smallest predictions in ascending order. Equal minutes
// keep their input order.
func Rank(preds []Prediction) []Prediction {
	sorted := slices.Clone(preds)
	slices.SortStableFunc(sorted, func(a, b Prediction) int {
		switch {
		case a.Minutes < b.Minutes:
			return -1
		case a.Minutes > b.Minutes:
			return 1
		}
		return 0
	})
	if len(sorted) > 2 {
		sorted = sorted[:2]
	}
	if sorted == nil {
		sorted = []Prediction{}
	}
	return sorted
}
