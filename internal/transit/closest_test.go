package transit

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProvider struct {
	kind    ProviderKind
	minutes []float64
	err     error
	queries []RouteQuery
}

func (f *fakeProvider) Kind() ProviderKind { return f.kind }

func (f *fakeProvider) Fetch(_ context.Context, q RouteQuery) (Result, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return Result{}, f.err
	}
	return Result{Provider: f.kind, Minutes: append([]float64{}, f.minutes...)}, nil
}

func fakes(mit, onebus, harvard []float64) (*fakeProvider, *fakeProvider, *fakeProvider) {
	return &fakeProvider{kind: MIT, minutes: mit},
		&fakeProvider{kind: OneBus, minutes: onebus},
		&fakeProvider{kind: Harvard, minutes: harvard}
}

func TestAggregatorClosestTwo(t *testing.T) {
	mit, onebus, harvard := fakes([]float64{9.5, 36.9, 66.9, 96.9}, []float64{5.4, 20.6, 33.4, 45.6, 56.8}, nil)
	agg := NewAggregator(nil, mit, onebus, harvard)

	ranking, err := agg.Closest(context.Background(), BeaconStreet)
	require.NoError(t, err)

	assert.Equal(t, []Prediction{{5.4, "One Bus"}, {9.5, "MIT Shuttle"}}, ranking.Predictions)
	assert.Empty(t, ranking.Failed)
	assert.Equal(t,
		"The next shuttles coming into Beacon street are the One Bus in 5.4 minutes and the MIT Shuttle in 9.5 minutes",
		ranking.Sentence())
}

func TestAggregatorQueriesConfiguredStops(t *testing.T) {
	mit, onebus, harvard := fakes(nil, nil, nil)
	agg := NewAggregator(nil, mit, onebus, harvard)

	_, err := agg.Closest(context.Background(), BeaconStreet)
	require.NoError(t, err)
	_, err = agg.Closest(context.Background(), Boston)
	require.NoError(t, err)

	assert.Equal(t, []RouteQuery{
		{Provider: MIT, Stop: "13", RouteFilter: "boston"},
		{Provider: MIT, Stop: "3", RouteFilter: "boston"},
	}, mit.queries)
	assert.Equal(t, "95", onebus.queries[0].Stop)
	assert.Equal(t, "75", onebus.queries[1].Stop)
	assert.Equal(t, "4068606", harvard.queries[0].Stop)
	assert.Equal(t, "4221960", harvard.queries[1].Stop)
}

func TestAggregatorAllEmpty(t *testing.T) {
	mit, onebus, harvard := fakes(nil, nil, nil)
	ranking, err := NewAggregator(nil, mit, onebus, harvard).Closest(context.Background(), BeaconStreet)
	require.NoError(t, err)

	assert.Empty(t, ranking.Predictions)
	assert.Equal(t, "There are no predictions at this time", ranking.Sentence())
}

func TestAggregatorSinglePrediction(t *testing.T) {
	mit, onebus, harvard := fakes(nil, nil, []float64{4.2})
	ranking, err := NewAggregator(nil, mit, onebus, harvard).Closest(context.Background(), Boston)
	require.NoError(t, err)

	assert.Equal(t, "The next shuttle coming into 84 Mass Ave is the M Two Shuttle in 4.2 minutes", ranking.Sentence())
}

func TestAggregatorBostonLabels(t *testing.T) {
	mit, onebus, harvard := fakes([]float64{12.0}, []float64{30.1}, []float64{2.5})
	ranking, err := NewAggregator(nil, mit, onebus, harvard).Closest(context.Background(), Boston)
	require.NoError(t, err)

	assert.Equal(t,
		"The next shuttles coming into 84 Mass Ave are the M Two Shuttle in 2.5 minutes and the MIT Shuttle in 12.0 minutes",
		ranking.Sentence())
}

func TestAggregatorToleratesProviderFailure(t *testing.T) {
	mit, onebus, harvard := fakes([]float64{9.5}, nil, nil)
	onebus.err = ErrProviderUnavailable
	harvard.minutes = []float64{3.3, 40.0}

	ranking, err := NewAggregator(nil, mit, onebus, harvard).Closest(context.Background(), BeaconStreet)
	require.NoError(t, err)

	assert.Equal(t, []Prediction{{3.3, "Harvard Shuttle"}, {9.5, "MIT Shuttle"}}, ranking.Predictions)
	assert.Equal(t, []string{"onebus"}, ranking.Failed)
}

func TestAggregatorAllProvidersFail(t *testing.T) {
	mit, onebus, harvard := fakes(nil, nil, nil)
	mit.err, onebus.err, harvard.err = ErrProviderUnavailable, ErrProviderUnavailable, ErrProviderUnavailable

	_, err := NewAggregator(nil, mit, onebus, harvard).Closest(context.Background(), BeaconStreet)
	assert.True(t, errors.Is(err, ErrAllProvidersFailed))
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestAggregatorMissingProviderCountsAsFailure(t *testing.T) {
	mit := &fakeProvider{kind: MIT, minutes: []float64{1.5}}

	ranking, err := NewAggregator(nil, mit).Closest(context.Background(), BeaconStreet)
	require.NoError(t, err)
	assert.Equal(t, []string{"onebus", "harvard"}, ranking.Failed)
	assert.Equal(t, "The next shuttle coming into Beacon street is the MIT Shuttle in 1.5 minutes", ranking.Sentence())
}

func TestRank(t *testing.T) {
	tests := []struct {
		name string
		in   []Prediction
		want []Prediction
	}{
		{"empty", nil, []Prediction{}},
		{"one", []Prediction{{7, "A"}}, []Prediction{{7, "A"}}},
		{"descending input", []Prediction{{9, "A"}, {3, "B"}, {5, "C"}}, []Prediction{{3, "B"}, {5, "C"}}},
		{"ties keep first seen", []Prediction{{5, "A"}, {5, "B"}, {5, "C"}}, []Prediction{{5, "A"}, {5, "B"}}},
		// Identical entries from the same provider both count.
		{"duplicate entries", []Prediction{{5, "A"}, {5, "A"}, {6, "B"}}, []Prediction{{5, "A"}, {5, "A"}}},
		{"negative minutes", []Prediction{{1, "A"}, {-2, "B"}}, []Prediction{{-2, "B"}, {1, "A"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Rank(tc.in))
		})
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []Prediction{{9, "A"}, {3, "B"}}
	_ = Rank(in)
	assert.Equal(t, []Prediction{{9, "A"}, {3, "B"}}, in)
}

func TestDirection(t *testing.T) {
	cfg, err := Direction("")
	require.NoError(t, err)
	assert.Equal(t, "Beacon street", cfg.StopName)

	cfg, err = Direction("Boston")
	require.NoError(t, err)
	assert.Equal(t, "84 Mass Ave", cfg.StopName)

	_, err = Direction("cambridge")
	assert.True(t, errors.Is(err, ErrUnknownDirection))
}

func TestServiceDescribe(t *testing.T) {
	mit, onebus, harvard := fakes([]float64{9.5, 36.9, 66.9}, nil, nil)
	svc := NewService(nil, mit, onebus, harvard)

	got, err := svc.Describe(context.Background(), OneBus)
	require.NoError(t, err)
	assert.Equal(t, "There are no One Bus predictions at this time", got)
	assert.Equal(t, "95", onebus.queries[0].Stop)

	ranking, err := svc.Closest(context.Background(), "mit")
	require.NoError(t, err)
	assert.Len(t, ranking.Predictions, 2)

	harvard.err = ErrProviderUnavailable
	_, err = svc.Describe(context.Background(), Harvard)
	assert.True(t, errors.Is(err, ErrProviderUnavailable))
}

func TestParseProvider(t *testing.T) {
	kind, err := ParseProvider("OneBus")
	require.NoError(t, err)
	assert.Equal(t, OneBus, kind)

	_, err = ParseProvider("ferry")
	assert.True(t, errors.Is(err, ErrUnknownProvider))
}
