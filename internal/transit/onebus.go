package transit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Spoken names for the One bus at Beacon St @ Mass Ave.
const (
	OneBusRoute = "One Bus to Harvard"
	OneBusStop  = "Beacon street at Mass ave"
)

// OneBusService fetches predictions from the MBTA v3 API. Every vehicle
// reported for the stop is kept.
type OneBusService struct {
	baseURL string
	apiKey  string
	fetcher fetcher
}

// NewOneBusService creates a new MBTA v3 prediction service. apiKey may be
// empty; the MBTA serves keyless requests at a lower rate limit.
func NewOneBusService(baseURL, apiKey string, opts ...Option) *OneBusService {
	return &OneBusService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		fetcher: newFetcher(OneBus, opts),
	}
}

func (s *OneBusService) Kind() ProviderKind { return OneBus }

// Fetch returns minutes until each predicted arrival at q.Stop.
func (s *OneBusService) Fetch(ctx context.Context, q RouteQuery) (Result, error) {
	var header http.Header
	if s.apiKey != "" {
		header = http.Header{"x-api-key": []string{s.apiKey}}
	}

	// The doubled slash matches the path the MBTA has always been called with.
	apiURL := s.baseURL + "//predictions?filter[stop]=" + url.QueryEscape(q.Stop)
	body, err := s.fetcher.get(ctx, apiURL, header)
	if err != nil {
		return Result{}, err
	}

	var resp mbtaPredictionsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return Result{}, parseFailure(OneBus, err)
	}

	now := s.fetcher.now()
	result := Result{Provider: OneBus, Route: OneBusRoute, Stop: OneBusStop, Minutes: []float64{}}
	for _, vehicle := range resp.Data {
		arrival := vehicle.Attributes.ArrivalTime
		// Final stops and departures-only trips carry no arrival time
		if arrival == nil {
			continue
		}
		seconds, err := SecondsUntil(*arrival, now, s.fetcher.loc)
		if err != nil {
			return Result{}, parseFailure(OneBus, err)
		}
		result.Minutes = append(result.Minutes, ToMinutes(float64(seconds)))
	}
	sort.Float64s(result.Minutes)
	return result, nil
}

// API response structures
type mbtaPredictionsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			ArrivalTime   *string `json:"arrival_time"`
			DepartureTime *string `json:"departure_time"`
		} `json:"attributes"`
	} `json:"data"`
}
