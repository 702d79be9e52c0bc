package transit

import (
	"context"
	"encoding/json"
	"net/url"
	"sort"
	"strings"
)

// DefaultMITRoute is matched against route ids when a query has no filter.
// The MIT shuttle that serves Beacon St during the day is the Boston Daytime route.
const DefaultMITRoute = "boston"

// MITService fetches shuttle predictions from the MIT mobile API
// (http://m.mit.edu/apis/shuttles/). Seconds are already relative to now.
type MITService struct {
	baseURL string
	fetcher fetcher
}

// NewMITService creates a new MIT shuttle service
func NewMITService(baseURL string, opts ...Option) *MITService {
	return &MITService{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetcher: newFetcher(MIT, opts),
	}
}

func (s *MITService) Kind() ProviderKind { return MIT }

// Fetch returns predictions of the first predictable route whose id contains
// the route filter.
func (s *MITService) Fetch(ctx context.Context, q RouteQuery) (Result, error) {
	params := url.Values{}
	params.Set("agency", "mit")
	params.Set("stop_number", q.Stop)

	body, err := s.fetcher.get(ctx, s.baseURL+"/apis/shuttles/predictions/?"+params.Encode(), nil)
	if err != nil {
		return Result{}, err
	}

	var routes []mitRoute
	if err := json.Unmarshal(body, &routes); err != nil {
		return Result{}, parseFailure(MIT, err)
	}

	filter := q.RouteFilter
	if filter == "" {
		filter = DefaultMITRoute
	}

	result := Result{Provider: MIT, Minutes: []float64{}}
	for _, rt := range routes {
		if !rt.Predictable || !strings.Contains(rt.RouteID, filter) {
			continue
		}
		result.Route = rt.RouteTitle
		result.Stop = rt.StopTitle
		for _, p := range rt.Predictions {
			result.Minutes = append(result.Minutes, ToMinutes(p.Seconds))
		}
		break
	}
	sort.Float64s(result.Minutes)
	return result, nil
}

type mitRoute struct {
	RouteID     string `json:"route_id"`
	RouteTitle  string `json:"route_title"`
	StopTitle   string `json:"stop_title"`
	Predictable bool   `json:"predictable"`
	Predictions []struct {
		Seconds float64 `json:"seconds"`
	} `json:"predictions"`
}
