package transit

import (
	"context"
	"sort"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"google.golang.org/protobuf/proto"
)

// DefaultOneBusRouteID is the GTFS route id of the One bus.
const DefaultOneBusRouteID = "1"

// OneBusFeedService reads One bus predictions from the MBTA GTFS-RT
// TripUpdates feed instead of the v3 JSON API.
type OneBusFeedService struct {
	feedURL string
	routeID string
	fetcher fetcher
}

// NewOneBusFeedService creates a GTFS-RT backed One bus service. An empty
// routeID falls back to DefaultOneBusRouteID.
func NewOneBusFeedService(feedURL, routeID string, opts ...Option) *OneBusFeedService {
	if routeID == "" {
		routeID = DefaultOneBusRouteID
	}
	return &OneBusFeedService{
		feedURL: feedURL,
		routeID: routeID,
		fetcher: newFetcher(OneBus, opts),
	}
}

func (s *OneBusFeedService) Kind() ProviderKind { return OneBus }

// Fetch returns minutes until each stop-time update for q.Stop on the route.
// q.RouteFilter overrides the service route id.
func (s *OneBusFeedService) Fetch(ctx context.Context, q RouteQuery) (Result, error) {
	body, err := s.fetcher.get(ctx, s.feedURL, nil)
	if err != nil {
		return Result{}, err
	}

	feed := &gtfs.FeedMessage{}
	if err := proto.Unmarshal(body, feed); err != nil {
		return Result{}, parseFailure(OneBus, err)
	}

	routeID := s.routeID
	if q.RouteFilter != "" {
		routeID = q.RouteFilter
	}
	return s.parseArrivals(feed, q.Stop, routeID), nil
}

func (s *OneBusFeedService) parseArrivals(feed *gtfs.FeedMessage, stopID, routeID string) Result {
	now := s.fetcher.now()
	result := Result{Provider: OneBus, Route: OneBusRoute, Stop: OneBusStop, Minutes: []float64{}}

	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil || tripUpdate.GetTrip().GetRouteId() != routeID {
			continue
		}

		for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
			if stopTimeUpdate.GetStopId() != stopID {
				continue
			}

			arrivalTime := stopTimeUpdate.GetArrival().GetTime()
			if arrivalTime == 0 {
				arrivalTime = stopTimeUpdate.GetDeparture().GetTime()
			}
			if arrivalTime == 0 {
				continue
			}

			seconds := SecondsBetween(time.Unix(arrivalTime, 0), now, s.fetcher.loc)
			result.Minutes = append(result.Minutes, ToMinutes(float64(seconds)))
		}
	}

	sort.Float64s(result.Minutes)
	return result
}
