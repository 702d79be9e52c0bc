// Package transit fetches shuttle and bus arrival predictions from the MIT,
// MBTA and TransLoc (Harvard) APIs and ranks them for speech output.
package transit

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrProviderUnavailable wraps network, status and decoding failures
	// from an upstream prediction API.
	ErrProviderUnavailable = errors.New("provider unavailable")
	// ErrUnknownProvider is returned when a provider name does not resolve.
	ErrUnknownProvider = errors.New("unknown provider")
	// ErrUnknownDirection is returned when a stop configuration name does not resolve.
	ErrUnknownDirection = errors.New("unknown direction")
	// ErrAllProvidersFailed is returned by the aggregator when no provider answered.
	ErrAllProvidersFailed = errors.New("all providers failed")
)

// ProviderKind identifies one of the upstream prediction sources.
type ProviderKind int

const (
	MIT ProviderKind = iota
	OneBus
	Harvard
)

var providerNames = map[ProviderKind]string{
	MIT:     "mit",
	OneBus:  "onebus",
	Harvard: "harvard",
}

func (k ProviderKind) String() string {
	if name, ok := providerNames[k]; ok {
		return name
	}
	return fmt.Sprintf("provider(%d)", int(k))
}

// ParseProvider resolves a case-insensitive provider name.
func ParseProvider(name string) (ProviderKind, error) {
	for kind, n := range providerNames {
		if strings.EqualFold(n, name) {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// RouteQuery selects the stop (and optionally route) to ask a provider about.
type RouteQuery struct {
	Provider    ProviderKind `json:"provider"`
	Stop        string       `json:"stop"`
	RouteFilter string       `json:"route_filter,omitempty"`
}

// Result is the normalized answer of one provider call.
type Result struct {
	Provider ProviderKind `json:"-"`
	Route    string       `json:"route"`
	Stop     string       `json:"stop"`
	// Minutes is sorted ascending and never nil.
	Minutes []float64 `json:"minutes"`
}

// Prediction is a single arrival estimate tagged with the route it belongs to.
type Prediction struct {
	Minutes float64 `json:"minutes"`
	Route   string  `json:"route"`
}

// Provider fetches predictions from one upstream API.
type Provider interface {
	Kind() ProviderKind
	Fetch(ctx context.Context, q RouteQuery) (Result, error)
}

func unavailable(kind ProviderKind, err error) error {
	return fmt.Errorf("%s: %w: %w", kind, ErrProviderUnavailable, err)
}
