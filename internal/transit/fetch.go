package transit

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
	_ "time/tzdata"

	"github.com/randytsao24/nextshuttle/internal/logger"
	"github.com/randytsao24/nextshuttle/internal/metrics"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultTimezone = "America/New_York"
	maxBodyBytes    = 4 << 20
)

type options struct {
	client   *http.Client
	now      func() time.Time
	loc      *time.Location
	recorder metrics.Recorder
	log      logger.Logger
}

// Option configures a provider service.
type Option func(*options)

// WithHTTPClient sets the client used for upstream requests.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.client = c }
}

// WithTimeout sets the upstream request timeout on a fresh client.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.client = &http.Client{Timeout: d} }
}

// WithClock overrides the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the reference timezone arrival timestamps are read in.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.loc = loc }
}

// WithRecorder sets the metrics sink.
func WithRecorder(r metrics.Recorder) Option {
	return func(o *options) { o.recorder = r }
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *options) { o.log = l }
}

func newOptions(opts []Option) options {
	o := options{
		client:   &http.Client{Timeout: defaultTimeout},
		now:      time.Now,
		recorder: metrics.Nop{},
		log:      logger.Nop{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.loc == nil {
		o.loc = defaultLocation
	}
	return o
}

// defaultLocation is resolved from the embedded zone database.
var defaultLocation = mustLoadLocation(defaultTimezone)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("transit: loading timezone %q: %v", name, err))
	}
	return loc
}

// fetcher performs instrumented GET requests for one provider.
type fetcher struct {
	options
	kind ProviderKind
}

func newFetcher(kind ProviderKind, opts []Option) fetcher {
	return fetcher{options: newOptions(opts), kind: kind}
}

// get returns the body of a successful GET. Any failure is wrapped in
// ErrProviderUnavailable.
func (f fetcher) get(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	start := time.Now()
	body, err := f.do(ctx, rawURL, header)
	outcome := metrics.OutcomeOK
	if err != nil {
		outcome = metrics.OutcomeError
	}
	f.recorder.ProviderFetch(f.kind.String(), outcome, time.Since(start))
	if err != nil {
		f.log.Warnf("%s fetch failed: %v", f.kind, err)
		return nil, unavailable(f.kind, err)
	}
	f.log.Debugf("%s fetch ok in %s", f.kind, time.Since(start))
	return body, nil
}

func (f fetcher) do(ctx context.Context, rawURL string, header http.Header) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching predictions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return body, nil
}

func parseFailure(kind ProviderKind, err error) error {
	return unavailable(kind, fmt.Errorf("parsing response: %w", err))
}
