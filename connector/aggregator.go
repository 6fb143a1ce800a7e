package connector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
)

// AggregatorOptions configures an Aggregator.
type AggregatorOptions struct {
	// RequestsPerSecond limits fetches across all connectors. Zero disables
	// limiting.
	RequestsPerSecond float64

	// BreakerTimeout is how long an open breaker waits before probing the
	// connector again.
	BreakerTimeout time.Duration

	// ConsecutiveFailures trips a connector's breaker.
	ConsecutiveFailures uint32

	Logger logging.Logger
}

// Aggregator fetches from every configured connector in parallel and merges
// the snapshots. Each connector sits behind its own circuit breaker; a
// tripped or failing connector is skipped, never fatal.
type Aggregator struct {
	connectors []Connector
	breakers   map[string]*gobreaker.CircuitBreaker[*Snapshot]
	limiter    *rate.Limiter
	logger     logging.Logger
}

// connectorFetchLogger matches the structured fetch telemetry hook on
// logging.AdMeshLogger. When the injected logger provides it, per-connector
// fetch outcomes go through it instead of plain debug entries.
type connectorFetchLogger interface {
	LogConnectorFetch(connector string, campaigns int, dur time.Duration, err error)
}

// NewAggregator creates an Aggregator over the given connectors.
func NewAggregator(connectors []Connector, optFns ...func(o *AggregatorOptions)) *Aggregator {
	opts := AggregatorOptions{
		BreakerTimeout:      30 * time.Second,
		ConsecutiveFailures: 3,
		Logger:              logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), len(connectors)+1)
	}

	breakers := make(map[string]*gobreaker.CircuitBreaker[*Snapshot], len(connectors))
	for _, c := range connectors {
		breakers[c.Name()] = gobreaker.NewCircuitBreaker[*Snapshot](gobreaker.Settings{
			Name:    c.Name(),
			Timeout: opts.BreakerTimeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= opts.ConsecutiveFailures
			},
		})
	}

	return &Aggregator{
		connectors: connectors,
		breakers:   breakers,
		limiter:    limiter,
		logger:     opts.Logger,
	}
}

// Fetch pulls from all connectors in parallel and merges their snapshots in
// connector order. Individual failures are logged and skipped; Fetch fails
// only when the context is canceled.
func (a *Aggregator) Fetch(ctx context.Context) (*Snapshot, error) {
	results := make([]*Snapshot, len(a.connectors))

	var wg sync.WaitGroup
	for i, c := range a.connectors {
		wg.Add(1)
		go func(i int, c Connector) {
			defer wg.Done()
			snap, err := a.fetchOne(ctx, c)
			if err != nil {
				a.logger.Warn("connector fetch failed", "connector", c.Name(), "error", err)
				return
			}
			results[i] = snap
		}(i, c)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	merged := &Snapshot{}
	for _, snap := range results {
		merged.Merge(snap)
	}
	return merged, nil
}

func (a *Aggregator) fetchOne(ctx context.Context, c Connector) (*Snapshot, error) {
	if a.limiter != nil {
		if err := a.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}
	breaker, ok := a.breakers[c.Name()]
	if !ok {
		return nil, fmt.Errorf("no breaker for connector %s", c.Name())
	}

	start := time.Now()
	snap, err := breaker.Execute(func() (*Snapshot, error) {
		return c.Fetch(ctx)
	})
	campaigns := 0
	if snap != nil {
		campaigns = len(snap.Campaigns)
	}
	if fl, ok := a.logger.(connectorFetchLogger); ok {
		fl.LogConnectorFetch(c.Name(), campaigns, time.Since(start), err)
	} else if err == nil {
		a.logger.Debug("connector fetch completed", "connector", c.Name(), "campaigns", campaigns, "duration", time.Since(start))
	}
	if err != nil {
		return nil, err
	}
	return snap, nil
}

// Enrich fills the query context's campaign and creative snapshots from the
// connectors when the caller has not supplied them.
func (a *Aggregator) Enrich(ctx context.Context, qc *core.QueryContext) error {
	if qc == nil {
		return nil
	}
	if len(qc.Campaigns) > 0 || len(qc.Creatives) > 0 {
		return nil
	}
	snap, err := a.Fetch(ctx)
	if err != nil {
		return err
	}
	qc.Campaigns = snap.Campaigns
	qc.Creatives = snap.Creatives
	return nil
}
