// Package admesh provides a high-level façade over the agent mesh: the
// registry, the message bus, the domain agents and the router that
// coordinates them. Most applications interact with this package by:
//  1. Creating a Mesh via New() (optionally overriding the message log,
//     logger, model provider or connector set)
//  2. Submitting queries with Query, setting Collaborative when the answer
//     should be enriched by collaborating agents
//
// All defaults are safe for local development and testing; production
// deployments typically supply the sqlite message log and a structured
// logger.
package admesh

import (
	"context"

	"github.com/admesh-io/admesh/agent"
	"github.com/admesh-io/admesh/bus"
	"github.com/admesh-io/admesh/connector"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/messagelog"
	"github.com/admesh-io/admesh/model"
	"github.com/admesh-io/admesh/registry"
)

// Options configures the Mesh instance.
type Options struct {
	// MessageLog stores every inter-agent message. Defaults to in-memory;
	// pass the sqlite log for durability across restarts.
	MessageLog core.MessageLog

	// Model, when set, lets agents phrase their findings as narratives.
	// Without it agents return deterministic summaries.
	Model model.Model

	// RouteFn overrides primary-agent selection. Defaults to keyword routing
	// with the analyst as fallback.
	RouteFn agent.RouteFunc

	// CollaborationRules overrides the collaboration table.
	CollaborationRules []agent.CollaborationRule

	// MaxMessages caps each query session's message budget.
	MaxMessages int

	// Connectors, when set, fill empty query contexts with fresh campaign
	// snapshots before routing.
	Connectors []connector.Connector

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Mesh is the high-level façade aggregating the registry, bus and router.
type Mesh struct {
	registry   *registry.Registry
	bus        *bus.Bus
	router     *agent.Router
	aggregator *connector.Aggregator
	logger     logging.Logger
}

// New creates a new Mesh with the five domain agents and the router
// registered. Any unset service is initialized with an in-memory
// implementation.
func New(optFns ...func(o *Options)) (*Mesh, error) {
	opts := Options{
		MessageLog:  messagelog.NewInMemoryLog(),
		RouteFn:     agent.KeywordRouteFn(agent.AnalystID),
		MaxMessages: bus.DefaultMaxMessages,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	b := bus.New(opts.MessageLog, func(o *bus.Options) {
		o.Logger = opts.Logger
	})
	reg := registry.New()

	agentOpts := func(o *agent.Options) {
		o.Bus = b
		o.Model = opts.Model
		o.Logger = opts.Logger
	}
	agents := []core.Agent{
		agent.NewAnalyst(agentOpts),
		agent.NewTrader(agentOpts),
		agent.NewCreativeOps(agentOpts),
		agent.NewCompliance(func(o *agent.ComplianceOptions) {
			o.Bus = b
			o.Model = opts.Model
			o.Logger = opts.Logger
		}),
		agent.NewMediaPlanner(agentOpts),
	}
	for _, a := range agents {
		if err := reg.Register(a); err != nil {
			return nil, err
		}
	}

	router := agent.NewRouter(reg, b, func(o *agent.RouterOptions) {
		o.RouteFn = opts.RouteFn
		if opts.CollaborationRules != nil {
			o.CollaborationRules = opts.CollaborationRules
		}
		o.MaxMessages = opts.MaxMessages
		o.Logger = opts.Logger
	})
	if err := reg.Register(router); err != nil {
		return nil, err
	}

	m := &Mesh{
		registry: reg,
		bus:      b,
		router:   router,
		logger:   opts.Logger,
	}
	if len(opts.Connectors) > 0 {
		m.aggregator = connector.NewAggregator(opts.Connectors, func(o *connector.AggregatorOptions) {
			o.Logger = opts.Logger
		})
	}
	return m, nil
}

// Registry returns the mesh's agent registry.
func (m *Mesh) Registry() *registry.Registry { return m.registry }

// Bus returns the mesh's message bus.
func (m *Mesh) Bus() *bus.Bus { return m.bus }

// Router returns the mesh's router agent.
func (m *Mesh) Router() *agent.Router { return m.router }

// Query routes one query through the mesh. When connectors are configured
// and the context carries no campaign data, fresh snapshots are fetched
// first.
func (m *Mesh) Query(ctx context.Context, query string, qc *core.QueryContext) (*agent.Response, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	if m.aggregator != nil {
		if err := m.aggregator.Enrich(ctx, qc); err != nil {
			m.logger.Warn("connector enrichment failed, routing with caller data", "error", err)
		}
	}
	return m.router.Route(ctx, query, qc)
}
