package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/admesh-io/admesh/bus"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/registry"
)

// RouteFunc chooses the primary agent for a query. The default implementation
// always routes to the analyst.
type RouteFunc func(query string) string

// DefaultRouteFunc routes every query to the analyst agent.
func DefaultRouteFunc(query string) string { return AnalystID }

// KeywordRouteFn builds a RouteFunc that picks the primary agent by keyword
// match, falling back to the given agent id when nothing matches.
func KeywordRouteFn(fallback string) RouteFunc {
	rules := []struct {
		keywords []string
		agentID  string
	}{
		{[]string{"ctr", "cpa", "roas", "perform", "drop", "decline", "anomaly"}, AnalystID},
		{[]string{"plan", "allocate", "allocation", "mix", "channel"}, MediaPlannerID},
		{[]string{"bid", "budget cap", "spend", "pacing"}, TraderID},
		{[]string{"creative", "fatigue", "asset", "copy"}, CreativeOpsID},
		{[]string{"compliance", "policy", "brand safety", "restricted"}, ComplianceID},
	}
	return func(query string) string {
		q := strings.ToLower(query)
		for _, rule := range rules {
			for _, kw := range rule.keywords {
				if strings.Contains(q, kw) {
					return rule.agentID
				}
			}
		}
		return fallback
	}
}

// CollaborationRule invites Collaborators when the query mentions one of the
// Keywords and the resolved primary agent is Primary.
type CollaborationRule struct {
	Primary       string
	Keywords      []string
	Collaborators []string
}

// DefaultCollaborationRules returns the built-in collaboration table for the
// ad operations mesh.
func DefaultCollaborationRules() []CollaborationRule {
	return []CollaborationRule{
		{
			Primary:       AnalystID,
			Keywords:      []string{"drop", "dropped", "down", "decline", "underperform", "ctr", "cpa", "roas"},
			Collaborators: []string{TraderID, CreativeOpsID},
		},
		{
			Primary:       AnalystID,
			Keywords:      []string{"brand", "safety", "compliance", "policy"},
			Collaborators: []string{ComplianceID},
		},
		{
			Primary:       MediaPlannerID,
			Keywords:      []string{"policy", "safety", "brand", "restricted"},
			Collaborators: []string{ComplianceID},
		},
		{
			Primary:       TraderID,
			Keywords:      []string{"creative", "fatigue", "asset"},
			Collaborators: []string{CreativeOpsID},
		},
		{
			Primary:       CreativeOpsID,
			Keywords:      []string{"spend", "bid", "budget"},
			Collaborators: []string{TraderID},
		},
	}
}

// CollaboratorResult pairs a collaborator's id with the result it produced.
// Order in a Response reflects invocation order.
type CollaboratorResult struct {
	Agent  string `json:"agent"`
	Result any    `json:"result"`
}

// Aggregate is the wrapped result returned when at least one collaborator
// contributed to the answer.
type Aggregate struct {
	Primary       any                  `json:"primary"`
	Collaborators []CollaboratorResult `json:"collaborators"`
	Synthesis     string               `json:"synthesis"`
}

// Response is the Router's final answer for one query.
type Response struct {
	Query               string         `json:"query"`
	PrimaryAgent        string         `json:"primaryAgent"`
	CollaboratingAgents []string       `json:"collaboratingAgents"`
	SkippedAgents       []string       `json:"skippedAgents,omitempty"`
	Result              any            `json:"result"`
	Messages            []core.Message `json:"messages"`
}

// RouterOptions configures a Router.
type RouterOptions struct {
	RouteFn            RouteFunc
	CollaborationRules []CollaborationRule
	MaxMessages        int
	Logger             logging.Logger
}

// Router coordinates a query across the mesh: it resolves one primary agent,
// plans collaborators by keyword heuristics, opens a budgeted bus session,
// runs primary and collaborators in order, and aggregates the results. The
// session is always closed, whether the query succeeds or not.
type Router struct {
	*Base

	registry *registry.Registry
	bus      *bus.Bus
	routeFn  RouteFunc
	rules    []CollaborationRule
	maxMsgs  int
	logger   logging.Logger
}

var _ core.Agent = (*Router)(nil)

// routeDecisionLogger and agentCallLogger match the structured telemetry
// hooks on logging.AdMeshLogger. The router emits through them when the
// injected logger provides them and falls back to plain entries otherwise.
type routeDecisionLogger interface {
	LogRouteDecision(primary string, collaborators []string)
}

type agentCallLogger interface {
	LogAgentCall(agentID string, collaborator bool, dur time.Duration, err error)
}

type sessionLogger interface {
	WithSession(sessionID, queryID string) *logging.AdMeshLogger
}

// NewRouter creates a new Router over the given registry and bus.
func NewRouter(reg *registry.Registry, b *bus.Bus, optFns ...func(o *RouterOptions)) *Router {
	opts := RouterOptions{
		RouteFn:            DefaultRouteFunc,
		CollaborationRules: DefaultCollaborationRules(),
		MaxMessages:        bus.DefaultMaxMessages,
		Logger:             logging.NewDefaultSlogLogger(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	info := core.AgentInfo{
		ID:          RouterID,
		Name:        "Router",
		Role:        "orchestrator",
		Description: "Routes queries to a primary agent and coordinates collaborating agents over a budgeted session.",
		Capabilities: []string{
			"query routing",
			"collaboration planning",
			"result aggregation",
		},
	}

	return &Router{
		Base:     NewBase(info, func(o *Options) { o.Bus = b; o.Logger = opts.Logger }),
		registry: reg,
		bus:      b,
		routeFn:  opts.RouteFn,
		rules:    opts.CollaborationRules,
		maxMsgs:  opts.MaxMessages,
		logger:   opts.Logger,
	}
}

// ProcessQuery implements core.Agent by delegating to Route.
func (r *Router) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	return r.Route(ctx, query, qc)
}

// Route runs the full routing flow for one query and returns the aggregated
// response. A missing or failing primary agent is fatal; missing or failing
// collaborators are skipped and reported in SkippedAgents.
func (r *Router) Route(ctx context.Context, query string, qc *core.QueryContext) (*Response, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	qc = qc.Clone()
	if qc.QueryID == "" {
		qc.QueryID = core.NewQueryID()
	}
	if qc.MaxMessages <= 0 {
		qc.MaxMessages = r.maxMsgs
	}

	primaryID := r.routeFn(query)
	primary := r.registry.Get(primaryID)
	if primary == nil {
		return nil, &core.AgentNotFoundError{AgentID: primaryID}
	}

	var collaborators []string
	if qc.Collaborative {
		collaborators = r.planCollaborators(query, primaryID)
	}
	log := r.logger
	if sl, ok := log.(sessionLogger); ok {
		log = sl.WithSession(qc.QueryID, qc.QueryID)
	}
	if dl, ok := log.(routeDecisionLogger); ok {
		dl.LogRouteDecision(primaryID, collaborators)
	} else {
		log.Info("routing query", "query_id", qc.QueryID, "primary", primaryID, "collaborators", collaborators)
	}
	callLog, _ := log.(agentCallLogger)

	sessionID := qc.QueryID
	r.bus.StartSession(sessionID, qc.MaxMessages)
	defer r.bus.EndSession(sessionID)

	start := r.clock()
	primaryResult, err := primary.ProcessQuery(ctx, query, qc)
	if callLog != nil {
		callLog.LogAgentCall(primaryID, false, r.clock().Sub(start), err)
	}
	if err != nil {
		return nil, &core.AgentProcessingError{AgentID: primaryID, Err: err}
	}

	var (
		results  []CollaboratorResult
		skipped  []string
		messages []core.Message
	)
	for _, id := range collaborators {
		collab := r.registry.Get(id)
		if collab == nil {
			skipped = append(skipped, id)
			continue
		}

		collabCtx := qc.ForCollaborator(primaryID)
		if msg := r.SendMessage(sessionID, id, core.MessageTypeRequest, map[string]any{
			"query":        query,
			"primaryAgent": primaryID,
		}); msg != nil {
			messages = append(messages, *msg)
		}

		collabStart := r.clock()
		result, cerr := collab.ProcessQuery(ctx, query, collabCtx)
		if callLog != nil {
			callLog.LogAgentCall(id, true, r.clock().Sub(collabStart), cerr)
		}
		if cerr != nil {
			log.Warn("collaborator failed, skipping", "query_id", qc.QueryID, "agent_id", id, "error", cerr)
			skipped = append(skipped, id)
			continue
		}
		results = append(results, CollaboratorResult{Agent: id, Result: result})

		if msg, serr := r.bus.Send(sessionID, id, primaryID, core.MessageTypeResponse, map[string]any{
			"agent":  id,
			"result": fmt.Sprintf("%v", result),
		}); serr == nil && msg != nil {
			messages = append(messages, *msg)
		}
	}

	var aggregate any = primaryResult
	if len(results) > 0 {
		aggregate = &Aggregate{
			Primary:       primaryResult,
			Collaborators: results,
			Synthesis:     fmt.Sprintf("Combined analysis from %s and %d collaborating agent(s)", primaryID, len(results)),
		}
	}

	return &Response{
		Query:               query,
		PrimaryAgent:        primaryID,
		CollaboratingAgents: collaborators,
		SkippedAgents:       skipped,
		Result:              aggregate,
		Messages:            messages,
	}, nil
}

// planCollaborators evaluates the collaboration rule table against the
// lower-cased query. Matches are collected in rule order, deduplicated, and
// never include the primary agent itself.
func (r *Router) planCollaborators(query, primaryID string) []string {
	q := strings.ToLower(query)

	var planned []string
	seen := make(map[string]struct{})
	for _, rule := range r.rules {
		if rule.Primary != primaryID {
			continue
		}
		if !containsAny(q, rule.Keywords) {
			continue
		}
		for _, id := range rule.Collaborators {
			if id == primaryID {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			planned = append(planned, id)
		}
	}
	return planned
}

func containsAny(q string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}
