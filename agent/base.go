package agent

import (
	"context"
	"time"

	"github.com/admesh-io/admesh/bus"
	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
	"github.com/admesh-io/admesh/model"
)

// Well-known agent IDs used by the default mesh wiring and the router's
// collaboration rules.
const (
	AnalystID      = "analyst"
	TraderID       = "trader"
	CreativeOpsID  = "creative-ops"
	ComplianceID   = "compliance"
	MediaPlannerID = "media-planner"
	RouterID       = "router"
)

// Options configures an agent.
type Options struct {
	Bus    *bus.Bus
	Model  model.Model
	Logger logging.Logger

	// Clock supplies "now" for pacing and fatigue math. Defaults to time.Now.
	Clock func() time.Time
}

// Base provides the common fields and bus plumbing shared by all agents.
// Concrete agents embed Base and implement ProcessQuery.
type Base struct {
	info   core.AgentInfo
	bus    *bus.Bus
	model  model.Model
	logger logging.Logger
	clock  func() time.Time
}

// NewBase creates a new Base agent.
func NewBase(info core.AgentInfo, optFns ...func(o *Options)) *Base {
	opts := Options{
		Logger: logging.NewDefaultSlogLogger(),
		Clock:  time.Now,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Base{
		info:   info,
		bus:    opts.Bus,
		model:  opts.Model,
		logger: opts.Logger,
		clock:  opts.Clock,
	}
}

// Info implements core.Agent.
func (b *Base) Info() core.AgentInfo { return b.info }

// SendMessage posts a message to the session's conversation through the bus.
// It is safe to call without a bus or outside an active session; both cases
// return nil without recording anything.
func (b *Base) SendMessage(sessionID, toAgentID string, typ core.MessageType, payload map[string]any) *core.Message {
	if b.bus == nil {
		return nil
	}
	msg, err := b.bus.Send(sessionID, b.info.ID, toAgentID, typ, payload)
	if err != nil {
		b.logger.Warn("failed to record message", "session_id", sessionID, "from", b.info.ID, "to", toAgentID, "error", err)
		return nil
	}
	return msg
}

// generateNarrative asks the configured model for a short narrative summary of
// structured findings. Agents fall back to the given deterministic summary when
// no model is attached or generation fails.
func (b *Base) generateNarrative(ctx context.Context, query, instructions, fallback string) string {
	if b.model == nil {
		return fallback
	}
	text, err := model.GenerateText(ctx, b.model, model.Request{
		Instructions: instructions,
		Messages:     []model.Message{{Role: "user", Text: query}},
	})
	if err != nil || text == "" {
		b.logger.Warn("narrative generation failed, using deterministic summary", "agent_id", b.info.ID, "error", err)
		return fallback
	}
	return text
}
