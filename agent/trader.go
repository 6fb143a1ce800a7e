package agent

import (
	"context"
	"fmt"

	"github.com/admesh-io/admesh/core"
)

// BidAdjustment is one recommended bid change for a campaign.
type BidAdjustment struct {
	CampaignID  string  `json:"campaign_id"`
	Campaign    string  `json:"campaign"`
	PacingRatio float64 `json:"pacing_ratio"`
	Multiplier  float64 `json:"multiplier"` // applied to the current bid, 1.0 = hold
	Reason      string  `json:"reason"`
}

// TraderPlan is the trader's answer: bid moves that steer spend back to pace.
type TraderPlan struct {
	Summary     string          `json:"summary"`
	Adjustments []BidAdjustment `json:"adjustments"`
}

// Trader recommends bid and budget moves from campaign pacing.
type Trader struct {
	*Base
}

var _ core.Agent = (*Trader)(nil)

// NewTrader creates a new Trader agent.
func NewTrader(optFns ...func(o *Options)) *Trader {
	info := core.AgentInfo{
		ID:          TraderID,
		Name:        "Trader",
		Role:        "trading",
		Description: "Recommends bid and budget adjustments to keep campaigns on pace.",
		Capabilities: []string{
			"bid management",
			"budget pacing",
		},
	}
	return &Trader{Base: NewBase(info, optFns...)}
}

// ProcessQuery implements core.Agent.
func (t *Trader) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	if len(qc.Campaigns) == 0 {
		return &TraderPlan{Summary: "No campaign data available, holding all bids."}, nil
	}

	now := t.clock()
	var adjustments []BidAdjustment
	for _, c := range qc.Campaigns {
		if c.Status != core.CampaignStatusActive {
			continue
		}
		pace := c.PacingRatio(now)
		if pace == 0 {
			continue
		}
		adj := BidAdjustment{
			CampaignID:  c.ID,
			Campaign:    c.Name,
			PacingRatio: pace,
			Multiplier:  1.0,
			Reason:      "on pace, holding bids",
		}
		switch {
		case pace < underPaceThreshold:
			adj.Multiplier = 1.15
			adj.Reason = fmt.Sprintf("under-delivering at %.0f%% of pace, raising bids", pace*100)
		case pace > overPaceThreshold:
			adj.Multiplier = 0.85
			adj.Reason = fmt.Sprintf("over-delivering at %.0f%% of pace, lowering bids", pace*100)
		}
		adjustments = append(adjustments, adj)
	}

	fallback := fmt.Sprintf("Reviewed pacing on %d campaign(s); %d bid adjustment(s) recommended.", len(qc.Campaigns), countMoves(adjustments))
	summary := t.generateNarrative(ctx, query,
		"You are a programmatic trader. Summarize the recommended bid moves in one sentence.",
		fallback,
	)

	return &TraderPlan{Summary: summary, Adjustments: adjustments}, nil
}

func countMoves(adjustments []BidAdjustment) int {
	n := 0
	for _, a := range adjustments {
		if a.Multiplier != 1.0 {
			n++
		}
	}
	return n
}
