package agent

import (
	"context"
	"fmt"
	"sort"

	"github.com/admesh-io/admesh/core"
)

// Allocation is one platform's share of a proposed media plan.
type Allocation struct {
	Platform     string  `json:"platform"`
	BudgetMicros int64   `json:"budget_micros"`
	Share        float64 `json:"share"`
	Rationale    string  `json:"rationale"`
}

// MediaPlan is the media planner's answer: a budget split across platforms.
type MediaPlan struct {
	Summary           string       `json:"summary"`
	TotalBudgetMicros int64        `json:"total_budget_micros"`
	Allocations       []Allocation `json:"allocations"`
}

// MediaPlanner proposes budget allocations across ad platforms, weighting
// platforms by observed conversion volume.
type MediaPlanner struct {
	*Base
}

var _ core.Agent = (*MediaPlanner)(nil)

// NewMediaPlanner creates a new MediaPlanner agent.
func NewMediaPlanner(optFns ...func(o *Options)) *MediaPlanner {
	info := core.AgentInfo{
		ID:          MediaPlannerID,
		Name:        "Media Planner",
		Role:        "planning",
		Description: "Proposes cross-platform budget allocations from observed performance.",
		Capabilities: []string{
			"budget allocation",
			"channel planning",
		},
	}
	return &MediaPlanner{Base: NewBase(info, optFns...)}
}

// ProcessQuery implements core.Agent.
func (m *MediaPlanner) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	if len(qc.Campaigns) == 0 {
		return &MediaPlan{Summary: "No campaign data available to plan against."}, nil
	}

	var total int64
	conversions := make(map[string]int64)
	var totalConv int64
	for _, c := range qc.Campaigns {
		total += c.BudgetMicros
		conversions[c.Platform] += c.Conversions
		totalConv += c.Conversions
	}

	platforms := make([]string, 0, len(conversions))
	for p := range conversions {
		platforms = append(platforms, p)
	}
	sort.Strings(platforms)

	allocations := make([]Allocation, 0, len(platforms))
	for _, p := range platforms {
		var share float64
		var rationale string
		if totalConv > 0 {
			share = float64(conversions[p]) / float64(totalConv)
			rationale = fmt.Sprintf("%d of %d observed conversions", conversions[p], totalConv)
		} else {
			share = 1 / float64(len(platforms))
			rationale = "no conversion history, splitting evenly"
		}
		allocations = append(allocations, Allocation{
			Platform:     p,
			BudgetMicros: int64(float64(total) * share),
			Share:        share,
			Rationale:    rationale,
		})
	}

	fallback := fmt.Sprintf("Planned %d platform allocation(s) over a total budget of %d micros.", len(allocations), total)
	summary := m.generateNarrative(ctx, query,
		"You are a media planner. Summarize the proposed budget split in one sentence.",
		fallback,
	)

	return &MediaPlan{
		Summary:           summary,
		TotalBudgetMicros: total,
		Allocations:       allocations,
	}, nil
}
