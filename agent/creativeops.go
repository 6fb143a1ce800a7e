package agent

import (
	"context"
	"fmt"

	"github.com/admesh-io/admesh/core"
)

// Fatigue scoring constants. A creative accumulates fatigue with age and loses
// effectiveness as its CTR sinks below the account floor.
const (
	fatigueFullAgeDays   = 45
	fatigueRotateScore   = 0.7
	creativeCTRThreshold = 0.008
)

// CreativeAssessment scores one creative for fatigue.
type CreativeAssessment struct {
	CreativeID   string  `json:"creative_id"`
	Creative     string  `json:"creative"`
	CampaignID   string  `json:"campaign_id"`
	AgeDays      int     `json:"age_days"`
	CTR          float64 `json:"ctr"`
	FatigueScore float64 `json:"fatigue_score"` // 0 fresh .. 1 exhausted
	Rotate       bool    `json:"rotate"`
}

// CreativeReport is the creative-ops answer to a creative health query.
type CreativeReport struct {
	Summary     string               `json:"summary"`
	Assessments []CreativeAssessment `json:"assessments"`
}

// CreativeOps scores creatives for fatigue and flags rotation candidates.
type CreativeOps struct {
	*Base
}

var _ core.Agent = (*CreativeOps)(nil)

// NewCreativeOps creates a new CreativeOps agent.
func NewCreativeOps(optFns ...func(o *Options)) *CreativeOps {
	info := core.AgentInfo{
		ID:          CreativeOpsID,
		Name:        "Creative Ops",
		Role:        "creative",
		Description: "Scores creative fatigue and recommends rotations.",
		Capabilities: []string{
			"creative fatigue scoring",
			"rotation planning",
		},
	}
	return &CreativeOps{Base: NewBase(info, optFns...)}
}

// ProcessQuery implements core.Agent.
func (c *CreativeOps) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	if len(qc.Creatives) == 0 {
		return &CreativeReport{Summary: "No creative data available to assess."}, nil
	}

	now := c.clock()
	assessments := make([]CreativeAssessment, 0, len(qc.Creatives))
	rotations := 0
	for _, cr := range qc.Creatives {
		age := cr.AgeDays(now)
		score := float64(age) / fatigueFullAgeDays
		if score > 1 {
			score = 1
		}
		if cr.Impressions > 0 && cr.CTR() < creativeCTRThreshold {
			// weak engagement accelerates fatigue
			score += 0.25
			if score > 1 {
				score = 1
			}
		}
		a := CreativeAssessment{
			CreativeID:   cr.ID,
			Creative:     cr.Name,
			CampaignID:   cr.CampaignID,
			AgeDays:      age,
			CTR:          cr.CTR(),
			FatigueScore: score,
			Rotate:       score >= fatigueRotateScore,
		}
		if a.Rotate {
			rotations++
		}
		assessments = append(assessments, a)
	}

	fallback := fmt.Sprintf("Assessed %d creative(s); %d rotation candidate(s).", len(assessments), rotations)
	summary := c.generateNarrative(ctx, query,
		"You are a creative operations specialist. Summarize creative fatigue and rotations in one sentence.",
		fallback,
	)

	return &CreativeReport{Summary: summary, Assessments: assessments}, nil
}
