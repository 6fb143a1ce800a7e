package agent

import (
	"context"
	"fmt"

	"github.com/admesh-io/admesh/core"
)

// Performance thresholds used by the analyst's findings.
const (
	lowCTRThreshold    = 0.01
	underPaceThreshold = 0.85
	overPaceThreshold  = 1.15
)

// Finding is one observation about a campaign's performance.
type Finding struct {
	CampaignID string  `json:"campaign_id"`
	Campaign   string  `json:"campaign"`
	Metric     string  `json:"metric"` // "ctr", "pacing", "cpa"
	Value      float64 `json:"value"`
	Severity   string  `json:"severity"` // "info", "warning", "critical"
	Detail     string  `json:"detail"`
}

// AnalystReport is the analyst's answer to a performance query.
type AnalystReport struct {
	Summary   string    `json:"summary"`
	Findings  []Finding `json:"findings"`
	Campaigns int       `json:"campaigns"`
}

// Analyst inspects campaign metrics and surfaces performance findings. It is
// the default primary agent for the mesh.
type Analyst struct {
	*Base
}

var _ core.Agent = (*Analyst)(nil)

// NewAnalyst creates a new Analyst agent.
func NewAnalyst(optFns ...func(o *Options)) *Analyst {
	info := core.AgentInfo{
		ID:          AnalystID,
		Name:        "Performance Analyst",
		Role:        "analytics",
		Description: "Inspects campaign metrics and diagnoses CTR, pacing and CPA issues.",
		Capabilities: []string{
			"performance diagnosis",
			"pacing analysis",
			"anomaly detection",
		},
	}
	return &Analyst{Base: NewBase(info, optFns...)}
}

// ProcessQuery implements core.Agent.
func (a *Analyst) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}
	if len(qc.Campaigns) == 0 {
		return &AnalystReport{Summary: "No campaign data available to analyze."}, nil
	}

	now := a.clock()
	var findings []Finding
	for _, c := range qc.Campaigns {
		if c.Status != core.CampaignStatusActive {
			continue
		}
		if ctr := c.CTR(); c.Impressions > 0 && ctr < lowCTRThreshold {
			findings = append(findings, Finding{
				CampaignID: c.ID,
				Campaign:   c.Name,
				Metric:     "ctr",
				Value:      ctr,
				Severity:   "warning",
				Detail:     fmt.Sprintf("CTR %.2f%% is below the %.2f%% floor", ctr*100, lowCTRThreshold*100),
			})
		}
		switch pace := c.PacingRatio(now); {
		case pace == 0:
			// outside flight window or no budget, nothing to report
		case pace < underPaceThreshold:
			findings = append(findings, Finding{
				CampaignID: c.ID,
				Campaign:   c.Name,
				Metric:     "pacing",
				Value:      pace,
				Severity:   "warning",
				Detail:     fmt.Sprintf("spend is at %.0f%% of the linear flight target", pace*100),
			})
		case pace > overPaceThreshold:
			findings = append(findings, Finding{
				CampaignID: c.ID,
				Campaign:   c.Name,
				Metric:     "pacing",
				Value:      pace,
				Severity:   "critical",
				Detail:     fmt.Sprintf("spend is at %.0f%% of the linear flight target and risks early budget exhaustion", pace*100),
			})
		}
	}

	fallback := fmt.Sprintf("Analyzed %d campaign(s); %d finding(s).", len(qc.Campaigns), len(findings))
	summary := a.generateNarrative(ctx, query,
		"You are an ad performance analyst. Summarize the campaign findings in two sentences.",
		fallback,
	)

	return &AnalystReport{
		Summary:   summary,
		Findings:  findings,
		Campaigns: len(qc.Campaigns),
	}, nil
}
