package workflow

import (
	"context"
	"fmt"

	"github.com/admesh-io/admesh/core"
)

// ValidateCampaignsStage checks that every campaign in the state carries a
// budget and a coherent flight window. It is the first stage of the launch
// pipeline.
func ValidateCampaignsStage() Stage {
	return StageFunc("validate", func(ctx context.Context, state *State) error {
		if len(state.Campaigns) == 0 {
			return fmt.Errorf("no campaigns to launch")
		}
		for _, c := range state.Campaigns {
			if c.BudgetMicros <= 0 {
				return fmt.Errorf("campaign %s has no budget", c.ID)
			}
			if !c.EndDate.After(c.StartDate) {
				return fmt.Errorf("campaign %s has an invalid flight window", c.ID)
			}
		}
		return nil
	})
}

// ActivateCampaignsStage flips validated campaigns to active and records the
// activated ids under "activate".
func ActivateCampaignsStage() Stage {
	return StageFunc("activate", func(ctx context.Context, state *State) error {
		activated := make([]string, 0, len(state.Campaigns))
		for i := range state.Campaigns {
			state.Campaigns[i].Status = core.CampaignStatusActive
			activated = append(activated, state.Campaigns[i].ID)
		}
		state.Values["activate"] = activated
		return nil
	})
}

// NewCampaignLaunchPipeline validates draft campaigns, screens them through
// compliance, proposes the budget split, and activates them.
func NewCampaignLaunchPipeline(compliance, planner core.Agent, optFns ...func(o *PipelineOptions)) *Pipeline {
	return NewPipeline("campaign-launch", []Stage{
		ValidateCampaignsStage(),
		AgentStage("screen", compliance, "screen the launch creatives for policy issues"),
		AgentStage("plan", planner, "allocate the launch budget across platforms"),
		ActivateCampaignsStage(),
	}, optFns...)
}

// NewPacingCheckPipeline diagnoses pacing and derives bid adjustments.
func NewPacingCheckPipeline(analyst, trader core.Agent, optFns ...func(o *PipelineOptions)) *Pipeline {
	return NewPipeline("pacing-check", []Stage{
		AgentStage("analyze", analyst, "check campaign pacing against flight targets"),
		AgentStage("adjust", trader, "recommend bid adjustments for off-pace campaigns"),
	}, optFns...)
}

// NewOptimizationPipeline runs the full optimization sweep: performance
// diagnosis, creative fatigue review, then bid moves.
func NewOptimizationPipeline(analyst, creativeOps, trader core.Agent, optFns ...func(o *PipelineOptions)) *Pipeline {
	return NewPipeline("optimization", []Stage{
		AgentStage("analyze", analyst, "diagnose campaign performance"),
		AgentStage("creative-review", creativeOps, "flag fatigued creatives for rotation"),
		AgentStage("adjust", trader, "recommend bid adjustments"),
	}, optFns...)
}
