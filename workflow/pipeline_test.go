package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/logging"
)

type stubAgent struct {
	id     string
	result any
	err    error
	calls  int
}

func (s *stubAgent) Info() core.AgentInfo { return core.AgentInfo{ID: s.id, Name: s.id} }

func (s *stubAgent) SendMessage(string, string, core.MessageType, map[string]any) *core.Message {
	return nil
}

func (s *stubAgent) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	s.calls++
	return s.result, s.err
}

func quiet(o *PipelineOptions) { o.Logger = logging.NoOpLogger{} }

func TestPipeline_RunsStagesInOrder(t *testing.T) {
	var order []string
	p := NewPipeline("test", []Stage{
		StageFunc("one", func(ctx context.Context, state *State) error {
			order = append(order, "one")
			return nil
		}),
		StageFunc("two", func(ctx context.Context, state *State) error {
			order = append(order, "two")
			return nil
		}),
	}, quiet)

	require.NoError(t, p.Run(context.Background(), NewState()))
	assert.Equal(t, []string{"one", "two"}, order)
}

func TestPipeline_StopsOnFirstError(t *testing.T) {
	var ranSecond bool
	p := NewPipeline("test", []Stage{
		StageFunc("boom", func(ctx context.Context, state *State) error {
			return errors.New("boom")
		}),
		StageFunc("after", func(ctx context.Context, state *State) error {
			ranSecond = true
			return nil
		}),
	}, quiet)

	err := p.Run(context.Background(), NewState())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed at stage boom")
	assert.False(t, ranSecond)
}

func TestPipeline_NilStateDefaults(t *testing.T) {
	p := NewPipeline("test", []Stage{
		StageFunc("noop", func(ctx context.Context, state *State) error {
			state.Values["noop"] = true
			return nil
		}),
	}, quiet)
	require.NoError(t, p.Run(context.Background(), nil))
}

func TestAgentStage_RecordsResult(t *testing.T) {
	agent := &stubAgent{id: "analyst", result: "report"}
	state := NewState()
	state.Campaigns = []core.Campaign{{ID: "c1"}}

	stage := AgentStage("analyze", agent, "check pacing")
	require.NoError(t, stage.Run(context.Background(), state))

	assert.Equal(t, 1, agent.calls)
	assert.Equal(t, "report", state.Values["analyze"])
}

func TestCampaignLaunchPipeline(t *testing.T) {
	compliance := &stubAgent{id: "compliance", result: "cleared"}
	planner := &stubAgent{id: "media-planner", result: "plan"}
	p := NewCampaignLaunchPipeline(compliance, planner, quiet)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	state := NewState()
	state.Campaigns = []core.Campaign{
		{
			ID:           "c1",
			Status:       core.CampaignStatusDraft,
			BudgetMicros: 500_000_000,
			StartDate:    start,
			EndDate:      start.AddDate(0, 0, 30),
		},
	}

	require.NoError(t, p.Run(context.Background(), state))
	assert.Equal(t, core.CampaignStatusActive, state.Campaigns[0].Status)
	assert.Equal(t, []string{"c1"}, state.Values["activate"])
	assert.Equal(t, "cleared", state.Values["screen"])
	assert.Equal(t, "plan", state.Values["plan"])
}

func TestCampaignLaunchPipeline_RejectsMissingBudget(t *testing.T) {
	p := NewCampaignLaunchPipeline(&stubAgent{id: "compliance"}, &stubAgent{id: "media-planner"}, quiet)

	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	state := NewState()
	state.Campaigns = []core.Campaign{
		{ID: "c1", StartDate: start, EndDate: start.AddDate(0, 0, 30)},
	}

	err := p.Run(context.Background(), state)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no budget")
}

func TestOptimizationPipeline_CollectsAllResults(t *testing.T) {
	analyst := &stubAgent{id: "analyst", result: "findings"}
	creative := &stubAgent{id: "creative-ops", result: "rotations"}
	trader := &stubAgent{id: "trader", result: "bids"}
	p := NewOptimizationPipeline(analyst, creative, trader, quiet)

	state := NewState()
	require.NoError(t, p.Run(context.Background(), state))
	assert.Equal(t, "findings", state.Values["analyze"])
	assert.Equal(t, "rotations", state.Values["creative-review"])
	assert.Equal(t, "bids", state.Values["adjust"])
}
