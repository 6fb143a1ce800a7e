package admesh

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/agent"
	"github.com/admesh-io/admesh/connector"
	"github.com/admesh-io/admesh/core"
)

func TestNew_RegistersAllAgents(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	ids := m.Registry().IDs()
	for _, want := range []string{
		agent.AnalystID,
		agent.TraderID,
		agent.CreativeOpsID,
		agent.ComplianceID,
		agent.MediaPlannerID,
		agent.RouterID,
	} {
		assert.Contains(t, ids, want)
	}
}

func TestMesh_Query(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	resp, err := m.Query(context.Background(), "how did the campaigns perform?", nil)
	require.NoError(t, err)
	assert.Equal(t, agent.AnalystID, resp.PrimaryAgent)
	assert.Empty(t, resp.CollaboratingAgents)
}

func TestMesh_CollaborativeQuery(t *testing.T) {
	m, err := New()
	require.NoError(t, err)

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	resp, err := m.Query(context.Background(),
		"ctr dropped, is this a brand safety problem?",
		&core.QueryContext{
			Collaborative: true,
			Campaigns: []core.Campaign{
				{
					ID:           "c1",
					Name:         "Summer Push",
					Platform:     "meta",
					Status:       core.CampaignStatusActive,
					BudgetMicros: 1_000_000_000,
					SpendMicros:  400_000_000,
					Impressions:  200_000,
					Clicks:       900,
					StartDate:    start,
					EndDate:      start.AddDate(0, 0, 30),
				},
			},
		},
	)
	require.NoError(t, err)

	assert.Equal(t, agent.AnalystID, resp.PrimaryAgent)
	assert.Contains(t, resp.CollaboratingAgents, agent.TraderID)
	assert.Contains(t, resp.CollaboratingAgents, agent.CreativeOpsID)
	assert.Contains(t, resp.CollaboratingAgents, agent.ComplianceID)

	agg, ok := resp.Result.(*agent.Aggregate)
	require.True(t, ok, "expected wrapped aggregate, got %T", resp.Result)
	assert.NotEmpty(t, agg.Synthesis)
	assert.NotEmpty(t, resp.Messages)
}

func TestMesh_QueryWithConnectors(t *testing.T) {
	static := connector.NewStatic("meta",
		[]core.Campaign{{ID: "c1", Platform: "meta", Status: core.CampaignStatusActive}},
		nil,
	)
	m, err := New(func(o *Options) {
		o.Connectors = []connector.Connector{static}
	})
	require.NoError(t, err)

	resp, err := m.Query(context.Background(), "how did the campaigns perform?", nil)
	require.NoError(t, err)

	report, ok := resp.Result.(*agent.AnalystReport)
	require.True(t, ok)
	assert.Equal(t, 1, report.Campaigns)
}
