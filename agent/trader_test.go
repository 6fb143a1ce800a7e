package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/core"
)

func TestTrader_EmptyContext(t *testing.T) {
	tr := NewTrader()

	result, err := tr.ProcessQuery(context.Background(), "adjust bids", nil)
	require.NoError(t, err)

	plan := result.(*TraderPlan)
	assert.Empty(t, plan.Adjustments)
	assert.NotEmpty(t, plan.Summary)
}

func TestTrader_RaisesBidsWhenUnderPace(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTrader(func(o *Options) { o.Clock = midFlight(start) })

	c := testCampaign("c1", 300_000_000) // 50% of pace

	result, err := tr.ProcessQuery(context.Background(), "spend is behind", &core.QueryContext{
		Campaigns: []core.Campaign{c},
	})
	require.NoError(t, err)

	plan := result.(*TraderPlan)
	require.Len(t, plan.Adjustments, 1)
	assert.Greater(t, plan.Adjustments[0].Multiplier, 1.0)
}

func TestTrader_LowersBidsWhenOverPace(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTrader(func(o *Options) { o.Clock = midFlight(start) })

	c := testCampaign("c1", 900_000_000) // 150% of pace

	result, err := tr.ProcessQuery(context.Background(), "spend is running hot", &core.QueryContext{
		Campaigns: []core.Campaign{c},
	})
	require.NoError(t, err)

	plan := result.(*TraderPlan)
	require.Len(t, plan.Adjustments, 1)
	assert.Less(t, plan.Adjustments[0].Multiplier, 1.0)
}

func TestTrader_HoldsBidsOnPace(t *testing.T) {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTrader(func(o *Options) { o.Clock = midFlight(start) })

	c := testCampaign("c1", 600_000_000) // exactly on pace

	result, err := tr.ProcessQuery(context.Background(), "how is pacing?", &core.QueryContext{
		Campaigns: []core.Campaign{c},
	})
	require.NoError(t, err)

	plan := result.(*TraderPlan)
	require.Len(t, plan.Adjustments, 1)
	assert.Equal(t, 1.0, plan.Adjustments[0].Multiplier)
}
