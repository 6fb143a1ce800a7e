package agent

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/core"
)

func TestCreativeOps_EmptyContext(t *testing.T) {
	c := NewCreativeOps()

	result, err := c.ProcessQuery(context.Background(), "any tired creatives?", nil)
	require.NoError(t, err)

	report := result.(*CreativeReport)
	assert.Empty(t, report.Assessments)
	assert.NotEmpty(t, report.Summary)
}

func TestCreativeOps_FlagsOldCreative(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	c := NewCreativeOps(func(o *Options) { o.Clock = func() time.Time { return now } })

	result, err := c.ProcessQuery(context.Background(), "any tired creatives?", &core.QueryContext{
		Creatives: []core.Creative{
			{
				ID:          "cr1",
				Name:        "Hero Video",
				Impressions: 50_000,
				Clicks:      800, // 1.6% CTR, healthy engagement
				FirstServed: now.AddDate(0, 0, -60),
			},
			{
				ID:          "cr2",
				Name:        "Fresh Carousel",
				Impressions: 10_000,
				Clicks:      150,
				FirstServed: now.AddDate(0, 0, -5),
			},
		},
	})
	require.NoError(t, err)

	report := result.(*CreativeReport)
	require.Len(t, report.Assessments, 2)

	old := report.Assessments[0]
	assert.Equal(t, "cr1", old.CreativeID)
	assert.Equal(t, 1.0, old.FatigueScore)
	assert.True(t, old.Rotate)

	fresh := report.Assessments[1]
	assert.False(t, fresh.Rotate)
	assert.Less(t, fresh.FatigueScore, fatigueRotateScore)
}

func TestCreativeOps_LowCTRAcceleratesFatigue(t *testing.T) {
	now := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	c := NewCreativeOps(func(o *Options) { o.Clock = func() time.Time { return now } })

	age := 20 // 20/45 ≈ 0.44 base score
	result, err := c.ProcessQuery(context.Background(), "check creatives", &core.QueryContext{
		Creatives: []core.Creative{
			{
				ID:          "cr1",
				Name:        "Weak Banner",
				Impressions: 40_000,
				Clicks:      100, // 0.25% CTR, below the creative floor
				FirstServed: now.AddDate(0, 0, -age),
			},
		},
	})
	require.NoError(t, err)

	report := result.(*CreativeReport)
	require.Len(t, report.Assessments, 1)
	assert.InDelta(t, float64(age)/fatigueFullAgeDays+0.25, report.Assessments[0].FatigueScore, 1e-9)
	assert.False(t, report.Assessments[0].Rotate)
}
