package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/admesh-io/admesh/core"
)

func TestCompliance_CleanQuery(t *testing.T) {
	c := NewCompliance()

	result, err := c.ProcessQuery(context.Background(), "how is the summer campaign pacing?", nil)
	require.NoError(t, err)

	report := result.(*ComplianceReport)
	assert.True(t, report.Cleared)
	assert.Empty(t, report.Flags)
}

func TestCompliance_FlagsRestrictedTermInQuery(t *testing.T) {
	c := NewCompliance()

	result, err := c.ProcessQuery(context.Background(), "can we promise guaranteed results in the headline?", nil)
	require.NoError(t, err)

	report := result.(*ComplianceReport)
	assert.False(t, report.Cleared)
	require.Len(t, report.Flags, 1)
	assert.Equal(t, "guaranteed results", report.Flags[0].Term)
	assert.Equal(t, "query", report.Flags[0].Source)
}

func TestCompliance_FlagsRestrictedTermInCreative(t *testing.T) {
	c := NewCompliance()

	result, err := c.ProcessQuery(context.Background(), "review the creatives", &core.QueryContext{
		Creatives: []core.Creative{
			{ID: "cr1", Name: "Miracle Skin Serum Promo"},
			{ID: "cr2", Name: "Summer Sale Banner"},
		},
	})
	require.NoError(t, err)

	report := result.(*ComplianceReport)
	assert.False(t, report.Cleared)
	require.Len(t, report.Flags, 1)
	assert.Equal(t, "miracle", report.Flags[0].Term)
	assert.Equal(t, "cr1", report.Flags[0].Source)
}

func TestCompliance_CustomTerms(t *testing.T) {
	c := NewCompliance(func(o *ComplianceOptions) {
		o.RestrictedTerms = []string{"competitor x"}
	})

	result, err := c.ProcessQuery(context.Background(), "can we name Competitor X in the ad?", nil)
	require.NoError(t, err)

	report := result.(*ComplianceReport)
	assert.False(t, report.Cleared)
	require.Len(t, report.Flags, 1)
	assert.Equal(t, "competitor x", report.Flags[0].Term)
}
