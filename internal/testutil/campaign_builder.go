package testutil

import (
	"time"

	"github.com/admesh-io/admesh/core"
)

// CampaignBuilder provides a fluent helper for constructing campaigns in
// tests. Example:
//
//	c := NewCampaignBuilder("c1").Platform("meta").Budget(1_000_000_000).Build()
//
// Chain only the parts you need; sensible defaults are applied.
type CampaignBuilder struct {
	campaign core.Campaign
}

// NewCampaignBuilder creates a builder for an active campaign with a 10-day
// flight starting 2026-08-01.
func NewCampaignBuilder(id string) *CampaignBuilder {
	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	return &CampaignBuilder{campaign: core.Campaign{
		ID:           id,
		Name:         "Campaign " + id,
		Platform:     "meta",
		Status:       core.CampaignStatusActive,
		BudgetMicros: 1_000_000_000,
		StartDate:    start,
		EndDate:      start.AddDate(0, 0, 10),
	}}
}

// Platform sets the campaign's platform (chainable).
func (b *CampaignBuilder) Platform(p string) *CampaignBuilder {
	b.campaign.Platform = p
	return b
}

// Status sets the campaign's lifecycle status (chainable).
func (b *CampaignBuilder) Status(s core.CampaignStatus) *CampaignBuilder {
	b.campaign.Status = s
	return b
}

// Budget sets the budget in micros (chainable).
func (b *CampaignBuilder) Budget(micros int64) *CampaignBuilder {
	b.campaign.BudgetMicros = micros
	return b
}

// Spend sets the spend in micros (chainable).
func (b *CampaignBuilder) Spend(micros int64) *CampaignBuilder {
	b.campaign.SpendMicros = micros
	return b
}

// Metrics sets delivery counters (chainable).
func (b *CampaignBuilder) Metrics(impressions, clicks, conversions int64) *CampaignBuilder {
	b.campaign.Impressions = impressions
	b.campaign.Clicks = clicks
	b.campaign.Conversions = conversions
	return b
}

// Flight sets the campaign's flight window (chainable).
func (b *CampaignBuilder) Flight(start, end time.Time) *CampaignBuilder {
	b.campaign.StartDate = start
	b.campaign.EndDate = end
	return b
}

// Build returns the constructed campaign.
func (b *CampaignBuilder) Build() core.Campaign { return b.campaign }

// CreativeBuilder provides a fluent helper for constructing creatives in
// tests.
type CreativeBuilder struct {
	creative core.Creative
}

// NewCreativeBuilder creates a builder for an image creative first served
// 2026-08-01.
func NewCreativeBuilder(id string) *CreativeBuilder {
	return &CreativeBuilder{creative: core.Creative{
		ID:          id,
		Name:        "Creative " + id,
		Format:      "image",
		FirstServed: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
	}}
}

// Campaign attaches the creative to a campaign (chainable).
func (b *CreativeBuilder) Campaign(campaignID string) *CreativeBuilder {
	b.creative.CampaignID = campaignID
	return b
}

// Metrics sets delivery counters (chainable).
func (b *CreativeBuilder) Metrics(impressions, clicks int64) *CreativeBuilder {
	b.creative.Impressions = impressions
	b.creative.Clicks = clicks
	return b
}

// FirstServed sets when the creative started serving (chainable).
func (b *CreativeBuilder) FirstServed(t time.Time) *CreativeBuilder {
	b.creative.FirstServed = t
	return b
}

// Build returns the constructed creative.
func (b *CreativeBuilder) Build() core.Creative { return b.creative }
