package core

import "time"

// CampaignStatus enumerates the lifecycle states a campaign moves through.
type CampaignStatus string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusPaused CampaignStatus = "paused"
	CampaignStatusEnded  CampaignStatus = "ended"
)

// Campaign is a snapshot of one ad campaign as delivered by a connector.
// Monetary amounts are in micros of the account currency, the convention the
// major ad platforms share.
type Campaign struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Platform     string         `json:"platform"` // e.g. "meta", "google", "tiktok"
	Status       CampaignStatus `json:"status"`
	BudgetMicros int64          `json:"budget_micros"`
	SpendMicros  int64          `json:"spend_micros"`
	Impressions  int64          `json:"impressions"`
	Clicks       int64          `json:"clicks"`
	Conversions  int64          `json:"conversions"`
	StartDate    time.Time      `json:"start_date"`
	EndDate      time.Time      `json:"end_date"`
}

// CTR returns the click-through rate, zero when there are no impressions.
func (c Campaign) CTR() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return float64(c.Clicks) / float64(c.Impressions)
}

// CPAMicros returns cost per conversion in micros, zero when no conversions.
func (c Campaign) CPAMicros() int64 {
	if c.Conversions == 0 {
		return 0
	}
	return c.SpendMicros / c.Conversions
}

// PacingRatio compares actual spend against the spend expected at `now` for a
// linear flight. A ratio of 1.0 is on pace, below 1.0 under-delivering, above
// 1.0 over-delivering. Campaigns outside their flight window return 0.
func (c Campaign) PacingRatio(now time.Time) float64 {
	if c.BudgetMicros == 0 || now.Before(c.StartDate) || c.EndDate.Before(c.StartDate) {
		return 0
	}
	flight := c.EndDate.Sub(c.StartDate)
	if flight <= 0 {
		return 0
	}
	elapsed := now.Sub(c.StartDate)
	if elapsed > flight {
		elapsed = flight
	}
	expected := float64(c.BudgetMicros) * (float64(elapsed) / float64(flight))
	if expected == 0 {
		return 0
	}
	return float64(c.SpendMicros) / expected
}

// Creative is a snapshot of one ad creative attached to a campaign.
type Creative struct {
	ID          string    `json:"id"`
	CampaignID  string    `json:"campaign_id"`
	Name        string    `json:"name"`
	Format      string    `json:"format"` // e.g. "video", "image", "carousel"
	Impressions int64     `json:"impressions"`
	Clicks      int64     `json:"clicks"`
	FirstServed time.Time `json:"first_served"`
}

// CTR returns the creative click-through rate, zero without impressions.
func (c Creative) CTR() float64 {
	if c.Impressions == 0 {
		return 0
	}
	return float64(c.Clicks) / float64(c.Impressions)
}

// AgeDays returns how many whole days the creative has been serving.
func (c Creative) AgeDays(now time.Time) int {
	if c.FirstServed.IsZero() || now.Before(c.FirstServed) {
		return 0
	}
	return int(now.Sub(c.FirstServed).Hours() / 24)
}
