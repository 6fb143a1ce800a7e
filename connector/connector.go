package connector

import (
	"context"

	"github.com/admesh-io/admesh/core"
)

// Snapshot is one connector's view of its platform at fetch time.
type Snapshot struct {
	Campaigns []core.Campaign
	Creatives []core.Creative
}

// Merge appends another snapshot's contents.
func (s *Snapshot) Merge(other *Snapshot) {
	if other == nil {
		return
	}
	s.Campaigns = append(s.Campaigns, other.Campaigns...)
	s.Creatives = append(s.Creatives, other.Creatives...)
}

// Connector fetches campaign data from one external platform.
type Connector interface {
	// Name identifies the platform, e.g. "meta" or "google".
	Name() string

	Fetch(ctx context.Context) (*Snapshot, error)
}
