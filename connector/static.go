package connector

import (
	"context"

	"github.com/admesh-io/admesh/core"
)

// Static serves a fixed snapshot. Useful for tests, examples, and local
// development without platform credentials.
type Static struct {
	name     string
	snapshot Snapshot
	err      error
}

var _ Connector = (*Static)(nil)

// NewStatic creates a connector that always returns the given data.
func NewStatic(name string, campaigns []core.Campaign, creatives []core.Creative) *Static {
	return &Static{
		name: name,
		snapshot: Snapshot{
			Campaigns: campaigns,
			Creatives: creatives,
		},
	}
}

// NewFailing creates a connector whose Fetch always returns err.
func NewFailing(name string, err error) *Static {
	return &Static{name: name, err: err}
}

// Name implements Connector.
func (s *Static) Name() string { return s.name }

// Fetch implements Connector.
func (s *Static) Fetch(ctx context.Context) (*Snapshot, error) {
	if s.err != nil {
		return nil, s.err
	}
	snap := Snapshot{
		Campaigns: append([]core.Campaign(nil), s.snapshot.Campaigns...),
		Creatives: append([]core.Creative(nil), s.snapshot.Creatives...),
	}
	return &snap, nil
}
