package core

// QueryContext is the typed configuration bag accompanying a query. It
// enumerates the fields the router and agents recognize; anything else
// travels in Extra so callers can attach domain payloads without the core
// types knowing about them.
//
// A QueryContext is owned by one query. The router stamps QueryID and, for
// collaborator invocations, PrimaryAgent; everything else is caller supplied.
type QueryContext struct {
	// QueryID correlates the query with its bus session. Generated by the
	// router when the caller leaves it empty.
	QueryID string `json:"query_id,omitempty"`

	// Collaborative requests fan-out to collaborating agents. Defaults false:
	// only the primary agent runs.
	Collaborative bool `json:"collaborative,omitempty"`

	// MaxMessages caps inter-agent messages within the query's bus session.
	// Zero means the router default.
	MaxMessages int `json:"max_messages,omitempty"`

	// PrimaryAgent is set on the context handed to collaborators so they know
	// which agent owns the query's main answer.
	PrimaryAgent string `json:"primary_agent,omitempty"`

	// Campaigns and Creatives carry pre-fetched domain data. Callers populate
	// them directly or let a connector aggregation step fill them in before
	// the router is invoked.
	Campaigns []Campaign `json:"campaigns,omitempty"`
	Creatives []Creative `json:"creatives,omitempty"`

	// Extra holds unrecognized caller-supplied fields.
	Extra map[string]any `json:"extra,omitempty"`
}

// Clone returns a copy safe for independent mutation. Slice and map contents
// are shared; only the containers are copied, which is sufficient because
// campaigns and creatives are treated as read-only snapshots.
func (qc *QueryContext) Clone() *QueryContext {
	if qc == nil {
		return &QueryContext{}
	}
	c := *qc
	c.Campaigns = append([]Campaign(nil), qc.Campaigns...)
	c.Creatives = append([]Creative(nil), qc.Creatives...)
	if qc.Extra != nil {
		c.Extra = make(map[string]any, len(qc.Extra))
		for k, v := range qc.Extra {
			c.Extra[k] = v
		}
	}
	return &c
}

// ForCollaborator derives the context handed to a collaborating agent,
// noting who the primary agent is.
func (qc *QueryContext) ForCollaborator(primaryAgentID string) *QueryContext {
	c := qc.Clone()
	c.PrimaryAgent = primaryAgentID
	return c
}
