package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/admesh-io/admesh/core"
)

// ComplianceFlag records one restricted-term hit.
type ComplianceFlag struct {
	Term    string `json:"term"`
	Source  string `json:"source"` // "query" or a creative id
	Context string `json:"context"`
}

// ComplianceReport is the compliance agent's answer.
type ComplianceReport struct {
	Summary string           `json:"summary"`
	Cleared bool             `json:"cleared"`
	Flags   []ComplianceFlag `json:"flags"`
}

// ComplianceOptions configures a Compliance agent beyond the shared Options.
type ComplianceOptions struct {
	Options

	// RestrictedTerms overrides the built-in restricted-term list.
	RestrictedTerms []string
}

// Compliance scans queries and creative names for restricted terminology.
type Compliance struct {
	*Base

	restricted []string
}

var _ core.Agent = (*Compliance)(nil)

// DefaultRestrictedTerms returns the built-in restricted-term list used for
// brand safety screening.
func DefaultRestrictedTerms() []string {
	return []string{
		"guaranteed results",
		"miracle",
		"risk-free",
		"cure",
		"get rich",
		"weapons",
		"gambling",
		"tobacco",
	}
}

// NewCompliance creates a new Compliance agent.
func NewCompliance(optFns ...func(o *ComplianceOptions)) *Compliance {
	opts := ComplianceOptions{
		RestrictedTerms: DefaultRestrictedTerms(),
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	info := core.AgentInfo{
		ID:          ComplianceID,
		Name:        "Compliance",
		Role:        "compliance",
		Description: "Screens queries and creatives against brand safety and policy restrictions.",
		Capabilities: []string{
			"restricted term screening",
			"brand safety review",
		},
	}
	base := NewBase(info, func(o *Options) {
		if opts.Bus != nil {
			o.Bus = opts.Bus
		}
		if opts.Model != nil {
			o.Model = opts.Model
		}
		if opts.Logger != nil {
			o.Logger = opts.Logger
		}
		if opts.Clock != nil {
			o.Clock = opts.Clock
		}
	})
	return &Compliance{Base: base, restricted: opts.RestrictedTerms}
}

// ProcessQuery implements core.Agent.
func (c *Compliance) ProcessQuery(ctx context.Context, query string, qc *core.QueryContext) (any, error) {
	if qc == nil {
		qc = &core.QueryContext{}
	}

	var flags []ComplianceFlag
	q := strings.ToLower(query)
	for _, term := range c.restricted {
		if strings.Contains(q, term) {
			flags = append(flags, ComplianceFlag{Term: term, Source: "query", Context: query})
		}
	}
	for _, cr := range qc.Creatives {
		name := strings.ToLower(cr.Name)
		for _, term := range c.restricted {
			if strings.Contains(name, term) {
				flags = append(flags, ComplianceFlag{Term: term, Source: cr.ID, Context: cr.Name})
			}
		}
	}

	fallback := fmt.Sprintf("Screened query and %d creative(s); %d restricted-term flag(s).", len(qc.Creatives), len(flags))
	summary := c.generateNarrative(ctx, query,
		"You are an ad compliance reviewer. Summarize the screening outcome in one sentence.",
		fallback,
	)

	return &ComplianceReport{
		Summary: summary,
		Cleared: len(flags) == 0,
		Flags:   flags,
	}, nil
}
