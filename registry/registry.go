// Package registry provides the lookup table mapping agent identifiers to
// agent instances. It is a leaf dependency with no logic beyond registration
// and lookup; the router interprets a missing agent according to its own
// policy (fatal for a primary, skip for a collaborator).
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/admesh-io/admesh/core"
)

// Registry holds registered agents keyed by id. Read-mostly after startup;
// safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	agents map[string]core.Agent
}

// New constructs an empty Registry.
func New() *Registry {
	return &Registry{agents: make(map[string]core.Agent)}
}

// Register adds an agent under its descriptor id. Registering an id twice is
// an error: agent identity is immutable for the process lifetime.
func (r *Registry) Register(a core.Agent) error {
	id := a.Info().ID
	if id == "" {
		return fmt.Errorf("agent has empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.agents[id]; exists {
		return fmt.Errorf("agent %q already registered", id)
	}
	r.agents[id] = a
	return nil
}

// Get returns the agent registered under id, or nil when absent.
func (r *Registry) Get(id string) core.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[id]
}

// List returns the descriptors of all registered agents, sorted by id.
func (r *Registry) List() []core.AgentInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]core.AgentInfo, 0, len(r.agents))
	for _, a := range r.agents {
		infos = append(infos, a.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// IDs returns the sorted ids of all registered agents.
func (r *Registry) IDs() []string {
	infos := r.List()
	ids := make([]string, len(infos))
	for i, info := range infos {
		ids[i] = info.ID
	}
	return ids
}
