package agent

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/dusk-indust/neuraline/internal/llm"
)

// Factory is a constructor that creates an Agent bound to a generator.
type Factory func(gen llm.TextGenerator, logger *slog.Logger) Agent

// Registry maps agent roles to their factory constructors.
type Registry struct {
	mu        sync.Mutex
	factories map[Role]Factory
}

// NewRegistry creates a Registry pre-registered with the four role agents.
func NewRegistry() *Registry {
	r := &Registry{
		factories: make(map[Role]Factory),
	}
	r.factories[RoleReflector] = func(g llm.TextGenerator, l *slog.Logger) Agent { return NewReflectorAgent(g, l) }
	r.factories[RoleStrategist] = func(g llm.TextGenerator, l *slog.Logger) Agent { return NewStrategistAgent(g, l) }
	r.factories[RoleCoach] = func(g llm.TextGenerator, l *slog.Logger) Agent { return NewCoachAgent(g, l) }
	r.factories[RolePurpose] = func(g llm.TextGenerator, l *slog.Logger) Agent { return NewPurposeAgent(g, l) }
	return r
}

// Register adds or replaces the factory for role.
func (r *Registry) Register(role Role, f Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[role] = f
}

// Roles returns the registered roles: the built-in ones in DefaultOrder,
// followed by any others sorted by name.
func (r *Registry) Roles() []Role {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Role
	for _, role := range DefaultOrder {
		if _, ok := r.factories[role]; ok {
			out = append(out, role)
		}
	}
	var extra []Role
	for role := range maps.Keys(r.factories) {
		if !slices.Contains(DefaultOrder, role) {
			extra = append(extra, role)
		}
	}
	slices.Sort(extra)
	return append(out, extra...)
}

// Spawn creates a single agent by role using the registered factory.
func (r *Registry) Spawn(role Role, gen llm.TextGenerator, logger *slog.Logger) (Agent, error) {
	r.mu.Lock()
	factory, ok := r.factories[role]
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("no factory registered for role %q", role)
	}
	return factory(gen, logger), nil
}

// SpawnAll creates one agent per registered role, all sharing gen.
func (r *Registry) SpawnAll(gen llm.TextGenerator, logger *slog.Logger) map[Role]Agent {
	r.mu.Lock()
	defer r.mu.Unlock()

	agents := make(map[Role]Agent, len(r.factories))
	for role, factory := range r.factories {
		agents[role] = factory(gen, logger)
	}
	return agents
}
