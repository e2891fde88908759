package orchestrator

import (
	"maps"
	"slices"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// RoutingTable maps a task category to the ordered roles that handle it.
type RoutingTable map[string][]agent.Role

// DefaultRoute is used for categories the table does not know.
var DefaultRoute = []agent.Role{agent.RoleReflector, agent.RoleStrategist}

// DefaultRoutingTable returns the built-in category routes.
func DefaultRoutingTable() RoutingTable {
	return RoutingTable{
		"emotional_reflection": {agent.RoleReflector, agent.RolePurpose},
		"cognitive_reasoning":  {agent.RoleStrategist, agent.RoleCoach, agent.RolePurpose},
		"behavioral_coaching":  {agent.RoleCoach, agent.RoleReflector},
		"rag_query":            {agent.RoleReflector, agent.RoleStrategist, agent.RolePurpose},
		"general_chat":         {agent.RoleReflector, agent.RoleStrategist, agent.RoleCoach, agent.RolePurpose},
	}
}

// Resolve returns a copy of the roles for category, or DefaultRoute.
func (t RoutingTable) Resolve(category string) []agent.Role {
	if roles, ok := t[category]; ok {
		return slices.Clone(roles)
	}
	return slices.Clone(DefaultRoute)
}

// Categories returns the known categories in sorted order.
func (t RoutingTable) Categories() []string {
	return slices.Sorted(maps.Keys(t))
}
