package agent

import "strings"

// Role identifies an agent type.
type Role string

const (
	RoleReflector  Role = "reflector"
	RoleStrategist Role = "strategist"
	RoleCoach      Role = "coach"
	RolePurpose    Role = "purpose"
)

// DefaultOrder is the chain order used when a caller names no roles.
var DefaultOrder = []Role{RoleReflector, RoleStrategist, RoleCoach, RolePurpose}

// Behavior describes everything that varies per role outside the prompt text.
type Behavior struct {
	// TaskType is the hint passed to the text generator.
	TaskType string
	// StateKey and OutputField locate the agent's output on the blackboard.
	StateKey    string
	OutputField string
	// Profile is the role description used by the engine's prompts.
	Profile string
	// FusionPrefix is the connective phrase placed before the role's text
	// in a fused reply.
	FusionPrefix string
}

var behaviors = map[Role]Behavior{
	RoleReflector: {
		TaskType:    "emotional_reflection",
		StateKey:    "reflector",
		OutputField: "insight",
		Profile: "Reflection Agent: empathetic, asks reflective questions, surfaces emotions and " +
			"internal drivers. Helps the user observe without judgement.",
		FusionPrefix: "It sounds like you're reflecting deeply. ",
	},
	RoleStrategist: {
		TaskType:    "cognitive_reasoning",
		StateKey:    "strategist",
		OutputField: "plan",
		Profile: "Strategist Agent: structured reasoning, breaks goals into steps and weekly plans. " +
			"Produces clear, actionable milestones.",
		FusionPrefix: "Here's a practical step forward: ",
	},
	RoleCoach: {
		TaskType:    "behavioral_coaching",
		StateKey:    "coach",
		OutputField: "nudges",
		Profile: "Consistency Coach: behavior-focused, creates micro-habits, nudges and accountability " +
			"structures to sustain actions.",
		FusionPrefix: "To keep it consistent, ",
	},
	RolePurpose: {
		TaskType:    "purpose_alignment",
		StateKey:    "purpose",
		OutputField: "alignment",
		Profile: "Purpose Agent: connects tasks and actions to deeper values, purpose and long-term " +
			"alignment. Produces short mission statements and motivation framing.",
		FusionPrefix: "And don't forget why this matters — ",
	},
}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Known()
}

// Known reports whether r is one of the four built-in roles.
func (r Role) Known() bool {
	_, ok := behaviors[r]
	return ok
}

// BehaviorOf returns the behavior entry for r.
func BehaviorOf(r Role) (Behavior, bool) {
	b, ok := behaviors[r]
	return b, ok
}

// Profile returns the role description for r, or a generic "<role> agent"
// description for roles outside the table.
func Profile(r Role) string {
	if b, ok := behaviors[r]; ok {
		return b.Profile
	}
	return string(r) + " agent"
}

// FusionPrefix returns the connective phrase for r. Unknown roles have none.
func FusionPrefix(r Role) string {
	return behaviors[r].FusionPrefix
}
