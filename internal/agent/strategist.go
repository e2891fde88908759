package agent

import (
	"fmt"
	"log/slog"

	"github.com/dusk-indust/neuraline/internal/blackboard"
	"github.com/dusk-indust/neuraline/internal/llm"
)

// StrategistAgent turns the reflector's insight into a short plan.
type StrategistAgent struct {
	*BaseAgent
}

// NewStrategistAgent creates a StrategistAgent.
func NewStrategistAgent(gen llm.TextGenerator, logger *slog.Logger) *StrategistAgent {
	return &StrategistAgent{BaseAgent: NewBaseAgent(RoleStrategist, gen, strategistPrompt, logger)}
}

func strategistPrompt(query string, state *blackboard.State) string {
	insight := state.ReadField("reflector", "insight")
	return fmt.Sprintf(`You are Neuraline's strategist agent. You turn insight into small, achievable steps.

User query: %s
Reflector insight: %s

Propose a three-step plan for the coming week. Keep each step specific and time-bound,
and match the emotional tone of the insight.`, query, insight)
}
