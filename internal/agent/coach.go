package agent

import (
	"fmt"
	"log/slog"

	"github.com/dusk-indust/neuraline/internal/blackboard"
	"github.com/dusk-indust/neuraline/internal/llm"
)

// CoachAgent breaks the strategist's plan into micro-habits and nudges.
type CoachAgent struct {
	*BaseAgent
}

// NewCoachAgent creates a CoachAgent.
func NewCoachAgent(gen llm.TextGenerator, logger *slog.Logger) *CoachAgent {
	return &CoachAgent{BaseAgent: NewBaseAgent(RoleCoach, gen, coachPrompt, logger)}
}

func coachPrompt(query string, state *blackboard.State) string {
	plan := state.ReadField("strategist", "plan")
	return fmt.Sprintf(`You are Neuraline's consistency coach.

User query: %s
Plan to refine: %s

Turn the plan into two to four micro-habits. For each, give one supportive
accountability nudge the user can act on today.`, query, plan)
}
