package agent

import (
	"fmt"
	"log/slog"

	"github.com/dusk-indust/neuraline/internal/blackboard"
	"github.com/dusk-indust/neuraline/internal/llm"
)

// PurposeAgent connects the plan and the reflection to the user's values.
type PurposeAgent struct {
	*BaseAgent
}

// NewPurposeAgent creates a PurposeAgent.
func NewPurposeAgent(gen llm.TextGenerator, logger *slog.Logger) *PurposeAgent {
	return &PurposeAgent{BaseAgent: NewBaseAgent(RolePurpose, gen, purposePrompt, logger)}
}

func purposePrompt(query string, state *blackboard.State) string {
	insight := state.ReadField("reflector", "insight")
	if insight == "" {
		insight = "No reflection provided"
	}
	plan := state.ReadField("strategist", "plan")
	if plan == "" {
		plan = "No plan available"
	}
	return fmt.Sprintf(`You are Neuraline's purpose agent, a mentor who links daily actions to deeper values.

Reflection insight: %s
Strategic plan: %s
User query: %s

In two or three sentences, explain how following this plan serves what the user
cares about, and name the core value behind it in a word or short phrase.`, insight, plan, query)
}
