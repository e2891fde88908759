package agent

import (
	"fmt"
	"log/slog"

	"github.com/dusk-indust/neuraline/internal/blackboard"
	"github.com/dusk-indust/neuraline/internal/llm"
)

// ReflectorAgent helps the user put words to what they are feeling. It runs
// first in the default chain and reads nothing from the blackboard.
type ReflectorAgent struct {
	*BaseAgent
}

// NewReflectorAgent creates a ReflectorAgent.
func NewReflectorAgent(gen llm.TextGenerator, logger *slog.Logger) *ReflectorAgent {
	return &ReflectorAgent{BaseAgent: NewBaseAgent(RoleReflector, gen, reflectorPrompt, logger)}
}

func reflectorPrompt(query string, _ *blackboard.State) string {
	return fmt.Sprintf(`You are Neuraline's reflection agent, a calm and empathetic listener.

User query: %s

Ask up to three short reflective questions that help the user notice what they feel,
then offer one brief insight into the emotional pattern you see. Stay non-judgmental.`, query)
}
