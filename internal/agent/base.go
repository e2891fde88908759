package agent

import (
	"context"
	"errors"
	"log/slog"

	"github.com/dusk-indust/neuraline/internal/blackboard"
	"github.com/dusk-indust/neuraline/internal/llm"
)

// Compile-time interface checks.
var _ Agent = (*BaseAgent)(nil)

// fallbackPromptRunes is how much of the prompt is echoed in fallback text.
const fallbackPromptRunes = 300

// PromptFunc builds a role prompt from the query and the outputs earlier
// agents left on the blackboard.
type PromptFunc func(query string, state *blackboard.State) string

// BaseAgent provides the shared run loop for role agents: build the prompt,
// call the generator, fall back to local text on failure, and publish the
// output under the role's blackboard key. Role agents embed BaseAgent and
// supply a PromptFunc.
type BaseAgent struct {
	role     Role
	behavior Behavior
	gen      llm.TextGenerator
	prompt   PromptFunc
	logger   *slog.Logger
}

// NewBaseAgent creates a BaseAgent for role. A nil generator makes every run
// produce fallback text; a nil logger means slog.Default().
func NewBaseAgent(role Role, gen llm.TextGenerator, prompt PromptFunc, logger *slog.Logger) *BaseAgent {
	if logger == nil {
		logger = slog.Default()
	}
	b, ok := behaviors[role]
	if !ok {
		b = Behavior{TaskType: "general_chat", StateKey: string(role), OutputField: "output"}
	}
	return &BaseAgent{
		role:     role,
		behavior: b,
		gen:      gen,
		prompt:   prompt,
		logger:   logger.With("agent", string(role)),
	}
}

// Role returns the agent's role.
func (b *BaseAgent) Role() Role {
	return b.role
}

// Run implements Agent. It performs exactly one blackboard write on every
// path that returns a nil error.
func (b *BaseAgent) Run(ctx context.Context, query, sessionID string, state *blackboard.State) (Result, error) {
	prompt := b.prompt(query, state)

	res := Result{Role: b.role, Success: true}
	out, err := b.generate(ctx, prompt)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Result{Role: b.role}, ctxErr
		}
		b.logger.Warn("generation failed, using fallback", "session", sessionID, "error", err)
		out = FallbackText(b.role, prompt)
		res.Success = false
		res.Error = err.Error()
	}

	// A caller that has given up must not see a late write.
	if err := ctx.Err(); err != nil {
		return Result{Role: b.role}, err
	}

	state.MergeMapping(b.behavior.StateKey, map[string]any{b.behavior.OutputField: out})
	res.Output = out
	return res, nil
}

func (b *BaseAgent) generate(ctx context.Context, prompt string) (string, error) {
	if b.gen == nil {
		return "", &llm.GenerationError{Err: errors.New("no text generator configured")}
	}
	return b.gen.Generate(ctx, prompt, b.behavior.TaskType)
}

// FallbackText is the local output used when generation fails.
func FallbackText(role Role, prompt string) string {
	r := []rune(prompt)
	if len(r) > fallbackPromptRunes {
		r = r[:fallbackPromptRunes]
	}
	return "(local fallback by " + string(role) + ") " + string(r)
}
