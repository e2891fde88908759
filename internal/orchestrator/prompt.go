package orchestrator

import (
	"strings"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// priorOutput is one earlier role's text, in run order.
type priorOutput struct {
	role agent.Role
	text string
}

// buildPrompt assembles an engine prompt: role header and profile, the
// shared background, the query and, in chain mode, earlier roles' outputs.
func buildPrompt(role agent.Role, background, query string, prior []priorOutput) string {
	if background == "" {
		background = "No context available."
	}

	var sb strings.Builder
	sb.WriteString("[" + strings.ToUpper(string(role)) + " AGENT]\n")
	sb.WriteString("Role description:\n" + agent.Profile(role) + "\n\n")
	sb.WriteString("Context:\n" + background + "\n\n")
	sb.WriteString("User query:\n" + query + "\n\n")
	if len(prior) > 0 {
		sb.WriteString("Previous agent snapshots:\n")
		for _, p := range prior {
			sb.WriteString("[" + string(p.role) + "] " + p.text + "\n")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("Please respond concisely and include helpful next steps or reflective questions where relevant.")
	return sb.String()
}
