package orchestrator

import (
	"fmt"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// timeoutResult is the placeholder recorded for a role that ran out of time.
func timeoutResult(role agent.Role) agent.Result {
	return agent.Result{
		Role:   role,
		Output: fmt.Sprintf("%s timed out.", role),
		Error:  ErrTimeout.Error(),
	}
}

// errorResult is the placeholder recorded for a role that failed outright.
func errorResult(role agent.Role, err error) agent.Result {
	return agent.Result{
		Role:   role,
		Output: fmt.Sprintf("%s failed: %v", role, err),
		Error:  err.Error(),
	}
}

// engineFallback is the engine's output for a role whose attempts all failed.
func engineFallback(role agent.Role, err error) agent.Result {
	res := agent.Result{
		Role:   role,
		Output: fmt.Sprintf("(local fallback by %s) The %s agent could not produce a response right now.", role, role),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
