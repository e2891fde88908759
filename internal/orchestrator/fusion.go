package orchestrator

import (
	"fmt"
	"slices"
	"strings"

	"github.com/dusk-indust/neuraline/internal/agent"
)

const (
	emptyFusionReply = "I'm here with you. How are you feeling right now?"
	faultFusionReply = "It sounds like a lot is happening — but I'm here to help you slow down and find clarity. (fusion fallback: %v)"
)

// Fuser merges per-role texts into one reply in a single voice.
type Fuser struct {
	prefix func(agent.Role) string
}

// NewFuser returns a Fuser using each role's connective phrase.
func NewFuser() *Fuser {
	return &Fuser{prefix: agent.FusionPrefix}
}

// Fuse joins the texts of snapshot in order, each behind its role's
// connective phrase. Roles missing from order are appended by name. Blank
// texts are skipped; a snapshot with no text yields a fixed reply. Fuse
// never fails: an internal fault produces a fixed reply naming the fault.
func (f *Fuser) Fuse(snapshot map[agent.Role]string, order []agent.Role) (fused string) {
	defer func() {
		if r := recover(); r != nil {
			fused = fmt.Sprintf(faultFusionReply, r)
		}
	}()

	seq := make([]agent.Role, 0, len(snapshot))
	for _, r := range order {
		if _, ok := snapshot[r]; ok && !slices.Contains(seq, r) {
			seq = append(seq, r)
		}
	}
	var rest []agent.Role
	for r := range snapshot {
		if !slices.Contains(seq, r) {
			rest = append(rest, r)
		}
	}
	slices.Sort(rest)
	seq = append(seq, rest...)

	parts := make([]string, 0, len(seq))
	for _, r := range seq {
		text := strings.TrimSpace(snapshot[r])
		if text == "" {
			continue
		}
		parts = append(parts, f.prefix(r)+text)
	}
	if len(parts) == 0 {
		return emptyFusionReply
	}

	out := strings.ReplaceAll(strings.Join(parts, " "), "\n", " ")
	for strings.Contains(out, "  ") {
		out = strings.ReplaceAll(out, "  ", " ")
	}
	return strings.TrimSpace(out)
}
