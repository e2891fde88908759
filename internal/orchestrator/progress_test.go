package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dusk-indust/neuraline/internal/agent"
)

func TestProgressReporter_EmitAndSubscribe(t *testing.T) {
	pr := NewProgressReporter()
	pr.Emit(ProgressEvent{Role: agent.RoleCoach, Status: ProgressWorking})
	pr.Close()

	var got []ProgressEvent
	for ev := range pr.Subscribe() {
		got = append(got, ev)
	}
	assert.Equal(t, []ProgressEvent{{Role: agent.RoleCoach, Status: ProgressWorking}}, got)
}

func TestProgressReporter_DropsWhenFull(t *testing.T) {
	pr := NewProgressReporter()
	for i := 0; i < 100; i++ {
		pr.Emit(ProgressEvent{Role: agent.RoleCoach, Status: ProgressPending})
	}
	assert.Len(t, pr.Subscribe(), 64)
}

func TestFormatProgress(t *testing.T) {
	tests := []struct {
		ev   ProgressEvent
		want string
	}{
		{ProgressEvent{Role: "coach", Status: ProgressPending}, "  ○ coach (pending)"},
		{ProgressEvent{Role: "coach", Status: ProgressWorking}, "  ● coach..."},
		{ProgressEvent{Role: "coach", Status: ProgressComplete}, "  ✓ coach complete"},
		{ProgressEvent{Role: "coach", Status: ProgressFailed, Message: "boom"}, "  ✗ coach failed: boom"},
		{ProgressEvent{Role: "coach", Status: ProgressFailed}, "  ✗ coach failed"},
		{ProgressEvent{Role: "coach", Status: "weird"}, "  ? coach (unknown status)"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, FormatProgress(tc.ev))
	}
}

func TestFormatRunHeader(t *testing.T) {
	got := FormatRunHeader("s1", ModeChain, []agent.Role{agent.RoleReflector, agent.RoleCoach})
	assert.Equal(t, "[s1] chain: reflector → coach", got)
}

func TestProgressFunc(t *testing.T) {
	assert.Nil(t, progressFunc(context.Background(), nil))

	var got []string
	base := func(ev ProgressEvent) { got = append(got, "base:"+string(ev.Role)) }
	extra := func(ev ProgressEvent) { got = append(got, "extra:"+string(ev.Role)) }

	progressFunc(context.Background(), base)(ProgressEvent{Role: "a"})
	progressFunc(WithProgress(context.Background(), extra), nil)(ProgressEvent{Role: "b"})
	progressFunc(WithProgress(context.Background(), extra), base)(ProgressEvent{Role: "c"})

	assert.Equal(t, []string{"base:a", "extra:b", "base:c", "extra:c"}, got)
}
