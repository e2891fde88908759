package agent

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dusk-indust/neuraline/internal/blackboard"
)

func TestRoles_TaskTypesAndKeys(t *testing.T) {
	cases := []struct {
		role     Role
		taskType string
		key      string
		field    string
	}{
		{RoleReflector, "emotional_reflection", "reflector", "insight"},
		{RoleStrategist, "cognitive_reasoning", "strategist", "plan"},
		{RoleCoach, "behavioral_coaching", "coach", "nudges"},
		{RolePurpose, "purpose_alignment", "purpose", "alignment"},
	}

	reg := NewRegistry()
	for _, tc := range cases {
		t.Run(string(tc.role), func(t *testing.T) {
			gen := echoGen("out-" + string(tc.role))
			ag, err := reg.Spawn(tc.role, gen, nil)
			require.NoError(t, err)

			state := blackboard.New()
			res, err := ag.Run(context.Background(), "q", "s", state)
			require.NoError(t, err)

			assert.Equal(t, tc.role, res.Role)
			assert.Equal(t, []string{tc.taskType}, gen.taskTypes)
			assert.Equal(t, res.Output, state.ReadField(tc.key, tc.field))
		})
	}
}

func TestRoles_ReadEarlierOutputs(t *testing.T) {
	state := blackboard.New()
	state.MergeMapping("reflector", map[string]any{"insight": "INSIGHT-1"})
	state.MergeMapping("strategist", map[string]any{"plan": "PLAN-1"})

	strat := echoGen("x")
	_, err := NewStrategistAgent(strat, nil).Run(context.Background(), "q", "s", state)
	require.NoError(t, err)
	assert.Contains(t, strat.prompts[0], "INSIGHT-1")

	// The strategist just overwrote its own plan.
	state.MergeMapping("strategist", map[string]any{"plan": "PLAN-2"})

	coach := echoGen("x")
	_, err = NewCoachAgent(coach, nil).Run(context.Background(), "q", "s", state)
	require.NoError(t, err)
	assert.Contains(t, coach.prompts[0], "PLAN-2")
	assert.NotContains(t, coach.prompts[0], "INSIGHT-1")

	purpose := echoGen("x")
	_, err = NewPurposeAgent(purpose, nil).Run(context.Background(), "q", "s", state)
	require.NoError(t, err)
	assert.Contains(t, purpose.prompts[0], "INSIGHT-1")
	assert.Contains(t, purpose.prompts[0], "PLAN-2")
}

func TestPurposePrompt_Defaults(t *testing.T) {
	p := purposePrompt("q", blackboard.New())
	assert.Contains(t, p, "No reflection provided")
	assert.Contains(t, p, "No plan available")
}

func TestParseRole(t *testing.T) {
	r, ok := ParseRole("  Coach ")
	assert.True(t, ok)
	assert.Equal(t, RoleCoach, r)

	r, ok = ParseRole("critic")
	assert.False(t, ok)
	assert.Equal(t, Role("critic"), r)
}

func TestProfileAndFusionPrefix(t *testing.T) {
	assert.Contains(t, Profile(RoleStrategist), "Strategist Agent")
	assert.Equal(t, "critic agent", Profile("critic"))

	assert.Equal(t, "It sounds like you're reflecting deeply. ", FusionPrefix(RoleReflector))
	assert.Equal(t, "And don't forget why this matters — ", FusionPrefix(RolePurpose))
	assert.Empty(t, FusionPrefix("critic"))
}
