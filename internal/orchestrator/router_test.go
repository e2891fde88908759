package orchestrator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dusk-indust/neuraline/internal/agent"
)

func TestRoutingTable_Defaults(t *testing.T) {
	rt := DefaultRoutingTable()

	tests := []struct {
		category string
		want     []agent.Role
	}{
		{"emotional_reflection", []agent.Role{agent.RoleReflector, agent.RolePurpose}},
		{"cognitive_reasoning", []agent.Role{agent.RoleStrategist, agent.RoleCoach, agent.RolePurpose}},
		{"behavioral_coaching", []agent.Role{agent.RoleCoach, agent.RoleReflector}},
		{"rag_query", []agent.Role{agent.RoleReflector, agent.RoleStrategist, agent.RolePurpose}},
		{"general_chat", []agent.Role{agent.RoleReflector, agent.RoleStrategist, agent.RoleCoach, agent.RolePurpose}},
		{"purpose_alignment", []agent.Role{agent.RoleReflector, agent.RoleStrategist}},
		{"", []agent.Role{agent.RoleReflector, agent.RoleStrategist}},
	}

	for _, tc := range tests {
		t.Run(tc.category, func(t *testing.T) {
			assert.Equal(t, tc.want, rt.Resolve(tc.category))
		})
	}
}

func TestRoutingTable_ResolveReturnsCopy(t *testing.T) {
	rt := DefaultRoutingTable()

	got := rt.Resolve("general_chat")
	got[0] = "mutated"

	assert.Equal(t, agent.RoleReflector, rt.Resolve("general_chat")[0])

	def := rt.Resolve("unknown")
	def[0] = "mutated"
	assert.Equal(t, agent.RoleReflector, DefaultRoute[0])
}

func TestRoutingTable_Categories(t *testing.T) {
	assert.Equal(t, []string{
		"behavioral_coaching", "cognitive_reasoning", "emotional_reflection", "general_chat", "rag_query",
	}, DefaultRoutingTable().Categories())
}

func TestClassify(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{"I want to journal about today", TaskEmotionalReflection},
		{"Help me plan my week", TaskCognitiveReasoning},
		{"Can you summarize this article?", TaskRAGQuery},
		{"I need a better morning routine", TaskBehavioralCoaching},
		{"What is my north star?", TaskPurposeAlignment},
		{"hello", TaskGeneralChat},
		// Earlier rules win when several match.
		{"I'm feeling lost and need a plan", TaskEmotionalReflection},
		{"HABIT TRACKER", TaskBehavioralCoaching},
	}

	for _, tc := range tests {
		t.Run(tc.query, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.query))
		})
	}
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	assert.NoError(t, err)
	assert.Equal(t, ModeChain, m)

	m, err = ParseMode(" Parallel ")
	assert.NoError(t, err)
	assert.Equal(t, ModeParallel, m)

	_, err = ParseMode("sequential")
	assert.ErrorIs(t, err, ErrInvalidMode)
}
