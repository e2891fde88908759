package orchestrator

import "strings"

// Task categories produced by Classify.
const (
	TaskEmotionalReflection = "emotional_reflection"
	TaskCognitiveReasoning  = "cognitive_reasoning"
	TaskRAGQuery            = "rag_query"
	TaskBehavioralCoaching  = "behavioral_coaching"
	TaskPurposeAlignment    = "purpose_alignment"
	TaskGeneralChat         = "general_chat"
)

// classifierRules are checked in order; the first rule with a keyword that
// occurs in the lowercased query wins.
var classifierRules = []struct {
	category string
	keywords []string
}{
	{TaskEmotionalReflection, []string{"reflect", "feeling", "emotion", "journal"}},
	{TaskCognitiveReasoning, []string{"plan", "goal", "steps", "strategy", "how to achieve"}},
	{TaskRAGQuery, []string{"summarize", "analyze", "context", "rag", "retrieve", "neuraline"}},
	{TaskBehavioralCoaching, []string{"habit", "track", "consistency", "routine"}},
	{TaskPurposeAlignment, []string{"purpose", "mission", "values", "north star"}},
}

// Classify maps a query to a task category by keyword match, falling back to
// general_chat.
func Classify(query string) string {
	q := strings.ToLower(query)
	for _, rule := range classifierRules {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.category
			}
		}
	}
	return TaskGeneralChat
}
