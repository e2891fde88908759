package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dusk-indust/neuraline/internal/agent"
	"github.com/dusk-indust/neuraline/internal/blackboard"
)

// funcAgent is an agent.Agent whose Run is a function field.
type funcAgent struct {
	role agent.Role
	run  func(ctx context.Context, query string, state *blackboard.State) (agent.Result, error)
}

func (f *funcAgent) Role() agent.Role { return f.role }

func (f *funcAgent) Run(ctx context.Context, query, _ string, state *blackboard.State) (agent.Result, error) {
	return f.run(ctx, query, state)
}

// echoAgent writes text under its role key and returns it.
func echoAgent(role agent.Role, text string) *funcAgent {
	return &funcAgent{role: role, run: func(_ context.Context, _ string, state *blackboard.State) (agent.Result, error) {
		state.MergeMapping(string(role), map[string]any{"output": text})
		return agent.Result{Role: role, Success: true, Output: text}, nil
	}}
}

// blockingAgent never returns until release is closed, ignoring its context.
func blockingAgent(role agent.Role, release <-chan struct{}) *funcAgent {
	return &funcAgent{role: role, run: func(context.Context, string, *blackboard.State) (agent.Result, error) {
		<-release
		return agent.Result{Role: role, Success: true, Output: "too late"}, nil
	}}
}

// scriptedGen is an llm.TextGenerator that answers per task type and
// records every prompt it receives.
type scriptedGen struct {
	mu      sync.Mutex
	prompts map[string][]string
	answer  func(ctx context.Context, prompt, taskType string) (string, error)
}

func newScriptedGen(answer func(ctx context.Context, prompt, taskType string) (string, error)) *scriptedGen {
	return &scriptedGen{prompts: make(map[string][]string), answer: answer}
}

func (g *scriptedGen) Generate(ctx context.Context, prompt, taskType string) (string, error) {
	g.mu.Lock()
	g.prompts[taskType] = append(g.prompts[taskType], prompt)
	g.mu.Unlock()
	return g.answer(ctx, prompt, taskType)
}

func (g *scriptedGen) promptsFor(taskType string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts[taskType]...)
}

// roleEcho answers every prompt with "OUT<task type>" so each role's
// output is recognizable in later prompts.
func roleEcho(_ context.Context, _ string, taskType string) (string, error) {
	return fmt.Sprintf("OUT<%s>", taskType), nil
}

// memRecorder is an EventRecorder that keeps every event.
type memRecorder struct {
	mu     sync.Mutex
	events []string
}

func (r *memRecorder) Record(eventType, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, eventType+" "+message)
}

func (r *memRecorder) find(prefix string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, e := range r.events {
		if strings.HasPrefix(e, prefix) {
			out = append(out, e)
		}
	}
	return out
}

// sleepRecorder replaces real sleeping in retry tests.
type sleepRecorder struct {
	mu    sync.Mutex
	calls []time.Duration
}

func (s *sleepRecorder) sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, d)
	return nil
}

func (s *sleepRecorder) durations() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.calls...)
}
