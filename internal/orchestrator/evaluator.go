package orchestrator

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/dusk-indust/neuraline/internal/agent"
)

// Ranked pairs a role with its evaluation score.
type Ranked struct {
	Score float64    `json:"score"`
	Role  agent.Role `json:"role"`
}

// Evaluation is the outcome of ranking a set of agent results.
type Evaluation struct {
	// Best is the top-ranked result, or the zero Result for empty input.
	Best     agent.Result `json:"best"`
	Combined string       `json:"combined"`
	Ranked   []Ranked     `json:"ranked"`
}

// Evaluator ranks agent outputs by a relevance score. It only selects; it
// never rewrites text.
type Evaluator struct {
	score func(output, query string) float64
}

// NewEvaluator returns an Evaluator using Score.
func NewEvaluator() *Evaluator {
	return &Evaluator{score: Score}
}

// Score rates output against query in [0, 2]. Length contributes up to 1
// (saturating at 400 characters) and sharing any query word adds 0.5.
func Score(output, query string) float64 {
	if output == "" {
		return 0
	}
	s := min(1.0, float64(utf8.RuneCountInString(output))/400.0)

	lower := strings.ToLower(output)
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if strings.Contains(lower, w) {
			s += 0.5
			break
		}
	}
	return max(0, min(2, s))
}

// Evaluate ranks results by descending score. Ties keep their input order.
func (e *Evaluator) Evaluate(query string, results []agent.Result) Evaluation {
	type scored struct {
		score float64
		res   agent.Result
	}
	all := make([]scored, len(results))
	for i, r := range results {
		all[i] = scored{score: e.score(r.Output, query), res: r}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].score > all[j].score })

	ev := Evaluation{Ranked: make([]Ranked, len(all))}
	blocks := make([]string, len(all))
	for i, s := range all {
		ev.Ranked[i] = Ranked{Score: s.score, Role: s.res.Role}
		blocks[i] = "[" + string(s.res.Role) + "]\n" + s.res.Output
	}
	if len(all) > 0 {
		ev.Best = all[0].res
	}
	ev.Combined = strings.Join(blocks, "\n\n")
	return ev
}
