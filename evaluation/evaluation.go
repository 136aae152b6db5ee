// Package evaluation scores completed orchestration runs. The evaluator is a
// pure consumer: it reads an OrchestrationResult after the fact and never
// participates in producing it.
package evaluation

import (
	"time"

	"github.com/agentfold/agentfold/core"
	"github.com/agentfold/agentfold/internal/textutil"
	"github.com/agentfold/agentfold/logging"
)

// Weights of the component scores in the overall score.
const (
	qualityWeight     = 0.5
	toolUsageWeight   = 0.3
	performanceWeight = 0.2
)

// Scorecard is the evaluation outcome for one run. All scores are in
// [0, 100].
type Scorecard struct {
	QualityScore     float64 `json:"quality_score"`
	ToolUsageScore   float64 `json:"tool_usage_score"`
	PerformanceScore float64 `json:"performance_score"`
	Overall          float64 `json:"overall"`
	Grade            string  `json:"grade"`
}

// Options configure an Evaluator.
type Options struct {
	Logger logging.Logger
}

// Evaluator scores runs with deterministic heuristics: lexical overlap for
// quality, precision/recall against the expected tool set for tool usage, and
// latency tiers for performance.
type Evaluator struct {
	expected func(query string) []string
	logger   logging.Logger
}

// NewEvaluator constructs an Evaluator. expected maps a query to the tool
// names it should have used, typically (*tool.Selector).Scan.
func NewEvaluator(expected func(query string) []string, optFns ...func(o *Options)) *Evaluator {
	opts := Options{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Evaluator{
		expected: expected,
		logger:   logging.OrNoOp(opts.Logger),
	}
}

// Evaluate scores the run for query. Grades: A>=90, B>=80, C>=70, D>=60,
// otherwise F, over a weighted average of quality (50%), tool usage (30%)
// and performance (20%).
func (e *Evaluator) Evaluate(query string, result core.OrchestrationResult) Scorecard {
	card := Scorecard{
		QualityScore:     e.qualityScore(query, result),
		ToolUsageScore:   e.toolUsageScore(query, result),
		PerformanceScore: performanceScore(result.ProcessingTime),
	}
	card.Overall = clamp(card.QualityScore*qualityWeight +
		card.ToolUsageScore*toolUsageWeight +
		card.PerformanceScore*performanceWeight)
	card.Grade = grade(card.Overall)

	e.logger.Debug("evaluation.scored",
		"run_id", result.RunID,
		"quality", card.QualityScore,
		"tool_usage", card.ToolUsageScore,
		"performance", card.PerformanceScore,
		"grade", card.Grade)

	return card
}

// qualityScore combines response relevance (lexical overlap with the query,
// up to 40), completeness by length (up to 30) and a base coherence score
// (30, reduced for degraded runs).
func (e *Evaluator) qualityScore(query string, result core.OrchestrationResult) float64 {
	response := result.FinalResponse
	if response == "" {
		return 0
	}

	score := 30.0
	if result.Degraded() {
		score = 15.0
	}

	score += textutil.Overlap(query, response) * 40

	switch n := len(response); {
	case n >= 200:
		score += 30
	case n >= 50:
		score += 25
	case n >= 20:
		score += 15
	default:
		score += 5
	}

	return clamp(score)
}

// toolUsageScore measures how well the tools actually invoked match the
// expected set: the precision/recall mean contributes up to 70 points and
// the execution success rate up to 30. A run where no tools were expected
// and none were used scores a neutral 50.
func (e *Evaluator) toolUsageScore(query string, result core.OrchestrationResult) float64 {
	expected := e.expected(query)
	used := result.ToolsUsed()

	if len(expected) == 0 && len(used) == 0 {
		return 50
	}

	expectedSet := make(map[string]struct{}, len(expected))
	for _, name := range expected {
		expectedSet[name] = struct{}{}
	}
	matched := 0
	for _, name := range used {
		if _, ok := expectedSet[name]; ok {
			matched++
		}
	}

	var precision, recall float64
	if len(used) > 0 {
		precision = float64(matched) / float64(len(used))
	}
	if len(expectedSet) > 0 {
		recall = float64(matched) / float64(len(expectedSet))
	}

	var successRate float64
	if len(result.ToolResults) > 0 {
		successes := 0
		for _, tr := range result.ToolResults {
			if !tr.Failed() {
				successes++
			}
		}
		successRate = float64(successes) / float64(len(result.ToolResults))
	}

	return clamp((precision+recall)/2*70 + successRate*30)
}

// performanceScore maps run latency onto tiers.
func performanceScore(d time.Duration) float64 {
	switch {
	case d < time.Second:
		return 100
	case d < 3*time.Second:
		return 90
	case d < 5*time.Second:
		return 75
	case d < 10*time.Second:
		return 50
	case d < 30*time.Second:
		return 25
	default:
		return 10
	}
}

func grade(overall float64) string {
	switch {
	case overall >= 90:
		return "A"
	case overall >= 80:
		return "B"
	case overall >= 70:
		return "C"
	case overall >= 60:
		return "D"
	default:
		return "F"
	}
}

func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
