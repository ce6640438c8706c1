package services

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// DueDateLayout is the calendar date form used on task records.
const DueDateLayout = "2006-01-02"

// TaskRecord is the caller-supplied view of a task used for scoring and
// cycle detection. Records are treated as immutable for the duration of a
// scoring run; the caller is responsible for assigning a stable ID to every
// record before invoking the engine.
type TaskRecord struct {
	ID             string
	Title          string
	DueDate        string  // calendar date in 2006-01-02 form, empty when unset
	EstimatedHours float64 // non-positive values mean no estimate
	Importance     *int    // 1..10, nil when unset
	Dependencies   []string
}

// ScoreResult is the outcome of scoring a single task.
type ScoreResult struct {
	Score       float64
	Explanation string
}

// Strategy selects how component scores combine into one priority score.
type Strategy int

const (
	// StrategySmartBalance blends urgency, importance, effort and dependency
	// fan-in. It is the default strategy and the fallback for unrecognized
	// strategy names.
	StrategySmartBalance Strategy = iota
	// StrategyFastestWins favors low-effort tasks (quick wins).
	StrategyFastestWins
	// StrategyHighImpact favors importance over everything else.
	StrategyHighImpact
	// StrategyDeadlineDriven favors due dates almost exclusively.
	StrategyDeadlineDriven
)

// ErrUnknownStrategy reports a strategy name outside the recognized set.
var ErrUnknownStrategy = errors.New("unknown scoring strategy")

var strategyNames = map[Strategy]string{
	StrategySmartBalance:   "smart_balance",
	StrategyFastestWins:    "fastest_wins",
	StrategyHighImpact:     "high_impact",
	StrategyDeadlineDriven: "deadline_driven",
}

var strategyValues = map[string]Strategy{
	"smart_balance":   StrategySmartBalance,
	"fastest_wins":    StrategyFastestWins,
	"high_impact":     StrategyHighImpact,
	"deadline_driven": StrategyDeadlineDriven,
}

// ParseStrategy resolves a strategy name. Unrecognized names resolve to
// StrategySmartBalance together with ErrUnknownStrategy so callers can
// surface the substitution instead of failing.
func ParseStrategy(s string) (Strategy, error) {
	strategy, ok := strategyValues[strings.ToLower(s)]
	if !ok {
		return StrategySmartBalance, ErrUnknownStrategy
	}
	return strategy, nil
}

// String returns the wire name of the strategy.
func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return "unknown"
}

// IsValid returns true if the strategy is a declared value.
func (s Strategy) IsValid() bool {
	_, ok := strategyNames[s]
	return ok
}

// StrategyNames returns the recognized strategy names for boundary
// validation messages.
func StrategyNames() []string {
	return []string{
		StrategySmartBalance.String(),
		StrategyFastestWins.String(),
		StrategyHighImpact.String(),
		StrategyDeadlineDriven.String(),
	}
}

// factor identifies one component scorer.
type factor int

const (
	factorUrgency factor = iota
	factorImportance
	factorEffort
	factorDependency
)

type weightedFactor struct {
	factor factor
	weight float64
}

// blend returns the explanation label and the ordered factor weights for a
// strategy. Weights sum to 1, so the combined score stays in [0,1]. The
// switch is exhaustive over the declared strategies; anything else scores
// as smart balance.
func (s Strategy) blend() (string, []weightedFactor) {
	switch s {
	case StrategyFastestWins:
		return "Fastest Wins", []weightedFactor{
			{factorEffort, 0.8},
			{factorUrgency, 0.2},
		}
	case StrategyHighImpact:
		return "High Impact", []weightedFactor{
			{factorImportance, 0.7},
			{factorUrgency, 0.3},
		}
	case StrategyDeadlineDriven:
		return "Deadline Driven", []weightedFactor{
			{factorUrgency, 0.9},
			{factorImportance, 0.1},
		}
	case StrategySmartBalance:
		fallthrough
	default:
		return "Smart Balance", []weightedFactor{
			{factorUrgency, 0.4},
			{factorImportance, 0.3},
			{factorEffort, 0.2},
			{factorDependency, 0.1},
		}
	}
}

func (f factor) score(rec TaskRecord, all []TaskRecord, refDate time.Time) (float64, string) {
	switch f {
	case factorUrgency:
		return urgencyScore(rec.DueDate, refDate)
	case factorImportance:
		return importanceScore(rec.Importance)
	case factorEffort:
		return effortScore(rec.EstimatedHours)
	default:
		return dependencyScore(rec, all)
	}
}

// Engine computes priority scores from task records. Every method is a pure
// function of its inputs: no shared state, no I/O, safe to call from any
// number of goroutines.
type Engine struct{}

// NewEngine creates a scoring engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Score computes the priority score and explanation for rec under the given
// strategy. refDate anchors urgency calculations so results stay
// deterministic; a zero refDate means today. The full batch is consulted for
// dependency fan-in when the strategy weighs it.
func (e *Engine) Score(rec TaskRecord, all []TaskRecord, strategy Strategy, refDate time.Time) ScoreResult {
	if refDate.IsZero() {
		refDate = time.Now()
	}

	label, parts := strategy.blend()

	total := 0.0
	fragments := make([]string, 0, len(parts))
	for _, p := range parts {
		score, desc := p.factor.score(rec, all, refDate)
		total += score * p.weight
		fragments = append(fragments, desc)
	}

	return ScoreResult{
		Score:       clamp01(total),
		Explanation: label + ": " + strings.Join(fragments, ". "),
	}
}

// urgencyScore maps a due date to [0,1] relative to the reference date.
// Missing and unparseable dates both score neutral.
func urgencyScore(dueDate string, refDate time.Time) (float64, string) {
	if dueDate == "" {
		return 0.5, "No due date specified - neutral urgency"
	}

	due, err := time.Parse(DueDateLayout, dueDate)
	if err != nil {
		return 0.5, "Invalid due date format - neutral urgency"
	}

	days := daysBetween(refDate, due)
	switch {
	case days < 0:
		overdue := -days
		score := math.Min(1.0, 0.9+0.1*(1-math.Exp(-float64(overdue)/7)))
		return score, fmt.Sprintf("Overdue by %d day(s) - high priority", overdue)
	case days == 0:
		return 1.0, "Due today - highest urgency"
	case days <= 1:
		return 0.95, "Due tomorrow - very high urgency"
	case days <= 3:
		return 0.85, "Due in 3 days - high urgency"
	case days <= 7:
		score := 0.7 + 0.15*math.Exp(-float64(days-3)/4)
		return score, fmt.Sprintf("Due in %d days - moderate-high urgency", days)
	case days <= 14:
		score := 0.5 + 0.2*math.Exp(-float64(days-7)/7)
		return score, fmt.Sprintf("Due in %d days - moderate urgency", days)
	case days <= 30:
		score := 0.3 + 0.2*math.Exp(-float64(days-14)/16)
		return score, fmt.Sprintf("Due in %d days - low-moderate urgency", days)
	default:
		score := math.Max(0.1, 0.3*math.Exp(-float64(days-30)/30))
		return score, fmt.Sprintf("Due in %d days - low urgency", days)
	}
}

// importanceScore maps a 1-10 rating linearly onto [0,1]. Out-of-range
// ratings are clamped rather than rejected; a missing rating is neutral.
func importanceScore(importance *int) (float64, string) {
	if importance == nil {
		return 0.5, "No importance specified - neutral score"
	}

	v := *importance
	if v < 1 {
		v = 1
	}
	if v > 10 {
		v = 10
	}

	score := float64(v-1) / 9.0
	switch {
	case v >= 9:
		return score, fmt.Sprintf("Very high importance (%d/10)", v)
	case v >= 7:
		return score, fmt.Sprintf("High importance (%d/10)", v)
	case v >= 5:
		return score, fmt.Sprintf("Moderate importance (%d/10)", v)
	case v >= 3:
		return score, fmt.Sprintf("Low-moderate importance (%d/10)", v)
	default:
		return score, fmt.Sprintf("Low importance (%d/10)", v)
	}
}

// effortScore rewards low estimates: the quicker the task, the higher the
// score. Bands stay coarse below 40 hours so explanations read as
// categories; only the tail decays continuously.
func effortScore(hours float64) (float64, string) {
	if hours <= 0 {
		return 0.5, "No effort estimate - neutral score"
	}

	switch {
	case hours <= 1:
		return 1.0, "Very quick task (<1 hour)"
	case hours <= 2:
		return 0.9, "Quick task (1-2 hours)"
	case hours <= 4:
		return 0.75, "Short task (2-4 hours)"
	case hours <= 8:
		return 0.6, "Medium task (4-8 hours)"
	case hours <= 16:
		return 0.4, "Long task (8-16 hours)"
	case hours <= 40:
		return 0.25, "Very long task (16-40 hours)"
	default:
		score := math.Max(0.1, 0.25*math.Exp(-(hours-40)/40))
		return score, fmt.Sprintf("Extensive task (%v hours)", hours)
	}
}

// dependencyScore rewards tasks that block others. It scans the batch for
// records listing this task as a dependency, so scoring a whole batch is
// quadratic; callers with large batches should precompute an in-degree map.
func dependencyScore(rec TaskRecord, all []TaskRecord) (float64, string) {
	dependents := 0
	for _, other := range all {
		for _, dep := range other.Dependencies {
			if dep == rec.ID {
				dependents++
				break
			}
		}
	}

	switch {
	case dependents == 0:
		return 0.3, "No tasks depend on this - lower priority"
	case dependents == 1:
		return 0.6, "1 task depends on this - moderate priority"
	case dependents <= 3:
		return 0.8, fmt.Sprintf("%d tasks depend on this - high priority", dependents)
	default:
		return 1.0, fmt.Sprintf("%d tasks depend on this - very high priority (blocking)", dependents)
	}
}

// daysBetween counts whole calendar days from one date to another, ignoring
// any time component on either side.
func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

func clamp01(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
