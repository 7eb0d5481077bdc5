package agent

import "strings"

// Lane is the backend category selected for one input. Derived per input,
// never stored.
type Lane int

const (
	LaneConversational Lane = iota
	LaneAnalytical
)

func (l Lane) String() string {
	if l == LaneAnalytical {
		return "analytical"
	}
	return "conversational"
}

var codingKeywords = []string{
	"code", "program", "function", "class", "algorithm", "debug", "implement",
	"optimize", "refactor", "test", "documentation", "api", "database",
}

var researchKeywords = []string{
	"research", "analyze", "study", "investigate", "explore", "compare",
	"evaluate", "review", "literature", "survey", "data analysis",
}

// Classify maps free text to a lane by case-insensitive substring match
// against the fixed keyword sets. Any hit means analytical. Substring
// matching is deliberate: "class" inside an unrelated sentence routes
// analytical, and that false positive is accepted policy.
func Classify(text string) Lane {
	lower := strings.ToLower(text)
	for _, kw := range codingKeywords {
		if strings.Contains(lower, kw) {
			return LaneAnalytical
		}
	}
	for _, kw := range researchKeywords {
		if strings.Contains(lower, kw) {
			return LaneAnalytical
		}
	}
	return LaneConversational
}
