package rewards

import "github.com/codetutor/codetutor/internal/lang"

// ExecutePoints is awarded for a successful free-form execution.
const ExecutePoints = 2

// AnalyzePoints returns the award for analyzing code at difficulty d.
func AnalyzePoints(d lang.Difficulty) int {
	switch d {
	case lang.Intermediate:
		return 10
	case lang.Advanced:
		return 15
	default:
		return 5
	}
}

// EnhancePoints returns the award for a refactor request at difficulty d.
func EnhancePoints(d lang.Difficulty) int {
	switch d {
	case lang.Intermediate:
		return 6
	case lang.Advanced:
		return 9
	default:
		return 3
	}
}

// PointsFor returns the award for a free-form activity of kind k.
func PointsFor(k ActivityKind, d lang.Difficulty) int {
	switch k {
	case KindAnalyze:
		return AnalyzePoints(d)
	case KindEnhance:
		return EnhancePoints(d)
	case KindExecute:
		return ExecutePoints
	default:
		return 0
	}
}
