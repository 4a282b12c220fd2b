package rewards

import "math"

// Level is a named points band. Max is exclusive; the top level has
// Max == math.MaxInt.
type Level struct {
	Name string
	Min  int
	Max  int
}

var levels = []Level{
	{Name: "Beginner", Min: 0, Max: 100},
	{Name: "Intermediate", Min: 100, Max: 300},
	{Name: "Advanced", Min: 300, Max: 600},
	{Name: "Pro Coder", Min: 600, Max: math.MaxInt},
}

// Levels returns the bands in ascending order.
func Levels() []Level { return levels }

// LevelFor returns the band containing points.
func LevelFor(points int) Level {
	for _, l := range levels {
		if points < l.Max {
			return l
		}
	}
	return levels[len(levels)-1]
}

// IsTop reports whether there is no level above l.
func (l Level) IsTop() bool { return l.Max == math.MaxInt }

// ProgressToNext returns the fraction [0,1] of the way from l.Min to the
// next level. The top level always reports 1.
func (l Level) ProgressToNext(points int) float64 {
	if l.IsTop() {
		return 1
	}
	f := float64(points-l.Min) / float64(l.Max-l.Min)
	return math.Max(0, math.Min(1, f))
}

// PointsToNext returns the points still needed for the next level, or 0
// at the top.
func (l Level) PointsToNext(points int) int {
	if l.IsTop() || points >= l.Max {
		return 0
	}
	return l.Max - points
}
