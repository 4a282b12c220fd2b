package rewards

// BaseStreakMilestone is the first streak length called out on the dashboard.
const BaseStreakMilestone = 5

// NextStreakMilestone returns the next streak milestone above the current streak length.
func NextStreakMilestone(current int) int {
	milestones := []int{5, 10, 15, 20}
	for _, m := range milestones {
		if m > current {
			return m
		}
	}
	// Beyond 20, every 5.
	return ((current / 5) + 1) * 5
}

// ReachedMilestone reports whether moving from before to after crossed a
// milestone, returning it.
func ReachedMilestone(before, after int) (int, bool) {
	m := NextStreakMilestone(before)
	if after >= m {
		return m, true
	}
	return 0, false
}
