package rewards

import "time"

// weekStart returns local midnight of the Sunday starting t's week.
func weekStart(t time.Time) time.Time {
	t = t.Local()
	return time.Date(t.Year(), t.Month(), t.Day()-int(t.Weekday()), 0, 0, 0, 0, time.Local)
}

// SameWeek reports whether now and last fall in the same Sunday-based
// week. A zero last counts as the current week.
func SameWeek(now, last time.Time) bool {
	if last.IsZero() {
		return true
	}
	return weekStart(now).Equal(weekStart(last))
}

// bucket applies the weekly rollover and adds points to now's weekday.
func bucket(a *Analytics, now time.Time, points int) {
	if !SameWeek(now, a.LastActivity) {
		for i := range a.WeeklyProgress {
			a.WeeklyProgress[i].Points = 0
		}
	}
	day := now.Local().Weekday()
	a.WeeklyProgress[day].Name = weekdayNames[day]
	a.WeeklyProgress[day].Points += points
	a.LastActivity = now
}
