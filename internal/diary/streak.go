package diary

import "time"

// streakLookbackDays bounds the backward scan for the current run;
// the longest run is still computed over the whole session history.
const streakLookbackDays = 90

// Streak holds the derived training-streak stats. It is recomputed
// from the session list on demand, nothing here is stored.
type Streak struct {
	CurrentStreak int `json:"currentStreak"`
	LongestStreak int `json:"longestStreak"`
	// LastSevenDays is the trailing week mask, index 0 is six days
	// ago and index 6 is today.
	LastSevenDays [7]bool `json:"lastSevenDays"`
	StreakChange  int     `json:"streakChange"`
}

// CalculateStreak derives the streak stats from the given sessions:
// consecutive calendar days with at least one completed session,
// scanned backward from today, or from yesterday when today has no
// session yet (today's rest does not break the run until tomorrow).
func CalculateStreak(sessions []Session, now time.Time) Streak {
	days := completedDays(sessions, now.Location())

	today := dayOf(now)
	yesterday := today.AddDate(0, 0, -1)

	current := runEndingAt(days, today)
	previous := runEndingAt(days, yesterday)

	var mask [7]bool
	for i := 0; i < 7; i++ {
		mask[i] = days[today.AddDate(0, 0, i-6)]
	}

	return Streak{
		CurrentStreak: current,
		LongestStreak: longestRun(days),
		LastSevenDays: mask,
		StreakChange:  current - previous,
	}
}

// completedDays collects the distinct calendar days having at least
// one completed session.
func completedDays(sessions []Session, loc *time.Location) map[time.Time]bool {
	days := make(map[time.Time]bool)
	for i := range sessions {
		s := &sessions[i]
		if s.SessionDate == nil || !s.IsCompleted() {
			continue
		}
		days[dayOf(s.SessionDate.In(loc))] = true
	}
	return days
}

// runEndingAt counts the consecutive completed days ending at the
// given day; when that day itself is empty the run is anchored one
// day earlier. Bounded by the lookback window.
func runEndingAt(days map[time.Time]bool, day time.Time) int {
	if !days[day] {
		day = day.AddDate(0, 0, -1)
	}
	run := 0
	for run < streakLookbackDays && days[day] {
		run++
		day = day.AddDate(0, 0, -1)
	}
	return run
}

func longestRun(days map[time.Time]bool) int {
	longest := 0
	for day := range days {
		// only start counting at the beginning of a run
		if days[day.AddDate(0, 0, -1)] {
			continue
		}
		run := 0
		for days[day] {
			run++
			day = day.AddDate(0, 0, 1)
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
