package diary_test

import (
	"testing"
	"time"

	"github.com/traindiary/traindiary/internal/diary"

	"github.com/stretchr/testify/assert"
)

func completedSessionOn(day time.Time) diary.Session {
	return diary.Session{
		SessionID:   day.Format("2006-01-02"),
		SessionDate: ptrOf(day),
		Completed:   ptrOf(true),
	}
}

func TestCalculateStreak_Empty(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	streak := diary.CalculateStreak(nil, now)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 0, streak.LongestStreak)
	assert.Equal(t, 0, streak.StreakChange)
	assert.Equal(t, [7]bool{}, streak.LastSevenDays)
}

func TestCalculateStreak_CurrentRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	// today plus the two previous days
	sessions := []diary.Session{
		completedSessionOn(now),
		completedSessionOn(now.AddDate(0, 0, -1)),
		completedSessionOn(now.AddDate(0, 0, -2)),
	}

	streak := diary.CalculateStreak(sessions, now)
	assert.Equal(t, 3, streak.CurrentStreak)
	assert.Equal(t, 3, streak.LongestStreak)
	// mask index 6 is today
	assert.True(t, streak.LastSevenDays[6])
	assert.True(t, streak.LastSevenDays[5])
	assert.True(t, streak.LastSevenDays[4])
	assert.False(t, streak.LastSevenDays[3])
	// yesterday the run was 2 days long
	assert.Equal(t, 1, streak.StreakChange)
}

func TestCalculateStreak_TodayRestDoesNotBreakRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 8, 0, 0, 0, time.UTC)

	// trained yesterday and the day before, nothing today yet
	sessions := []diary.Session{
		completedSessionOn(now.AddDate(0, 0, -1)),
		completedSessionOn(now.AddDate(0, 0, -2)),
	}

	streak := diary.CalculateStreak(sessions, now)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.False(t, streak.LastSevenDays[6])
	assert.True(t, streak.LastSevenDays[5])
	// run unchanged since yesterday
	assert.Equal(t, 0, streak.StreakChange)
}

func TestCalculateStreak_BrokenRun(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	// a 4-day run long ago, then a gap, then today
	sessions := []diary.Session{
		completedSessionOn(now),
		completedSessionOn(now.AddDate(0, 0, -10)),
		completedSessionOn(now.AddDate(0, 0, -11)),
		completedSessionOn(now.AddDate(0, 0, -12)),
		completedSessionOn(now.AddDate(0, 0, -13)),
	}

	streak := diary.CalculateStreak(sessions, now)
	assert.Equal(t, 1, streak.CurrentStreak)
	assert.Equal(t, 4, streak.LongestStreak)
	// yesterday there was no active run at all
	assert.Equal(t, 1, streak.StreakChange)
}

func TestCalculateStreak_IncompleteSessionsIgnored(t *testing.T) {
	now := time.Date(2026, 8, 29, 15, 0, 0, 0, time.UTC)

	sessions := []diary.Session{
		{
			SessionID:   "planned-only",
			SessionDate: ptrOf(now),
			Completed:   ptrOf(false),
		},
		{
			SessionID:   "no-flag",
			SessionDate: ptrOf(now.AddDate(0, 0, -1)),
		},
		completedSessionOn(now.AddDate(0, 0, -2)),
	}

	streak := diary.CalculateStreak(sessions, now)
	assert.Equal(t, 0, streak.CurrentStreak)
	assert.Equal(t, 1, streak.LongestStreak)
	assert.False(t, streak.LastSevenDays[6])
	assert.False(t, streak.LastSevenDays[5])
	assert.True(t, streak.LastSevenDays[4])
}

func TestCalculateStreak_MultipleSessionsSameDay(t *testing.T) {
	now := time.Date(2026, 8, 29, 20, 0, 0, 0, time.UTC)

	// two workouts today still count as a single streak day
	sessions := []diary.Session{
		completedSessionOn(now),
		completedSessionOn(now.Add(-4 * time.Hour)),
		completedSessionOn(now.AddDate(0, 0, -1)),
	}

	streak := diary.CalculateStreak(sessions, now)
	assert.Equal(t, 2, streak.CurrentStreak)
	assert.Equal(t, 2, streak.LongestStreak)
}
