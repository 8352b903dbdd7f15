// Package streak derives day-by-day completion history and consecutive
// completion streaks from a task list. Everything here is a pure function
// over an in-memory snapshot; results must be recomputed when the task
// list changes.
package streak

import (
	"time"

	dom "github.com/mrgear111/GROW/internal/domain"
)

// DefaultWindowDays is the trailing window used when none is given.
const DefaultWindowDays = 365

// DayCompletion is one day's completion status.
type DayCompletion struct {
	Date      string // "2006-01-02"
	Completed bool
}

// Result holds the computed streaks and the per-day history,
// chronologically ascending (oldest first).
type Result struct {
	CurrentStreak int
	LongestStreak int
	History       []DayCompletion
}

// Compute buckets each task into a calendar day (due date if set, else the
// creation day) and evaluates the windowDays days ending at reference,
// inclusive. A day is complete iff it has at least one task and every task
// on it is completed; a day with no tasks is never complete.
func Compute(tasks []dom.Task, windowDays int, reference time.Time) Result {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	byDay := make(map[string][]dom.Task, len(tasks))
	for _, t := range tasks {
		day := t.Day()
		byDay[day] = append(byDay[day], t)
	}

	ref := reference.UTC()
	last := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)

	history := make([]DayCompletion, 0, windowDays)
	for i := windowDays - 1; i >= 0; i-- {
		day := last.AddDate(0, 0, -i).Format("2006-01-02")
		history = append(history, DayCompletion{
			Date:      day,
			Completed: allCompleted(byDay[day]),
		})
	}

	return Result{
		CurrentStreak: currentStreak(history),
		LongestStreak: longestStreak(history),
		History:       history,
	}
}

func allCompleted(tasks []dom.Task) bool {
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.Completed {
			return false
		}
	}
	return true
}

// currentStreak walks backward from the most recent day. If that day is not
// complete but the day before it is, the streak is 1 (one-day grace so an
// unfinished today does not erase yesterday's run).
func currentStreak(history []DayCompletion) int {
	n := len(history)
	if n == 0 {
		return 0
	}
	if !history[n-1].Completed {
		if n > 1 && history[n-2].Completed {
			return 1
		}
		return 0
	}
	streak := 1
	for i := n - 2; i >= 0; i-- {
		if !history[i].Completed {
			break
		}
		streak++
	}
	return streak
}

func longestStreak(history []DayCompletion) int {
	var run, longest int
	for _, day := range history {
		if day.Completed {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 0
		}
	}
	return longest
}
