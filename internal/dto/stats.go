package dto

// DayCompletionResponse is one day in the streak calendar.
type DayCompletionResponse struct {
	Date      string `json:"date"` // "2006-01-02"
	Completed bool   `json:"completed"`
}

// StreakResponse is returned by GET /stats/streak.
type StreakResponse struct {
	CurrentStreak   int                     `json:"current_streak"`
	LongestStreak   int                     `json:"longest_streak"`
	DailyCompletion []DayCompletionResponse `json:"daily_completion"`
}
