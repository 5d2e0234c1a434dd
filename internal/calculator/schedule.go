package calculator

import "github.com/mmynk/circlefund/internal/models"

// MonthsElapsed returns how many whole 30-day months separate start and now.
func MonthsElapsed(start, now int64) int {
	if now <= start {
		return 0
	}
	return int((now - start) / models.SecondsPerMonth)
}

// ContributionMonth maps now onto the circle month contributions count toward,
// clamped to the final month.
func ContributionMonth(start, now int64, duration int) int {
	return min(MonthsElapsed(start, now), duration-1)
}

// MonthlySchedule returns duration timestamps, one per month starting at
// start+offset.
func MonthlySchedule(start int64, duration int, offset int64) []int64 {
	schedule := make([]int64, duration)
	for m := range duration {
		schedule[m] = start + int64(m)*models.SecondsPerMonth + offset
	}
	return schedule
}
