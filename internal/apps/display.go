package apps

import "time"

const day = 24 * time.Hour

// DaysRunning is the number of whole days between the test start and now.
func DaysRunning(t *ABTest, now time.Time) int {
	if t == nil || now.Before(t.StartDate) {
		return 0
	}
	return int(now.Sub(t.StartDate) / day)
}

// PerformanceBarWidth is the fill percentage of a variant's bar. It is not clamped.
func PerformanceBarWidth(v ABVariant) float64 {
	return 50 + v.PerformanceCtx
}
