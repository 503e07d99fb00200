package utils

import "time"

// AddBusinessDays returns t advanced by n business days, skipping Saturdays
// and Sundays. There is no holiday calendar.
func AddBusinessDays(t time.Time, n int) time.Time {
	result := t
	for added := 0; added < n; {
		result = result.AddDate(0, 0, 1)
		if wd := result.Weekday(); wd != time.Saturday && wd != time.Sunday {
			added++
		}
	}
	return result
}
