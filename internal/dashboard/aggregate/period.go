package aggregate

import (
	"fmt"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/types"
)

// BucketStart returns the first instant of the period that holds t. anchor
// is only used by FiveDay, whose buckets are counted from the anchor's day.
func BucketStart(t time.Time, g types.Granularity, anchor time.Time) time.Time {
	d := midnight(t)
	switch g {
	case types.FiveDay:
		a := midnight(anchor)
		days := int(d.Sub(a).Hours() / 24)
		if days < 0 {
			days -= 4
		}
		return a.AddDate(0, 0, days/5*5)
	case types.Week:
		// Weeks end on Sunday.
		return d.AddDate(0, 0, -((int(d.Weekday()) + 6) % 7))
	case types.Month:
		return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.UTC)
	case types.Quarter:
		first := time.Month((int(d.Month())-1)/3*3 + 1)
		return time.Date(d.Year(), first, 1, 0, 0, 0, 0, time.UTC)
	case types.Year:
		return time.Date(d.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	default:
		return d
	}
}

// Label names the period that starts at bucket. Every chart and table uses
// it, so one period always prints the same way.
func Label(bucket time.Time, g types.Granularity) string {
	switch g {
	case types.Week:
		sunday := bucket.AddDate(0, 0, 6)
		return fmt.Sprintf("Semana %02d - %d", sundayWeek(sunday), sunday.Year())
	case types.Month:
		return bucket.Format("2006-01")
	case types.Quarter:
		return fmt.Sprintf("%dQ%d", bucket.Year(), (int(bucket.Month())-1)/3+1)
	case types.Year:
		return fmt.Sprintf("%d", bucket.Year())
	default:
		return bucket.Format(time.DateOnly)
	}
}

// sundayWeek is the week of the year counting Sunday as the first day of
// the week; days before the first Sunday are in week 0.
func sundayWeek(t time.Time) int {
	return (t.YearDay() - 1 + 7 - int(t.Weekday())) / 7
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
