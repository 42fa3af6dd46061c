package validate

import (
	"strconv"
	"strings"
	"time"

	"github.com/farxc/productivity-dashboard/internal/dashboard/frame"
	"github.com/xuri/excelize/v2"
)

// Layouts tried in order. Slash dates are day first, the way the source
// systems export them.
var layouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2/1/2006 3:04:05 PM",
	"2/1/2006 3:04 PM",
	"2/1/2006",
	"2006/1/2 15:04:05",
	"2006/1/2",
	"1-2-06",
}

// Serial day numbers accepted from spreadsheets: 1900-01-01 up to the last
// day of year 9999.
const (
	minSerial = 1
	maxSerial = 2958466
)

// ParseTimestamp reads a temporal cell. ok is false for missing or
// unrecognized values.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" || s == frame.NaN {
		return time.Time{}, false
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= minSerial && f < maxSerial {
		t, err := excelize.ExcelDateToTime(f, false)
		if err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
