package utils

import (
	"time"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// IST is the Indian Standard Time location (UTC+5:30). NAVs are struck and
// published on IST calendar days.
var IST *time.Location

func init() {
	var err error
	IST, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		IST = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}

// TodayIST returns midnight of the current IST calendar day.
func TodayIST() time.Time {
	return StartOfDayIST(NowIST())
}

// StartOfDayIST truncates t to midnight of its IST calendar day.
func StartOfDayIST(t time.Time) time.Time {
	d := t.In(IST)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, IST)
}

// ParseDateIST parses a YYYY-MM-DD date in IST.
func ParseDateIST(dateStr string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, dateStr, IST)
}

// FormatDateIST formats t as YYYY-MM-DD in IST.
func FormatDateIST(t time.Time) string {
	return t.In(IST).Format(DateLayout)
}

// FormatDateTimeIST formats t as "2006-01-02 15:04:05 IST".
func FormatDateTimeIST(t time.Time) string {
	return t.In(IST).Format("2006-01-02 15:04:05 IST")
}

// YearsSince returns the whole years elapsed from a YYYY-MM-DD date to
// now. Unparseable dates yield 0.
func YearsSince(dateStr string, now time.Time) int {
	d, err := ParseDateIST(dateStr)
	if err != nil {
		return 0
	}
	now = now.In(IST)
	years := now.Year() - d.Year()
	if now.Month() < d.Month() || (now.Month() == d.Month() && now.Day() < d.Day()) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
