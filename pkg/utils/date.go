package utils

import (
	"log"
	"time"
)

const (
	// DateLayout is the KIS wire format for calendar dates.
	DateLayout = "20060102"
	// DatetimeLayout is the KIS wire format for bar timestamps.
	DatetimeLayout = "20060102150405"
)

func GetKSTTimeLocation() *time.Location {
	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		log.Fatal("Failed to load location", err)
	}
	return loc
}

func TimeNowKST() time.Time {
	return time.Now().In(GetKSTTimeLocation())
}

// TodayKST returns the current trading date in YYYYMMDD form.
func TodayKST() string {
	return TimeNowKST().Format(DateLayout)
}

// ParseDate parses a YYYYMMDD string in exchange-local time.
func ParseDate(date string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, date, GetKSTTimeLocation())
}

// IsWeekend reports whether the given day falls on Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
