// Package dateutils provides the date parsing and formatting operations used
// throughout the application.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Common date format constants used throughout the application
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutUS      = "01/02/2006"
	DateLayoutShortUS = "01/02/06"
	DateLayoutFull    = "2006-01-02 15:04:05"
)

// serialEpoch is the conventional spreadsheet base date. Day-count serial
// numbers are anchored at 1899-12-30, which absorbs the historical 1900
// leap-year quirk.
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Serial numbers outside this range do not map onto the calendar.
const (
	minSerial = -693593.0 // year 1
	maxSerial = 2958465.0 // 9999-12-31
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// CleanDateString trims a date string and collapses internal whitespace runs.
func CleanDateString(dateStr string) string {
	return whitespaceRun.ReplaceAllString(strings.TrimSpace(dateStr), " ")
}

// ParseDateString attempts to parse a date string using the formats commonly
// found in vendor spreadsheets. Returns an error when no format matches.
func ParseDateString(dateStr string) (time.Time, error) {
	cleanDate := CleanDateString(dateStr)
	if cleanDate == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	formats := []string{
		DateLayoutISO,               // YYYY-MM-DD
		DateLayoutFull,              // YYYY-MM-DD HH:MM:SS
		"2006-01-02T15:04:05Z07:00", // ISO 8601
		DateLayoutUS,                // MM/DD/YYYY
		DateLayoutShortUS,           // MM/DD/YY
		"1/2/2006",                  // M/D/YYYY
		"1/2/06",                    // M/D/YY
		"01-02-2006",                // MM-DD-YYYY
		"January 2, 2006",           // Month D, YYYY
		"Jan 2, 2006",               // MMM D, YYYY
		"2 January 2006",            // D Month YYYY
		"02 Jan 2006",               // DD MMM YYYY
	}

	for _, format := range formats {
		if t, err := time.Parse(format, cleanDate); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}

// FromSerial converts a spreadsheet day-count serial number into a calendar
// date. Fractional parts represent time of day and are preserved.
func FromSerial(serial float64) (time.Time, error) {
	if serial < minSerial || serial > maxSerial {
		return time.Time{}, fmt.Errorf("serial %v outside calendar range", serial)
	}

	days := int(serial)
	frac := serial - float64(days)
	t := serialEpoch.AddDate(0, 0, days)
	if frac != 0 {
		t = t.Add(time.Duration(frac * float64(24*time.Hour)))
	}
	return t, nil
}

// ToShortUS formats a date as MM/DD/YY, the format deal-header dates are
// reported in.
func ToShortUS(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(DateLayoutShortUS)
}
