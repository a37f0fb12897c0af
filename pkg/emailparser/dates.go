package emailparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timezoneAbbreviations maps the abbreviations seen in bank emails to IANA
// zone names. Ambiguous abbreviations (EST, PST, ...) are deliberately not
// mapped: guessing the wrong zone silently shifts every transaction, so an
// unknown abbreviation fails the parse instead.
var timezoneAbbreviations = map[string]string{
	"SGT": "Asia/Singapore",
	"MYT": "Asia/Kuala_Lumpur",
	"HKT": "Asia/Hong_Kong",
	"JST": "Asia/Tokyo",
	"GMT": "UTC",
	"UTC": "UTC",
}

var months = map[string]time.Month{
	"jan": time.January,
	"feb": time.February,
	"mar": time.March,
	"apr": time.April,
	"may": time.May,
	"jun": time.June,
	"jul": time.July,
	"aug": time.August,
	"sep": time.September,
	"oct": time.October,
	"nov": time.November,
	"dec": time.December,
}

// "24 Sep 2025 10:10 SGT", "24 Sep 10:10 SGT", "23 DEC 2025 18:41 (SGT)"
var dateRegexp = regexp.MustCompile(`^(\d{1,2})\s+([A-Za-z]{3})(?:\s+(\d{4}))?\s+(\d{1,2}):(\d{2})\s+\(?([A-Za-z]+)\)?$`)

// ParseDate resolves a "<day> <month> [<year>] <HH:MM> <tz>" string to an
// absolute UTC instant. When the year is omitted it is taken from now's year
// in the source zone; a candidate strictly after now rolls back exactly one
// year, since bank notifications are never future-dated.
func ParseDate(input string, now time.Time) (time.Time, bool) {
	m := dateRegexp.FindStringSubmatch(strings.TrimSpace(input))
	if m == nil {
		return time.Time{}, false
	}

	day, _ := strconv.Atoi(m[1])
	hour, _ := strconv.Atoi(m[4])
	minute, _ := strconv.Atoi(m[5])

	month, ok := months[strings.ToLower(m[2])]
	if !ok {
		return time.Time{}, false
	}

	zoneName, ok := timezoneAbbreviations[strings.ToUpper(m[6])]
	if !ok {
		return time.Time{}, false
	}

	loc, err := time.LoadLocation(zoneName)
	if err != nil {
		return time.Time{}, false
	}

	if hour > 23 || minute > 59 {
		return time.Time{}, false
	}

	if m[3] != "" {
		year, _ := strconv.Atoi(m[3])

		t := time.Date(year, month, day, hour, minute, 0, 0, loc)
		if t.Day() != day || t.Month() != month {
			// time.Date normalized an impossible date like 31 Feb
			return time.Time{}, false
		}

		return t.UTC(), true
	}

	// Reference year as read in the source zone; the instant "now" can sit in
	// a different calendar year there than in its own zone.
	candidate := time.Date(now.In(loc).Year(), month, day, hour, minute, 0, 0, loc)
	if candidate.Day() != day || candidate.Month() != month {
		return time.Time{}, false
	}

	if candidate.After(now) {
		candidate = candidate.AddDate(-1, 0, 0)
	}

	return candidate.UTC(), true
}
