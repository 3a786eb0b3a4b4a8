// Package datefix parses and repairs the free-text calendar dates found in
// library extracts.
//
// Two corruption signatures are known: a year of 2063 (meant to be 2023)
// and a day of month of 32 (meant to be 31). Repair applies exactly those
// two corrections and nothing else; a value that is still not a real
// calendar date afterwards yields no date.
package datefix

import (
	"strconv"
	"strings"
	"time"
)

// Layout is the day-first layout used by the source files and by exports.
const Layout = "02/01/2006"

const (
	corruptYear  = 2063
	repairedYear = 2023
	corruptDay   = 32
	repairedDay  = 31
)

// Parts holds the numeric components of a date string.
type Parts struct {
	Day, Month, Year int
	// OK is false when the string does not split into three integers
	// in a recognized order.
	OK bool
}

// CorruptYear reports the year-2063 signature.
func (p Parts) CorruptYear() bool { return p.OK && p.Year == corruptYear }

// CorruptDay reports the day-32 signature.
func (p Parts) CorruptDay() bool { return p.OK && p.Day == corruptDay }

// Result is the outcome of repairing one date string.
type Result struct {
	Date        *time.Time
	YearFixed   bool
	DayFixed    bool
	Unparseable bool // non-blank input that produced no date
}

// Repaired reports whether a correction was applied.
func (r Result) Repaired() bool { return r.YearFixed || r.DayFixed }

// Normalize trims whitespace and strips wrapping quote characters.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	for len(s) > 0 && (s[0] == '"' || s[0] == '\'') {
		s = s[1:]
	}
	for len(s) > 0 && (s[len(s)-1] == '"' || s[len(s)-1] == '\'') {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

// Inspect splits a normalized or raw date string into its components.
// Day-first (dd/mm/yyyy, with /, - or . separators) and ISO (yyyy-mm-dd)
// orders are recognized.
func Inspect(s string) Parts {
	s = Normalize(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '/' || r == '-' || r == '.'
	})
	if len(fields) != 3 {
		return Parts{}
	}

	nums := make([]int, 3)
	for i, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 {
			return Parts{}
		}
		nums[i] = n
	}

	switch {
	case len(fields[0]) == 4:
		return Parts{Year: nums[0], Month: nums[1], Day: nums[2], OK: true}
	case len(fields[2]) == 4:
		return Parts{Day: nums[0], Month: nums[1], Year: nums[2], OK: true}
	default:
		return Parts{}
	}
}

// Valid reports whether the parts form a real calendar date.
func (p Parts) Valid() bool {
	if !p.OK || p.Month < 1 || p.Month > 12 || p.Day < 1 || p.Year < 1 {
		return false
	}
	t := time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == p.Day && int(t.Month()) == p.Month
}

// Time returns the date at UTC midnight. Only meaningful when Valid.
func (p Parts) Time() time.Time {
	return time.Date(p.Year, time.Month(p.Month), p.Day, 0, 0, 0, 0, time.UTC)
}

// Repair normalizes s, applies the 2063 and day-32 corrections and
// returns the resulting date. Blank input gives an empty Result.
func Repair(s string) Result {
	if Normalize(s) == "" {
		return Result{}
	}

	p := Inspect(s)
	var res Result
	if p.CorruptYear() {
		p.Year = repairedYear
		res.YearFixed = true
	}
	if p.CorruptDay() {
		p.Day = repairedDay
		res.DayFixed = true
	}

	if !p.Valid() {
		res.Unparseable = true
		return res
	}
	t := p.Time()
	res.Date = &t
	return res
}

// Format renders a date in Layout, or "" for nil.
func Format(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(Layout)
}

// DaysBetween returns the whole days from a to b. Both are expected to be
// UTC midnights; time.Duration overflows past ~292 years, so seconds are used.
func DaysBetween(a, b time.Time) int {
	return int((b.Unix() - a.Unix()) / 86400)
}
