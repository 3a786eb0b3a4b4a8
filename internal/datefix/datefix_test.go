package datefix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`"20/02/2023"`, "20/02/2023"},
		{`""20/02/2023""`, "20/02/2023"},
		{`'05/03/2023'`, "05/03/2023"},
		{"  12/01/2023 ", "12/01/2023"},
		{`""`, ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestInspect(t *testing.T) {
	p := Inspect(`"32/05/2063"`)
	require.True(t, p.OK)
	assert.True(t, p.CorruptDay())
	assert.True(t, p.CorruptYear())

	iso := Inspect("2023-01-15")
	assert.Equal(t, Parts{Year: 2023, Month: 1, Day: 15, OK: true}, iso)

	assert.False(t, Inspect("yesterday").OK)
	assert.False(t, Inspect("1/2/23").OK)
}

func TestRepair(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		want      *time.Time
		yearFixed bool
		dayFixed  bool
		bad       bool
	}{
		{name: "plain day-first", in: "20/02/2023", want: ptr(day(2023, 2, 20))},
		{name: "quoted", in: `"01/03/2023"`, want: ptr(day(2023, 3, 1))},
		{name: "iso", in: "2023-01-01", want: ptr(day(2023, 1, 1))},
		{name: "year 2063", in: "2063-01-15", want: ptr(day(2023, 1, 15)), yearFixed: true},
		{name: "day 32 in 31-day month", in: "32/05/2023", want: ptr(day(2023, 5, 31)), dayFixed: true},
		{name: "day 32 in 30-day month", in: "32/04/2023", dayFixed: true, bad: true},
		{name: "both signatures", in: "32/01/2063", want: ptr(day(2023, 1, 31)), yearFixed: true, dayFixed: true},
		{name: "impossible date", in: "30/02/2023", bad: true},
		{name: "garbage", in: "n/a", bad: true},
		{name: "blank", in: "  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Repair(tt.in)
			assert.Equal(t, tt.want, got.Date)
			assert.Equal(t, tt.yearFixed, got.YearFixed)
			assert.Equal(t, tt.dayFixed, got.DayFixed)
			assert.Equal(t, tt.bad, got.Unparseable)
		})
	}
}

func TestRepairIsFixedPoint(t *testing.T) {
	first := Repair("32/01/2063")
	require.NotNil(t, first.Date)

	second := Repair(Format(first.Date))
	assert.Equal(t, first.Date, second.Date)
	assert.False(t, second.Repaired())
}

func TestDaysBetween(t *testing.T) {
	assert.Equal(t, 14, DaysBetween(day(2023, 1, 1), day(2023, 1, 15)))
	assert.Equal(t, 0, DaysBetween(day(2023, 1, 1), day(2023, 1, 1)))
	assert.Equal(t, 29, DaysBetween(day(2024, 2, 1), day(2024, 3, 1)))

	// Spans longer than time.Duration can hold.
	assert.Equal(t, 117973, DaysBetween(day(1700, 1, 1), day(2023, 1, 1)))
	assert.Equal(t, 730118, DaysBetween(day(1, 1, 1), day(1999, 12, 31)))
}

func ptr(t time.Time) *time.Time { return &t }
