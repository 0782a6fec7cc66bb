package series

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/forecastpulse/internal/domain/models"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func seriesOf(dates ...string) models.Series {
	out := make(models.Series, len(dates))
	for i, d := range dates {
		out[i] = pt(d, float64(i))
	}
	return out
}

func TestFilter_YearMode(t *testing.T) {
	s := seriesOf("2019-06-01", "2020-01-01", "2021-12-31")

	cases := []struct {
		name       string
		start, end string
		want       []string
	}{
		{name: "single year inclusive", start: "2020", end: "2020", want: []string{"2020-01-01"}},
		{name: "open start", start: models.AllYears, end: "2020", want: []string{"2019-06-01", "2020-01-01"}},
		{name: "open end", start: "2020", end: models.AllYears, want: []string{"2020-01-01", "2021-12-31"}},
		{name: "unset bounds are open", start: "", end: "", want: []string{"2019-06-01", "2020-01-01", "2021-12-31"}},
		{name: "inverted range", start: "2021", end: "2019", want: []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(s, models.RangeSelection{Mode: models.RangeModeYear, StartYear: tc.start, EndYear: tc.end})
			assert.Equal(t, tc.want, got.Dates())
		})
	}
}

func TestFilter_AllAllReturnsInputUnchanged(t *testing.T) {
	s := models.Series{pt("2019-06-01", 1), {Date: "2020-01-01"}, pt("2021-12-31", 3)}
	got := Filter(s, models.AllTime())
	require.Equal(t, s, got)
}

func TestFilter_CalendarMode(t *testing.T) {
	s := seriesOf("2020-01-01", "2020-06-15", "2020-12-31")

	cases := []struct {
		name       string
		start, end *time.Time
		want       []string
	}{
		{name: "both bounds", start: day(2020, 3, 1), end: day(2020, 9, 1), want: []string{"2020-06-15"}},
		{name: "inclusive bounds", start: day(2020, 1, 1), end: day(2020, 12, 31), want: []string{"2020-01-01", "2020-06-15", "2020-12-31"}},
		{name: "start only", start: day(2020, 6, 15), want: []string{"2020-06-15", "2020-12-31"}},
		{name: "end only", end: day(2020, 6, 14), want: []string{"2020-01-01"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Filter(s, models.RangeSelection{Mode: models.RangeModeCalendar, StartDate: tc.start, EndDate: tc.end})
			assert.Equal(t, tc.want, got.Dates())
		})
	}
}

func TestFilter_CalendarWithoutBoundsFallsBackToYears(t *testing.T) {
	s := seriesOf("2019-06-01", "2020-01-01")
	got := Filter(s, models.RangeSelection{Mode: models.RangeModeCalendar, StartYear: "2020", EndYear: "2020"})
	assert.Equal(t, []string{"2020-01-01"}, got.Dates())
}

func TestFilter_CalendarExcludesMalformedDates(t *testing.T) {
	s := models.Series{pt("2020", 1), pt("2020-06", 2), pt("abcd-ef-gh", 3), pt("2020-06-15T10:00:00", 4), {Date: ""}}
	sel := models.RangeSelection{Mode: models.RangeModeCalendar, StartDate: day(2020, 1, 1)}
	got := Filter(s, sel)
	assert.Equal(t, []string{"2020-06-15T10:00:00"}, got.Dates())
}

func TestFilter_EmptyInput(t *testing.T) {
	got := Filter(nil, models.AllTime())
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseDay(t *testing.T) {
	d, ok := ParseDay("2020-02-30")
	require.True(t, ok)
	// rolls over like a calendar constructor would
	assert.Equal(t, time.Date(2020, 3, 1, 0, 0, 0, 0, time.UTC), d)

	_, ok = ParseDay("2020-02")
	assert.False(t, ok)
}
