package emailparser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoadLocation(t *testing.T, name string) *time.Location {
	t.Helper()

	loc, err := time.LoadLocation(name)
	require.NoError(t, err)

	return loc
}

func TestParseDate_WithYear(t *testing.T) {
	sg := mustLoadLocation(t, "Asia/Singapore")
	now := time.Date(2025, time.September, 25, 12, 0, 0, 0, sg)

	tests := []struct {
		input string
		want  time.Time
	}{
		{input: "24 Sep 2025 10:10 SGT", want: time.Date(2025, time.September, 24, 10, 10, 0, 0, sg)},
		{input: "24 Sep 2025 10:10 (SGT)", want: time.Date(2025, time.September, 24, 10, 10, 0, 0, sg)},
		{input: "23 DEC 2025 18:41 (SGT)", want: time.Date(2025, time.December, 23, 18, 41, 0, 0, sg)},
		{input: "01 Oct 2024 08:00 UTC", want: time.Date(2024, time.October, 1, 8, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := ParseDate(tt.input, now)
			require.True(t, ok)
			assert.True(t, got.Equal(tt.want), "got %s, want %s", got, tt.want)
		})
	}
}

func TestParseDate_WithoutYear(t *testing.T) {
	sg := mustLoadLocation(t, "Asia/Singapore")
	now := time.Date(2025, time.September, 25, 12, 0, 0, 0, sg)

	// Most recent past occurrence of the day/month/time.
	got, ok := ParseDate("24 Sep 10:10 SGT", now)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, time.September, 24, 10, 10, 0, 0, sg)))

	// A candidate in the future rolls back exactly one year.
	got, ok = ParseDate("30 Nov 10:10 SGT", now)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, time.November, 30, 10, 10, 0, 0, sg)))
}

func TestParseDate_WithoutYearBoundary(t *testing.T) {
	sg := mustLoadLocation(t, "Asia/Singapore")

	// Same day as the reference but a later time is still "future".
	now := time.Date(2025, time.September, 24, 8, 0, 0, 0, sg)
	got, ok := ParseDate("24 Sep 10:10 SGT", now)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2024, time.September, 24, 10, 10, 0, 0, sg)),
		"10:10 is after an 08:00 reference, so it must roll back a year")

	// One minute before the reference: current year.
	now = time.Date(2025, time.September, 24, 10, 11, 0, 0, sg)
	got, ok = ParseDate("24 Sep 10:10 SGT", now)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, time.September, 24, 10, 10, 0, 0, sg)))
}

func TestParseDate_CrossZoneReference(t *testing.T) {
	sg := mustLoadLocation(t, "Asia/Singapore")

	// Reference moment is Dec 31 18:00 UTC, which is already Jan 1 02:00 in
	// Singapore. The year must come from the zone-local reading.
	now := time.Date(2024, time.December, 31, 18, 0, 0, 0, time.UTC)
	got, ok := ParseDate("1 Jan 02:00 SGT", now)
	require.True(t, ok)
	assert.True(t, got.Equal(time.Date(2025, time.January, 1, 2, 0, 0, 0, sg)))
}

func TestParseDate_Invalid(t *testing.T) {
	now := time.Date(2025, time.September, 25, 12, 0, 0, 0, time.UTC)

	for _, input := range []string{
		"invalid date SGT",
		"24 Sep 10:10 EST", // ambiguous abbreviation, never guessed
		"24 Sep 10:10",     // no timezone
		"31 Feb 2025 10:00 SGT",
		"24 Sep 2025 26:00 SGT",
		"",
	} {
		_, ok := ParseDate(input, now)
		assert.False(t, ok, "input %q", input)
	}
}
