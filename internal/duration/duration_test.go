package duration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const oneOfEach = int64(90061000) // 1d 1h 1m 1s

func TestFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		millis int64
		opts   Options
		want   string
	}{
		{name: "zero uses defaults", millis: 0, want: "0m 0s"},
		{name: "one of each", millis: oneOfEach, want: "1d 1h 1m 1s"},
		{name: "padding", millis: oneOfEach, opts: Options{Padding: true}, want: "001d 01h 01m 01s"},
		{name: "skip nothing", millis: 5000, opts: Options{SkipZero: SkipAll(false)}, want: "0y 0d 0h 0m 5s"},
		{
			name:   "skip nothing padded",
			millis: 5000,
			opts:   Options{Padding: true, SkipZero: SkipAll(false)},
			want:   "00y 000d 00h 00m 05s",
		},
		{name: "skip everything zero", millis: 3_600_000, opts: Options{SkipZero: SkipAll(true)}, want: "1h"},
		{name: "skip everything on zero input", millis: 0, opts: Options{SkipZero: SkipAll(true)}, want: ""},
		{name: "sub-second truncated", millis: 999, want: "0m 0s"},
		{name: "minutes only", millis: 61_000, want: "1m 1s"},
		{name: "hours shown once non-zero", millis: 3_600_000, want: "1h 0m 0s"},
		{name: "days without hours", millis: 86_400_000, want: "1d 0m 0s"},
		{name: "years", millis: 365 * 86_400_000, want: "1y 0m 0s"},
		{name: "years do not wrap", millis: 800 * 365 * 86_400_000, want: "800y 0m 0s"},
		{name: "padding does not truncate", millis: 400 * 86_400_000, opts: Options{Padding: true}, want: "01y 035d 00m 00s"},
		{
			name:   "per-unit override beats default",
			millis: 5000,
			opts:   Options{SkipZero: SkipUnits(map[Unit]bool{Hours: false, Minutes: true})},
			want:   "0h 5s",
		},
		{
			name:   "per-unit override beats all",
			millis: 5000,
			opts: Options{SkipZero: SkipZero{
				All:     boolPtr(true),
				PerUnit: map[Unit]bool{Years: false},
			}},
			want: "0y 5s",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Format(tt.millis, tt.opts))
		})
	}
}

func TestFormat_NegativeFollowsFloorSemantics(t *testing.T) {
	t.Parallel()

	// Negative input is an open product question; this pins the current arithmetic.
	assert.Equal(t, "-1y -1d -1h -1m -2s", Format(-1500, Options{}))
	assert.Equal(t, Parts{Years: -1, Days: -1, Hours: -1, Minutes: -1, Seconds: -1}, Split(-1000))
	assert.Equal(t, Parts{Years: -1, Days: -1, Hours: -1, Minutes: -1, Seconds: -1}, Split(-1))
}

func TestSplit_RecombinesExactly(t *testing.T) {
	t.Parallel()

	inputs := []int64{0, 1, 999, 1000, 59_999, 60_000, oneOfEach, 31_535_999_999, 31_536_000_000, 123_456_789_012}
	for ms := int64(7); ms < 1<<40; ms = ms*13 + 11 {
		inputs = append(inputs, ms)
	}

	for _, ms := range inputs {
		parts := Split(ms)
		assert.Equal(t, ms/1000, parts.TotalSeconds(), "millis=%d", ms)
		assert.GreaterOrEqual(t, parts.Days, int64(0))
		assert.Less(t, parts.Days, int64(365))
		assert.Less(t, parts.Hours, int64(24))
		assert.Less(t, parts.Minutes, int64(60))
		assert.Less(t, parts.Seconds, int64(60))
	}
}

func TestSinceAt(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	then := now.Add(-(25*time.Hour + time.Minute + time.Second))

	assert.Equal(t, "1d 1h 1m 1s", SinceAt(now, then, Options{}))
	assert.Equal(t, Format(oneOfEach, Options{Padding: true}), SinceAt(now, then, Options{Padding: true}))
}

func TestSince_UsesWallClock(t *testing.T) {
	t.Parallel()

	got := Since(time.Now().Add(-2*time.Hour), Options{})
	// Allow the clock to tick between the two reads.
	assert.Contains(t, []string{"2h 0m 0s", "2h 0m 1s"}, got)
}

func TestFormatDuration(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "1m 30s", FormatDuration(90*time.Second+500*time.Millisecond, Options{}))
}

func TestDefaultSkipZero_ReturnsCopy(t *testing.T) {
	t.Parallel()

	table := DefaultSkipZero()
	table.Minutes = true

	assert.False(t, DefaultSkipZero().Minutes)
	assert.Equal(t, "0m 0s", Format(0, Options{}))
}

func TestUnitString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "d", Days.String())
	assert.Equal(t, "?", Unit(42).String())
}

func boolPtr(v bool) *bool { return &v }
