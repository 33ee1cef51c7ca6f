// Package duration renders elapsed time as compact "1y 2d 3h 4m 5s" strings.
//
// The breakdown uses fixed ratios (60 seconds, 60 minutes, 24 hours, 365 days)
// and is not calendar aware: leap years and month lengths are ignored.
package duration

import (
	"strconv"
	"strings"
	"time"
)

// Unit identifies one component of a formatted duration.
type Unit int

// Units in output order.
const (
	Years Unit = iota
	Days
	Hours
	Minutes
	Seconds
)

var unitSuffix = [...]string{"y", "d", "h", "m", "s"}

var unitPadding = [...]int{2, 3, 2, 2, 2}

// String returns the suffix used for the unit.
func (u Unit) String() string {
	if u < Years || u > Seconds {
		return "?"
	}
	return unitSuffix[u]
}

// SkipZeroTable decides, per unit, whether a zero component is omitted.
type SkipZeroTable struct {
	Years   bool
	Days    bool
	Hours   bool
	Minutes bool
	Seconds bool
}

func (t SkipZeroTable) lookup(u Unit) bool {
	switch u {
	case Years:
		return t.Years
	case Days:
		return t.Days
	case Hours:
		return t.Hours
	case Minutes:
		return t.Minutes
	default:
		return t.Seconds
	}
}

var defaultSkipZero = SkipZeroTable{
	Years: true,
	Days:  true,
	Hours: true,
}

// DefaultSkipZero returns the built-in table: zero years, days and hours are
// hidden, minutes and seconds are always shown.
func DefaultSkipZero() SkipZeroTable {
	return defaultSkipZero
}

// SkipZero configures zero suppression. All applies to every unit when set;
// entries in PerUnit override All for their unit. Units with neither fall back
// to DefaultSkipZero.
type SkipZero struct {
	All     *bool
	PerUnit map[Unit]bool
}

// SkipAll returns a SkipZero applying v to every unit.
func SkipAll(v bool) SkipZero {
	return SkipZero{All: &v}
}

// SkipUnits returns a SkipZero with per-unit overrides only.
func SkipUnits(overrides map[Unit]bool) SkipZero {
	return SkipZero{PerUnit: overrides}
}

func (s SkipZero) skip(u Unit) bool {
	if v, ok := s.PerUnit[u]; ok {
		return v
	}
	if s.All != nil {
		return *s.All
	}
	return defaultSkipZero.lookup(u)
}

// Options controls formatting. The zero value uses DefaultSkipZero without padding.
type Options struct {
	// Padding zero-pads every component: 3 digits for days, 2 for the rest.
	Padding  bool
	SkipZero SkipZero
}

// Parts is the cascade breakdown of a millisecond count.
type Parts struct {
	Years   int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
}

func (p Parts) value(u Unit) int64 {
	switch u {
	case Years:
		return p.Years
	case Days:
		return p.Days
	case Hours:
		return p.Hours
	case Minutes:
		return p.Minutes
	default:
		return p.Seconds
	}
}

// TotalSeconds recombines the parts.
func (p Parts) TotalSeconds() int64 {
	return (((p.Years*365+p.Days)*24+p.Hours)*60+p.Minutes)*60 + p.Seconds
}

// Split breaks millis into years, days, hours, minutes and seconds. Each
// step divides with floor and takes the remainder with Go's truncating %.
//
// Negative input is not special-cased: -1500ms splits into -1y -1d -1h -1m -2s.
// Only non-negative input recombines exactly through TotalSeconds.
func Split(millis int64) Parts {
	seconds := floorDiv(millis, 1000)
	minutes := floorDiv(seconds, 60)
	hours := floorDiv(minutes, 60)
	days := floorDiv(hours, 24)

	return Parts{
		Years:   floorDiv(days, 365),
		Days:    days % 365,
		Hours:   hours % 24,
		Minutes: minutes % 60,
		Seconds: seconds % 60,
	}
}

// Format renders an elapsed millisecond count.
func Format(millis int64, opts Options) string {
	parts := Split(millis)

	var b strings.Builder
	for u := Years; u <= Seconds; u++ {
		v := parts.value(u)
		if v == 0 && opts.SkipZero.skip(u) {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatComponent(v, u, opts.Padding))
	}
	return b.String()
}

// FormatDuration renders d truncated to whole milliseconds.
func FormatDuration(d time.Duration, opts Options) string {
	return Format(d.Milliseconds(), opts)
}

// Since renders the time elapsed from t until now.
func Since(t time.Time, opts Options) string {
	return SinceAt(time.Now(), t, opts)
}

// SinceAt renders the time elapsed from t until now. A t after now yields a
// negative duration, formatted with floor semantics.
func SinceAt(now, t time.Time, opts Options) string {
	return Format(now.UnixMilli()-t.UnixMilli(), opts)
}

func formatComponent(v int64, u Unit, padding bool) string {
	s := strconv.FormatInt(v, 10)
	if padding {
		if width := unitPadding[u]; len(s) < width {
			s = strings.Repeat("0", width-len(s)) + s
		}
	}
	return s + unitSuffix[u]
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
