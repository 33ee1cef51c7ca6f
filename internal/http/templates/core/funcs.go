// Package core provides the template helpers shared by every page.
package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/steamlens/steamlens/internal/domain/model"
	"github.com/steamlens/steamlens/internal/duration"
	"github.com/steamlens/steamlens/internal/steamid"
)

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// Deps holds optional dependencies for constructing the core template func map.
type Deps struct {
	Template           **template.Template
	ContentTemplateFor func(string) string
	Now                func() time.Time
}

// Funcs returns a template.FuncMap containing helpers that are broadly useful across templates.
func Funcs(deps Deps) template.FuncMap {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	funcs := template.FuncMap{
		"sectionTmpl":  deps.ContentTemplateFor,
		"since":        func(ts any) string { return Since(now(), ts) },
		"timeTag":      func(ts any) template.HTML { return TimeTag(now(), ts) },
		"elapsed":      Elapsed,
		"banAge":       BanAge,
		"formatNumber": FormatNumber,
		"flag":         Flag,
		"deref":        Deref,
		"steamID2":     steamid.SteamID2,
		"steamID3":     steamid.SteamID3,
		"truncateText": TruncateText,
	}

	addRenderFuncs(funcs, deps)
	return funcs
}

func addRenderFuncs(funcs template.FuncMap, deps Deps) {
	funcs["renderSection"] = func(page string, data any) (template.HTML, error) {
		if deps.Template == nil || *deps.Template == nil {
			return "", errors.New("template not initialized")
		}
		var buf bytes.Buffer
		if err := (*deps.Template).ExecuteTemplate(&buf, deps.ContentTemplateFor(page), data); err != nil {
			return "", err
		}
		// #nosec G203 - rendered by our own html/template set; values were escaped above.
		return template.HTML(buf.String()), nil
	}

	funcs["toJSON"] = func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
}

// asTime accepts the time shapes found in view models.
func asTime(ts any) (time.Time, bool) {
	var t time.Time
	switch v := ts.(type) {
	case time.Time:
		t = v
	case *time.Time:
		if v != nil {
			t = *v
		}
	case model.Timestamp:
		t = v.Time
	case *model.Timestamp:
		if v != nil {
			t = v.Time
		}
	default:
		return time.Time{}, false
	}
	return t, !t.IsZero()
}

// Since renders the time elapsed from ts until now, e.g. "3y 12d 4m 1s".
func Since(now time.Time, ts any) string {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	return duration.SinceAt(now, t, duration.Options{})
}

// TimeTag renders a <time> element showing the elapsed duration, with the
// absolute and humanized instant as tooltip.
func TimeTag(now time.Time, ts any) template.HTML {
	t, ok := asTime(ts)
	if !ok {
		return ""
	}
	title := t.UTC().Format(time.RFC1123) + " (" + humanize.RelTime(t, now, "ago", "from now") + ")"
	// #nosec G203 - constructed from escaped values only
	return template.HTML(fmt.Sprintf(
		"<time datetime=\"%s\" title=\"%s\">%s</time>",
		t.UTC().Format(time.RFC3339),
		template.HTMLEscapeString(title),
		template.HTMLEscapeString(duration.SinceAt(now, t, duration.Options{})),
	))
}

// Elapsed renders a request duration rounded to 10ms, e.g. "1.23s" or "40ms".
func Elapsed(d time.Duration) string {
	ms := model.RoundToNearestMultiple(float64(d.Milliseconds()), 10)
	if ms < 1000 {
		return strconv.FormatFloat(ms, 'f', -1, 64) + "ms"
	}
	return strconv.FormatFloat(ms/1000, 'f', -1, 64) + "s"
}

// BanAge renders a day count with years and days only. Zero days is "today".
func BanAge(days int64) string {
	s := duration.Format(days*millisPerDay, duration.Options{
		SkipZero: duration.SkipUnits(map[duration.Unit]bool{
			duration.Hours:   true,
			duration.Minutes: true,
			duration.Seconds: true,
		}),
	})
	if s == "" {
		return "today"
	}
	return s
}

// FormatNumber formats integers with thousands separators.
func FormatNumber(v any) string {
	switch x := v.(type) {
	case int:
		return humanize.Comma(int64(x))
	case int64:
		return humanize.Comma(x)
	case int32:
		return humanize.Comma(int64(x))
	default:
		return fmt.Sprint(v)
	}
}

// Flag renders a country code pointer as a flag emoji.
func Flag(code *string) string {
	if code == nil || len(*code) != 2 {
		return ""
	}
	return model.Flag(*code)
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// TruncateText truncates a string to a maximum number of runes (not bytes).
// Adds an ellipsis (…) when truncated.
func TruncateText(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen > 1 {
		return string(runes[:maxLen-1]) + "…"
	}
	return string(runes[:1])
}
