// Package errors maps errors to low-cardinality names for metric tags.
package errors

import (
	goerrors "errors"
	"reflect"
	"strings"

	apperrors "github.com/steamlens/steamlens/internal/errors"
)

// Classify returns a normalized error name suitable for tagging metrics and logs.
// Application errors are named by their code. Anything else is named after the
// innermost concrete type, e.g. "url_error" for *url.Error.
func Classify(err error) string {
	if err == nil {
		return ""
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}

	for {
		unwrapped := goerrors.Unwrap(err)
		if unwrapped == nil {
			break
		}
		err = unwrapped
	}

	t := reflect.TypeOf(err)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Name() == "" {
		return "unknown"
	}
	return toSnake(t.Name())
}

func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
