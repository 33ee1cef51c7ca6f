//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
	"time"
)

// ErrSchema marks a payload that does not match the expected response shape.
var ErrSchema = errors.New("response does not match schema")

// SchemaError describes where a payload diverged from the expected shape.
type SchemaError struct {
	Path   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Path == "" {
		return e.Reason
	}
	return e.Path + ": " + e.Reason
}

// Is makes every SchemaError match ErrSchema.
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func schemaErr(path, format string, args ...any) error {
	return &SchemaError{Path: path, Reason: fmt.Sprintf(format, args...)}
}

// field describes one required key of a strictly decoded object.
type field struct {
	dst      any
	nullable bool
}

// decodeObject decodes data into fields. The key set must match exactly:
// unknown keys, missing keys and null in non-nullable fields all fail.
func decodeObject(data []byte, fields map[string]field) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return schemaErr("", "expected object, got null")
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return schemaErr("", "expected object: %v", err)
	}

	unknown := make([]string, 0)
	for key := range raw {
		if _, ok := fields[key]; !ok {
			unknown = append(unknown, key)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return schemaErr(unknown[0], "unrecognized key")
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		f := fields[key]
		msg, ok := raw[key]
		if !ok {
			return schemaErr(key, "required")
		}
		if bytes.Equal(bytes.TrimSpace(msg), []byte("null")) {
			if f.nullable {
				continue
			}
			return schemaErr(key, "expected value, got null")
		}
		if err := json.Unmarshal(msg, f.dst); err != nil {
			var se *SchemaError
			if errors.As(err, &se) {
				return prefixSchemaErr(key, se)
			}
			return schemaErr(key, "%v", err)
		}
	}
	return nil
}

func prefixSchemaErr(prefix string, se *SchemaError) error {
	path := prefix
	if se.Path != "" {
		path = prefix + "." + se.Path
	}
	return &SchemaError{Path: path, Reason: se.Reason}
}

// Timestamp is an instant carried as a JSON string. Any string is accepted;
// one that matches no known layout decodes to the zero time, which renders
// as unknown.
type Timestamp struct {
	time.Time
}

// timestampLayouts are tried in order.
//
//nolint:gochecknoglobals // read-only table
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return schemaErr("", "expected timestamp string")
	}
	t.Time = ParseTimestamp(s)
	return nil
}

// ParseTimestamp parses s with the first matching layout, or returns the
// zero time.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed
		}
	}
	return time.Time{}
}

// MarshalJSON implements json.Marshaler. The zero time encodes as "".
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return json.Marshal(t.UTC().Format(time.RFC3339))
}

// URL is an absolute URL carried as a JSON string. Only a scheme is
// required, so "steam:" style links without a host are kept.
type URL string

// UnmarshalJSON implements json.Unmarshaler.
func (u *URL) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return schemaErr("", "expected url string")
	}
	parsed, err := url.Parse(s)
	if err != nil || parsed.Scheme == "" {
		return schemaErr("", "invalid url %q", s)
	}
	*u = URL(s)
	return nil
}

// String returns the URL text.
func (u URL) String() string {
	return string(u)
}

// enum is implemented by the closed string sets of the response schema.
type enum interface {
	Valid() bool
}

func decodeEnum[T interface {
	~string
	enum
}](data []byte, dst *T, name string) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return schemaErr("", "expected %s string", name)
	}
	v := T(s)
	if !v.Valid() {
		return schemaErr("", "invalid %s %q", name, s)
	}
	*dst = v
	return nil
}
