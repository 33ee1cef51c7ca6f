// Package steamid turns user supplied profile references into canonical
// 64-bit Steam IDs.
//
// Accepted shapes are full community URLs, the same URLs without a scheme and
// bare relative paths, for both the numeric (profiles/<id>) and the vanity
// (id/<name>) forms.
package steamid

import (
	"context"
	"regexp"
	"strings"
)

var (
	canonicalRE = regexp.MustCompile(`^7\d{16}$`)
	vanityRE    = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
)

// Checked in order; numeric prefixes win so canonical input never needs a lookup.
var (
	idPrefixes = []string{
		"https://steamcommunity.com/profiles/",
		"steamcommunity.com/profiles/",
		"profiles/",
	}
	vanityPrefixes = []string{
		"https://steamcommunity.com/id/",
		"steamcommunity.com/id/",
		"id/",
	}
)

// IsCanonical reports whether id is a 64-bit Steam ID: "7" followed by 16 digits.
func IsCanonical(id string) bool {
	return canonicalRE.MatchString(id)
}

// IsVanity reports whether name is a legal vanity URL name.
func IsVanity(name string) bool {
	return vanityRE.MatchString(name)
}

// VanityResolver maps a vanity name to a Steam ID with one upstream call.
type VanityResolver interface {
	ResolveVanity(ctx context.Context, name string) (string, error)
}

// Resolver extracts Steam IDs from profile references.
type Resolver struct {
	vanity VanityResolver
}

// NewResolver returns a Resolver that uses vanity for id/<name> references.
func NewResolver(vanity VanityResolver) *Resolver {
	return &Resolver{vanity: vanity}
}

// Resolve returns the Steam ID referenced by path.
//
// ok is false when path has no recognised prefix or names an illegal vanity;
// callers treat that as bad client input. Numeric references are returned
// without digit validation and resolved vanity IDs are not re-checked: use
// IsCanonical on the result. err carries upstream failures from the vanity
// lookup unchanged.
func (r *Resolver) Resolve(ctx context.Context, path string) (string, bool, error) {
	if id, found := extractSegment(path, idPrefixes); found {
		return id, true, nil
	}

	name, found := extractSegment(path, vanityPrefixes)
	if !found || !IsVanity(name) {
		return "", false, nil
	}

	id, err := r.vanity.ResolveVanity(ctx, name)
	if err != nil {
		return "", false, err
	}
	return id, true, nil
}

// NeedsLookup reports whether resolving path costs a vanity round-trip.
func NeedsLookup(path string) bool {
	if _, found := extractSegment(path, idPrefixes); found {
		return false
	}
	name, found := extractSegment(path, vanityPrefixes)
	return found && IsVanity(name)
}

// extractSegment returns the path segment following the first matching prefix.
func extractSegment(path string, prefixes []string) (string, bool) {
	for _, prefix := range prefixes {
		rest, ok := strings.CutPrefix(path, prefix)
		if !ok {
			continue
		}
		segment, _, _ := strings.Cut(rest, "/")
		return segment, true
	}
	return "", false
}
