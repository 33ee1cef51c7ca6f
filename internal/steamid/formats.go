package steamid

import (
	"fmt"
	"strconv"
)

// individualBase is the SteamID64 of account 0 in the public universe.
const individualBase uint64 = 76561197960265728

// Parse converts a canonical Steam ID to its numeric form.
func Parse(id string) (uint64, error) {
	if !IsCanonical(id) {
		return 0, fmt.Errorf("invalid steam id: %q", id)
	}
	return strconv.ParseUint(id, 10, 64)
}

// SteamID2 renders a canonical ID in the legacy STEAM_0:Y:Z form.
// It returns an empty string for non-canonical input.
func SteamID2(id string) string {
	n, err := Parse(id)
	if err != nil || n < individualBase {
		return ""
	}
	w := n - individualBase
	return fmt.Sprintf("STEAM_0:%d:%d", w%2, w/2)
}

// SteamID3 renders a canonical ID in the [U:1:Z] form.
// It returns an empty string for non-canonical input.
func SteamID3(id string) string {
	n, err := Parse(id)
	if err != nil || n < individualBase {
		return ""
	}
	return fmt.Sprintf("[U:1:%d]", n-individualBase)
}

// CommunityURL returns the canonical community profile URL for id.
func CommunityURL(id string) string {
	return idPrefixes[0] + id
}
