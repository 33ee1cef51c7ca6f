// Package testutil provides fixtures and infrastructure helpers for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/steamlens/steamlens/internal/domain/model"
)

// Well known Steam IDs used across tests.
const (
	OwnerID  = "76561197960287930"
	FriendID = "76561197960265729"
	OtherID  = "76561197960265730"
)

// ProfileBuilder provides a fluent interface for building profile API payloads.
// Payloads are built as generic JSON so tests can also produce malformed shapes.
type ProfileBuilder struct {
	doc map[string]any
}

// NewProfile creates a ProfileBuilder for a public profile with no friends.
func NewProfile(steamID string) *ProfileBuilder {
	return &ProfileBuilder{doc: map[string]any{
		"steam_id":  steamID,
		"bans":      map[string]any{steamID: BanJSON(steamID, 0, 0)},
		"friends":   map[string]any{},
		"summaries": map[string]any{steamID: SummaryJSON(steamID, "Owner")},
	}}
}

// WithPersonaName sets the owner's persona name.
func (b *ProfileBuilder) WithPersonaName(name string) *ProfileBuilder {
	id := b.doc["steam_id"].(string)
	b.summaries()[id].(map[string]any)["persona_name"] = name
	return b
}

// WithFriend adds a friend with a summary and a ban record.
func (b *ProfileBuilder) WithFriend(id, name string, since time.Time, vacBans int) *ProfileBuilder {
	b.friends()[id] = FriendJSON(id, since)
	b.bans()[id] = BanJSON(id, vacBans, 0)
	b.summaries()[id] = SummaryJSON(id, name)
	return b
}

// WithDeletedFriend adds a friend the API returns no summary for.
func (b *ProfileBuilder) WithDeletedFriend(id string, since time.Time) *ProfileBuilder {
	b.friends()[id] = FriendJSON(id, since)
	b.bans()[id] = BanJSON(id, 0, 0)
	return b
}

// WithPrivateFriends marks the friend list as private.
func (b *ProfileBuilder) WithPrivateFriends() *ProfileBuilder {
	b.doc["friends"] = nil
	return b
}

// WithField sets an arbitrary top-level key, e.g. to produce schema violations.
func (b *ProfileBuilder) WithField(key string, value any) *ProfileBuilder {
	b.doc[key] = value
	return b
}

// JSON returns the encoded payload.
func (b *ProfileBuilder) JSON() []byte {
	data, err := json.Marshal(b.doc)
	if err != nil {
		panic(fmt.Sprintf("encode profile fixture: %v", err))
	}
	return data
}

// Build decodes the payload into a model.Profile. It panics on schema errors.
func (b *ProfileBuilder) Build() *model.Profile {
	p, err := model.DecodeProfile(b.JSON())
	if err != nil {
		panic(fmt.Sprintf("decode profile fixture: %v", err))
	}
	return p
}

func (b *ProfileBuilder) bans() map[string]any      { return b.doc["bans"].(map[string]any) }
func (b *ProfileBuilder) summaries() map[string]any { return b.doc["summaries"].(map[string]any) }

func (b *ProfileBuilder) friends() map[string]any {
	f, ok := b.doc["friends"].(map[string]any)
	if !ok {
		f = map[string]any{}
		b.doc["friends"] = f
	}
	return f
}

// BanJSON returns a ban record payload.
func BanJSON(id string, vacBans, gameBans int) map[string]any {
	return map[string]any{
		"steam_id":            id,
		"community_banned":    false,
		"vac_banned":          vacBans > 0,
		"number_of_vac_bans":  vacBans,
		"days_since_last_ban": 0,
		"number_of_game_bans": gameBans,
		"economy_ban":         "None",
	}
}

// SummaryJSON returns a public, configured summary payload.
func SummaryJSON(id, name string) map[string]any {
	return map[string]any{
		"steam_id":                   id,
		"community_visibility_state": "Public",
		"profile_state":              "Configured",
		"persona_name":               name,
		"profile_url":                "https://steamcommunity.com/profiles/" + id + "/",
		"avatar":                     "https://avatars.example.com/" + id + ".jpg",
		"avatar_medium":              "https://avatars.example.com/" + id + "_medium.jpg",
		"avatar_full":                "https://avatars.example.com/" + id + "_full.jpg",
		"avatar_hash":                "hash",
		"last_logoff":                TestTime().Add(-2 * time.Hour).Format(time.RFC3339),
		"persona_state":              "Offline",
		"real_name":                  nil,
		"primary_clan_id":            nil,
		"time_created":               TestTime().AddDate(-10, 0, 0).Format(time.RFC3339),
		"persona_state_flags":        nil,
		"local_country_code":         "SE",
	}
}

// FriendJSON returns a friend entry payload.
func FriendJSON(id string, since time.Time) map[string]any {
	return map[string]any{
		"steam_id":      id,
		"relationship":  "friend",
		"friends_since": since.UTC().Format(time.RFC3339),
	}
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// FixedTimeFunc returns a function that always returns the same time.
func FixedTimeFunc(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}
