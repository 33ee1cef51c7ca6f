//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"bytes"
	"encoding/json"
	"errors"
)

// EconomyBan is the trade/market ban state of an account.
type EconomyBan string

const (
	EconomyBanNone      EconomyBan = "None"
	EconomyBanProbation EconomyBan = "Probation"
	EconomyBanBanned    EconomyBan = "Banned"
)

// Valid returns true if the economy ban state is known.
func (e EconomyBan) Valid() bool {
	switch e {
	case EconomyBanNone, EconomyBanProbation, EconomyBanBanned:
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (e *EconomyBan) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, e, "economy ban")
}

// Visibility is the community visibility state of a profile.
type Visibility string

const (
	VisibilityPrivate     Visibility = "Private"
	VisibilityFriendsOnly Visibility = "FriendsOnly"
	VisibilityPublic      Visibility = "Public"
)

// Valid returns true if the visibility state is known.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPrivate, VisibilityFriendsOnly, VisibilityPublic:
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Visibility) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, v, "visibility")
}

// ProfileState tells whether the user has set up a community profile.
type ProfileState string

const (
	ProfileStateConfigured    ProfileState = "Configured"
	ProfileStateNotConfigured ProfileState = "NotConfigured"
)

// Valid returns true if the profile state is known.
func (p ProfileState) Valid() bool {
	return p == ProfileStateConfigured || p == ProfileStateNotConfigured
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *ProfileState) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, p, "profile state")
}

// PersonaState is the online status shown to friends.
type PersonaState string

const (
	PersonaStateOffline        PersonaState = "Offline"
	PersonaStateOnline         PersonaState = "Online"
	PersonaStateBusy           PersonaState = "Busy"
	PersonaStateAway           PersonaState = "Away"
	PersonaStateSnooze         PersonaState = "Snooze"
	PersonaStateLookingToTrade PersonaState = "LookingToTrade"
	PersonaStateLookingToPlay  PersonaState = "LookingToPlay"
	PersonaStateInvisible      PersonaState = "Invisible"
)

// Valid returns true if the persona state is known.
func (p PersonaState) Valid() bool {
	switch p {
	case PersonaStateOffline, PersonaStateOnline, PersonaStateBusy, PersonaStateAway,
		PersonaStateSnooze, PersonaStateLookingToTrade, PersonaStateLookingToPlay, PersonaStateInvisible:
		return true
	default:
		return false
	}
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PersonaState) UnmarshalJSON(data []byte) error {
	return decodeEnum(data, p, "persona state")
}

// Ban holds the ban record of one account.
type Ban struct {
	SteamID          string     `json:"steam_id"`
	CommunityBanned  bool       `json:"community_banned"`
	VACBanned        bool       `json:"vac_banned"`
	NumberOfVACBans  int64      `json:"number_of_vac_bans"`
	DaysSinceLastBan int64      `json:"days_since_last_ban"`
	NumberOfGameBans int64      `json:"number_of_game_bans"`
	EconomyBan       EconomyBan `json:"economy_ban"`
}

// UnmarshalJSON decodes a ban record, rejecting unknown or missing keys.
func (b *Ban) UnmarshalJSON(data []byte) error {
	var out Ban
	if err := decodeObject(data, map[string]field{
		"steam_id":            {dst: &out.SteamID},
		"community_banned":    {dst: &out.CommunityBanned},
		"vac_banned":          {dst: &out.VACBanned},
		"number_of_vac_bans":  {dst: &out.NumberOfVACBans},
		"days_since_last_ban": {dst: &out.DaysSinceLastBan},
		"number_of_game_bans": {dst: &out.NumberOfGameBans},
		"economy_ban":         {dst: &out.EconomyBan},
	}); err != nil {
		return err
	}
	*b = out
	return nil
}

// IsBanned reports whether the account carries any VAC or game ban.
func (b Ban) IsBanned() bool {
	return b.NumberOfVACBans > 0 || b.NumberOfGameBans > 0
}

// Friend is one entry of a friend list.
type Friend struct {
	SteamID      string    `json:"steam_id"`
	Relationship string    `json:"relationship"`
	FriendsSince Timestamp `json:"friends_since"`
}

// UnmarshalJSON decodes a friend entry, rejecting unknown or missing keys.
func (f *Friend) UnmarshalJSON(data []byte) error {
	var out Friend
	if err := decodeObject(data, map[string]field{
		"steam_id":      {dst: &out.SteamID},
		"relationship":  {dst: &out.Relationship},
		"friends_since": {dst: &out.FriendsSince},
	}); err != nil {
		return err
	}
	*f = out
	return nil
}

// Summary is the public profile summary of one account.
type Summary struct {
	SteamID                  string       `json:"steam_id"`
	CommunityVisibilityState Visibility   `json:"community_visibility_state"`
	ProfileState             ProfileState `json:"profile_state"`
	PersonaName              string       `json:"persona_name"`
	ProfileURL               URL          `json:"profile_url"`
	Avatar                   URL          `json:"avatar"`
	AvatarMedium             URL          `json:"avatar_medium"`
	AvatarFull               URL          `json:"avatar_full"`
	AvatarHash               string       `json:"avatar_hash"`
	LastLogoff               *Timestamp   `json:"last_logoff"`
	PersonaState             PersonaState `json:"persona_state"`
	RealName                 *string      `json:"real_name"`
	PrimaryClanID            *string      `json:"primary_clan_id"`
	TimeCreated              *Timestamp   `json:"time_created"`
	PersonaStateFlags        *int64       `json:"persona_state_flags"`
	LocalCountryCode         *string      `json:"local_country_code"`
}

// UnmarshalJSON decodes a summary, rejecting unknown or missing keys.
func (s *Summary) UnmarshalJSON(data []byte) error {
	var out Summary
	if err := decodeObject(data, map[string]field{
		"steam_id":                   {dst: &out.SteamID},
		"community_visibility_state": {dst: &out.CommunityVisibilityState},
		"profile_state":              {dst: &out.ProfileState},
		"persona_name":               {dst: &out.PersonaName},
		"profile_url":                {dst: &out.ProfileURL},
		"avatar":                     {dst: &out.Avatar},
		"avatar_medium":              {dst: &out.AvatarMedium},
		"avatar_full":                {dst: &out.AvatarFull},
		"avatar_hash":                {dst: &out.AvatarHash},
		"last_logoff":                {dst: &out.LastLogoff, nullable: true},
		"persona_state":              {dst: &out.PersonaState},
		"real_name":                  {dst: &out.RealName, nullable: true},
		"primary_clan_id":            {dst: &out.PrimaryClanID, nullable: true},
		"time_created":               {dst: &out.TimeCreated, nullable: true},
		"persona_state_flags":        {dst: &out.PersonaStateFlags, nullable: true},
		"local_country_code":         {dst: &out.LocalCountryCode, nullable: true},
	}); err != nil {
		return err
	}
	*s = out
	return nil
}

// Profile is the aggregated response of the profile API for one account.
// Friends is nil when the friend list is private.
type Profile struct {
	SteamID   string             `json:"steam_id"`
	Bans      map[string]Ban     `json:"bans"`
	Friends   map[string]Friend  `json:"friends"`
	Summaries map[string]Summary `json:"summaries"`
}

// UnmarshalJSON decodes a profile response, rejecting unknown or missing keys.
func (p *Profile) UnmarshalJSON(data []byte) error {
	var out Profile
	if err := decodeObject(data, map[string]field{
		"steam_id":  {dst: &out.SteamID},
		"bans":      {dst: &out.Bans},
		"friends":   {dst: &out.Friends, nullable: true},
		"summaries": {dst: &out.Summaries},
	}); err != nil {
		return err
	}
	*p = out
	return nil
}

// DecodeProfile decodes a profile API payload. Any shape mismatch yields an
// error matching ErrSchema.
func DecodeProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, asSchemaErr(err)
	}
	return &p, nil
}

// DecodeVanity decodes a vanity API payload, which must be a bare JSON string.
func DecodeVanity(data []byte) (string, error) {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return "", schemaErr("", "expected string, got null")
	}
	var id string
	if err := json.Unmarshal(data, &id); err != nil {
		return "", asSchemaErr(err)
	}
	return id, nil
}

func asSchemaErr(err error) error {
	if err == nil {
		return nil
	}
	var se *SchemaError
	if errors.As(err, &se) {
		return se
	}
	return schemaErr("", "%v", err)
}

// Primary returns the summary of the profile owner, if present.
func (p *Profile) Primary() (Summary, bool) {
	s, ok := p.Summaries[p.SteamID]
	return s, ok
}

// PrimaryBan returns the ban record of the profile owner, if present.
func (p *Profile) PrimaryBan() (Ban, bool) {
	b, ok := p.Bans[p.SteamID]
	return b, ok
}

// FriendsVisible reports whether the friend list was returned.
func (p *Profile) FriendsVisible() bool {
	return p.Friends != nil
}
