//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"math"
	"sort"
)

// BannedFriendsStats summarises how many friends carry a ban.
type BannedFriendsStats struct {
	TotalFriends  int `json:"total_friends"`
	BannedFriends int `json:"banned_friends"`
	// BannedPercentage is rounded up to a whole percent.
	BannedPercentage int `json:"banned_percentage"`
}

// BannedFriends counts friends with at least one VAC or game ban. Friends
// without a ban record count as clean.
func BannedFriends(friends map[string]Friend, bans map[string]Ban) BannedFriendsStats {
	stats := BannedFriendsStats{TotalFriends: len(friends)}
	for id := range friends {
		if ban, ok := bans[id]; ok && ban.IsBanned() {
			stats.BannedFriends++
		}
	}
	if stats.TotalFriends > 0 {
		stats.BannedPercentage = int(math.Ceil(float64(stats.BannedFriends) / float64(stats.TotalFriends) * 100))
	}
	return stats
}

// FriendRow joins everything known about one friend for display.
type FriendRow struct {
	Ban     Ban     `json:"bans"`
	Summary Summary `json:"summary"`
	Friend  Friend  `json:"friend_info"`
}

// BannedFriendsStats returns the ban statistics of the friend list.
func (p *Profile) BannedFriendsStats() BannedFriendsStats {
	return BannedFriends(p.Friends, p.Bans)
}

// FriendRows returns one row per friend with both a ban record and a summary,
// newest friendship first. Ties are ordered by Steam ID.
func (p *Profile) FriendRows() []FriendRow {
	rows := make([]FriendRow, 0, len(p.Friends))
	for id, friend := range p.Friends {
		ban, okBan := p.Bans[id]
		summary, okSummary := p.Summaries[id]
		if !okBan || !okSummary {
			continue
		}
		rows = append(rows, FriendRow{Ban: ban, Summary: summary, Friend: friend})
	}

	sort.Slice(rows, func(i, j int) bool {
		a, b := rows[i].Friend.FriendsSince.Time, rows[j].Friend.FriendsSince.Time
		if !a.Equal(b) {
			return a.After(b)
		}
		return rows[i].Friend.SteamID < rows[j].Friend.SteamID
	})
	return rows
}

// FilterFriendRows keeps rows whose persona name, real name or Steam ID fuzzy
// matches query. An empty query keeps every row.
func FilterFriendRows(rows []FriendRow, query string) []FriendRow {
	if query == "" {
		return rows
	}
	out := make([]FriendRow, 0, len(rows))
	for _, row := range rows {
		if row.matches(query) {
			out = append(out, row)
		}
	}
	return out
}

func (r FriendRow) matches(query string) bool {
	if FuzzyMatch(query, r.Summary.PersonaName) || FuzzyMatch(query, r.Summary.SteamID) {
		return true
	}
	return r.Summary.RealName != nil && FuzzyMatch(query, *r.Summary.RealName)
}
