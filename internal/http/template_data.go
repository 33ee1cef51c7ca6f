package httpx

import (
	"net/http"
	"time"

	"github.com/steamlens/steamlens/internal/domain/model"
	"github.com/steamlens/steamlens/internal/service"
	"github.com/steamlens/steamlens/internal/steamid"
)

// PageMeta carries the title and navigation key of a page.
type PageMeta struct {
	Title       string
	CurrentPage string
}

func basePageData(r *http.Request, meta PageMeta) map[string]any {
	return map[string]any{
		"Title":       meta.Title,
		"CurrentPage": meta.CurrentPage,
		"RequestID":   RequestIDFromContext(r.Context()),
		"Lookup":      r.URL.Query().Get(queryLookup),
	}
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{data: basePageData(r, meta)}
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// RedirectLink points at a third-party profile through the redirect routes.
type RedirectLink struct {
	Site string
	Href string
}

// ProfileView is everything the profile page renders.
type ProfileView struct {
	SteamID      string
	SteamID2     string
	SteamID3     string
	CommunityURL string

	Summary    model.Summary
	HasSummary bool
	Ban        model.Ban
	HasBan     bool

	FriendsVisible bool
	Friends        []model.FriendRow // after Filter
	FriendTotal    int               // before Filter
	Stats          model.BannedFriendsStats
	Filter         string

	Source    string
	Elapsed   time.Duration
	FetchedAt time.Time
	Redirects []RedirectLink
}

func newProfileView(res *service.ProfileResult, filter string, sites []string) ProfileView {
	p := res.Profile
	v := ProfileView{
		SteamID:        res.SteamID,
		SteamID2:       steamid.SteamID2(res.SteamID),
		SteamID3:       steamid.SteamID3(res.SteamID),
		CommunityURL:   steamid.CommunityURL(res.SteamID),
		FriendsVisible: p.FriendsVisible(),
		Filter:         filter,
		Source:         res.Source,
		Elapsed:        res.Elapsed,
		FetchedAt:      res.FetchedAt,
	}
	v.Summary, v.HasSummary = p.Primary()
	v.Ban, v.HasBan = p.PrimaryBan()

	if v.FriendsVisible {
		rows := p.FriendRows()
		v.FriendTotal = len(rows)
		v.Friends = model.FilterFriendRows(rows, filter)
		v.Stats = p.BannedFriendsStats()
	}

	for _, site := range sites {
		v.Redirects = append(v.Redirects, RedirectLink{Site: site, Href: "/" + site + "/profiles/" + res.SteamID})
	}
	return v
}
