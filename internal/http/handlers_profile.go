package httpx

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/steamlens/steamlens/internal/domain/model"
	"github.com/steamlens/steamlens/internal/service"
)

// ProfileLookup resolves profile references and fetches profiles.
type ProfileLookup interface {
	ResolveID(ctx context.Context, path string) (string, error)
	Lookup(ctx context.Context, path string) (*service.ProfileResult, error)
}

// RedirectTargets builds third-party profile URLs.
type RedirectTargets interface {
	Target(ctx context.Context, site, path string) (string, error)
	Sites() []string
}

// ProfileProjector narrows a profile with a query expression.
type ProfileProjector interface {
	Project(profile *model.Profile, expr string) (any, error)
}

// ProfileHandlers serves the profile pages, redirects and JSON API.
type ProfileHandlers struct {
	Profiles  ProfileLookup    // Required
	Redirects RedirectTargets  // Optional: redirect routes are not registered when nil
	Projector ProfileProjector // Optional: ?query= is rejected when nil
	T         *TemplateRenderer
	Errors    *ErrorResponder
}

// profilePath returns the wildcard path with a collapsed scheme restored.
func profilePath(r *http.Request) string {
	return restoreScheme(r.PathValue("path"))
}

// Home renders the lookup form.
func (h *ProfileHandlers) Home(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, PageMeta{Title: "Steam profile lookup", CurrentPage: PageHome}).
		With("Sites", h.sites()).
		Build()
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.Errors.Respond(w, r, err)
	}
}

// Lookup turns the form input into a profile page URL.
func (h *ProfileHandlers) Lookup(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimLeft(strings.TrimSpace(r.URL.Query().Get(queryLookup)), "/")
	if q == "" {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	target := &url.URL{Path: "/" + q}
	http.Redirect(w, r, target.String(), http.StatusFound)
}

// Profile renders the profile page for the wildcard path.
func (h *ProfileHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	res, err := h.Profiles.Lookup(r.Context(), profilePath(r))
	if err != nil {
		h.Errors.Respond(w, r, err)
		return
	}

	view := newProfileView(res, strings.TrimSpace(r.URL.Query().Get(queryLookup)), h.sites())
	title := res.SteamID
	if view.HasSummary && view.Summary.PersonaName != "" {
		title = view.Summary.PersonaName
	}

	setTimingHeaders(w, res)
	data := NewTemplateData(r, PageMeta{Title: title, CurrentPage: PageProfile}).
		With("Profile", view).
		Build()
	if err := h.T.RenderFull(w, r, data); err != nil {
		h.Errors.Respond(w, r, err)
	}
}

// Redirect returns a handler sending the client to site's page for the
// referenced profile.
func (h *ProfileHandlers) Redirect(site string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		target, err := h.Redirects.Target(r.Context(), site, profilePath(r))
		if err != nil {
			h.Errors.Respond(w, r, err)
			return
		}
		http.Redirect(w, r, target, http.StatusFound)
	}
}

// ResolveAPI answers {"steam_id": ...} for the wildcard path.
func (h *ProfileHandlers) ResolveAPI(w http.ResponseWriter, r *http.Request) {
	id, err := h.Profiles.ResolveID(r.Context(), profilePath(r))
	if err != nil {
		h.Errors.Respond(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"steam_id": id})
}

// ProfileAPI answers with the sanitized profile, optionally projected by
// the JMESPath expression in ?query=.
func (h *ProfileHandlers) ProfileAPI(w http.ResponseWriter, r *http.Request) {
	expr := strings.TrimSpace(r.URL.Query().Get(queryExpr))
	if expr != "" && h.Projector == nil {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "validation",
			Message: "Queries are not supported",
		})
		return
	}

	res, err := h.Profiles.Lookup(r.Context(), profilePath(r))
	if err != nil {
		h.Errors.Respond(w, r, err)
		return
	}

	var out any = res.Profile
	if h.Projector != nil {
		out, err = h.Projector.Project(res.Profile, expr)
		if err != nil {
			h.Errors.Respond(w, r, err)
			return
		}
	}

	setTimingHeaders(w, res)
	WriteJSON(w, http.StatusOK, out)
}

func (h *ProfileHandlers) sites() []string {
	if h.Redirects == nil {
		return nil
	}
	return h.Redirects.Sites()
}

// setTimingHeaders reports where the profile came from and how long it took.
func setTimingHeaders(w http.ResponseWriter, res *service.ProfileResult) {
	w.Header().Set("Server-Timing", fmt.Sprintf("%s;dur=%.1f", res.Source, float64(res.Elapsed.Microseconds())/1000))
	w.Header().Set("X-Profile-Source", res.Source)
}
