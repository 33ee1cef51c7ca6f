package httpx

import (
	"bytes"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"regexp"
	"time"

	steamlens "github.com/steamlens/steamlens"
	apperrors "github.com/steamlens/steamlens/internal/errors"
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Profiles   ProfileLookup    // Required
	Redirects  RedirectTargets  // Optional
	Projection ProfileProjector // Optional
	Cache      HealthChecker    // Optional: reported by /healthz
	// Configuration
	IsDev  bool             // Serve templates and static files from disk
	Logger *slog.Logger     // Logger for template and HTTP errors (optional)
	Now    func() time.Time // Clock for templates (optional)
	// TemplateFS overrides the template source (tests).
	TemplateFS fs.FS
}

// NewRouter creates and configures a new HTTP router with browser middleware.
func NewRouter(services RouterServices) http.Handler {
	mux := http.NewServeMux()

	renderer := setupRenderer(services)
	errs := &ErrorResponder{Renderer: renderer, Logger: services.Logger}
	h := &ProfileHandlers{
		Profiles:  services.Profiles,
		Redirects: services.Redirects,
		Projector: services.Projection,
		T:         renderer,
		Errors:    errs,
	}
	health := &HealthHandlers{Cache: services.Cache}

	mux.HandleFunc("GET /healthz", health.Health)
	mux.HandleFunc("HEAD /healthz", health.Health)
	mux.Handle("GET /static/", staticWithFallback(services.IsDev))
	mux.Handle("GET /favicon.ico", http.NotFoundHandler())

	mux.HandleFunc("GET /api/resolve/{path...}", h.ResolveAPI)
	mux.HandleFunc("GET /api/profile/{path...}", h.ProfileAPI)
	if services.Redirects != nil {
		for _, site := range services.Redirects.Sites() {
			mux.HandleFunc("GET /"+site+"/{path...}", h.Redirect(site))
		}
	}
	if renderer != nil {
		registerPageRoutes(mux, h)
	}

	handler := &notFoundHandler{mux: mux, errors: errs}
	return Chain(handler, BrowserDetection(), ProfilePath())
}

func registerPageRoutes(mux *http.ServeMux, h *ProfileHandlers) {
	mux.HandleFunc("GET /{$}", h.Home)
	mux.HandleFunc("GET /lookup", h.Lookup)
	mux.HandleFunc("GET /{path...}", h.Profile)
}

// setupRenderer loads templates from disk in dev mode and from the embedded
// FS otherwise. Without templates only the JSON routes are served.
func setupRenderer(services RouterServices) *TemplateRenderer {
	templateFS := services.TemplateFS
	if templateFS == nil {
		templateFS = templateSource(services.IsDev, services.Logger)
	}

	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: templateFS,
		Logger:     services.Logger,
		Now:        services.Now,
	})
	if err != nil {
		logger := services.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("failed to create template renderer", slog.Any("error", err))
		return nil
	}
	return tr
}

func templateSource(isDev bool, logger *slog.Logger) fs.FS {
	if isDev {
		return os.DirFS(TemplatePathFromRoot)
	}
	sub, err := fs.Sub(steamlens.TemplateFS, TemplatePathFromRoot)
	if err != nil {
		if logger != nil {
			logger.Warn("embedded templates unavailable; falling back to disk", slog.Any("error", err))
		}
		return os.DirFS(TemplatePathFromRoot)
	}
	return sub
}

// staticWithFallback serves /static/* from disk in dev mode and from the
// embedded FS otherwise.
func staticWithFallback(isDev bool) http.Handler {
	if isDev {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	staticSub, err := fs.Sub(steamlens.StaticFS, StaticPathFromRoot)
	if err != nil {
		return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.Dir(StaticPathFromRoot))))
	}
	return staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticSub))))
}

//nolint:gochecknoglobals // compiled once
var hashedFilePattern = regexp.MustCompile(`\.[a-f0-9]{8}\.(?:js|css)(?:\.map)?$`)

// staticWithCacheHeaders caches content-hashed assets for a year and
// everything else not at all.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hashedFilePattern.MatchString(r.URL.Path) {
			w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
		} else {
			w.Header().Set("Cache-Control", "no-cache")
		}
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and renders unmatched routes through the
// ErrorResponder.
type notFoundHandler struct {
	mux    *http.ServeMux
	errors *ErrorResponder
}

// ServeHTTP implements http.Handler.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}

	cw := newCaptureWriter()
	h.mux.ServeHTTP(cw, r)
	if cw.status != http.StatusNotFound {
		cw.flushTo(w)
		return
	}
	h.errors.Respond(w, r, errNotFound)
}

//nolint:gochecknoglobals // sentinel
var errNotFound = apperrors.NotFound("Page not found")

// captureWriter buffers the mux's fallback response (404, 405 or redirect).
type captureWriter struct {
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter() *captureWriter {
	return &captureWriter{header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	_, _ = w.Write(c.buf.Bytes())
}
