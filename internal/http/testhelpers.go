package httpx

import (
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/steamlens/steamlens/internal/mocks"
	"github.com/steamlens/steamlens/internal/service"
	"github.com/steamlens/steamlens/internal/testutil"
)

// RequireTemplateRenderer creates a TemplateRenderer for tests, skipping the test if templates are not available.
func RequireTemplateRenderer(t *testing.T) *TemplateRenderer {
	t.Helper()
	tr, err := NewTemplateRenderer(TemplateRendererConfig{
		TemplateFS: os.DirFS(TemplatePathFromTest),
		Now:        testutil.FixedTimeFunc(testutil.TestTime()),
	})
	if err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
		return nil
	}
	return tr
}

// ContainsAll checks if a string contains all the given substrings.
func ContainsAll(s string, subs []string) bool {
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			return false
		}
	}
	return true
}

// routerFixture wires real services around a mocked profile API.
type routerFixture struct {
	API     *mocks.MockProfileAPI
	Handler http.Handler
}

type routerFixtureOptions struct {
	Cache HealthChecker
	// NoTemplates serves only the JSON routes.
	NoTemplates bool
}

func newRouterFixture(t *testing.T, opts routerFixtureOptions) *routerFixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	api := mocks.NewMockProfileAPI(ctrl)

	clock := testutil.TestTime()
	profiles := service.NewProfileService(service.ProfileServiceOptions{
		API: api,
		Runtime: service.ProfileRuntime{Now: func() time.Time {
			clock = clock.Add(120 * time.Millisecond)
			return clock
		}},
	})
	redirects := service.NewRedirectService(service.RedirectServiceOptions{IDs: profiles})

	templateFS := os.DirFS(TemplatePathFromTest)
	if opts.NoTemplates {
		templateFS = os.DirFS(t.TempDir())
	} else if _, err := os.Stat(TemplatePathFromTest); err != nil {
		t.Skipf("Templates not available, skipping: %v", err)
	}

	return &routerFixture{
		API: api,
		Handler: NewRouter(RouterServices{
			Profiles:   profiles,
			Redirects:  redirects,
			Projection: service.NewProjectionService(nil),
			Cache:      opts.Cache,
			Now:        testutil.FixedTimeFunc(testutil.TestTime().Add(24 * time.Hour)),
			TemplateFS: templateFS,
		}),
	}
}

// do serves a GET for target. An empty accept sends no Accept header.
func (f *routerFixture) do(method, target, accept string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	rec := httptest.NewRecorder()
	f.Handler.ServeHTTP(rec, req)
	return rec
}
