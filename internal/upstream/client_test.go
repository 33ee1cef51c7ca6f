package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steamlens/steamlens/internal/domain/model"
	apperrors "github.com/steamlens/steamlens/internal/errors"
	"github.com/steamlens/steamlens/internal/testutil"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{BaseURL: srv.URL + "/api/", UserAgent: "steamlens-test"})
	require.NoError(t, err)
	return c, &calls
}

func TestNewClient_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "ftp://example.com"})
	require.Error(t, err)

	c, err := NewClient(Config{BaseURL: "https://api.example.com/v1/"})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/vanity/gabe", c.endpoint("vanity", "gabe"))
	assert.Equal(t, defaultUserAgent, c.userAgent)
}

func TestClient_ResolveVanity(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vanity/gabe", r.URL.Path)
		assert.Equal(t, "steamlens-test", r.Header.Get("User-Agent"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`"76561197960287930"`))
	})

	id, err := c.ResolveVanity(context.Background(), "gabe")
	require.NoError(t, err)
	assert.Equal(t, testutil.OwnerID, id)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_ResolveVanity_WrongShape(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"steam_id":"76561197960287930"}`))
	})

	_, err := c.ResolveVanity(context.Background(), "gabe")
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))
	assert.ErrorIs(t, err, model.ErrSchema)

	var statusErr *StatusError
	assert.False(t, errors.As(err, &statusErr))
}

func TestClient_NonOKStatusIsNotRetried(t *testing.T) {
	t.Parallel()

	c, calls := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "no match for vanity", http.StatusNotFound)
	})

	_, err := c.ResolveVanity(context.Background(), "nobody")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
	assert.False(t, apperrors.IsSchema(err))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusNotFound, statusErr.StatusCode)
	assert.Equal(t, "no match for vanity", statusErr.Body)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_FetchProfile(t *testing.T) {
	t.Parallel()

	payload := testutil.NewProfile(testutil.OwnerID).
		WithFriend(testutil.FriendID, "Friend", testutil.TestTime(), 0).
		JSON()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/json/"+testutil.OwnerID, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(payload)
	})

	p, err := c.FetchProfile(context.Background(), testutil.OwnerID)
	require.NoError(t, err)
	assert.Equal(t, testutil.OwnerID, p.SteamID)
	assert.Len(t, p.Friends, 1)
}

func TestClient_FetchProfile_SchemaMismatch(t *testing.T) {
	t.Parallel()

	payload := testutil.NewProfile(testutil.OwnerID).WithField("unexpected", 1).JSON()
	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(payload)
	})

	_, err := c.FetchProfile(context.Background(), testutil.OwnerID)
	require.Error(t, err)
	assert.True(t, apperrors.IsSchema(err))

	var se *model.SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "unexpected", se.Path)
}

func TestClient_FetchProfile_ServerError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("  steam is down \n"))
	})

	_, err := c.FetchProfile(context.Background(), testutil.OwnerID)
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, "steam is down", statusErr.Body)
	assert.Contains(t, err.Error(), "502")
}

func TestClient_ContextCanceled(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c, _ := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.FetchProfile(ctx, testutil.OwnerID)
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
}

func TestClient_ClientTimeoutIsTimeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c, err := NewClient(Config{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	require.NoError(t, err)

	_, err = c.ResolveVanity(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err), "got code %q: %v", apperrors.GetCode(err), err)
	assert.False(t, apperrors.IsUpstream(err))

	_, err = c.FetchProfile(context.Background(), testutil.OwnerID)
	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
}

func TestClient_ConnectionRefusedIsUpstream(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c, err := NewClient(Config{BaseURL: base, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.ResolveVanity(context.Background(), "gabe")
	require.Error(t, err)
	assert.True(t, apperrors.IsUpstream(err))
}
