package httpx

import (
	"bytes"
	"compress/gzip"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveWith(mw func(http.Handler) http.Handler, h http.HandlerFunc, req *http.Request) *http.Response {
	rec := httptest.NewRecorder()
	mw(h).ServeHTTP(rec, req)
	return rec.Result()
}

func gunzip(t *testing.T, r io.Reader) string {
	t.Helper()
	gr, err := gzip.NewReader(r)
	require.NoError(t, err)
	defer gr.Close()
	body, err := io.ReadAll(gr)
	require.NoError(t, err)
	return string(body)
}

func TestCompression(t *testing.T) {
	t.Parallel()

	content := strings.Repeat("76561197960287930 ", 500)

	tests := []struct {
		name           string
		acceptEncoding string
		method         string
		contentType    string
		status         int
		preEncoded     string
		minSize        int
		body           string
		wantGzip       bool
	}{
		{name: "accepts gzip", acceptEncoding: "gzip, deflate", contentType: "text/html", body: content, wantGzip: true},
		{name: "charset parameter", acceptEncoding: "gzip", contentType: "text/html; charset=utf-8", body: content, wantGzip: true},
		{name: "json", acceptEncoding: "gzip", contentType: "application/json", body: content, wantGzip: true},
		{name: "no gzip offered", acceptEncoding: "deflate", contentType: "text/html", body: content},
		{name: "no header", contentType: "text/html", body: content},
		{name: "q zero", acceptEncoding: "gzip;q=0", contentType: "text/html", body: content},
		{name: "q half", acceptEncoding: "deflate, gzip;q=0.5", contentType: "text/html", body: content, wantGzip: true},
		{name: "binary type", acceptEncoding: "gzip", contentType: "image/png", body: content},
		{name: "head", acceptEncoding: "gzip", method: http.MethodHead, contentType: "text/html"},
		{name: "not modified", acceptEncoding: "gzip", status: http.StatusNotModified},
		{name: "already encoded", acceptEncoding: "gzip", contentType: "text/html", preEncoded: "br", body: content},
		{name: "error page", acceptEncoding: "gzip", contentType: "text/html", status: http.StatusInternalServerError, body: content, wantGzip: true},
		{name: "below min size", acceptEncoding: "gzip", contentType: "text/html", minSize: 1024, body: "short"},
		{name: "above min size", acceptEncoding: "gzip", contentType: "text/html", minSize: 1024, body: content, wantGzip: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			status := tt.status
			if status == 0 {
				status = http.StatusOK
			}
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}

			handler := func(w http.ResponseWriter, _ *http.Request) {
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				if tt.preEncoded != "" {
					w.Header().Set("Content-Encoding", tt.preEncoded)
				}
				w.WriteHeader(status)
				// Split the body to exercise buffering across writes.
				half := len(tt.body) / 2
				_, _ = io.WriteString(w, tt.body[:half])
				_, _ = io.WriteString(w, tt.body[half:])
			}

			req := httptest.NewRequest(method, "/", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			resp := serveWith(Compression(CompressionConfig{Level: 6, MinSize: tt.minSize}), handler, req)
			defer resp.Body.Close()

			assert.Equal(t, status, resp.StatusCode)
			if tt.wantGzip {
				assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
				assert.Empty(t, resp.Header.Get("Content-Length"))
				assert.Equal(t, "Accept-Encoding", resp.Header.Get("Vary"))
				assert.Equal(t, tt.body, gunzip(t, resp.Body))
				return
			}

			assert.NotEqual(t, "gzip", resp.Header.Get("Content-Encoding"))
			if tt.preEncoded != "" {
				assert.Equal(t, tt.preEncoded, resp.Header.Get("Content-Encoding"))
			}
			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(body))
		})
	}
}

func TestCompression_WriteWithoutHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	resp := serveWith(Compression(CompressionConfig{}), func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "<html><body>hi</body></html>")
	}, req)
	defer resp.Body.Close()

	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
	assert.Equal(t, "<html><body>hi</body></html>", gunzip(t, resp.Body))
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	var seen string
	handler := func(_ http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp := serveWith(RequestID(), handler, req)
	resp.Body.Close()
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "bad id\nwith newline")
	resp = serveWith(RequestID(), handler, req)
	resp.Body.Close()
	_, err := uuid.Parse(seen)
	require.NoError(t, err, "expected generated uuid, got %q", seen)
	assert.Equal(t, seen, resp.Header.Get(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	resp := serveWith(Recover(logger), func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}, req)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, logs.String(), `"msg":"panic"`)
	assert.Contains(t, logs.String(), `"path":"/boom"`)
}

func TestLogging_IncludesRequestID(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}), RequestID(), Logging(logger))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Contains(t, logs.String(), `"status":418`)
	assert.Contains(t, logs.String(), `"request_id":"req-1"`)
}

func TestChainOrder(t *testing.T) {
	t.Parallel()

	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("outer"), mark("inner"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"outer", "inner", "handler"}, order)
}

func TestProfilePath(t *testing.T) {
	t.Parallel()

	var got string
	handler := func(_ http.ResponseWriter, r *http.Request) { got = r.URL.Path }

	req := httptest.NewRequest(http.MethodGet, "/https://steamcommunity.com/id/gabe", nil)
	serveWith(ProfilePath(), handler, req).Body.Close()
	assert.Equal(t, "/https:/steamcommunity.com/id/gabe", got)
	assert.Equal(t, "/https://steamcommunity.com/id/gabe", req.URL.Path, "original request must not be mutated")

	req = httptest.NewRequest(http.MethodGet, "/id/gabe", nil)
	serveWith(ProfilePath(), handler, req).Body.Close()
	assert.Equal(t, "/id/gabe", got)
}

func TestRestoreScheme(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https:/steamcommunity.com/id/gabe":  "https://steamcommunity.com/id/gabe",
		"https://steamcommunity.com/id/gabe": "https://steamcommunity.com/id/gabe",
		"http:/steamcommunity.com/id/gabe":   "http://steamcommunity.com/id/gabe",
		"steamcommunity.com/id/gabe":         "steamcommunity.com/id/gabe",
		"id/https:/x":                        "id/https:/x",
	}
	for in, want := range tests {
		assert.Equal(t, want, restoreScheme(in), in)
	}
}

func TestIsBrowserRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path, accept string
		want         bool
	}{
		{"/id/gabe", "", true},
		{"/id/gabe", "text/html,application/xhtml+xml", true},
		{"/id/gabe", "application/json", false},
		{"/api/profile/id/gabe", "text/html", false},
		{"/static/css/app.css", "", false},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, tt.path, nil)
		if tt.accept != "" {
			req.Header.Set("Accept", tt.accept)
		}
		var got bool
		serveWith(BrowserDetection(), func(_ http.ResponseWriter, r *http.Request) {
			got = IsBrowserRequest(r)
		}, req).Body.Close()
		assert.Equal(t, tt.want, got, "%s accept=%q", tt.path, tt.accept)
	}
}
