// Package upstream is the HTTP client for the profile data API.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/steamlens/steamlens/internal/domain/model"
	apperrors "github.com/steamlens/steamlens/internal/errors"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "steamlens"
	// maxBodyBytes bounds every upstream response body.
	maxBodyBytes = 16 << 20
	// maxErrorBody bounds the text surfaced from a failed upstream response.
	maxErrorBody = 4 << 10
)

// Config configures the profile API client.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	UserAgent  string
	HTTPClient *http.Client
}

// Client talks to the profile API. Requests are never retried.
type Client struct {
	base      *url.URL
	userAgent string
	client    *http.Client
}

// StatusError is returned when the API answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("profile API returned %d", e.StatusCode)
	}
	return fmt.Sprintf("profile API returned %d: %s", e.StatusCode, e.Body)
}

// NewClient builds a client for cfg.BaseURL.
func NewClient(cfg Config) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		return nil, errors.New("profile API base url is required")
	}
	base, err := url.Parse(strings.TrimRight(raw, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse profile API base url: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("profile API base url must be http or https, got %q", base.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: timeout}
	}

	ua := strings.TrimSpace(cfg.UserAgent)
	if ua == "" {
		ua = defaultUserAgent
	}

	return &Client{base: base, userAgent: ua, client: hc}, nil
}

// ResolveVanity resolves a vanity name to a Steam ID via GET /vanity/<name>.
// The response body must be a bare JSON string.
func (c *Client) ResolveVanity(ctx context.Context, name string) (string, error) {
	body, err := c.get(ctx, "vanity", name)
	if err != nil {
		return "", err
	}
	id, err := model.DecodeVanity(body)
	if err != nil {
		return "", apperrors.Wrap(err, apperrors.ErrCodeSchema, "Unexpected vanity response")
	}
	return id, nil
}

// FetchProfile fetches the aggregated profile of id via GET /json/<id>.
func (c *Client) FetchProfile(ctx context.Context, id string) (*model.Profile, error) {
	body, err := c.get(ctx, "json", id)
	if err != nil {
		return nil, err
	}
	profile, err := model.DecodeProfile(body)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSchema, "Unexpected profile response")
	}
	return profile, nil
}

// endpoint joins kind and segment onto the base path. URL.String escapes
// the segment.
func (c *Client) endpoint(kind, segment string) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + "/" + kind + "/" + segment
	u.RawPath = ""
	return u.String()
}

func (c *Client) get(ctx context.Context, kind, segment string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(kind, segment), nil)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeInternal, "build profile API request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		if ctxErr := apperrors.FromContext(ctx.Err()); ctxErr != nil {
			return nil, ctxErr
		}
		// Config.Timeout fires inside the http.Client, not on ctx.
		if isTimeout(err) {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeTimeout, "Profile API request timed out")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrCodeUpstream, "Profile API request failed")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.Wrap(handleErrorResponse(resp), apperrors.ErrCodeUpstream, "Profile API request failed")
	}
	return readBody(resp)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func readBody(resp *http.Response) ([]byte, error) {
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	closeErr := resp.Body.Close()
	if readErr != nil {
		return nil, apperrors.Wrap(errors.Join(readErr, closeErr), apperrors.ErrCodeUpstream, "Read profile API response")
	}
	return body, nil
}

func handleErrorResponse(resp *http.Response) error {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	closeErr := resp.Body.Close()
	statusErr := &StatusError{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(respBody)),
	}
	if readErr != nil {
		return errors.Join(statusErr, fmt.Errorf("read error response: %w", readErr), closeErr)
	}
	return statusErr
}
