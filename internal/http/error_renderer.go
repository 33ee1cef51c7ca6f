package httpx

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/steamlens/steamlens/internal/domain/model"
	apperrors "github.com/steamlens/steamlens/internal/errors"
	"github.com/steamlens/steamlens/internal/upstream"
)

// ErrorView is the payload of an error page.
type ErrorView struct {
	Status    int
	Code      string
	Message   string
	RequestID string
}

// DetermineErrorStatus maps an application error to an HTTP status.
// Unclassified errors, including upstream and schema failures, are 500.
func DetermineErrorStatus(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// errorCode returns the machine-readable code reported to clients.
func errorCode(err error) string {
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return string(apperrors.ErrCodeInternal)
}

// publicMessage returns the text shown to the user. Upstream status failures
// surface the API's own response text.
func publicMessage(err error) string {
	var statusErr *upstream.StatusError
	if errors.As(err, &statusErr) && statusErr.Body != "" {
		return statusErr.Body
	}

	var schemaErr *model.SchemaError
	if errors.As(err, &schemaErr) {
		return apperrors.Message(err) + ": " + schemaErr.Error()
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeNotFound, apperrors.ErrCodeUpstream:
		return apperrors.Message(err)
	case apperrors.ErrCodeTimeout:
		return "The profile API did not answer in time."
	case apperrors.ErrCodeCanceled:
		return "Request was canceled."
	default:
		return http.StatusText(http.StatusInternalServerError)
	}
}

// ErrorResponder writes error responses as an HTML page for browsers and as
// JSON for API clients.
type ErrorResponder struct {
	Renderer *TemplateRenderer // Optional: JSON only when nil
	Logger   *slog.Logger
}

// Respond writes err. Server-side failures are logged.
func (e *ErrorResponder) Respond(w http.ResponseWriter, r *http.Request, err error) {
	view := ErrorView{
		Status:    DetermineErrorStatus(err),
		Code:      errorCode(err),
		Message:   publicMessage(err),
		RequestID: RequestIDFromContext(r.Context()),
	}
	e.log(r, view, err)

	if e.Renderer != nil && IsBrowserRequest(r) {
		data := NewTemplateData(r, PageMeta{Title: http.StatusText(view.Status)}).
			With("Error", view).
			Build()
		if rerr := e.Renderer.RenderError(w, view.Status, data); rerr == nil {
			return
		}
	}
	WriteError(w, ErrorParams{Code: view.Status, ErrCode: view.Code, Message: view.Message})
}

func (e *ErrorResponder) log(r *http.Request, view ErrorView, err error) {
	logger := e.Logger
	if logger == nil {
		logger = slog.Default()
	}
	level := slog.LevelDebug
	if view.Status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	logger.Log(r.Context(), level, "request failed",
		slog.String("path", r.URL.Path),
		slog.Int("status", view.Status),
		slog.String("code", view.Code),
		slog.String("request_id", view.RequestID),
		slog.Any("error", err),
	)
}
