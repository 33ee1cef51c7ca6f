package httpx

import "context"

// requestIDKey is an unexported context key type to avoid collisions across packages.
type requestIDKey struct{}

// SetRequestIDInContext returns a child context carrying id.
// An empty id returns ctx unchanged.
func SetRequestIDInContext(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the request ID stored by the RequestID middleware.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
