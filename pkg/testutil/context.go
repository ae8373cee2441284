package testutil

import (
	"net/http"

	"campusgate/pkg/requestcontext"
)

// WithAuthority adds an authenticated authority ID to the request context.
// This simulates what the auth middleware would do for authenticated requests.
func WithAuthority(req *http.Request, authorityID string) *http.Request {
	ctx := requestcontext.WithAuthorityID(req.Context(), authorityID)
	return req.WithContext(ctx)
}

// WithRequestID adds a request ID to the request context.
func WithRequestID(req *http.Request, requestID string) *http.Request {
	ctx := requestcontext.WithRequestID(req.Context(), requestID)
	return req.WithContext(ctx)
}
