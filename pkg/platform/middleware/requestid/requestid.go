// Package requestid assigns each request a correlation ID, honoring an
// inbound X-Request-ID from a trusted proxy when present.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"campusgate/pkg/requestcontext"
)

// Header is the request/response header carrying the correlation ID.
const Header = "X-Request-ID"

// Middleware attaches a request ID to the context and echoes it in the
// response so clients can quote it in reports.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(Header)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set(Header, reqID)
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
