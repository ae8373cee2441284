// Package requesttime pins a single "now" per HTTP request. All operations
// within the request (decision timestamps, audit entries, alert creation)
// observe the same time, so one attempt never straddles a clock reading.
package requesttime

import (
	"net/http"
	"time"

	"campusgate/pkg/requestcontext"
)

// Middleware captures the current time at the start of the request and
// stores it in the context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now().UTC())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
