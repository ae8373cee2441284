package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "campusgate/pkg/domain-errors"
	"campusgate/pkg/requestcontext"
)

type stubValidator struct {
	claims *Claims
	err    error
}

func (s *stubValidator) ValidateToken(string) (*Claims, error) {
	return s.claims, s.err
}

func TestRequireAuthority(t *testing.T) {
	t.Run("injects the authority into the context", func(t *testing.T) {
		validator := &stubValidator{claims: &Claims{AuthorityID: "SEC-007", Role: "supervisor"}}

		var seen string
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			seen = requestcontext.AuthorityID(r.Context())
		})

		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		req.Header.Set("Authorization", "Bearer some-token")
		rec := httptest.NewRecorder()
		RequireAuthority(validator, nil)(next).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "SEC-007", seen)
	})

	t.Run("rejects a missing header", func(t *testing.T) {
		called := false
		next := http.HandlerFunc(func(http.ResponseWriter, *http.Request) { called = true })

		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		rec := httptest.NewRecorder()
		RequireAuthority(&stubValidator{}, nil)(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("rejects a non-bearer scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		req.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		rec := httptest.NewRecorder()
		RequireAuthority(&stubValidator{}, nil)(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("propagates validator rejection", func(t *testing.T) {
		validator := &stubValidator{err: dErrors.New(dErrors.CodeUnauthorized, "token has expired")}

		req := httptest.NewRequest(http.MethodGet, "/alerts", nil)
		req.Header.Set("Authorization", "Bearer expired")
		rec := httptest.NewRecorder()
		RequireAuthority(validator, nil)(http.NotFoundHandler()).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
