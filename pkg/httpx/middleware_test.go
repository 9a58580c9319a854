package httpx_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/castrack/pkg/httpx"
	"github.com/aussiebroadwan/castrack/pkg/jwtx"
	"github.com/aussiebroadwan/castrack/pkg/validx"
	"github.com/stretchr/testify/require"
)

var secret = []byte("0123456789abcdef0123456789abcdef")

type role string

func signedToken(t *testing.T, sub, r string, ttl time.Duration) string {
	t.Helper()
	signer, err := jwtx.NewSignerHS256("k1", secret)
	require.NoError(t, err)
	tok, err := signer.Sign(jwtx.NewClaims(sub, r, "", "castrack", ttl, time.Now().UTC()))
	require.NoError(t, err)
	return tok
}

func protected(allowed ...role) http.Handler {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteJSON(w, http.StatusOK, map[string]string{
			"id":   httpx.AccountID(r.Context()),
			"role": httpx.Role(r.Context()),
		})
	})
	return httpx.Chain(h,
		httpx.AuthnMiddleware(jwtx.NewVerifierHS256(secret, "castrack")),
		httpx.RequireRole(allowed...),
	)
}

func TestAuthnMiddleware(t *testing.T) {
	h := protected("admin", "teacher")

	t.Run("missing token is 401", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Body.String(), "unauthenticated")
	})

	t.Run("garbage token is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "invalid_token")
	})

	t.Run("expired token is 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "acc", "admin", -time.Minute))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("valid token passes claims through", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "acc-1", "teacher", time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Equal(t, "acc-1", body["id"])
		require.Equal(t, "teacher", body["role"])
	})

	t.Run("bare token without scheme is accepted", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", signedToken(t, "acc-1", "admin", time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong role is 403", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer "+signedToken(t, "acc-2", "student", time.Hour))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}

type signupBody struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=teacher student"`
}

func TestDecodeJSON(t *testing.T) {
	decode := func(body string) (signupBody, error) {
		var dst signupBody
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		err := httpx.DecodeJSON(httptest.NewRecorder(), req, &dst)
		return dst, err
	}

	t.Run("valid", func(t *testing.T) {
		got, err := decode(`{"email":"a@b.org","password":"x"}`)
		require.NoError(t, err)
		require.Equal(t, "a@b.org", got.Email)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := decode(``)
		require.ErrorIs(t, err, httpx.ErrBadJSON)
	})

	t.Run("validation errors use json names", func(t *testing.T) {
		_, err := decode(`{"email":"nope","role":"admin"}`)
		var verrs validx.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		require.Equal(t, []string{
			"email: must be a valid email address",
			"password: is required",
			"role: must be one of teacher student",
		}, verrs.Details())

		rec := httptest.NewRecorder()
		httpx.WriteDecodeError(rec, err)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Contains(t, rec.Body.String(), "validation_error")
	})
}
