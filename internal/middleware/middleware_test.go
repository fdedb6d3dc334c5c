package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/baharkarakas/debtme-backend/internal/auth"
	"github.com/baharkarakas/debtme-backend/internal/logger"
	"github.com/baharkarakas/debtme-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func echoIdentity(t *testing.T, got *models.Identity) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		require.True(t, ok)
		*got = id
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthResolvesCapabilities(t *testing.T) {
	tm := auth.NewTokenManager("acc", "ref", "test", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("p1", "provider", "payer")
	require.NoError(t, err)

	var got models.Identity
	h := NewAuthMiddleware(tm).Auth(echoIdentity(t, &got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+pair.AccessToken)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "p1", got.ID)
	assert.True(t, got.Caps.CanManageEmployers)
	assert.False(t, got.Caps.CanCreateDebt)
}

func TestAuthRejects(t *testing.T) {
	tm := auth.NewTokenManager("acc", "ref", "test", time.Minute, time.Hour)
	pair, err := tm.GeneratePair("u1", "user", "")
	require.NoError(t, err)
	h := NewAuthMiddleware(tm).Auth(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("must not reach handler")
	}))

	for name, header := range map[string]string{
		"missing":       "",
		"not bearer":    "Basic abc",
		"refresh token": "Bearer " + pair.RefreshToken,
		"garbage":       "Bearer xyz",
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
	}
}

func TestCapabilityAndRoleGates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	serve := func(mw func(http.Handler) http.Handler, id *models.Identity) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if id != nil {
			req = req.WithContext(WithIdentity(req.Context(), *id))
		}
		rec := httptest.NewRecorder()
		mw(ok).ServeHTTP(rec, req)
		return rec.Code
	}
	user := models.NewIdentity("u", models.RoleUser, "")
	lender := models.NewIdentity("l", models.RoleProvider, models.KindLender)
	admin := models.NewIdentity("a", models.RoleAdmin, "")

	assert.Equal(t, http.StatusUnauthorized, serve(CanInvite, nil))
	assert.Equal(t, http.StatusForbidden, serve(CanInvite, &user))
	assert.Equal(t, http.StatusOK, serve(CanInvite, &lender))
	assert.Equal(t, http.StatusForbidden, serve(CanManageEmployers, &lender))
	assert.Equal(t, http.StatusOK, serve(CanAdminister, &admin))

	onlyUsers := RequireRole(models.RoleUser)
	assert.Equal(t, http.StatusOK, serve(onlyUsers, &user))
	assert.Equal(t, http.StatusForbidden, serve(onlyUsers, &admin))
	assert.Equal(t, http.StatusUnauthorized, serve(onlyUsers, nil))
}

func TestRateLimiterPerClient(t *testing.T) {
	now := time.Unix(1000, 0)
	l := newLimiter(2)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("a"))
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
	assert.True(t, l.allow("b"), "buckets are per client")

	now = now.Add(500 * time.Millisecond)
	assert.True(t, l.allow("a"))
	assert.False(t, l.allow("a"))
}

func TestRateLimitMiddleware(t *testing.T) {
	h := RateLimit(1)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestRequestIDAndRecover(t *testing.T) {
	var seen string
	h := RequestID(Recover(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = logger.RequestID(r.Context())
		panic("boom")
	})))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get("X-Request-Id"))

	incoming := "0b9a52c4-8f5e-4d0e-9a51-9b4b1f0d6c11"
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-Id", incoming)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, incoming, seen)
}
