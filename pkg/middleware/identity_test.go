package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"review-service/pkg/utils"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIdentity_LiftsHeaderIntoContext(t *testing.T) {
	var gotID string
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, gotOK = utils.GetRequesterIDFromContext(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	r.Header.Set(RequesterHeader, "user-1")
	Identity(zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.True(t, gotOK)
	assert.Equal(t, "user-1", gotID)
}

func TestIdentity_AnonymousPassesThrough(t *testing.T) {
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, gotOK = utils.GetRequesterIDFromContext(r.Context())
	})

	r := httptest.NewRequest(http.MethodGet, "/api/reviews", nil)
	Identity(zap.NewNop())(next).ServeHTTP(httptest.NewRecorder(), r)

	assert.False(t, gotOK)
}

func TestRequireIdentity_RejectsAnonymous(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	r := httptest.NewRequest(http.MethodPost, "/api/reviews", nil)
	w := httptest.NewRecorder()
	RequireIdentity(zap.NewNop())(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdmin_TokenMismatchForbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r := httptest.NewRequest(http.MethodPost, "/api/seed/reviews", nil)
	r.Header.Set(AdminHeader, "wrong")
	w := httptest.NewRecorder()
	Admin("secret", zap.NewNop())(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdmin_EmptyConfiguredTokenAlwaysForbidden(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	})

	r := httptest.NewRequest(http.MethodPost, "/api/seed/reviews", nil)
	w := httptest.NewRecorder()
	Admin("", zap.NewNop())(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdmin_MatchingTokenPasses(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	r := httptest.NewRequest(http.MethodDelete, "/api/seed/reviews", nil)
	r.Header.Set(AdminHeader, "secret")
	w := httptest.NewRecorder()
	Admin("secret", zap.NewNop())(next).ServeHTTP(w, r)

	assert.Equal(t, http.StatusNoContent, w.Code)
}
