package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DRSN-tech/product-dashboard/internal/session"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession() *session.Store {
	return session.NewStore(session.NewMemoryJar(), session.Options{}, logger.Nop{})
}

func protected(sess Session) http.Handler {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	return RequireSession(sess, logger.Nop{})(ok)
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		cookie   string
		wantCode int
		wantLoc  string
	}{
		{name: "page without cookie goes to login", path: "/products/42?tab=info", wantCode: http.StatusFound, wantLoc: "/login?from=%2Fproducts%2F42%3Ftab%3Dinfo"},
		{name: "api without cookie is 401", path: "/api/products", wantCode: http.StatusUnauthorized},
		{name: "login is public", path: "/login", wantCode: http.StatusTeapot},
		{name: "auth api is public", path: "/api/auth/login", wantCode: http.StatusTeapot},
		{name: "static prefix is public", path: "/static/app.js", wantCode: http.StatusTeapot},
		{name: "swagger is not exempt", path: "/swagger/index.html", wantCode: http.StatusFound, wantLoc: "/login?from=%2Fswagger%2Findex.html"},
		{name: "healthz is public", path: "/healthz", wantCode: http.StatusTeapot},
		{name: "authenticated page passes", path: "/products", cookie: "t1", wantCode: http.StatusTeapot},
		{name: "authenticated login bounces to products", path: "/login", cookie: "t1", wantCode: http.StatusFound, wantLoc: "/products"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newTestSession()
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: sess.CookieName(), Value: tt.cookie})
			}
			rec := httptest.NewRecorder()

			protected(sess).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
		})
	}
}

func TestRequireSession_RehydratesFromCookie(t *testing.T) {
	sess := newTestSession()
	_, ok := sess.CurrentToken()
	require.False(t, ok)

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	req.AddCookie(&http.Cookie{Name: sess.CookieName(), Value: "from-browser"})
	protected(sess).ServeHTTP(httptest.NewRecorder(), req)

	token, ok := sess.CurrentToken()
	require.True(t, ok)
	assert.Equal(t, "from-browser", token)
}

func TestRequireSession_KeepsExistingToken(t *testing.T) {
	sess := newTestSession()
	require.NoError(t, sess.SetToken("fresh"))

	req := httptest.NewRequest(http.MethodGet, "/products", nil)
	req.AddCookie(&http.Cookie{Name: sess.CookieName(), Value: "stale"})
	protected(sess).ServeHTTP(httptest.NewRecorder(), req)

	token, _ := sess.CurrentToken()
	assert.Equal(t, "fresh", token)
}
