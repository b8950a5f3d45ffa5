package http

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5/middleware"
)

const loginPath = "/login"

// Пути, доступные без сессии. Всё остальное закрыто.
var (
	publicPaths    = []string{loginPath, "/favicon.ico", "/robots.txt", "/healthz"}
	publicPrefixes = []string{"/api/auth/", "/static/"}
)

// Session — то, что нужно middleware от хранилища сессии.
type Session interface {
	CookieName() string
	CurrentToken() (string, bool)
	Rehydrate(token string)
	Cookie(token string) *http.Cookie
	ExpiredCookie() *http.Cookie
}

func isPublic(path string) bool {
	for _, p := range publicPaths {
		if path == p {
			return true
		}
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) || path == strings.TrimSuffix(p, "/") {
			return true
		}
	}
	return false
}

// RequireSession закрывает всё, кроме публичных путей.
// Без cookie запросы к /api получают 401, остальные уходят на /login?from=<путь>.
// Если память сессии пуста, токен из cookie восстанавливается в ней.
func RequireSession(sess Session, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookieToken(r, sess.CookieName())
			if token != "" {
				if _, ok := sess.CurrentToken(); !ok {
					sess.Rehydrate(token)
				}
			}

			path := r.URL.Path
			if path == loginPath && token != "" {
				http.Redirect(w, r, "/products", http.StatusFound)
				return
			}

			if isPublic(path) || token != "" {
				next.ServeHTTP(w, r)
				return
			}

			log.Debugf("unauthenticated request to %s", path)
			if strings.HasPrefix(path, "/api/") {
				WriteError(w, e.ErrUnauthorized)
				return
			}

			target := loginPath + "?from=" + url.QueryEscape(r.URL.RequestURI())
			http.Redirect(w, r, target, http.StatusFound)
		})
	}
}

func cookieToken(r *http.Request, name string) string {
	c, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return c.Value
}

// RequestLogger пишет метод, путь, статус и длительность каждого запроса.
func RequestLogger(log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			log.Infof("%s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start))
		})
	}
}
