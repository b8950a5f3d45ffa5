// Package session хранит токен авторизации: сначала в памяти, затем в cookie-хранилище.
package session

import (
	"net/http"
	"sync"
	"time"

	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

const (
	DefaultCookieName = "token"
	DefaultMaxAge     = 7 * 24 * time.Hour
)

// Options описывает cookie сессии.
type Options struct {
	CookieName string
	MaxAge     time.Duration
	Secure     bool
}

// Store — явный объект сессии; передаётся шлюзу при каждом запросе.
type Store struct {
	mu     sync.RWMutex
	token  string
	jar    Jar
	opts   Options
	logger logger.Logger
	now    func() time.Time
}

func NewStore(jar Jar, opts Options, log logger.Logger) *Store {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.MaxAge <= 0 {
		opts.MaxAge = DefaultMaxAge
	}
	if jar == nil {
		jar = NewMemoryJar()
	}

	return &Store{
		jar:    jar,
		opts:   opts,
		logger: log,
		now:    time.Now,
	}
}

// CookieName — имя cookie сессии.
func (s *Store) CookieName() string {
	return s.opts.CookieName
}

// SetToken запоминает токен в памяти и сохраняет cookie.
// Ошибка сохранения не откатывает токен в памяти.
func (s *Store) SetToken(token string) error {
	const op = "Store.SetToken"

	if token == "" {
		return e.Wrap(op, e.ErrTokenMissing)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	err := s.jar.Save(StoredCookie{
		Name:    s.opts.CookieName,
		Value:   token,
		Expires: s.now().Add(s.opts.MaxAge),
	})
	if err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// Logout очищает токен и удаляет cookie.
func (s *Store) Logout() error {
	const op = "Store.Logout"

	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.jar.Delete(s.opts.CookieName); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// CurrentToken возвращает токен из памяти, а при холодном старте из сохранённой cookie.
// Истёкшая cookie считается отсутствующей.
func (s *Store) CurrentToken() (string, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token != "" {
		return token, true
	}

	c, err := s.jar.Load(s.opts.CookieName)
	if err != nil {
		s.logger.Warnf("failed to load session cookie: %v", err)
		return "", false
	}
	if c == nil || c.Value == "" {
		return "", false
	}
	if !c.Expires.IsZero() && !s.now().Before(c.Expires) {
		return "", false
	}

	s.mu.Lock()
	if s.token == "" {
		s.token = c.Value
	}
	token = s.token
	s.mu.Unlock()

	return token, true
}

// Rehydrate принимает токен из cookie браузера, если в памяти пусто. В хранилище не пишет.
func (s *Store) Rehydrate(token string) {
	if token == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.token == "" {
		s.token = token
	}
}

// Cookie — Set-Cookie для браузера после входа.
func (s *Store) Cookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(s.opts.MaxAge / time.Second),
		Expires:  s.now().Add(s.opts.MaxAge),
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.Secure,
		HttpOnly: false,
	}
}

// ExpiredCookie — Set-Cookie для выхода (max-age=0).
func (s *Store) ExpiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     s.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.opts.Secure,
	}
}
