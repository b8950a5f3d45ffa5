package usecase

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/DRSN-tech/product-dashboard/internal/cache"
	"github.com/DRSN-tech/product-dashboard/internal/domain"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

// DefaultRedirect — куда вести после входа без параметра from.
const DefaultRedirect = "/products"

// AuthUseCase — вход по email и выход.
type AuthUseCase struct {
	api     RemoteAPI
	session SessionStore
	cache   *cache.Cache
	feed    *NotificationFeed
	logger  logger.Logger
}

func NewAuthUC(api RemoteAPI, session SessionStore, entityCache *cache.Cache, feed *NotificationFeed, logger logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		api:     api,
		session: session,
		cache:   entityCache,
		feed:    feed,
		logger:  logger,
	}
}

// Login отправляет email в API. Токен в ответе сохраняется в сессии; без токена: e.ErrLoginFailed.
func (a *AuthUseCase) Login(ctx context.Context, email, from string) (*LoginRes, error) {
	const op = "AuthUseCase.Login"

	req := domain.LoginReq{Email: strings.TrimSpace(email)}
	if err := domain.Validate(req); err != nil {
		return nil, e.Wrap(op, err)
	}

	res, err := a.api.Login(ctx, req)
	if err != nil {
		if e.IsNetwork(err) {
			a.feed.Error("Network error")
		} else {
			a.feed.Error("Login failed")
		}
		return nil, e.Wrap(op, err)
	}
	if res == nil || res.Token == "" {
		a.feed.Error("Login failed")
		return nil, e.Wrap(op, e.ErrLoginFailed)
	}

	if err := a.session.SetToken(res.Token); err != nil {
		// токен уже в памяти, сессия работает до перезапуска
		a.logger.Warnf("failed to persist session cookie: %v", e.Wrap(op, err))
	}

	a.feed.Success("Logged in")
	return &LoginRes{Token: res.Token, Redirect: SafeRedirect(from)}, nil
}

// Logout очищает сессию и кэш.
func (a *AuthUseCase) Logout(_ context.Context) error {
	const op = "AuthUseCase.Logout"

	a.cache.Reset()
	if err := a.session.Logout(); err != nil {
		return e.Wrap(op, err)
	}
	return nil
}

// IsAuthenticated сообщает, есть ли токен в сессии.
func (a *AuthUseCase) IsAuthenticated() bool {
	_, ok := a.session.CurrentToken()
	return ok
}

// SafeRedirect возвращает from, если это локальный путь, иначе /products.
func SafeRedirect(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") || strings.HasPrefix(from, "/\\") {
		return DefaultRedirect
	}
	u, err := url.Parse(from)
	if err != nil || u.IsAbs() || u.Host != "" {
		return DefaultRedirect
	}
	if u.Path == "/login" {
		return DefaultRedirect
	}
	return from
}

// IsUnauthorized — удалённая сторона отвергла токен.
func IsUnauthorized(err error) bool {
	return errors.Is(err, e.ErrUnauthorized)
}
