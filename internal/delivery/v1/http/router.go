package http

import (
	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Router struct {
	router *chi.Mux
	logger logger.Logger
}

func NewRouter(router *chi.Mux, logger logger.Logger) *Router {
	return &Router{router: router, logger: logger}
}

// Deps — всё, что нужно маршрутам дашборда.
type Deps struct {
	Products      usecase.ProductUC
	Auth          usecase.AuthUC
	Dialogs       usecase.DialogsUC
	Session       Session
	Notifications Notifications
	Browser       Browser
}

// Init регистрирует маршруты дашборда. Всё, кроме публичных путей, закрыто сессией.
func (r *Router) Init(deps Deps) {
	r.router.Use(middleware.Recoverer)
	r.router.Use(RequestLogger(r.logger))
	r.router.Use(RequireSession(deps.Session, r.logger))

	r.router.Get("/healthz", healthz)

	authHandler := NewAuthHandler(deps.Auth, deps.Session, r.logger)
	r.router.Get(loginPath, authHandler.loginPage)

	r.router.Route("/api", func(api chi.Router) {
		registerAuthRoutes(api, authHandler)
		registerProductRoutes(api, NewProductHandler(deps.Products, deps.Dialogs, deps.Notifications, r.logger))
		registerConfirmationRoutes(api, NewConfirmationHandler(deps.Dialogs, r.logger))
		api.Get("/notifications", NewNotificationHandler(deps.Notifications).drain)

		if deps.Browser != nil {
			registerBrowserRoutes(api, NewBrowserHandler(deps.Browser, r.logger))
		}
	})
}

// InitBackend регистрирует маршруты mock API. Изменения каталога требуют bearer-токен.
func (r *Router) InitBackend(catalog usecase.CatalogUC, tokens usecase.TokenIssuer) {
	r.router.Use(middleware.Recoverer)
	r.router.Use(RequestLogger(r.logger))

	h := NewCatalogHandler(catalog, r.logger)

	r.router.Get("/healthz", healthz)
	r.router.Post("/auth", h.login)
	r.router.Get("/categories", h.listCategories)

	r.router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Get("/search", h.searchProducts)
		pr.Get("/{idOrSlug}", h.getProduct)

		pr.Group(func(protected chi.Router) {
			protected.Use(RequireBearer(tokens, r.logger))
			protected.Post("/", h.createProduct)
			protected.Put("/{id}", h.updateProduct)
			protected.Delete("/{id}", h.deleteProduct)
		})
	})
}

func registerAuthRoutes(router chi.Router, h *AuthHandler) {
	router.Route("/auth", func(auth chi.Router) {
		auth.Post("/login", h.login)
		auth.Post("/logout", h.logout)
	})
}

func registerProductRoutes(router chi.Router, h *ProductHandler) {
	router.Get("/categories", h.listCategories)

	router.Route("/products", func(pr chi.Router) {
		pr.Get("/", h.listProducts)
		pr.Post("/", h.createProduct)
		pr.Get("/search", h.searchProducts)
		pr.Get("/{idOrSlug}", h.getProduct)
		pr.Get("/{id}/related", h.relatedProducts)
		pr.Get("/{id}/watch", h.watchProduct)
		pr.Put("/{id}", h.updateProduct)
		pr.Delete("/{id}", h.deleteProduct)
	})
}

func registerConfirmationRoutes(router chi.Router, h *ConfirmationHandler) {
	router.Route("/confirmations/{dialog}", func(c chi.Router) {
		c.Get("/", h.state)
		c.Post("/confirm", h.confirm)
		c.Post("/cancel", h.cancel)
	})
}

func registerBrowserRoutes(router chi.Router, h *BrowserHandler) {
	router.Route("/browser", func(b chi.Router) {
		b.Get("/", h.items)
		b.Get("/watch", h.watch)
		b.Post("/search", h.search)
		b.Put("/category", h.category)
		b.Put("/page", h.page)
	})
}
