package http

import (
	"context"
	"net/http"

	"github.com/DRSN-tech/product-dashboard/internal/cfg"
)

const maxHeaderBytes = 1 << 20

// Server — HTTP-сервер дашборда или mock API.
// WriteTimeout должен покрывать ожидание решения в диалоге подтверждения.
type Server struct {
	srv *http.Server
}

func NewServer(handler http.Handler, cfg *cfg.HTTPConfig) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadTimeout,
			ReadTimeout:       cfg.ReadTimeout,
			WriteTimeout:      cfg.WriteTimeout,
			IdleTimeout:       cfg.IdleTimeout,
			MaxHeaderBytes:    maxHeaderBytes,
		},
	}
}

// Run блокируется до остановки; после Stop возвращает http.ErrServerClosed.
func (s *Server) Run() error {
	return s.srv.ListenAndServe()
}

// Stop дожидается активных запросов, в том числе ожидающих подтверждения, пока не истечёт ctx.
func (s *Server) Stop(ctx context.Context) error {
	s.srv.SetKeepAlivesEnabled(false)
	return s.srv.Shutdown(ctx)
}
