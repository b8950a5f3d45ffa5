package http

import (
	"net/http"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/logger"
)

type loginRequest struct {
	Email string `json:"email"`
	From  string `json:"from,omitempty"`
}

type redirectResponse struct {
	Redirect string `json:"redirect"`
}

type AuthHandler struct {
	auth    usecase.AuthUC
	session Session
	logger  logger.Logger
}

func NewAuthHandler(auth usecase.AuthUC, session Session, logger logger.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, session: session, logger: logger}
}

// loginPage отдаёт параметр from; саму форму рисует оболочка.
func (a *AuthHandler) loginPage(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, http.StatusOK, map[string]string{
		"from": usecase.SafeRedirect(r.URL.Query().Get("from")),
	})
}

func (a *AuthHandler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	if req.From == "" {
		req.From = r.URL.Query().Get("from")
	}

	res, err := a.auth.Login(r.Context(), req.Email, req.From)
	if err != nil {
		a.logger.Warnf("login failed: %v", err)
		WriteError(w, err)
		return
	}

	http.SetCookie(w, a.session.Cookie(res.Token))
	WriteSuccess(w, http.StatusOK, redirectResponse{Redirect: res.Redirect})
}

func (a *AuthHandler) logout(w http.ResponseWriter, r *http.Request) {
	if err := a.auth.Logout(r.Context()); err != nil {
		// cookie всё равно истекает
		a.logger.Errorf(err, "logout")
	}

	http.SetCookie(w, a.session.ExpiredCookie())
	WriteSuccess(w, http.StatusOK, redirectResponse{Redirect: loginPath})
}
