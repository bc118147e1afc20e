package web

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/api"
	"github.com/erazemk/almoxarifado/internal/auth"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Entrar", "login")
	s.Templates.Render(w, http.StatusOK, "login.html", &data)
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	data := s.page(r, "Entrar", "login")

	password := r.FormValue("password")
	if password == "" {
		data.Error = "Informe a senha."
		s.Templates.Render(w, http.StatusBadRequest, "login.html", &data)
		return
	}

	token, _, err := s.Gate.Login(r.Context(), password)
	if errors.Is(err, auth.ErrWrongPassword) {
		slog.Warn("login failed", "remote", r.RemoteAddr)
		data.Error = "Senha incorreta."
		s.Templates.Render(w, http.StatusUnauthorized, "login.html", &data)
		return
	}
	if err != nil {
		slog.Error("login error", "error", err)
		data.Error = "Erro ao entrar. Tente novamente."
		s.Templates.Render(w, http.StatusInternalServerError, "login.html", &data)
		return
	}

	slog.Info("operator logged in", "remote", r.RemoteAddr)
	setAuthCookie(w, token, int(auth.SessionLifetime.Seconds()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(api.SessionCookie); err == nil && cookie.Value != "" {
		if err := s.Gate.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("failed to revoke session", "error", err)
		}
	}
	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
