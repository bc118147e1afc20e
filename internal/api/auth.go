package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/almoxarifado/internal/auth"
	"github.com/erazemk/almoxarifado/internal/model"
)

// AuthHandler handles operator login endpoints.
type AuthHandler struct {
	Gate *auth.Gate
}

type loginRequest struct {
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "senha obrigatória")
		return
	}

	token, _, err := h.Gate.Login(r.Context(), req.Password)
	if errors.Is(err, auth.ErrWrongPassword) {
		slog.Warn("login failed", "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "senha incorreta")
		return
	}
	if err != nil {
		storeError(w, r, "logging in", err)
		return
	}

	slog.Info("operator logged in", "remote", r.RemoteAddr)
	jsonResponse(w, http.StatusOK, loginResponse{Token: token})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Gate.Logout(r.Context(), SessionToken(r)); err != nil {
		storeError(w, r, "logging out", err)
		return
	}
	if s := GetSession(r.Context()); s != nil {
		slog.Info("operator logged out", "session", s.ID)
	}
	jsonResponse(w, http.StatusOK, map[string]string{"message": "sessão encerrada"})
}

// ChangePassword handles PUT /api/auth/password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "corpo da requisição inválido")
		return
	}

	err := h.Gate.ChangePassword(r.Context(), req.CurrentPassword, req.NewPassword)
	switch {
	case errors.Is(err, auth.ErrWrongPassword):
		jsonError(w, http.StatusUnauthorized, "senha atual incorreta")
		return
	case model.IsValidation(err):
		jsonError(w, http.StatusBadRequest, model.UserMessage(err))
		return
	case err != nil:
		storeError(w, r, "changing password", err)
		return
	}

	slog.Info("operator password changed")
	jsonResponse(w, http.StatusOK, map[string]string{"message": "senha atualizada"})
}
