package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/auth"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/logger"
	"github.com/ricarch-dev/IUTEPAL-medical-office-v.1/internal/repo"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *repo.User `json:"user"`
}

func genericLoginError(w http.ResponseWriter) {
	writeError(w, http.StatusBadRequest, "Invalid login credentials")
}

func (h *Handler) sessionTTL() time.Duration {
	if h.Cfg != nil && h.Cfg.SessionTTL > 0 {
		return h.Cfg.SessionTTL
	}
	return 24 * time.Hour
}

func (h *Handler) cookieSecure() bool {
	return h.Cfg != nil && h.Cfg.CookieSecure
}

// Login valida credenciales, emite el JWT y lo deja en la cookie de sesión.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required")
		return
	}
	u, err := repo.UserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger().Error("[auth] login lookup", "email", req.Email, logger.Err(err))
		}
		genericLoginError(w)
		return
	}
	if !auth.CheckPassword(u.PasswordHash, req.Password) {
		genericLoginError(w)
		return
	}
	tok, exp, err := auth.BuildJWT(h.Cfg.JWTSecret, u.ID.String(), u.Email, h.sessionTTL())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	auth.SetSessionCookie(w, tok, exp, h.cookieSecure())
	writeData(w, http.StatusOK, LoginResponse{Token: tok, ExpiresAt: exp, User: u})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	auth.ClearSessionCookie(w, h.cookieSecure())
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

type recoverPasswordRequest struct {
	Email string `json:"email"`
}

// RecoverPassword responde igual exista o no la cuenta.
func (h *Handler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req recoverPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}
	ok := map[string]string{"message": "Password reset email sent successfully"}
	u, err := repo.UserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			h.logger().Error("[password-reset] lookup", logger.Err(err))
		}
		writeJSON(w, http.StatusOK, ok)
		return
	}
	token, err := repo.CreatePasswordResetToken(r.Context(), h.DB, u.ID, resetTokenTTL)
	if err != nil {
		h.handleDBError(w, r, "password-reset", err)
		return
	}
	if h.sendPasswordResetEmail == nil {
		h.logger().Warn("[password-reset] email disabled", "to", u.Email)
		writeJSON(w, http.StatusOK, ok)
		return
	}
	resetURL := strings.TrimRight(h.Cfg.AppPublicURL, "/") + "/restablecer-contrasena?token=" + token
	if err := h.sendPasswordResetEmail(u.Email, resetURL); err != nil {
		h.logger().Error("[password-reset] send failed", "to", u.Email, logger.Err(err))
	}
	writeJSON(w, http.StatusOK, ok)
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
	Password    string `json:"password"`
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.NewPassword == "" {
		req.NewPassword = req.Password
	}
	req.Token = strings.TrimSpace(req.Token)
	if req.Token == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "token and new_password required")
		return
	}
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	hashFn := h.hashPassword
	if hashFn == nil {
		hashFn = auth.HashPassword
	}
	hash, err := hashFn(req.NewPassword)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal")
		return
	}
	userID, err := repo.ConsumePasswordResetToken(r.Context(), h.DB, req.Token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, http.StatusBadRequest, "El enlace es inválido o ha expirado.")
			return
		}
		h.handleDBError(w, r, "password-reset", err)
		return
	}
	if err := repo.SetUserPassword(r.Context(), h.DB, userID, hash); err != nil {
		h.handleDBError(w, r, "password-reset", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Contraseña actualizada"})
}
