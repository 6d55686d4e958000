package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/homeguardhq/homeguard-core/internal/auth"
)

// registerRequest is the body of POST /api/auth/register.
type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// loginRequest is the body of POST /api/auth/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// authResponse carries a fresh token plus the account it belongs to.
type authResponse struct {
	Token string     `json:"token"`
	User  *auth.User `json:"user"`
}

// handleRegister creates a new dashboard account and logs it in.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.users == nil {
		writeUnavailable(w, "account registration is not available")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Name = strings.TrimSpace(req.Name)
	switch {
	case !auth.IsValidEmail(req.Email):
		writeBadRequest(w, "invalid email address")
		return
	case !auth.IsValidName(req.Name):
		writeBadRequest(w, "name is required")
		return
	case !auth.IsValidPassword(req.Password):
		writeBadRequest(w, "password must be at least 8 characters")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("hashing password failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	user := &auth.User{Email: req.Email, Name: req.Name, PasswordHash: hash}
	err = s.users.Create(r.Context(), user)
	if errors.Is(err, auth.ErrEmailExists) {
		writeConflict(w, "email already registered")
		return
	}
	if err != nil {
		s.logger.Error("creating user failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	token, err := auth.GenerateToken(user, s.secCfg.JWT.Secret, s.secCfg.JWT.AccessTokenTTL)
	if err != nil {
		s.logger.Error("generating token failed", "error", err)
		writeInternalError(w, "registration failed")
		return
	}

	s.logger.Info("account registered", "user", user.ID)
	writeJSON(w, http.StatusCreated, authResponse{Token: token, User: user})
}

// handleLogin verifies credentials and issues a token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if s.users == nil {
		writeUnavailable(w, "login is not available")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := s.users.GetByEmail(r.Context(), email)
	if errors.Is(err, auth.ErrUserNotFound) {
		writeUnauthorized(w, "invalid credentials")
		return
	}
	if err != nil {
		s.logger.Error("reading user failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	ok, err := auth.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil || !ok {
		writeUnauthorized(w, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(user, s.secCfg.JWT.Secret, s.secCfg.JWT.AccessTokenTTL)
	if err != nil {
		s.logger.Error("generating token failed", "error", err)
		writeInternalError(w, "login failed")
		return
	}

	s.logger.Info("login", "user", user.ID)
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user})
}

// handleMe returns the account behind the presented token.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil || s.users == nil {
		writeUnauthorized(w, "not authenticated")
		return
	}

	user, err := s.users.GetByID(r.Context(), claims.Subject)
	if errors.Is(err, auth.ErrUserNotFound) {
		// Token outlived the account.
		writeUnauthorized(w, "account no longer exists")
		return
	}
	if err != nil {
		s.logger.Error("reading user failed", "error", err)
		writeInternalError(w, "reading account failed")
		return
	}
	writeJSON(w, http.StatusOK, user)
}
