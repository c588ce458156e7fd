package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"gitea.com/go-chi/session"

	"github.com/blogem/caseledger/authenticator"
	"github.com/blogem/caseledger/middleware"
	"github.com/blogem/caseledger/models"
	"github.com/blogem/caseledger/services"
)

const sessionState = "state"

// AuthController handles login, logout and the current user
type AuthController struct {
	auth     services.AuthService
	provider authenticator.Provider
	logger   *slog.Logger
}

// NewAuthController creates a new auth controller
func NewAuthController(auth services.AuthService, provider authenticator.Provider, logger *slog.Logger) *AuthController {
	return &AuthController{auth: auth, provider: provider, logger: logger}
}

// Login handles POST /api/auth/login
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var form models.LoginForm
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		writeError(w, http.StatusBadRequest, "Username and password required")
		return
	}

	user, err := ac.auth.Login(r.Context(), &form)
	if err != nil {
		writeServiceError(w, ac.logger, err)
		return
	}

	startSession(r, user)
	ac.logger.Info("user logged in", "user", user.Username, "role", user.Role)
	writeJSON(w, http.StatusOK, user)
}

// Logout handles POST /api/auth/logout
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	sess := session.GetSession(r)
	if err := sess.Flush(); err != nil {
		writeServiceError(w, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Me handles GET /api/auth/me
func (ac *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(w, r)
	if !ok {
		return
	}

	user, err := ac.auth.GetUserByID(r.Context(), actor.UserID)
	if err != nil {
		writeServiceError(w, ac.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// OIDCLogin handles GET /api/auth/oidc/login
func (ac *AuthController) OIDCLogin(w http.ResponseWriter, r *http.Request) {
	if ac.provider == nil {
		writeError(w, http.StatusNotFound, "Single sign-on is not configured")
		return
	}

	// Generate random state
	state, err := generateRandomState()
	if err != nil {
		writeServiceError(w, ac.logger, err)
		return
	}

	// Save the state in the session to validate in callback
	sess := session.GetSession(r)
	if err := sess.Set(sessionState, state); err != nil {
		writeServiceError(w, ac.logger, err)
		return
	}

	http.Redirect(w, r, ac.provider.GetAuthURL(state), http.StatusTemporaryRedirect)
}

// OIDCCallback handles GET /api/auth/oidc/callback. The email claim must
// belong to an existing user.
func (ac *AuthController) OIDCCallback(w http.ResponseWriter, r *http.Request) {
	if ac.provider == nil {
		writeError(w, http.StatusNotFound, "Single sign-on is not configured")
		return
	}

	sess := session.GetSession(r)

	// Verify state
	storedState, _ := sess.Get(sessionState).(string)
	if storedState == "" || r.URL.Query().Get("state") != storedState {
		writeError(w, http.StatusBadRequest, "Invalid state parameter")
		return
	}
	_ = sess.Delete(sessionState)

	token, err := ac.provider.ExchangeCode(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		ac.logger.Warn("code exchange failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Failed to exchange authorization code")
		return
	}

	claims, err := ac.provider.GetClaims(r.Context(), token)
	if err != nil {
		ac.logger.Warn("id token verification failed", "error", err)
		writeError(w, http.StatusUnauthorized, "Failed to verify ID token")
		return
	}

	user, err := ac.auth.GetUserByEmail(r.Context(), claims.Email())
	if err != nil {
		if errors.Is(err, models.ErrInvalidCredentials) {
			writeError(w, http.StatusForbidden, "No account for this identity")
			return
		}
		writeServiceError(w, ac.logger, err)
		return
	}

	startSession(r, user)
	ac.logger.Info("user logged in via sso", "user", user.Username)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func startSession(r *http.Request, user *models.User) {
	sess := session.GetSession(r)
	_ = sess.Set(middleware.SessionUserID, user.ID)
	_ = sess.Set(middleware.SessionUsername, user.Username)
	_ = sess.Set(middleware.SessionRole, string(user.Role))
}

// generateRandomState generates a random state value for CSRF protection
func generateRandomState() (string, error) {
	b := make([]byte, 32)
	_, err := rand.Read(b)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
