package handlers

import (
	"net/http"
	"time"

	"github.com/kolevkaloyan/jira-clone/internal/application/auth"
	"github.com/kolevkaloyan/jira-clone/internal/domain"
	domerrors "github.com/kolevkaloyan/jira-clone/internal/domain/errors"
	"github.com/kolevkaloyan/jira-clone/internal/infrastructure/http/middleware"
)

// RefreshCookieName is the cookie carrying the refresh token.
const RefreshCookieName = "refreshToken"

// CookieConfig controls the refresh token cookie.
type CookieConfig struct {
	// Secure is off only in development, where the API runs over plain HTTP.
	Secure bool
	Path   string
	MaxAge time.Duration
}

type AuthHandler struct {
	signup  *auth.Signup
	login   *auth.Login
	refresh *auth.Refresh
	logout  *auth.Logout
	cookie  CookieConfig
}

func NewAuthHandler(signup *auth.Signup, login *auth.Login, refresh *auth.Refresh, logout *auth.Logout, cookie CookieConfig) *AuthHandler {
	if cookie.Path == "" {
		cookie.Path = "/"
	}
	return &AuthHandler{signup: signup, login: login, refresh: refresh, logout: logout, cookie: cookie}
}

// sessionResponse is the body of every endpoint that logs a user in. The
// refresh token travels only in the cookie.
type sessionResponse struct {
	AccessToken string       `json:"accessToken"`
	ExpiresIn   int64        `json:"expiresIn"`
	User        *domain.User `json:"user"`
}

func newSessionResponse(s *auth.Session) sessionResponse {
	return sessionResponse{AccessToken: s.AccessToken, ExpiresIn: s.ExpiresIn, User: s.User}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,min=8,max=128"`
		FullName string `json:"fullName" validate:"required,max=100"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	session, err := h.signup.Execute(r.Context(), auth.SignupInput{
		Email:    body.Email,
		Password: body.Password,
		FullName: body.FullName,
	})
	if err != nil {
		AuthEvent(r, "signup", "", false, err)
		middleware.RecordAuthAttempt("signup", false)
		writeErr(w, r, err)
		return
	}
	AuthEvent(r, "signup", session.User.ID.String(), true, nil)
	middleware.RecordAuthAttempt("signup", true)
	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusCreated, newSessionResponse(session))
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email" validate:"required,email,max=254"`
		Password string `json:"password" validate:"required,max=128"`
	}
	if err := decode(w, r, &body, false); err != nil {
		writeErr(w, r, err)
		return
	}
	session, err := h.login.Execute(r.Context(), auth.LoginInput{Email: body.Email, Password: body.Password})
	if err != nil {
		AuthEvent(r, "login", "", false, err)
		middleware.RecordAuthAttempt("login", false)
		writeErr(w, r, err)
		return
	}
	AuthEvent(r, "login", session.User.ID.String(), true, nil)
	middleware.RecordAuthAttempt("login", true)
	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// Refresh rotates the refresh token from the cookie.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token := h.refreshCookie(r)
	if token == "" {
		writeErr(w, r, domerrors.ErrInvalidToken)
		return
	}
	session, err := h.refresh.Execute(r.Context(), token)
	if err != nil {
		AuthEvent(r, "refresh", "", false, err)
		middleware.RecordAuthAttempt("refresh", false)
		h.clearRefreshCookie(w)
		writeErr(w, r, err)
		return
	}
	middleware.RecordAuthAttempt("refresh", true)
	h.setRefreshCookie(w, session.RefreshToken)
	writeJSON(w, http.StatusOK, newSessionResponse(session))
}

// Logout revokes the refresh token, if any, and clears the cookie.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token := h.refreshCookie(r); token != "" {
		if err := h.logout.Execute(r.Context(), token); err != nil {
			writeErr(w, r, err)
			return
		}
	}
	userID, _ := actorID(r)
	AuthEvent(r, "logout", userID.String(), true, nil)
	h.clearRefreshCookie(w)
	writeNoContent(w)
}

func (h *AuthHandler) refreshCookie(r *http.Request) string {
	c, err := r.Cookie(RefreshCookieName)
	if err != nil {
		return ""
	}
	return TruncateRefreshToken(c.Value)
}

func (h *AuthHandler) setRefreshCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    token,
		Path:     h.cookie.Path,
		MaxAge:   int(h.cookie.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}

func (h *AuthHandler) clearRefreshCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     RefreshCookieName,
		Value:    "",
		Path:     h.cookie.Path,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteStrictMode,
	})
}
