package adapthttp

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/coreos/go-oidc/v3/oidc"

	"inventory/internal/app"
	"inventory/internal/metrics"
)

const (
	minUsernameLen = 4
	minPasswordLen = 6

	stateCookieName = "oauth_state"
)

type signInPage struct {
	SSO bool
}

func (s *Server) handleSignInPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "sign_in", signInPage{SSO: s.oidc != nil})
}

func (s *Server) handleSignUpPage(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, "sign_up", nil)
}

func (s *Server) handleSignUp(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")

	if msg := validateCredentials(username, password); msg != "" {
		s.renderError(w, r, msg)
		return
	}

	_, err := s.auth.Register(r.Context(), username, password)
	switch {
	case errors.Is(err, app.ErrDuplicateUsername),
		errors.Is(err, app.ErrReservedUsername),
		errors.Is(err, app.ErrPasswordTooLong):
		s.renderError(w, r, err.Error())
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "register user", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.log.InfoContext(r.Context(), "user registered", "username", username)
	redirect(w, r, "/sign-in")
}

// validateCredentials counts minimum lengths in characters. The maximum is in
// bytes because that is what bcrypt limits.
func validateCredentials(username, password string) string {
	if utf8.RuneCountInString(username) < minUsernameLen {
		return "username must be at least 4 characters"
	}
	if strings.HasPrefix(username, app.ExternalUsernamePrefix) {
		return app.ErrReservedUsername.Error()
	}
	if utf8.RuneCountInString(password) < minPasswordLen {
		return "password must be at least 6 characters"
	}
	if len(password) > app.MaxPasswordBytes {
		return app.ErrPasswordTooLong.Error()
	}
	return ""
}

func (s *Server) handleSignIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostForm.Get("username"))
	password := r.PostForm.Get("password")
	remember := r.PostForm.Get("remember") != ""

	session, err := s.auth.SignIn(r.Context(), username, password)
	if errors.Is(err, app.ErrInvalidCredentials) {
		metrics.RecordSignIn("password", "failure")
		s.renderError(w, r, "invalid username or password")
		return
	}
	if err != nil {
		s.log.ErrorContext(r.Context(), "sign in", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	metrics.RecordSignIn("password", "success")
	http.SetCookie(w, s.sessionCookie(session, remember))
	redirect(w, r, "/")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	redirect(w, r, "/sign-in")
}

// sessionCookie builds the cookie carrying the session token. Without
// remember it lasts for the browser session; with it, for the token TTL.
func (s *Server) sessionCookie(session *app.Session, remember bool) *http.Cookie {
	c := &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	}
	if remember {
		c.MaxAge = int(s.auth.TTL() / time.Second)
	}
	return c
}

func (s *Server) handleSSOLogin(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		http.Error(w, "sso disabled", http.StatusNotFound)
		return
	}
	state := generateState()
	http.SetCookie(w, stateCookie(state, 300))
	http.Redirect(w, r, s.oidc.OAuth2Config.AuthCodeURL(state), http.StatusFound)
}

func (s *Server) handleSSOCallback(w http.ResponseWriter, r *http.Request) {
	if s.oidc == nil {
		http.Error(w, "sso disabled", http.StatusNotFound)
		return
	}

	state, err := r.Cookie(stateCookieName)
	if err != nil || state.Value == "" || r.URL.Query().Get("state") != state.Value {
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}
	http.SetCookie(w, stateCookie("", -1))

	token, err := s.oidc.OAuth2Config.Exchange(r.Context(), r.URL.Query().Get("code"))
	if err != nil {
		s.log.WarnContext(r.Context(), "sso token exchange", "error", err)
		metrics.RecordSignIn("sso", "failure")
		http.Error(w, "failed to exchange token", http.StatusBadGateway)
		return
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok {
		metrics.RecordSignIn("sso", "failure")
		http.Error(w, "no id_token", http.StatusBadGateway)
		return
	}

	idToken, err := s.oidc.Provider.Verifier(&oidc.Config{ClientID: s.oidc.OAuth2Config.ClientID}).Verify(r.Context(), rawIDToken)
	if err != nil {
		s.log.WarnContext(r.Context(), "sso verify id token", "error", err)
		metrics.RecordSignIn("sso", "failure")
		http.Error(w, "failed to verify token", http.StatusUnauthorized)
		return
	}

	var claims struct {
		Email         string `json:"email"`
		EmailVerified bool   `json:"email_verified"`
	}
	if err := idToken.Claims(&claims); err != nil {
		http.Error(w, "failed to parse claims", http.StatusBadGateway)
		return
	}
	if claims.Email == "" || !claims.EmailVerified {
		metrics.RecordSignIn("sso", "failure")
		http.Error(w, "verified email required", http.StatusForbidden)
		return
	}

	session, err := s.auth.SignInExternal(r.Context(), claims.Email)
	if err != nil {
		s.log.ErrorContext(r.Context(), "sso sign in", "error", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	metrics.RecordSignIn("sso", "success")
	http.SetCookie(w, s.sessionCookie(session, true))
	http.Redirect(w, r, "/", http.StatusFound)
}

// stateCookie carries the OAuth state across the provider round trip. Setting
// and clearing use the same attributes so browsers match them.
func stateCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     stateCookieName,
		Value:    value,
		Path:     "/sso",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode, // Lax required for cross-site redirect returns
		MaxAge:   maxAge,
	}
}

func generateState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
