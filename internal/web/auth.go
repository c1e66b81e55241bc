package web

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// MsgLoginFailed is shown for any failed login.
const MsgLoginFailed = "Failed to login. Please check your credentials."

const msgLoginBusy = "A login is already in progress."

type loginPage struct {
	PageData
	Next     string
	Username string
}

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	next := safeNext(r.URL.Query().Get("next"))
	if s.Session.IsAuthenticated() {
		http.Redirect(w, r, next, http.StatusSeeOther)
		return
	}
	s.Templates.Render(w, "login.html", &loginPage{PageData: s.page("Login"), Next: next})
}

// LoginSubmit handles POST /login. Only one login is in flight at a time.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	next := safeNext(r.FormValue("next"))

	fail := func(status int, msg string) {
		data := &loginPage{PageData: s.page("Login"), Next: next, Username: username}
		data.Error = msg
		s.Templates.RenderStatus(w, status, "login.html", data)
	}

	if !s.loggingIn.CompareAndSwap(false, true) {
		fail(http.StatusTooManyRequests, msgLoginBusy)
		return
	}
	defer s.loggingIn.Store(false)

	if username == "" || password == "" {
		fail(http.StatusOK, MsgLoginFailed)
		return
	}

	token, err := s.Backend.Login(r.Context(), username, password)
	if err != nil {
		slog.Warn("login failed", "username", username, "error", err)
		s.Metrics.IncLoginFailure()
		fail(http.StatusOK, MsgLoginFailed)
		return
	}

	// A new session mounts a fresh dashboard.
	s.View.Reset()
	if err := s.Session.Login(r.Context(), token); err != nil {
		slog.Error("failed to store session", "error", err)
		fail(http.StatusInternalServerError, MsgLoginFailed)
		return
	}

	slog.Info("staff logged in", "username", username)
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// Logout handles POST /logout.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	user := s.Session.Username()
	if err := s.Session.Logout(r.Context()); err != nil {
		slog.Error("failed to clear persisted session", "error", err)
	}
	s.View.Reset()

	slog.Info("staff logged out", "username", user)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// safeNext returns next when it is a local absolute path, else "/".
func safeNext(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/"
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" || u.Path == "/login" {
		return "/"
	}
	return u.RequestURI()
}
