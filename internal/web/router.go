// Package web serves the desk pages: login, the transfer dashboard with its
// modal form, delete confirmation and the printable manifest.
package web

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/erazemk/transferhub/internal/dashboard"
	"github.com/erazemk/transferhub/internal/metrics"
	"github.com/erazemk/transferhub/internal/session"
	webembed "github.com/erazemk/transferhub/web"
)

// Backend is the part of the backend client the pages use.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
}

// Config holds the dependencies of the page router.
type Config struct {
	Session  *session.Store
	Backend  Backend
	View     *dashboard.View
	Metrics  *metrics.Metrics
	Location *time.Location

	// MetricsHandler is served at /metrics when set.
	MetricsHandler http.Handler

	// Now defaults to time.Now.
	Now func() time.Time
}

// Server holds all dependencies for page handlers.
type Server struct {
	Session   *session.Store
	Backend   Backend
	View      *dashboard.View
	Metrics   *metrics.Metrics
	Templates *Templates
	Location  *time.Location

	now       func() time.Time
	loggingIn atomic.Bool
}

// NewRouter creates the web page router with all page routes registered.
func NewRouter(cfg Config) (http.Handler, error) {
	if cfg.Session == nil || cfg.Backend == nil || cfg.View == nil {
		return nil, errors.New("web: session, backend and view are required")
	}
	if cfg.Location == nil {
		cfg.Location = cfg.View.Location()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	templates, err := LoadTemplates(cfg.Location)
	if err != nil {
		return nil, err
	}

	s := &Server{
		Session:   cfg.Session,
		Backend:   cfg.Backend,
		View:      cfg.View,
		Metrics:   cfg.Metrics,
		Templates: templates,
		Location:  cfg.Location,
		now:       cfg.Now,
	}

	mux := http.NewServeMux()
	guard := RequireSession(cfg.Session)

	// Static assets.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	if cfg.MetricsHandler != nil {
		mux.Handle("GET /metrics", cfg.MetricsHandler)
	}

	// Public routes.
	mux.HandleFunc("GET /login", s.LoginPage)
	mux.HandleFunc("POST /login", s.LoginSubmit)
	mux.HandleFunc("POST /logout", s.Logout)

	// Guarded routes.
	mux.Handle("GET /{$}", guard(http.HandlerFunc(s.Dashboard)))
	mux.Handle("POST /refresh", guard(http.HandlerFunc(s.Refresh)))

	mux.Handle("POST /modal/create", guard(http.HandlerFunc(s.ModalCreate)))
	mux.Handle("POST /modal/close", guard(http.HandlerFunc(s.ModalClose)))
	mux.Handle("POST /transfers/{id}/edit", guard(http.HandlerFunc(s.ModalEdit)))

	mux.Handle("POST /transfers", guard(http.HandlerFunc(s.TransferCreateSubmit)))
	mux.Handle("POST /transfers/{id}", guard(http.HandlerFunc(s.TransferUpdateSubmit)))
	mux.Handle("GET /transfers/{id}/delete", guard(http.HandlerFunc(s.TransferDeletePage)))
	mux.Handle("POST /transfers/{id}/delete", guard(http.HandlerFunc(s.TransferDeleteSubmit)))
	mux.Handle("GET /transfers/manifest.pdf", guard(http.HandlerFunc(s.Manifest)))

	// Anything else requires a session too, so unknown locations still go
	// through the login redirect.
	mux.Handle("/", guard(http.NotFoundHandler()))

	return mux, nil
}

// page returns the base page data for the current session.
func (s *Server) page(title string) PageData {
	return PageData{
		Title:    title,
		SignedIn: s.Session.IsAuthenticated(),
		User:     s.Session.Username(),
	}
}
