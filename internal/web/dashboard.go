package web

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/erazemk/transferhub/internal/dashboard"
	"github.com/erazemk/transferhub/internal/model"
)

type windowLink struct {
	Label  string
	Href   string
	Active bool
}

type dashboardPage struct {
	PageData
	State       dashboard.State
	Transfers   []model.Transfer
	Total       int
	Filter      dashboard.Filter
	Windows     []windowLink
	Return      string
	ManifestURL string
	Form        *dashboard.Form
	EditTarget  *model.Transfer
}

// ModalOpen reports whether the transfer modal is shown.
func (p *dashboardPage) ModalOpen() bool { return p.Form != nil }

// Dashboard handles GET /. The first visit after login loads the list; later
// visits render the cached copy.
func (s *Server) Dashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.View.EnsureLoaded(r.Context()); err != nil {
		slog.Error("failed to load dashboard", "error", err, "request_id", GetRequestID(r.Context()))
	}

	filter := dashboard.ParseFilter(r.URL.Query())
	s.Templates.Render(w, "dashboard.html", s.dashboardPage(filter))
}

func (s *Server) dashboardPage(filter dashboard.Filter) *dashboardPage {
	snap := s.View.Snapshot()

	p := &dashboardPage{
		PageData:    s.page("Transfers"),
		State:       snap.State,
		Transfers:   filter.Apply(snap.Transfers, s.now(), s.Location),
		Total:       len(snap.Transfers),
		Filter:      filter,
		Return:      filter.Encode(),
		ManifestURL: withQuery("/transfers/manifest.pdf", filter.Encode()),
		Form:        snap.Form,
		EditTarget:  snap.EditTarget,
	}
	p.Error = snap.Error
	p.Notice = snap.Notice

	for _, opt := range dashboard.Windows {
		p.Windows = append(p.Windows, windowLink{
			Label:  opt.Label,
			Href:   withQuery("/", filter.WithWindow(opt.Window).Encode()),
			Active: opt.Window == filter.Window,
		})
	}
	return p
}

// Refresh handles POST /refresh.
func (s *Server) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := s.View.Refresh(r.Context()); err != nil && !errors.Is(err, dashboard.ErrNotReady) {
		slog.Error("failed to refresh transfers", "error", err)
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// returnTo is the dashboard location to go back to after an action, keeping
// the filter the user was looking at.
func returnTo(r *http.Request) string {
	q, err := url.ParseQuery(r.FormValue("return"))
	if err != nil {
		return "/"
	}
	return withQuery("/", dashboard.ParseFilter(q).Encode())
}

func withQuery(path, query string) string {
	if query == "" {
		return path
	}
	return path + "?" + query
}
