package web

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/erazemk/transferhub/internal/dashboard"
	"github.com/erazemk/transferhub/internal/export"
	"github.com/erazemk/transferhub/internal/model"
)

// TransferCreateSubmit handles POST /transfers.
func (s *Server) TransferCreateSubmit(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, dashboard.ModeCreate, "")
}

// TransferUpdateSubmit handles POST /transfers/{id}.
func (s *Server) TransferUpdateSubmit(w http.ResponseWriter, r *http.Request) {
	s.submit(w, r, dashboard.ModeEdit, r.PathValue("id"))
}

// submit saves the open form. On failure the form stays open with its values
// and message, so the redirect shows it again.
func (s *Server) submit(w http.ResponseWriter, r *http.Request, mode dashboard.Mode, id string) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	err := s.View.SubmitForm(r.Context(), mode, id, r.PostForm)
	switch {
	case err == nil:
	case errors.Is(err, dashboard.ErrSaveFailed):
		// Message is on the form.
	default:
		slog.Warn("transfer form rejected", "mode", mode, "id", id, "error", err)
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

type deletePage struct {
	PageData
	Transfer model.Transfer
	Return   string
}

// TransferDeletePage handles GET /transfers/{id}/delete.
func (s *Server) TransferDeletePage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	t, err := s.View.Transfer(id)
	switch {
	case errors.Is(err, dashboard.ErrNotFound):
		http.NotFound(w, r)
		return
	case err != nil:
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	ret := r.URL.Query().Get("return")
	s.Templates.Render(w, "delete.html", &deletePage{
		PageData: s.page("Delete transfer"),
		Transfer: t,
		Return:   ret,
	})
}

// TransferDeleteSubmit handles POST /transfers/{id}/delete. The transfer is
// only deleted when the form carries confirm=yes.
func (s *Server) TransferDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	confirmed := r.FormValue("confirm") == "yes"

	err := s.View.Delete(r.Context(), id, confirmed)
	switch {
	case err == nil, errors.Is(err, dashboard.ErrNotConfirmed):
	case errors.Is(err, dashboard.ErrNotFound):
		http.NotFound(w, r)
		return
	default:
		// The view keeps the notice for the next render.
		slog.Warn("delete did not complete", "id", id, "error", err)
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// Manifest handles GET /transfers/manifest.pdf, rendering the rows the
// dashboard currently shows for the same filter.
func (s *Server) Manifest(w http.ResponseWriter, r *http.Request) {
	snap := s.View.Snapshot()
	if snap.State != dashboard.StateReady {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	now := s.now()
	filter := dashboard.ParseFilter(r.URL.Query())
	rows := filter.Apply(snap.Transfers, now, s.Location)

	var buf bytes.Buffer
	if err := export.Manifest(&buf, "Guest transfers", rows, s.Location, now); err != nil {
		slog.Error("failed to render manifest", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	name := fmt.Sprintf("transfers-%s.pdf", now.In(s.Location).Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	w.Header().Set("Cache-Control", "no-store")
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("failed to write manifest", "error", err)
	}
}
