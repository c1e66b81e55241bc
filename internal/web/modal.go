package web

import (
	"log/slog"
	"net/http"
)

// The transfer modal is server state held by the view. Opening or closing it
// changes that state and redirects back to the dashboard, which renders the
// "modal" partial while a form is open.

// ModalCreate handles POST /modal/create.
func (s *Server) ModalCreate(w http.ResponseWriter, r *http.Request) {
	if err := s.View.OpenCreate(); err != nil {
		slog.Warn("cannot open create form", "error", err)
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// ModalEdit handles POST /transfers/{id}/edit.
func (s *Server) ModalEdit(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.View.OpenEdit(id); err != nil {
		slog.Warn("cannot open edit form", "id", id, "error", err)
	}
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}

// ModalClose handles POST /modal/close.
func (s *Server) ModalClose(w http.ResponseWriter, r *http.Request) {
	s.View.CloseModal()
	http.Redirect(w, r, returnTo(r), http.StatusSeeOther)
}
