package adapthttp

import (
	"errors"
	"net/http"

	"inventory/internal/app"
	"inventory/internal/domain"
)

type userRowView struct {
	User       domain.User
	Manageable bool
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	users, err := s.users.List(r.Context(), who)
	if err != nil {
		s.userError(w, r, err)
		return
	}
	rows := make([]userRowView, 0, len(users))
	for i := range users {
		rows = append(rows, userRowView{User: users[i], Manageable: domain.CanManageUser(who, &users[i])})
	}
	s.renderFragment(w, r, http.StatusOK, "user_list", rows)
}

func (s *Server) handleUserPromote(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	u, err := s.users.Promote(r.Context(), who, r.PathValue("id"))
	if err != nil {
		s.userError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "user promoted", "username", u.Username, "role", u.Role)
	s.renderFragment(w, r, http.StatusOK, "user_row", userRowView{User: *u, Manageable: domain.CanManageUser(who, u)})
}

func (s *Server) handleUserDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.users.Delete(r.Context(), identityFrom(r.Context()), id); err != nil {
		s.userError(w, r, err)
		return
	}
	s.log.InfoContext(r.Context(), "user deleted", "id", id)
	w.WriteHeader(http.StatusOK)
}

func (s *Server) userError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrForbidden):
		writeForbidden(w)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		s.serverError(w, r, "user operation", err)
	}
}
