package adapthttp

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"inventory/internal/app"
	"inventory/internal/domain"
	"inventory/internal/metrics"
)

// resourceHandlers serves the CRUD routes of a single resource kind.
type resourceHandlers struct {
	s   *Server
	svc *app.ResourceService
}

type rowView struct {
	Kind    domain.Kind
	Row     domain.Resource
	CanEdit bool
}

type listView struct {
	Kind      domain.Kind
	Rows      []rowView
	CanCreate bool
}

// editView carries raw form values so a rejected edit is shown as typed.
type editView struct {
	Kind     domain.Kind
	ID       string
	Name     string
	Quantity string
	Attrs    map[string]string
	Error    string
}

func newEditView(kind domain.Kind, id string, form url.Values) editView {
	v := editView{
		Kind:     kind,
		ID:       id,
		Name:     form.Get("name"),
		Quantity: form.Get("quantity"),
		Attrs:    make(map[string]string, len(kind.Columns)),
	}
	for _, c := range kind.Columns {
		v.Attrs[c.Name] = form.Get(c.Name)
	}
	return v
}

func (h resourceHandlers) list(w http.ResponseWriter, r *http.Request) {
	who := identityFrom(r.Context())
	rows, err := h.svc.List(r.Context())
	if err != nil {
		h.s.serverError(w, r, "list resources", err)
		return
	}
	canEdit := domain.Can(who, domain.ActionEditResource)
	view := listView{
		Kind:      h.svc.Kind(),
		Rows:      make([]rowView, 0, len(rows)),
		CanCreate: domain.Can(who, domain.ActionCreateResource),
	}
	for _, row := range rows {
		view.Rows = append(view.Rows, rowView{Kind: h.svc.Kind(), Row: row, CanEdit: canEdit})
	}
	h.s.renderFragment(w, r, http.StatusOK, "resource_list", view)
}

// get renders one row; an unknown id renders nothing.
func (h resourceHandlers) get(w http.ResponseWriter, r *http.Request) {
	row, err := h.svc.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.s.serverError(w, r, "get resource", err)
		return
	}
	if row == nil {
		w.WriteHeader(http.StatusOK)
		return
	}
	h.s.renderFragment(w, r, http.StatusOK, "resource_row", rowView{
		Kind:    h.svc.Kind(),
		Row:     *row,
		CanEdit: domain.Can(identityFrom(r.Context()), domain.ActionEditResource),
	})
}

func (h resourceHandlers) create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	kind := h.svc.Kind()
	fields, err := domain.ParseFields(kind, r.PostForm)
	if err != nil {
		h.s.resourceError(w, r, err)
		return
	}
	if _, err := h.svc.Create(r.Context(), identityFrom(r.Context()), fields); err != nil {
		h.s.resourceError(w, r, err)
		return
	}
	metrics.RecordMutation(kind.Slug, "create")
	redirect(w, r, "/?tab="+url.QueryEscape(kind.Slug))
}

// editForm renders the inline edit form from the posted values. Nothing is
// persisted.
func (h resourceHandlers) editForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	id := strings.TrimSpace(r.PostForm.Get("id"))
	if id == "" {
		h.s.renderError(w, r, "missing id")
		return
	}
	h.s.renderFragment(w, r, http.StatusOK, "resource_edit", newEditView(h.svc.Kind(), id, r.PostForm))
}

func (h resourceHandlers) update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	kind := h.svc.Kind()
	id := r.PathValue("id")

	fields, err := domain.ParseFields(kind, r.PostForm)
	if err == nil {
		var row *domain.Resource
		row, err = h.svc.Update(r.Context(), identityFrom(r.Context()), id, fields)
		if err == nil {
			metrics.RecordMutation(kind.Slug, "update")
			h.s.renderFragment(w, r, http.StatusOK, "resource_row", rowView{Kind: kind, Row: *row, CanEdit: true})
			return
		}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		view := newEditView(kind, id, r.PostForm)
		view.Error = ve.Message
		h.s.renderFragment(w, r, http.StatusOK, "resource_edit", view)
		return
	}
	h.s.resourceError(w, r, err)
}

func (h resourceHandlers) remove(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), identityFrom(r.Context()), r.PathValue("id")); err != nil {
		h.s.resourceError(w, r, err)
		return
	}
	metrics.RecordMutation(h.svc.Kind().Slug, "delete")
	w.WriteHeader(http.StatusOK)
}

// resourceError maps a service error onto the response.
func (s *Server) resourceError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		s.renderError(w, r, ve.Message)
	case errors.Is(err, app.ErrForbidden):
		writeForbidden(w)
	case errors.Is(err, domain.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	default:
		s.serverError(w, r, "resource operation", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	s.log.ErrorContext(r.Context(), msg, "error", err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}
