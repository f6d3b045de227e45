package app

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"inventory/internal/domain"
)

// ResourceService is the CRUD engine for one resource kind. The same type is
// instantiated once per kind; only the kind's schema differs.
type ResourceService struct {
	kind domain.Kind
	repo domain.ResourceRepository
}

// NewResourceService creates a ResourceService for kind backed by repo.
func NewResourceService(kind domain.Kind, repo domain.ResourceRepository) *ResourceService {
	return &ResourceService{kind: kind, repo: repo}
}

// Kind returns the schema this service operates on.
func (s *ResourceService) Kind() domain.Kind {
	return s.kind
}

// List returns every row of the kind.
func (s *ResourceService) List(ctx context.Context) ([]domain.Resource, error) {
	return s.repo.ListResources(ctx, s.kind)
}

// Get returns the row with id, or nil when there is none.
func (s *ResourceService) Get(ctx context.Context, id string) (*domain.Resource, error) {
	return s.repo.GetResource(ctx, s.kind, id)
}

// Create validates f and stores it as a new row with a fresh id.
func (s *ResourceService) Create(ctx context.Context, who domain.Identity, f domain.Fields) (*domain.Resource, error) {
	if !domain.Can(who, domain.ActionCreateResource) {
		return nil, ErrForbidden
	}
	if err := s.validate(f); err != nil {
		return nil, err
	}
	return s.repo.CreateResource(ctx, s.kind, uuid.NewString(), s.complete(f))
}

// Update replaces every column of the row with id. It returns
// domain.ErrNotFound when the row does not exist.
func (s *ResourceService) Update(ctx context.Context, who domain.Identity, id string, f domain.Fields) (*domain.Resource, error) {
	if !domain.Can(who, domain.ActionEditResource) {
		return nil, ErrForbidden
	}
	if err := s.validate(f); err != nil {
		return nil, err
	}
	r, err := s.repo.UpdateResource(ctx, s.kind, id, s.complete(f))
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// Delete removes the row with id. Deleting a missing row is not an error.
func (s *ResourceService) Delete(ctx context.Context, who domain.Identity, id string) error {
	if !domain.Can(who, domain.ActionDeleteResource) {
		return ErrForbidden
	}
	return s.repo.DeleteResource(ctx, s.kind, id)
}

func (s *ResourceService) validate(f domain.Fields) error {
	if strings.TrimSpace(f.Name) == "" {
		return &domain.ValidationError{Field: "name", Message: "name can't be empty"}
	}
	if f.Quantity < 0 {
		return &domain.ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}
	for name := range f.Attrs {
		if !s.hasColumn(name) {
			return &domain.ValidationError{Field: name, Message: "unknown attribute"}
		}
	}
	return nil
}

func (s *ResourceService) hasColumn(name string) bool {
	for _, c := range s.kind.Columns {
		if c.Name == name {
			return true
		}
	}
	return false
}

// complete returns f with an entry for every column so that stores always
// write the full row.
func (s *ResourceService) complete(f domain.Fields) domain.Fields {
	attrs := make(map[string]any, len(s.kind.Columns))
	for _, c := range s.kind.Columns {
		attrs[c.Name] = f.Attrs[c.Name]
	}
	f.Attrs = attrs
	return f
}

// IsValidation reports whether err is a user input validation failure.
func IsValidation(err error) bool {
	var ve *domain.ValidationError
	return errors.As(err, &ve)
}
