package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

// ErrNotFound indicates that the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError describes user input rejected before reaching storage.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValueType is the storage type of a kind-specific column.
type ValueType int

const (
	TypeNumber ValueType = iota
	TypeText
)

// Column declares one kind-specific attribute of a resource.
type Column struct {
	// Name is both the form field name and the SQL column name.
	Name        string
	Label       string
	Type        ValueType
	Placeholder string
}

// Kind is the declarative description of a tabular resource. The CRUD
// engine, the storage adapters and the HTML views are all driven by it.
type Kind struct {
	Slug    string
	Title   string
	Table   string
	Columns []Column
}

// Resource is one stored row of a Kind. Attrs holds a float64, a string or
// nil (unset) for every column of the kind.
type Resource struct {
	ID       string
	Name     string
	Quantity int64
	Attrs    map[string]any
}

// Attr returns the display text for the named attribute.
func (r Resource) Attr(name string) string {
	return FormatValue(r.Attrs[name])
}

// Fields is the full, validated set of writable values of a resource.
type Fields struct {
	Name     string
	Quantity int64
	Attrs    map[string]any
}

// ResourceRepository is the port for resource persistence. Every method is
// parameterized by the Kind it operates on.
type ResourceRepository interface {
	ListResources(ctx context.Context, kind Kind) ([]Resource, error)
	CreateResource(ctx context.Context, kind Kind, id string, f Fields) (*Resource, error)
	// GetResource returns (nil, nil) when id does not exist.
	GetResource(ctx context.Context, kind Kind, id string) (*Resource, error)
	// UpdateResource replaces every column of the row; (nil, nil) means no
	// such id.
	UpdateResource(ctx context.Context, kind Kind, id string, f Fields) (*Resource, error)
	DeleteResource(ctx context.Context, kind Kind, id string) error
}

// ParseFields validates form input against the kind's schema.
func ParseFields(kind Kind, form url.Values) (Fields, error) {
	f := Fields{
		Name:  strings.TrimSpace(form.Get("name")),
		Attrs: make(map[string]any, len(kind.Columns)),
	}
	if f.Name == "" {
		return Fields{}, &ValidationError{Field: "name", Message: "name can't be empty"}
	}

	q := strings.TrimSpace(form.Get("quantity"))
	if q == "" {
		return Fields{}, &ValidationError{Field: "quantity", Message: "quantity is required"}
	}
	n, err := strconv.ParseInt(q, 10, 64)
	if err != nil {
		return Fields{}, &ValidationError{Field: "quantity", Message: "quantity must be a whole number"}
	}
	if n < 0 {
		return Fields{}, &ValidationError{Field: "quantity", Message: "quantity must not be negative"}
	}
	f.Quantity = n

	for _, c := range kind.Columns {
		raw := strings.TrimSpace(form.Get(c.Name))
		if raw == "" {
			f.Attrs[c.Name] = nil
			continue
		}
		switch c.Type {
		case TypeNumber:
			v, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return Fields{}, &ValidationError{Field: c.Name, Message: c.Label + " must be a number"}
			}
			f.Attrs[c.Name] = v
		case TypeText:
			f.Attrs[c.Name] = raw
		default:
			return Fields{}, fmt.Errorf("column %q: unknown value type %d", c.Name, c.Type)
		}
	}
	return f, nil
}

// FormatValue renders an attribute value for display and form inputs.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}
