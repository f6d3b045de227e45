package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/lib/pq"

	"inventory/internal/domain"
)

// resourceSQL holds the statements for one kind, derived from its schema.
type resourceSQL struct {
	list, insert, get, update, del string
}

// statementCache maps a table name to its resourceSQL.
var statementCache sync.Map

// statementsFor returns the statements for kind, building them on first use.
func statementsFor(kind domain.Kind) resourceSQL {
	if s, ok := statementCache.Load(kind.Table); ok {
		return s.(resourceSQL)
	}
	s, _ := statementCache.LoadOrStore(kind.Table, buildStatements(kind))
	return s.(resourceSQL)
}

func buildStatements(kind domain.Kind) resourceSQL {
	table := pq.QuoteIdentifier(kind.Table)

	cols := []string{pq.QuoteIdentifier("id"), pq.QuoteIdentifier("name"), pq.QuoteIdentifier("quantity")}
	for _, c := range kind.Columns {
		cols = append(cols, pq.QuoteIdentifier(c.Name))
	}
	selectList := strings.Join(cols, ", ")

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// Every column but id is rewritten on update; id binds last.
	assignments := make([]string, 0, len(cols)-1)
	for i, c := range cols[1:] {
		assignments = append(assignments, fmt.Sprintf("%s = $%d", c, i+1))
	}

	return resourceSQL{
		list:   "SELECT " + selectList + " FROM " + table,
		insert: "INSERT INTO " + table + " (" + selectList + ") VALUES (" + strings.Join(placeholders, ", ") + ") RETURNING " + selectList,
		get:    "SELECT " + selectList + " FROM " + table + " WHERE " + cols[0] + " = $1",
		update: "UPDATE " + table + " SET " + strings.Join(assignments, ", ") +
			fmt.Sprintf(" WHERE %s = $%d", cols[0], len(cols)) + " RETURNING " + selectList,
		del: "DELETE FROM " + table + " WHERE " + cols[0] + " = $1",
	}
}

// attrArgs returns the kind-specific column values of f in schema order.
func attrArgs(kind domain.Kind, f domain.Fields) []any {
	args := make([]any, 0, len(kind.Columns))
	for _, c := range kind.Columns {
		args = append(args, f.Attrs[c.Name])
	}
	return args
}

func scanResource(kind domain.Kind, row interface{ Scan(...any) error }) (*domain.Resource, error) {
	r := domain.Resource{Attrs: make(map[string]any, len(kind.Columns))}
	dest := []any{&r.ID, &r.Name, &r.Quantity}

	nums := make([]sql.NullFloat64, len(kind.Columns))
	texts := make([]sql.NullString, len(kind.Columns))
	for i, c := range kind.Columns {
		switch c.Type {
		case domain.TypeNumber:
			dest = append(dest, &nums[i])
		case domain.TypeText:
			dest = append(dest, &texts[i])
		default:
			return nil, fmt.Errorf("column %q: unknown value type %d", c.Name, c.Type)
		}
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, c := range kind.Columns {
		r.Attrs[c.Name] = nil
		switch c.Type {
		case domain.TypeNumber:
			if nums[i].Valid {
				r.Attrs[c.Name] = nums[i].Float64
			}
		case domain.TypeText:
			if texts[i].Valid {
				r.Attrs[c.Name] = texts[i].String
			}
		}
	}
	return &r, nil
}

// ListResources returns every row of kind.
func (d *DB) ListResources(ctx context.Context, kind domain.Kind) ([]domain.Resource, error) {
	rows, err := d.sql.QueryContext(ctx, statementsFor(kind).list)
	if err != nil {
		return nil, err
	}
	defer rows.Close() //nolint:errcheck

	out := make([]domain.Resource, 0)
	for rows.Next() {
		r, err := scanResource(kind, rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

// CreateResource inserts a row and returns it as stored.
func (d *DB) CreateResource(ctx context.Context, kind domain.Kind, id string, f domain.Fields) (*domain.Resource, error) {
	args := append([]any{id, f.Name, f.Quantity}, attrArgs(kind, f)...)
	return scanResource(kind, d.sql.QueryRowContext(ctx, statementsFor(kind).insert, args...))
}

// GetResource returns the row with id, or nil if there is none.
func (d *DB) GetResource(ctx context.Context, kind domain.Kind, id string) (*domain.Resource, error) {
	r, err := scanResource(kind, d.sql.QueryRowContext(ctx, statementsFor(kind).get, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// UpdateResource replaces every column of the row with id in one statement.
func (d *DB) UpdateResource(ctx context.Context, kind domain.Kind, id string, f domain.Fields) (*domain.Resource, error) {
	args := append([]any{f.Name, f.Quantity}, attrArgs(kind, f)...)
	args = append(args, id)
	r, err := scanResource(kind, d.sql.QueryRowContext(ctx, statementsFor(kind).update, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return r, err
}

// DeleteResource removes the row with id. Missing rows are not an error.
func (d *DB) DeleteResource(ctx context.Context, kind domain.Kind, id string) error {
	_, err := d.sql.ExecContext(ctx, statementsFor(kind).del, id)
	return err
}
