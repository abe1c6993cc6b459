// Package mapper converts between model descriptors plus database rows and
// typed in-memory instances. All validation happens before any SQL is
// issued, so a failed create or save leaves the database unchanged.
package mapper

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/leapstack-labs/modelsync/pkg/adapter"
	"github.com/leapstack-labs/modelsync/pkg/model"
)

// Mapper performs create/read/save/delete operations for model instances
// over one connection facade.
type Mapper struct {
	conn   adapter.Adapter
	logger *slog.Logger
}

// New creates a mapper for the given connection.
// If logger is nil, a discard logger is used.
func New(conn adapter.Adapter, logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Mapper{conn: conn, logger: logger}
}

// Create validates values against the descriptor, inserts a row and returns
// a persisted instance carrying the generated identity. Unknown fields fail
// with UnknownFieldError, missing or mistyped non-nullables with
// ValidationError; either way no row is written.
func (m *Mapper) Create(ctx context.Context, desc *model.Descriptor, values map[string]any) (*Instance, error) {
	inst := NewInstance(desc)
	for name, v := range values {
		if err := inst.Set(name, v); err != nil {
			return nil, err
		}
	}
	if err := m.Insert(ctx, inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// Insert writes a transient instance to the database, assigns the generated
// identity and transitions it to Persisted. Every non-nullable field must
// hold a value.
func (m *Mapper) Insert(ctx context.Context, inst *Instance) error {
	if inst.state != StateTransient {
		return &StateError{Op: "insert", State: inst.state}
	}

	desc := inst.desc
	fields := desc.Fields()
	for _, f := range fields {
		if !f.Type.Nullable && inst.values[f.Name] == nil {
			return &ValidationError{Model: desc.Name(), Field: f.Name, Reason: "required field is missing"}
		}
	}

	cols := make([]string, 0, len(fields))
	marks := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		cols = append(cols, fmt.Sprintf("%q", f.Name))
		marks = append(marks, m.placeholder(i+1))
		args = append(args, encode(inst.values[f.Name]))
	}

	var stmt string
	if len(cols) == 0 {
		stmt = fmt.Sprintf("INSERT INTO %q DEFAULT VALUES", desc.Table())
	} else {
		stmt = fmt.Sprintf("INSERT INTO %q (%s) VALUES (%s)",
			desc.Table(), strings.Join(cols, ", "), strings.Join(marks, ", "))
	}

	// The insert runs in a transaction so a failure after partial driver
	// work never leaves a row behind.
	var id int64
	err := m.conn.Tx(ctx, func(tx *sql.Tx) error {
		if m.conn.DialectName() == "postgres" {
			returning := stmt + fmt.Sprintf(" RETURNING %q", model.IdentityColumn)
			return tx.QueryRowContext(ctx, returning, args...).Scan(&id)
		}
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return fmt.Errorf("insert into %s: %w", desc.Table(), err)
	}

	inst.id = id
	inst.state = StatePersisted

	m.logger.Debug("created instance",
		slog.String("model", desc.Name()), slog.Int64("id", id))
	return nil
}

// FindByID loads a persisted instance by identity. ErrNotFound when no row
// matches.
func (m *Mapper) FindByID(ctx context.Context, desc *model.Descriptor, id int64) (*Instance, error) {
	fields := desc.Fields()
	cols := make([]string, 0, len(fields)+1)
	cols = append(cols, fmt.Sprintf("%q", model.IdentityColumn))
	for _, f := range fields {
		cols = append(cols, fmt.Sprintf("%q", f.Name))
	}

	stmt := fmt.Sprintf("SELECT %s FROM %q WHERE %q = %s",
		strings.Join(cols, ", "), desc.Table(), model.IdentityColumn, m.placeholder(1))

	row := m.conn.QueryRow(ctx, stmt, id)
	if row == nil {
		return nil, &adapter.ConnectionError{Err: fmt.Errorf("database connection not established")}
	}

	dest := make([]any, len(fields)+1)
	var gotID int64
	dest[0] = &gotID
	raw := make([]any, len(fields))
	for i := range fields {
		dest[i+1] = &raw[i]
	}

	if err := row.Scan(dest...); err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select from %s: %w", desc.Table(), err)
	}

	values := make(map[string]any, len(fields))
	for i, f := range fields {
		v, err := decode(f.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("column %s of %s: %w", f.Name, desc.Table(), err)
		}
		values[f.Name] = v
	}

	return &Instance{desc: desc, id: gotID, values: values, state: StatePersisted}, nil
}

// Save writes an instance's current field values back to its row. Only
// persisted instances can be saved.
func (m *Mapper) Save(ctx context.Context, inst *Instance) error {
	if inst.state != StatePersisted {
		return &StateError{Op: "save", State: inst.state}
	}

	fields := inst.desc.Fields()
	if len(fields) == 0 {
		return nil
	}

	sets := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for i, f := range fields {
		sets = append(sets, fmt.Sprintf("%q = %s", f.Name, m.placeholder(i+1)))
		args = append(args, encode(inst.values[f.Name]))
	}
	args = append(args, inst.id)

	stmt := fmt.Sprintf("UPDATE %q SET %s WHERE %q = %s",
		inst.desc.Table(), strings.Join(sets, ", "),
		model.IdentityColumn, m.placeholder(len(fields)+1))

	if err := m.conn.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update %s: %w", inst.desc.Table(), err)
	}

	m.logger.Debug("saved instance",
		slog.String("model", inst.desc.Name()), slog.Int64("id", inst.id))
	return nil
}

// Delete removes an instance's row and moves it to the terminal Deleted
// state. An instance that was never created cannot be deleted.
func (m *Mapper) Delete(ctx context.Context, inst *Instance) error {
	if inst.state != StatePersisted {
		return &StateError{Op: "delete", State: inst.state}
	}

	stmt := fmt.Sprintf("DELETE FROM %q WHERE %q = %s",
		inst.desc.Table(), model.IdentityColumn, m.placeholder(1))

	if err := m.conn.Exec(ctx, stmt, inst.id); err != nil {
		return fmt.Errorf("delete from %s: %w", inst.desc.Table(), err)
	}

	inst.state = StateDeleted
	m.logger.Debug("deleted instance",
		slog.String("model", inst.desc.Name()), slog.Int64("id", inst.id))
	return nil
}

// placeholder returns the dialect's parameter marker for position n.
func (m *Mapper) placeholder(n int) string {
	if m.conn.DialectName() == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// encode converts a normalized in-memory value to its storage form.
func encode(v any) any {
	if t, ok := v.(time.Time); ok {
		return t.Format(model.DateFormat)
	}
	return v
}

// decode converts a raw driver value back to the normalized in-memory form
// for its field type.
func decode(ft model.FieldType, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}

	switch ft.Kind {
	case model.KindString, model.KindText:
		switch s := raw.(type) {
		case string:
			return s, nil
		case []byte:
			return string(s), nil
		}
	case model.KindDate:
		switch d := raw.(type) {
		case time.Time:
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		case string:
			return time.Parse(model.DateFormat, d)
		case []byte:
			return time.Parse(model.DateFormat, string(d))
		}
	case model.KindInteger:
		if n, ok := raw.(int64); ok {
			return n, nil
		}
	case model.KindBoolean:
		switch b := raw.(type) {
		case bool:
			return b, nil
		case int64:
			return b != 0, nil
		}
	}
	return nil, fmt.Errorf("unexpected driver value %T for %s field", raw, ft.Kind)
}
