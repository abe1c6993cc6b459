// Package model provides field type declarations, model descriptors and the
// model registry. Descriptors are declared once at startup and are immutable
// afterward; the registry is the single source of truth for which models
// exist in a process.
package model

import (
	"fmt"
	"strings"
	"time"
)

// FieldKind enumerates the closed set of supported field types.
type FieldKind int

const (
	KindString FieldKind = iota
	KindText
	KindDate
	KindInteger
	KindBoolean
)

// String returns the lowercase name of the kind, as used in schema files.
func (k FieldKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindText:
		return "text"
	case KindDate:
		return "date"
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	default:
		return fmt.Sprintf("FieldKind(%d)", int(k))
	}
}

// ParseKind resolves a type name from a schema file to a FieldKind.
func ParseKind(name string) (FieldKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "string":
		return KindString, nil
	case "text":
		return KindText, nil
	case "date":
		return KindDate, nil
	case "integer", "int":
		return KindInteger, nil
	case "boolean", "bool":
		return KindBoolean, nil
	default:
		return 0, fmt.Errorf("unknown field type %q", name)
	}
}

// Reference declares that a field points at another model's identity.
// Column defaults to the identity column when empty.
type Reference struct {
	Model  string
	Column string
}

// FieldType describes a field's kind and validation metadata.
// Immutable once declared.
type FieldType struct {
	Kind     FieldKind
	Nullable bool
	Ref      *Reference
}

// Field is one named, typed field in declaration order.
type Field struct {
	Name string
	Type FieldType
}

// DateFormat is the wire format for date values.
const DateFormat = "2006-01-02"

// Coerce validates v against ft and returns the normalized in-memory value:
// string for String/Text, time.Time (UTC, midnight) for Date, int64 for
// Integer, bool for Boolean, nil when nullable. Values outside the closed
// set are rejected here so nothing unchecked reaches the database.
func Coerce(ft FieldType, v any) (any, error) {
	if v == nil {
		if !ft.Nullable {
			return nil, fmt.Errorf("null value for non-nullable %s field", ft.Kind)
		}
		return nil, nil
	}

	switch ft.Kind {
	case KindString, KindText:
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("expected string, got %T", v)
		}
		return s, nil

	case KindDate:
		switch d := v.(type) {
		case time.Time:
			return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC), nil
		case string:
			t, err := time.Parse(DateFormat, d)
			if err != nil {
				return nil, fmt.Errorf("expected %s date, got %q", DateFormat, d)
			}
			return t, nil
		default:
			return nil, fmt.Errorf("expected date, got %T", v)
		}

	case KindInteger:
		switch n := v.(type) {
		case int:
			return int64(n), nil
		case int8:
			return int64(n), nil
		case int16:
			return int64(n), nil
		case int32:
			return int64(n), nil
		case int64:
			return n, nil
		case uint:
			return int64(n), nil
		case uint8:
			return int64(n), nil
		case uint16:
			return int64(n), nil
		case uint32:
			return int64(n), nil
		default:
			return nil, fmt.Errorf("expected integer, got %T", v)
		}

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("expected boolean, got %T", v)
		}
		return b, nil

	default:
		return nil, fmt.Errorf("unsupported field kind %v", ft.Kind)
	}
}
