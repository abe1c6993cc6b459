package model

import (
	"strings"
	"unicode"
)

// IdentityColumn is the auto-generated primary key column injected into
// every descriptor. Callers never declare it.
const IdentityColumn = "id"

// Descriptor is the immutable declaration of a model's shape: a name, a
// derived table name, and fields in declaration order. The identity column
// is implicit and not part of Fields.
type Descriptor struct {
	name   string
	table  string
	fields []Field
}

// Name returns the model name.
func (d *Descriptor) Name() string { return d.name }

// Table returns the database table name for this model.
func (d *Descriptor) Table() string { return d.table }

// Fields returns the declared fields in declaration order.
// The returned slice is a copy.
func (d *Descriptor) Fields() []Field {
	out := make([]Field, len(d.fields))
	copy(out, d.fields)
	return out
}

// Field looks up a declared field by name. The identity column is not a
// declared field and reports false.
func (d *Descriptor) Field(name string) (FieldType, bool) {
	for _, f := range d.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return FieldType{}, false
}

// References returns the names of models this descriptor's fields point at.
func (d *Descriptor) References() []string {
	var refs []string
	for _, f := range d.fields {
		if f.Type.Ref != nil {
			refs = append(refs, f.Type.Ref.Model)
		}
	}
	return refs
}

// TableName derives a table name from a model name: snake_case, pluralized.
// "User" becomes "users", "UserProfile" becomes "user_profiles".
func TableName(model string) string {
	return pluralize(toSnake(model))
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func pluralize(s string) string {
	switch {
	case s == "":
		return s
	case strings.HasSuffix(s, "s"), strings.HasSuffix(s, "x"),
		strings.HasSuffix(s, "z"), strings.HasSuffix(s, "ch"),
		strings.HasSuffix(s, "sh"):
		return s + "es"
	case strings.HasSuffix(s, "y") && len(s) > 1 && !isVowel(s[len(s)-2]):
		return s[:len(s)-1] + "ies"
	default:
		return s + "s"
	}
}

func isVowel(c byte) bool {
	switch c {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
