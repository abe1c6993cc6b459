package sync

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/modelsync/pkg/model"
)

// CreateTableSQL renders the CREATE TABLE statement for a descriptor in the
// given dialect. The identity column always comes first.
func CreateTableSQL(desc *model.Descriptor, dialect string) (string, error) {
	var cols []string

	switch dialect {
	case "sqlite":
		cols = append(cols, fmt.Sprintf("%q INTEGER PRIMARY KEY AUTOINCREMENT", model.IdentityColumn))
	case "postgres":
		cols = append(cols, fmt.Sprintf("%q BIGSERIAL PRIMARY KEY", model.IdentityColumn))
	default:
		return "", fmt.Errorf("unsupported dialect %q", dialect)
	}

	for _, f := range desc.Fields() {
		col := fmt.Sprintf("%q %s", f.Name, columnType(f.Type, dialect))
		if !f.Type.Nullable {
			col += " NOT NULL"
		}
		if ref := f.Type.Ref; ref != nil {
			col += fmt.Sprintf(" REFERENCES %q (%q)", model.TableName(ref.Model), ref.Column)
		}
		cols = append(cols, col)
	}

	return fmt.Sprintf("CREATE TABLE %q (%s)", desc.Table(), strings.Join(cols, ", ")), nil
}

// DropTableSQL renders the DROP TABLE statement for a table name.
func DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %q", table)
}

// columnType maps a field type to its SQL column type.
func columnType(ft model.FieldType, dialect string) string {
	if ft.Ref != nil {
		// Reference columns take the referenced identity's integer type.
		if dialect == "postgres" {
			return "BIGINT"
		}
		return "INTEGER"
	}

	switch ft.Kind {
	case model.KindString:
		return "VARCHAR(255)"
	case model.KindText:
		return "TEXT"
	case model.KindDate:
		return "DATE"
	case model.KindInteger:
		if dialect == "postgres" {
			return "BIGINT"
		}
		return "INTEGER"
	case model.KindBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}
