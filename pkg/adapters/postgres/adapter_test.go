package postgres

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/leapstack-labs/modelsync/pkg/adapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	tests := []struct {
		name string
		cfg  adapter.Config
		want string
	}{
		{
			name: "defaults",
			cfg:  adapter.Config{Database: "app"},
			want: "host=localhost port=5432 dbname=app sslmode=disable",
		},
		{
			name: "full",
			cfg: adapter.Config{
				Host:     "db.example.com",
				Port:     5433,
				Database: "app",
				Username: "jane",
				Password: "secret",
				Options:  map[string]string{"sslmode": "require"},
			},
			want: "host=db.example.com port=5433 dbname=app sslmode=require user=jane password=secret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildDSN(tt.cfg))
		})
	}
}

func TestAdapter_ListTables(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := New(nil)
	a.DB = db

	mock.ExpectQuery("SELECT table_name").WillReturnRows(
		sqlmock.NewRows([]string{"table_name"}).AddRow("posts").AddRow("users"))

	tables, err := a.ListTables(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"posts", "users"}, tables)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_TableMetadata(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	a := New(nil)
	a.DB = db

	mock.ExpectQuery("SELECT(.|\n)*FROM information_schema.columns").
		WithArgs("users").
		WillReturnRows(sqlmock.NewRows(
			[]string{"column_name", "data_type", "is_nullable", "ordinal_position", "is_primary"}).
			AddRow("id", "bigint", "NO", 1, true).
			AddRow("username", "character varying", "NO", 2, false).
			AddRow("birthday", "date", "YES", 3, false))

	meta, err := a.TableMetadata(context.Background(), "users")
	require.NoError(t, err)
	require.Len(t, meta.Columns, 3)
	assert.True(t, meta.Columns[0].PrimaryKey)
	assert.False(t, meta.Columns[1].Nullable)
	assert.True(t, meta.Columns[2].Nullable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdapter_Registered(t *testing.T) {
	assert.True(t, adapter.IsRegistered("postgres"))
	assert.Equal(t, "postgres", New(nil).DialectName())
}
