package mapper

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/leapstack-labs/modelsync/pkg/adapter"
	_ "github.com/leapstack-labs/modelsync/pkg/adapters/sqlite"
	"github.com/leapstack-labs/modelsync/pkg/model"
	"github.com/leapstack-labs/modelsync/pkg/sync"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUsers opens an in-memory store with a synced User model.
func setupUsers(t *testing.T) (adapter.Adapter, *model.Descriptor, *Mapper) {
	t.Helper()

	conn, err := adapter.Open(context.Background(), "sqlite::memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	reg := model.NewRegistry()
	user, err := reg.Define("User", []model.Field{
		{Name: "username", Type: model.FieldType{Kind: model.KindString}},
		{Name: "birthday", Type: model.FieldType{Kind: model.KindDate, Nullable: true}},
	})
	require.NoError(t, err)

	_, err = sync.New(conn, reg, nil).Sync(context.Background(), sync.ModeReconcile)
	require.NoError(t, err)

	return conn, user, New(conn, nil)
}

func rowCount(t *testing.T, conn adapter.Adapter, table string) int {
	t.Helper()
	var n int
	require.NoError(t, conn.QueryRow(context.Background(), `SELECT COUNT(*) FROM "`+table+`"`).Scan(&n))
	return n
}

func TestMapper_CreateAndSerialize(t *testing.T) {
	_, user, m := setupUsers(t)
	ctx := context.Background()

	inst, err := m.Create(ctx, user, map[string]any{
		"username": "janedoe",
		"birthday": time.Date(1980, 7, 20, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	assert.Equal(t, StatePersisted, inst.State())
	assert.Equal(t, int64(1), inst.ID())

	snap := inst.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "id", snap[0].Name)
	assert.Equal(t, int64(1), snap[0].Value)
	assert.Equal(t, "username", snap[1].Name)
	assert.Equal(t, "janedoe", snap[1].Value)
	assert.Equal(t, "birthday", snap[2].Name)

	out, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"username":"janedoe","birthday":"1980-07-20"}`, string(out))
}

func TestMapper_SerializeDeterministic(t *testing.T) {
	_, user, m := setupUsers(t)

	inst, err := m.Create(context.Background(), user, map[string]any{"username": "janedoe"})
	require.NoError(t, err)

	first, err := json.Marshal(inst.Snapshot())
	require.NoError(t, err)
	second, err := json.Marshal(inst.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestMapper_CreateValidation(t *testing.T) {
	conn, user, m := setupUsers(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		values    map[string]any
		wantField string
		unknown   bool
	}{
		{
			name:      "missing required field",
			values:    map[string]any{"birthday": "1980-07-20"},
			wantField: "username",
		},
		{
			name:      "explicit null for required field",
			values:    map[string]any{"username": nil},
			wantField: "username",
		},
		{
			name:      "wrong type",
			values:    map[string]any{"username": 42},
			wantField: "username",
		},
		{
			name:      "unexpected field",
			values:    map[string]any{"username": "janedoe", "email": "j@example.com"},
			wantField: "email",
			unknown:   true,
		},
		{
			name:      "identity supplied by caller",
			values:    map[string]any{"username": "janedoe", "id": int64(7)},
			wantField: "id",
			unknown:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Create(ctx, user, tt.values)
			if tt.unknown {
				var unknownErr *UnknownFieldError
				require.ErrorAs(t, err, &unknownErr)
				assert.Equal(t, tt.wantField, unknownErr.Field)
			} else {
				var valErr *ValidationError
				require.ErrorAs(t, err, &valErr)
				assert.Equal(t, tt.wantField, valErr.Field)
			}
			// A failed create leaves the table unchanged.
			assert.Zero(t, rowCount(t, conn, "users"))
		})
	}
}

func TestMapper_FindByID(t *testing.T) {
	_, user, m := setupUsers(t)
	ctx := context.Background()

	created, err := m.Create(ctx, user, map[string]any{
		"username": "janedoe",
		"birthday": "1980-07-20",
	})
	require.NoError(t, err)

	found, err := m.FindByID(ctx, user, created.ID())
	require.NoError(t, err)
	assert.Equal(t, StatePersisted, found.State())
	assert.Equal(t, created.ID(), found.ID())

	username, ok := found.Get("username")
	require.True(t, ok)
	assert.Equal(t, "janedoe", username)

	birthday, ok := found.Get("birthday")
	require.True(t, ok)
	assert.Equal(t, time.Date(1980, 7, 20, 0, 0, 0, 0, time.UTC), birthday)

	_, err = m.FindByID(ctx, user, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMapper_SetAndSave(t *testing.T) {
	_, user, m := setupUsers(t)
	ctx := context.Background()

	inst, err := m.Create(ctx, user, map[string]any{"username": "janedoe"})
	require.NoError(t, err)

	require.NoError(t, inst.Set("username", "jane"))
	require.NoError(t, m.Save(ctx, inst))

	found, err := m.FindByID(ctx, user, inst.ID())
	require.NoError(t, err)
	username, _ := found.Get("username")
	assert.Equal(t, "jane", username)

	// Set validates against the field type.
	err = inst.Set("username", 42)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	err = inst.Set("email", "j@example.com")
	var unknownErr *UnknownFieldError
	require.ErrorAs(t, err, &unknownErr)
}

func TestMapper_StateMachine(t *testing.T) {
	conn, user, m := setupUsers(t)
	ctx := context.Background()

	// Transient instances cannot be deleted or saved.
	transient := NewInstance(user)
	require.NoError(t, transient.Set("username", "janedoe"))

	var stateErr *StateError
	require.ErrorAs(t, m.Delete(ctx, transient), &stateErr)
	require.ErrorAs(t, m.Save(ctx, transient), &stateErr)

	// Transient -> Persisted via insert.
	require.NoError(t, m.Insert(ctx, transient))
	assert.Equal(t, StatePersisted, transient.State())
	assert.Equal(t, 1, rowCount(t, conn, "users"))

	// Double insert is rejected.
	require.ErrorAs(t, m.Insert(ctx, transient), &stateErr)

	// Persisted -> Deleted is terminal.
	require.NoError(t, m.Delete(ctx, transient))
	assert.Equal(t, StateDeleted, transient.State())
	assert.Zero(t, rowCount(t, conn, "users"))

	require.ErrorAs(t, m.Delete(ctx, transient), &stateErr)
	require.ErrorAs(t, m.Save(ctx, transient), &stateErr)
	require.ErrorAs(t, transient.Set("username", "x"), &stateErr)
}

func TestMapper_InsertMissingRequired(t *testing.T) {
	conn, user, m := setupUsers(t)

	inst := NewInstance(user)
	err := m.Insert(context.Background(), inst)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "username", valErr.Field)
	assert.Equal(t, StateTransient, inst.State())
	assert.Zero(t, rowCount(t, conn, "users"))
}

func TestMapper_NullableRoundTrip(t *testing.T) {
	_, user, m := setupUsers(t)
	ctx := context.Background()

	inst, err := m.Create(ctx, user, map[string]any{"username": "janedoe"})
	require.NoError(t, err)

	found, err := m.FindByID(ctx, user, inst.ID())
	require.NoError(t, err)
	birthday, ok := found.Get("birthday")
	require.True(t, ok)
	assert.Nil(t, birthday)

	out, err := json.Marshal(found.Snapshot())
	require.NoError(t, err)
	assert.Equal(t, `{"id":1,"username":"janedoe","birthday":null}`, string(out))
}
