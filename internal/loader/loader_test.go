package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/modelsync/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogSchema = `
models:
  - name: User
    fields:
      - name: username
        type: string
      - name: birthday
        type: date
        nullable: true
  - name: Post
    fields:
      - name: title
        type: string
      - name: body
        type: text
        nullable: true
      - name: author
        type: integer
        references:
          model: User
`

func TestLoad(t *testing.T) {
	reg, err := Load([]byte(blogSchema))
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())

	user, ok := reg.Get("User")
	require.True(t, ok)
	assert.Equal(t, "users", user.Table())

	birthday, ok := user.Field("birthday")
	require.True(t, ok)
	assert.Equal(t, model.KindDate, birthday.Kind)
	assert.True(t, birthday.Nullable)

	post, ok := reg.Get("Post")
	require.True(t, ok)
	author, ok := post.Field("author")
	require.True(t, ok)
	require.NotNil(t, author.Ref)
	assert.Equal(t, "User", author.Ref.Model)
	assert.Equal(t, model.IdentityColumn, author.Ref.Column)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		schema  string
		wantErr string
	}{
		{
			name: "unknown type",
			schema: `
models:
  - name: User
    fields:
      - {name: username, type: varchar}
`,
			wantErr: `unknown field type "varchar"`,
		},
		{
			name: "duplicate model",
			schema: `
models:
  - name: User
    fields: [{name: username, type: string}]
  - name: User
    fields: [{name: email, type: string}]
`,
			wantErr: `already defined`,
		},
		{
			name: "duplicate field",
			schema: `
models:
  - name: User
    fields:
      - {name: username, type: string}
      - {name: username, type: text}
`,
			wantErr: `declared more than once`,
		},
		{
			name:    "malformed yaml",
			schema:  "models: [",
			wantErr: "parsing schema file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.schema))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte(blogSchema), 0o644))

	reg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, reg.Count())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
