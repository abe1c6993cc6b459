package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraph_Sort_ParentsFirst(t *testing.T) {
	g := New()
	g.AddNode("users")
	g.AddNode("posts")
	g.AddNode("comments")

	// posts reference users, comments reference posts and users
	require.NoError(t, g.AddEdge("users", "posts"))
	require.NoError(t, g.AddEdge("posts", "comments"))
	require.NoError(t, g.AddEdge("users", "comments"))

	order, err := g.Sort()
	require.NoError(t, err)
	require.Len(t, order, 3)

	pos := map[string]int{}
	for i, id := range order {
		pos[id] = i
	}
	assert.Less(t, pos["users"], pos["posts"])
	assert.Less(t, pos["posts"], pos["comments"])
}

func TestGraph_Sort_Deterministic(t *testing.T) {
	g := New()
	g.AddNode("c")
	g.AddNode("a")
	g.AddNode("b")

	order, err := g.Sort()
	require.NoError(t, err)
	// No edges: alphabetical order.
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestGraph_HasCycle(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("b")
	g.AddNode("c")
	require.NoError(t, g.AddEdge("a", "b"))
	require.NoError(t, g.AddEdge("b", "c"))
	require.NoError(t, g.AddEdge("c", "a"))

	cyclic, cycle := g.HasCycle()
	assert.True(t, cyclic)
	require.NotEmpty(t, cycle)
	// The path starts and ends on the same node.
	assert.Equal(t, cycle[0], cycle[len(cycle)-1])
	assert.GreaterOrEqual(t, len(cycle), 4)

	_, err := g.Sort()
	assert.Error(t, err)
}

func TestGraph_AddEdge_Errors(t *testing.T) {
	g := New()
	g.AddNode("a")

	assert.Error(t, g.AddEdge("a", "missing"))
	assert.Error(t, g.AddEdge("missing", "a"))
	assert.Error(t, g.AddEdge("a", "a"))
}

func TestGraph_AddNode_Idempotent(t *testing.T) {
	g := New()
	g.AddNode("a")
	g.AddNode("a")
	assert.Equal(t, 1, g.Len())
}
