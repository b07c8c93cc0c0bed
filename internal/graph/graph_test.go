package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/target"
)

func lib(name string, deps ...target.ID) *Node {
	return &Node{
		ID:   target.New("", "libs/"+name, name),
		Type: AppleLibrary,
		Args: &LibraryArgs{},
		Deps: deps,
	}
}

func TestNew_ResolvesAllDependencies(t *testing.T) {
	a := lib("a")
	b := lib("b", a.ID)
	c := lib("c", a.ID, b.ID)

	g, err := New([]*Node{a, b, c})
	require.NoError(t, err)
	assert.Equal(t, 3, g.Size())

	got, err := g.Get(b.ID)
	require.NoError(t, err)
	assert.Same(t, b, got)
}

func TestNew_UnresolvableDependencyFails(t *testing.T) {
	missing := target.New("", "libs/ghost", "ghost")
	b := lib("b", missing)

	_, err := New([]*Node{b})
	require.Error(t, err)

	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, b.ID, cerr.Target)

	var nerr *NoSuchNodeError
	require.ErrorAs(t, err, &nerr)
	assert.Equal(t, missing, nerr.Target)
}

func TestNew_DuplicateDeclarationFails(t *testing.T) {
	_, err := New([]*Node{lib("a"), lib("a")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "declared more than once")
}

func TestNew_CyclicDeclarationFails(t *testing.T) {
	aID := target.New("", "libs/a", "a")
	bID := target.New("", "libs/b", "b")
	a := &Node{ID: aID, Type: AppleLibrary, Deps: []target.ID{bID}}
	b := &Node{ID: bID, Type: AppleLibrary, Deps: []target.ID{aID}}

	_, err := New([]*Node{a, b})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cyclic declaration")
}

func TestNodes_DeterministicOrder(t *testing.T) {
	a := lib("a")
	b := lib("b", a.ID)
	c := lib("c", b.ID)

	g1, err := New([]*Node{c, a, b})
	require.NoError(t, err)
	g2, err := New([]*Node{b, c, a})
	require.NoError(t, err)

	ids := func(nodes []*Node) []string {
		out := make([]string, len(nodes))
		for i, n := range nodes {
			out[i] = n.ID.String()
		}
		return out
	}
	assert.Equal(t, ids(g1.Nodes()), ids(g2.Nodes()))
}

func TestSubgraph_InducedOverSeeds(t *testing.T) {
	a := lib("a")
	b := lib("b", a.ID)
	c := lib("c", b.ID)
	d := lib("d") // unrelated

	g, err := New([]*Node{a, b, c, d})
	require.NoError(t, err)

	sub, err := g.Subgraph(target.NewSet(b.ID))
	require.NoError(t, err)
	assert.Equal(t, 2, sub.Size())
	assert.True(t, sub.TargetIDs().Contains(a.ID))
	assert.True(t, sub.TargetIDs().Contains(b.ID))
	assert.False(t, sub.TargetIDs().Contains(c.ID))
	assert.False(t, sub.TargetIDs().Contains(d.ID))
}

func TestSubgraph_MissingSeedFails(t *testing.T) {
	g, err := New([]*Node{lib("a")})
	require.NoError(t, err)

	_, err = g.Subgraph(target.NewSet(target.New("", "libs/ghost", "ghost")))
	require.Error(t, err)

	var nerr *NoSuchNodeError
	assert.ErrorAs(t, err, &nerr)
}

func TestTransitiveDeps(t *testing.T) {
	a := lib("a")
	b := lib("b", a.ID)
	c := lib("c", b.ID)

	g, err := New([]*Node{a, b, c})
	require.NoError(t, err)

	closure, err := g.TransitiveDeps(target.NewSet(c.ID))
	require.NoError(t, err)
	assert.Equal(t, target.NewSet(a.ID, b.ID), closure)
}
