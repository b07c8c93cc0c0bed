package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/project"
	"github.com/specialistvlad/workbench/internal/target"
	"github.com/specialistvlad/workbench/internal/testutil"
)

func TestResolveRoots_ExplicitTargetsAreIdentity(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	bin := testutil.Binary(testutil.T("apps/x", "x"), lib.ID)
	g := testutil.MustGraph(t, lib, bin)

	explicit := target.NewSet(bin.ID, lib.ID)
	roots, err := project.ResolveRoots(g, explicit, project.PredicatesFor(project.KindXcode))
	require.NoError(t, err)
	assert.Equal(t, explicit, roots)
}

func TestResolveRoots_MissingExplicitTargetFails(t *testing.T) {
	g := testutil.MustGraph(t, testutil.Library(testutil.T("libs/a", "a")))

	missing := testutil.T("libs/ghost", "ghost")
	_, err := project.ResolveRoots(g, target.NewSet(missing), project.PredicatesFor(project.KindXcode))
	require.Error(t, err)

	var cerr *graph.ConstructionError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, missing, cerr.Target)
}

func TestResolveRoots_EmptySetFiltersByPredicate(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	ws1 := testutil.Workspace(testutil.T("apps/one", "workspace"), nil)
	ws2 := testutil.Workspace(testutil.T("apps/two", "workspace"), nil)
	g := testutil.MustGraph(t, lib, ws1, ws2)

	preds := project.PredicatesFor(project.KindXcode)
	roots, err := project.ResolveRoots(g, nil, preds)
	require.NoError(t, err)

	// Same result as filtering every node manually.
	expected := make(target.Set)
	for _, n := range g.Nodes() {
		if preds.ProjectRoots(n) {
			expected.Add(n.ID)
		}
	}
	assert.Equal(t, expected, roots)
	assert.Equal(t, target.NewSet(ws1.ID, ws2.ID), roots)
}

func TestSupplementalIdeaRoots(t *testing.T) {
	src := testutil.JavaLibrary(testutil.T("java/core", "core"))
	rootCfg := testutil.ProjectConfig(testutil.T("", "project"), nil)
	nestedCfg := testutil.ProjectConfig(testutil.T("java/core", "project"), &src.ID)
	g := testutil.MustGraph(t, src, rootCfg, nestedCfg)

	preds := project.PredicatesFor(project.KindIdea)

	// Only predicate-satisfying nodes declared at the repository root count.
	supplemental := project.SupplementalIdeaRoots(project.KindIdea, g, preds)
	assert.Equal(t, target.NewSet(rootCfg.ID), supplemental)

	// The Xcode kind never gets supplemental roots.
	assert.Empty(t, project.SupplementalIdeaRoots(project.KindXcode, g, preds))
}
