package project_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/project"
	"github.com/specialistvlad/workbench/internal/target"
	"github.com/specialistvlad/workbench/internal/testutil"
)

func TestParseKind(t *testing.T) {
	kind, err := project.ParseKind("xcode")
	require.NoError(t, err)
	assert.Equal(t, project.KindXcode, kind)

	kind, err = project.ParseKind("intellij")
	require.NoError(t, err)
	assert.Equal(t, project.KindIdea, kind)

	_, err = project.ParseKind("eclipse")
	require.Error(t, err)

	var cfgErr *project.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestInferKind_ExplicitSelectionWins(t *testing.T) {
	g := testutil.MustGraph(t, testutil.JavaLibrary(testutil.T("java/core", "core")))

	kind, err := project.InferKind(project.KindXcode, project.KindIdea, nil, g)
	require.NoError(t, err)
	assert.Equal(t, project.KindXcode, kind)
}

func TestInferKind_ConfiguredDefaultWinsOverScan(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	g := testutil.MustGraph(t, lib)

	kind, err := project.InferKind("", project.KindIdea, target.NewSet(lib.ID), g)
	require.NoError(t, err)
	assert.Equal(t, project.KindIdea, kind)
}

func TestInferKind_HomogeneousScan(t *testing.T) {
	appleLib := testutil.Library(testutil.T("libs/a", "a"))
	appleBin := testutil.Binary(testutil.T("apps/x", "x"), appleLib.ID)
	javaLib := testutil.JavaLibrary(testutil.T("java/core", "core"))
	javaLib2 := testutil.JavaLibrary(testutil.T("java/util", "util"))
	g := testutil.MustGraph(t, appleLib, appleBin, javaLib, javaLib2)

	kind, err := project.InferKind("", "", target.NewSet(appleLib.ID, appleBin.ID), g)
	require.NoError(t, err)
	assert.Equal(t, project.KindXcode, kind)

	kind, err = project.InferKind("", "", target.NewSet(javaLib.ID, javaLib2.ID), g)
	require.NoError(t, err)
	assert.Equal(t, project.KindIdea, kind)
}

func TestInferKind_MixedKindsFail(t *testing.T) {
	appleLib := testutil.Library(testutil.T("libs/a", "a"))
	javaLib := testutil.JavaLibrary(testutil.T("java/core", "core"))
	g := testutil.MustGraph(t, appleLib, javaLib)

	_, err := project.InferKind("", "", target.NewSet(appleLib.ID, javaLib.ID), g)
	require.Error(t, err)

	var cfgErr *project.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Contains(t, err.Error(), "both Xcode and Idea")
}

func TestInferKind_NothingToGoOnFails(t *testing.T) {
	g := testutil.MustGraph(t)

	_, err := project.InferKind("", "", nil, g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--ide")
}

func TestInferKind_MissingTargetFails(t *testing.T) {
	g := testutil.MustGraph(t)

	_, err := project.InferKind("", "", target.NewSet(testutil.T("x", "ghost")), g)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}
