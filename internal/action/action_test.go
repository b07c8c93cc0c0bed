package action_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/specialistvlad/workbench/internal/action"
	"github.com/specialistvlad/workbench/internal/target"
	"github.com/specialistvlad/workbench/internal/testutil"
)

func TestTransform_GenruleRule(t *testing.T) {
	gen := testutil.Genrule(testutil.T("tools/codegen", "headers"), "generated.h")
	g := testutil.MustGraph(t, gen)

	ag, resolver, err := action.NewTransformer().Transform(g)
	require.NoError(t, err)
	require.Equal(t, 1, ag.Size())

	rule, err := resolver.Rule(gen.ID)
	require.NoError(t, err)
	assert.Equal(t, "out/gen/tools/codegen/headers/generated.h", rule.OutputPath())
	assert.Equal(t, []string{rule.OutputPath()}, rule.RecordedOutputs())

	steps := rule.Steps(action.BuildContext{OutputDir: "out"})
	require.Len(t, steps, 1)
	assert.Contains(t, steps[0].Shell, "gen")
}

func TestTransform_HalideRecordsHeaderAndObject(t *testing.T) {
	halide := testutil.Halide(testutil.T("vision/blur", "blur"), "blur_fn")
	g := testutil.MustGraph(t, halide)

	_, resolver, err := action.NewTransformer().Transform(g)
	require.NoError(t, err)

	rule, err := resolver.Rule(halide.ID)
	require.NoError(t, err)

	// Two artifacts are recorded; the header is the canonical output.
	assert.Equal(t, "out/gen/vision/blur/blur/blur_fn.h", rule.OutputPath())
	assert.Equal(t, []string{
		"out/gen/vision/blur/blur/blur_fn.h",
		"out/gen/vision/blur/blur/blur_fn.o",
	}, rule.RecordedOutputs())
}

func TestTransform_UnknownRuleLookupFails(t *testing.T) {
	g := testutil.MustGraph(t, testutil.Library(testutil.T("libs/a", "a")))

	_, resolver, err := action.NewTransformer().Transform(g)
	require.NoError(t, err)

	_, err = resolver.Rule(testutil.T("libs/ghost", "ghost"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ghost")
}

func TestTransform_OrderIsDeterministic(t *testing.T) {
	b := testutil.Library(testutil.T("libs/b", "b"))
	a := testutil.Library(testutil.T("libs/a", "a"))
	c := testutil.Library(testutil.T("libs/c", "c"))
	g := testutil.MustGraph(t, b, a, c)

	ag, _, err := action.NewTransformer().Transform(g)
	require.NoError(t, err)

	var got []target.ID
	for _, r := range ag.Rules() {
		got = append(got, r.Target())
	}
	assert.Equal(t, []target.ID{a.ID, b.ID, c.ID}, got)
}

func TestResolverCache_OneTransformPerNode(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	bin := testutil.Binary(testutil.T("apps/x", "x"), lib.ID)
	g := testutil.MustGraph(t, lib, bin)
	cache := action.NewResolverCache(g)
	ctx := context.Background()

	first, err := cache.ResolverFor(ctx, bin.ID)
	require.NoError(t, err)
	second, err := cache.ResolverFor(ctx, bin.ID)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, int64(1), cache.Transforms())

	// A different node gets its own transform and its own resolver.
	other, err := cache.ResolverFor(ctx, lib.ID)
	require.NoError(t, err)
	assert.NotSame(t, first, other)
	assert.Equal(t, int64(2), cache.Transforms())
}

func TestResolverCache_ConcurrentCallersShareOneTransform(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	bin := testutil.Binary(testutil.T("apps/x", "x"), lib.ID)
	g := testutil.MustGraph(t, lib, bin)
	cache := action.NewResolverCache(g)

	const callers = 32
	resolvers := make([]*action.SourcePathResolver, callers)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < callers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			r, err := cache.ResolverFor(context.Background(), bin.ID)
			assert.NoError(t, err)
			resolvers[i] = r
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int64(1), cache.Transforms())
	for i := 1; i < callers; i++ {
		assert.Same(t, resolvers[0], resolvers[i])
	}
}

func TestResolverCache_SubgraphScopesLookups(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	bin := testutil.Binary(testutil.T("apps/x", "x"), lib.ID)
	unrelated := testutil.Library(testutil.T("libs/other", "other"))
	g := testutil.MustGraph(t, lib, bin, unrelated)
	cache := action.NewResolverCache(g)

	r, err := cache.ResolverFor(context.Background(), bin.ID)
	require.NoError(t, err)

	// Dependencies resolve; nodes outside the slice do not.
	_, err = r.Resolve(lib.ID.String())
	assert.NoError(t, err)
	_, err = r.Resolve(unrelated.ID.String())
	assert.Error(t, err)
}

func TestSourcePathResolver_Resolve(t *testing.T) {
	gen := testutil.Genrule(testutil.T("tools/codegen", "headers"), "generated.h")
	bin := testutil.Binary(testutil.T("apps/x", "x"), gen.ID)
	g := testutil.MustGraph(t, gen, bin)
	cache := action.NewResolverCache(g)

	r, err := cache.ResolverFor(context.Background(), bin.ID)
	require.NoError(t, err)
	assert.Equal(t, bin.ID, r.Owner())

	tests := []struct {
		ref  string
		want string
	}{
		{"main.m", "apps/x/main.m"},
		{"sub/view.m", "apps/x/sub/view.m"},
		{gen.ID.String(), "out/gen/tools/codegen/headers/generated.h"},
	}
	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			got, err := r.Resolve(tt.ref)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSourcePathResolver_ResolveAll(t *testing.T) {
	bin := testutil.Binary(testutil.T("apps/x", "x"))
	g := testutil.MustGraph(t, bin)
	cache := action.NewResolverCache(g)

	r, err := cache.ResolverFor(context.Background(), bin.ID)
	require.NoError(t, err)

	got, err := r.ResolveAll([]string{"a.m", "b.m"})
	require.NoError(t, err)
	assert.Equal(t, []string{"apps/x/a.m", "apps/x/b.m"}, got)

	_, err = r.ResolveAll([]string{"a.m", "//no/such:target"})
	assert.Error(t, err)
}

func TestResolverCache_TransformAll(t *testing.T) {
	lib := testutil.Library(testutil.T("libs/a", "a"))
	bin := testutil.Binary(testutil.T("apps/x", "x"), lib.ID)
	unrelated := testutil.Library(testutil.T("libs/other", "other"))
	g := testutil.MustGraph(t, lib, bin, unrelated)
	cache := action.NewResolverCache(g)

	ag, resolver, err := cache.TransformAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, g.Size(), ag.Size())

	for _, id := range []target.ID{lib.ID, bin.ID, unrelated.ID} {
		_, err := resolver.Rule(id)
		assert.NoError(t, err)
	}
}
