package action

import (
	"context"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/specialistvlad/workbench/internal/ctxlog"
	"github.com/specialistvlad/workbench/internal/graph"
	"github.com/specialistvlad/workbench/internal/target"
)

// ResolverCache hands out one SourcePathResolver per project node,
// transforming that node's dependency slice into an action graph on first
// request. Concurrent requests for the same node share a single transform;
// every caller observes the same resolver instance.
type ResolverCache struct {
	g           *graph.Graph
	transformer func() *Transformer
	group       singleflight.Group
	resolvers   sync.Map // target.ID -> *SourcePathResolver
	transforms  atomic.Int64
}

// NewResolverCache builds a cache over the given target graph.
func NewResolverCache(g *graph.Graph) *ResolverCache {
	return &ResolverCache{
		g:           g,
		transformer: sync.OnceValue(NewTransformer),
	}
}

// ResolverFor returns the resolver for id, computing it at most once. The
// computation transforms the induced subgraph rooted at id, so the
// resolver can answer references to any of the node's transitive
// dependencies.
func (c *ResolverCache) ResolverFor(ctx context.Context, id target.ID) (*SourcePathResolver, error) {
	if r, ok := c.resolvers.Load(id); ok {
		return r.(*SourcePathResolver), nil
	}

	v, err, _ := c.group.Do(id.String(), func() (any, error) {
		// A racing caller may have stored the resolver between our Load
		// and the group claim.
		if r, ok := c.resolvers.Load(id); ok {
			return r, nil
		}

		sub, err := c.g.Subgraph(target.NewSet(id))
		if err != nil {
			return nil, err
		}

		c.transforms.Add(1)
		_, resolver, err := c.transformer().Transform(sub)
		if err != nil {
			return nil, err
		}
		ctxlog.FromContext(ctx).Debug("transformed action subgraph",
			"target", id.String(), "rules", sub.Size())

		spr := &SourcePathResolver{owner: id, resolver: resolver}
		c.resolvers.Store(id, spr)
		return spr, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*SourcePathResolver), nil
}

// TransformAll transforms the whole target graph in one pass. Used when a
// single action graph serves every project root rather than per-node
// slices.
func (c *ResolverCache) TransformAll(ctx context.Context) (*Graph, *Resolver, error) {
	c.transforms.Add(1)
	ag, resolver, err := c.transformer().Transform(c.g)
	if err != nil {
		return nil, nil, err
	}
	ctxlog.FromContext(ctx).Debug("transformed full action graph", "rules", ag.Size())
	return ag, resolver, nil
}

// Transforms reports how many transformer invocations the cache has
// performed so far.
func (c *ResolverCache) Transforms() int64 {
	return c.transforms.Load()
}
