package grid

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// Request carries the lazy-load parameters of one render. The zero Request
// asks for the initial render.
type Request struct {
	// NodeID is the serialized key of the node whose children are
	// requested.
	NodeID string

	// Token is the client correlation token echoed on the response
	// container. The server never stores it.
	Token string

	// Route overrides Config.Route for the client callback, typically with
	// the path of the current request.
	Route string
}

// RequestFromQuery reads treegrid_id and treegrid_token from query values.
func RequestFromQuery(q url.Values) Request {
	return Request{
		NodeID: q.Get(ParamNodeID),
		Token:  q.Get(ParamToken),
	}
}

// Scoped reports whether the request targets the children of one node.
func (r Request) Scoped() bool { return r.NodeID != "" }

// scope is the outcome of resolving a Request against the record source.
type scope struct {
	source types.RecordSource

	// token is echoed on the container; empty means no attribute.
	token string

	// lazy enables the client callback that fetches children.
	lazy bool

	// scoped is true when source was narrowed to one level.
	scoped bool
}

// resolveScope decides which records a request renders.
//
//   - eager (LazyLoad off, no node id): the whole tree.
//   - initial lazy render: the root level, or the whole tree with ShowRoot.
//   - scoped render: the children of NodeID, tagged with the token.
//
// A source that cannot scope degrades every case to the whole tree without
// a token, and lazy loading is switched off on the client. Only the timing
// of when nodes show up changes, never the hierarchy.
func (g *Grid) resolveScope(ctx context.Context, req Request) (scope, error) {
	src := g.source
	if p, ok := src.(types.Pager); ok {
		src = p.WithoutPaging()
	}
	full := scope{source: src}

	if !g.cfg.LazyLoad && !req.Scoped() {
		return full, nil
	}

	scoper, ok := src.(types.Scoper)
	if !ok {
		g.logger.Debug("record source cannot scope, rendering full tree", "source", fmt.Sprintf("%T", src))
		return full, nil
	}

	var parent types.Key
	if req.Scoped() {
		var err error
		parent, err = types.ParseKey(req.NodeID)
		if err != nil {
			return scope{}, fmt.Errorf("node id: %w", err)
		}
	} else if g.cfg.ShowRoot {
		return scope{source: src, token: req.Token, lazy: g.cfg.LazyLoad}, nil
	}

	scoped, err := scoper.ScopeToChildrenOf(ctx, parent)
	if errors.Is(err, types.ErrCapability) {
		g.logger.Debug("record source rejected scoping, rendering full tree", "node", req.NodeID, "error", err)
		return full, nil
	}
	if err != nil {
		return scope{}, fmt.Errorf("scope to children of %q: %w", req.NodeID, err)
	}
	if p, ok := scoped.(types.Pager); ok {
		scoped = p.WithoutPaging()
	}
	return scope{source: scoped, token: req.Token, lazy: g.cfg.LazyLoad, scoped: true}, nil
}
