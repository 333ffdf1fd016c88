package dynamo

import (
	"sort"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// sortSiblings orders scan results the way the parent index does: by
// position, then creation time, then id.
func sortSiblings(nodes []*types.Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		a, b := nodes[i], nodes[j]
		if a.Position != b.Position {
			return a.Position < b.Position
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.NodeID < b.NodeID
	})
}
