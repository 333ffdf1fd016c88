// Package grid renders hierarchical records as an HTML table annotated for
// the jQuery treegrid widget.
//
// Every body row carries the structural metadata the widget needs to rebuild
// the tree from flat markup:
//
//	<tr class="treegrid-2 treegrid-parent-1" data-key="2" data-count="3">
//
// The lazy-load protocol re-enters Render scoped to a single node. The client
// sends treegrid_id and a random treegrid_token; the response container
// echoes the token in data-treegrid-token so the client can pick exactly the
// rows that answer its request, whatever order responses arrive in. The
// server keeps no record of issued tokens.
//
// A Grid is immutable after New and safe for concurrent use.
package grid
