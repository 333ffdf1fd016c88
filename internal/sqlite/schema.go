package sqlite

// LinkChildOf is the link type that attaches a node (from_id) to its parent
// (to_id). A node has at most one child_of link.
const LinkChildOf = "child_of"

// Schema DDL. The statements are portable between SQLite and Postgres.
const (
	createNodes = `CREATE TABLE IF NOT EXISTS nodes (
    node_id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    fields TEXT,
    created_at TEXT NOT NULL
);`

	createLinks = `CREATE TABLE IF NOT EXISTS links (
    link_id TEXT PRIMARY KEY,
    link_type TEXT NOT NULL,
    from_id TEXT NOT NULL,
    to_id TEXT NOT NULL,
    created_at TEXT NOT NULL
);`
)

// Index DDL for the scoped child queries.
const (
	idxLinksUnique   = `CREATE UNIQUE INDEX IF NOT EXISTS idx_links_unique ON links(link_type, from_id, to_id);`
	idxLinksTypeFrom = `CREATE INDEX IF NOT EXISTS idx_links_type_from ON links(link_type, from_id);`
	idxLinksTypeTo   = `CREATE INDEX IF NOT EXISTS idx_links_type_to ON links(link_type, to_id);`
	idxNodesPosition = `CREATE INDEX IF NOT EXISTS idx_nodes_position ON nodes(position);`
)

// schemaDDL lists all statements in execution order.
var schemaDDL = []string{
	createNodes,
	createLinks,
	idxLinksUnique,
	idxLinksTypeFrom,
	idxLinksTypeTo,
	idxNodesPosition,
}
