package sqlite

// JSONL record structures. Timestamps are RFC 3339 strings.

// nodeJSON represents a node in nodes.jsonl. Parentage lives in links.jsonl.
type nodeJSON struct {
	NodeID    string         `json:"node_id"`
	Name      string         `json:"name"`
	Position  int            `json:"position"`
	Fields    map[string]any `json:"fields,omitempty"`
	CreatedAt string         `json:"created_at"`
}

// linkJSON represents a link in links.jsonl.
type linkJSON struct {
	LinkID    string `json:"link_id"`
	LinkType  string `json:"link_type"`
	FromID    string `json:"from_id"`
	ToID      string `json:"to_id"`
	CreatedAt string `json:"created_at"`
}
