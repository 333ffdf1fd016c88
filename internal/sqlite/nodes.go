package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// selectNodes hydrates nodes with their parent and the number of children
// in the whole store.
const selectNodes = `SELECT n.node_id, COALESCE(p.to_id, ''), n.name, n.position, n.fields, n.created_at,
    (SELECT COUNT(*) FROM links c WHERE c.link_type = 'child_of' AND c.to_id = n.node_id)
FROM nodes n
LEFT JOIN links p ON p.link_type = 'child_of' AND p.from_id = n.node_id`

const orderNodes = ` ORDER BY n.position, n.created_at, n.node_id`

// SetNode creates or updates a node. An empty NodeID creates a node with a
// UUID v7 id. ParentID must name an existing node that is not a descendant
// of the node itself. Returns the node id.
func (b *Backend) SetNode(ctx context.Context, n *types.Node) (string, error) {
	if n == nil {
		return "", types.ErrInvalidData
	}
	if err := n.Validate(); err != nil {
		return "", err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.checkAttached(); err != nil {
		return "", err
	}

	now := time.Now().UTC()
	exists := false
	if n.NodeID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		n.NodeID = id.String()
	} else {
		var one int
		err := b.db.QueryRowContext(ctx, b.rebind("SELECT 1 FROM nodes WHERE node_id = ?"), n.NodeID).Scan(&one)
		switch {
		case err == nil:
			exists = true
		case !errors.Is(err, sql.ErrNoRows):
			return "", fmt.Errorf("checking node %s: %w", n.NodeID, err)
		}
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	}

	if n.ParentID != "" {
		if err := b.checkParent(ctx, n.NodeID, n.ParentID); err != nil {
			return "", err
		}
	}

	var fields any
	if len(n.Fields) > 0 {
		raw, err := json.Marshal(n.Fields)
		if err != nil {
			return "", fmt.Errorf("%w: fields: %v", types.ErrInvalidData, err)
		}
		fields = string(raw)
	}
	createdAt := n.CreatedAt.UTC().Format(time.RFC3339Nano)

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if exists {
		_, err = tx.ExecContext(ctx,
			b.rebind("UPDATE nodes SET name = ?, position = ?, fields = ?, created_at = ? WHERE node_id = ?"),
			n.Name, n.Position, fields, createdAt, n.NodeID)
	} else {
		_, err = tx.ExecContext(ctx,
			b.rebind("INSERT INTO nodes (node_id, name, position, fields, created_at) VALUES (?, ?, ?, ?, ?)"),
			n.NodeID, n.Name, n.Position, fields, createdAt)
	}
	if err != nil {
		return "", fmt.Errorf("persisting node: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		b.rebind("DELETE FROM links WHERE link_type = ? AND from_id = ?"),
		LinkChildOf, n.NodeID); err != nil {
		return "", fmt.Errorf("clearing parent link: %w", err)
	}
	if n.ParentID != "" {
		linkID, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			b.rebind("INSERT INTO links (link_id, link_type, from_id, to_id, created_at) VALUES (?, ?, ?, ?, ?)"),
			linkID.String(), LinkChildOf, n.NodeID, n.ParentID, now.Format(time.RFC3339Nano)); err != nil {
			return "", fmt.Errorf("persisting parent link: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing node: %w", err)
	}
	if b.persist {
		if err := b.persistJSONL(ctx); err != nil {
			return "", err
		}
	}
	return n.NodeID, nil
}

// checkParent verifies that parentID exists and that attaching nodeID to it
// does not create a cycle. Must be called with b.mu held.
func (b *Backend) checkParent(ctx context.Context, nodeID, parentID string) error {
	var one int
	err := b.db.QueryRowContext(ctx, b.rebind("SELECT 1 FROM nodes WHERE node_id = ?"), parentID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", types.ErrInvalidParent, parentID)
	}
	if err != nil {
		return fmt.Errorf("checking parent %s: %w", parentID, err)
	}

	seen := map[string]bool{}
	for cur := parentID; cur != ""; {
		if cur == nodeID {
			return fmt.Errorf("%w: %s is a descendant of %s", types.ErrParentCycle, parentID, nodeID)
		}
		if seen[cur] {
			break
		}
		seen[cur] = true
		var next string
		err := b.db.QueryRowContext(ctx,
			b.rebind("SELECT to_id FROM links WHERE link_type = ? AND from_id = ?"),
			LinkChildOf, cur).Scan(&next)
		if errors.Is(err, sql.ErrNoRows) {
			break
		}
		if err != nil {
			return fmt.Errorf("walking ancestors of %s: %w", parentID, err)
		}
		cur = next
	}
	return nil
}

// GetNode returns the node with the given id.
func (b *Backend) GetNode(ctx context.Context, id string) (*types.Node, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	nodes, err := b.queryNodes(ctx, " WHERE n.node_id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, fmt.Errorf("%w: node %s", types.ErrNotFound, id)
	}
	return nodes[0], nil
}

// queryNodes runs selectNodes with an optional WHERE clause.
func (b *Backend) queryNodes(ctx context.Context, where string, args ...any) ([]*types.Node, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if err := b.checkAttached(); err != nil {
		return nil, err
	}

	rows, err := b.db.QueryContext(ctx, b.rebind(selectNodes+where+orderNodes), args...)
	if err != nil {
		return nil, fmt.Errorf("querying nodes: %w", err)
	}
	defer rows.Close()

	var nodes []*types.Node
	for rows.Next() {
		n, err := hydrateNode(rows)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating nodes: %w", err)
	}
	return nodes, nil
}

func hydrateNode(rows *sql.Rows) (*types.Node, error) {
	var (
		n         types.Node
		fields    sql.NullString
		createdAt string
	)
	if err := rows.Scan(&n.NodeID, &n.ParentID, &n.Name, &n.Position, &fields, &createdAt, &n.ChildCount); err != nil {
		return nil, fmt.Errorf("scanning node: %w", err)
	}
	if fields.Valid && fields.String != "" {
		if err := json.Unmarshal([]byte(fields.String), &n.Fields); err != nil {
			return nil, fmt.Errorf("%w: fields of %s: %v", types.ErrInvalidData, n.NodeID, err)
		}
	}
	t, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return nil, fmt.Errorf("%w: created_at of %s: %v", types.ErrInvalidData, n.NodeID, err)
	}
	n.CreatedAt = t
	return &n, nil
}

// persistJSONL rewrites nodes.jsonl and links.jsonl from the database. Must
// be called with b.mu held.
func (b *Backend) persistJSONL(ctx context.Context) error {
	dataDir := dataDirOrDot(b.config.DataDir)

	rows, err := b.db.QueryContext(ctx, "SELECT node_id, name, position, fields, created_at FROM nodes ORDER BY created_at, node_id")
	if err != nil {
		return fmt.Errorf("reading nodes: %w", err)
	}
	var nodes []nodeJSON
	for rows.Next() {
		var (
			n      nodeJSON
			fields sql.NullString
		)
		if err := rows.Scan(&n.NodeID, &n.Name, &n.Position, &fields, &n.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning node: %w", err)
		}
		if fields.Valid && fields.String != "" {
			if err := json.Unmarshal([]byte(fields.String), &n.Fields); err != nil {
				rows.Close()
				return fmt.Errorf("decoding fields of %s: %w", n.NodeID, err)
			}
		}
		nodes = append(nodes, n)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = b.db.QueryContext(ctx, "SELECT link_id, link_type, from_id, to_id, created_at FROM links ORDER BY created_at, link_id")
	if err != nil {
		return fmt.Errorf("reading links: %w", err)
	}
	var links []linkJSON
	for rows.Next() {
		var l linkJSON
		if err := rows.Scan(&l.LinkID, &l.LinkType, &l.FromID, &l.ToID, &l.CreatedAt); err != nil {
			rows.Close()
			return fmt.Errorf("scanning link: %w", err)
		}
		links = append(links, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	nodeRecords, err := marshalAll(nodes)
	if err != nil {
		return err
	}
	linkRecords, err := marshalAll(links)
	if err != nil {
		return err
	}
	if err := writeJSONL(filepath.Join(dataDir, nodesFile), nodeRecords); err != nil {
		return fmt.Errorf("persisting %s: %w", nodesFile, err)
	}
	if err := writeJSONL(filepath.Join(dataDir, linksFile), linkRecords); err != nil {
		return fmt.Errorf("persisting %s: %w", linksFile, err)
	}
	return nil
}
