package types

import (
	"sort"
	"time"
)

// Node is the record type stored by the bundled backends. Parentage lives in
// the backend (child_of links or a parent index); ParentID and ChildCount are
// hydrated on read.
type Node struct {
	NodeID     string         `json:"node_id" dynamodbav:"node_id"`
	ParentID   string         `json:"parent_id,omitempty" dynamodbav:"parent_id,omitempty"`
	Name       string         `json:"name" dynamodbav:"name"`
	Position   int            `json:"position" dynamodbav:"position"`
	Fields     map[string]any `json:"fields,omitempty" dynamodbav:"fields,omitempty"`
	ChildCount int            `json:"child_count,omitempty" dynamodbav:"-"`
	CreatedAt  time.Time      `json:"created_at" dynamodbav:"created_at"`
}

// Built-in field names resolvable through Field.
const (
	FieldNodeID     = "node_id"
	FieldParentID   = "parent_id"
	FieldName       = "name"
	FieldPosition   = "position"
	FieldChildCount = "child_count"
	FieldCreatedAt  = "created_at"
)

var nodeBuiltinFields = []string{FieldNodeID, FieldName, FieldPosition, FieldCreatedAt}

// Validate checks the fields required to persist a node.
func (n *Node) Validate() error {
	if n.Name == "" {
		return ErrInvalidName
	}
	if n.ParentID != "" && n.ParentID == n.NodeID {
		return ErrParentCycle
	}
	if err := NewKey(n.NodeID).Validate(); err != nil {
		return err
	}
	return NewKey(n.ParentID).Validate()
}

// Field returns a built-in field or an entry of Fields. Built-ins win over
// custom fields of the same name.
func (n *Node) Field(name string) (any, bool) {
	switch name {
	case FieldNodeID:
		return n.NodeID, true
	case FieldParentID:
		if n.ParentID == "" {
			return nil, true
		}
		return n.ParentID, true
	case FieldName:
		return n.Name, true
	case FieldPosition:
		return n.Position, true
	case FieldChildCount:
		return n.ChildCount, true
	case FieldCreatedAt:
		return n.CreatedAt, true
	}
	v, ok := n.Fields[name]
	return v, ok
}

// FieldNames lists the built-in fields followed by the custom fields in
// sorted order.
func (n *Node) FieldNames() []string {
	names := append([]string(nil), nodeBuiltinFields...)
	custom := make([]string, 0, len(n.Fields))
	for k := range n.Fields {
		custom = append(custom, k)
	}
	sort.Strings(custom)
	return append(names, custom...)
}
