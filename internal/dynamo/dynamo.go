// Package dynamo reads and writes treegrid nodes in a DynamoDB table. Each
// node is one item keyed by node_id. A global secondary index on
// (parent_id, position) serves the scoped child queries; root nodes carry the
// RootParent sentinel because index keys cannot be empty.
package dynamo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"

	"github.com/mesh-intelligence/treegrid/pkg/memsource"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// RootParent is the parent_id of root nodes.
const RootParent = "#root"

const attrChildCount = "child_count"

// API is the subset of the DynamoDB client used by Store.
type API interface {
	dynamodb.QueryAPIClient
	dynamodb.ScanAPIClient
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store accesses the node table.
type Store struct {
	client API
	table  string
	index  string
	logger *slog.Logger
}

// New creates a Store using the table and index names of cfg.
func New(client API, cfg types.Config, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: client,
		table:  cfg.DynamoTable(),
		index:  cfg.DynamoParentIndex(),
		logger: logger,
	}
}

// Connect creates a Store with a client built from the default AWS
// configuration chain (environment, shared config, instance role).
func Connect(ctx context.Context, cfg types.Config, logger *slog.Logger) (*Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return New(dynamodb.NewFromConfig(awsCfg), cfg, logger), nil
}

// Source returns a record source over all nodes.
func (s *Store) Source() *Source {
	return &Source{store: s}
}

// CreateNode stores a new node and increments the child count of its
// parent in one transaction. An empty NodeID is replaced by a UUID v7.
func (s *Store) CreateNode(ctx context.Context, n *types.Node) (string, error) {
	if n == nil {
		return "", types.ErrInvalidData
	}
	if err := n.Validate(); err != nil {
		return "", err
	}
	if n.NodeID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return "", fmt.Errorf("generating UUID v7: %w", err)
		}
		n.NodeID = id.String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}

	item, err := attributevalue.MarshalMap(n)
	if err != nil {
		return "", fmt.Errorf("marshal node: %w", err)
	}
	parent := n.ParentID
	if parent == "" {
		parent = RootParent
	}
	item["parent_id"] = &ddbtypes.AttributeValueMemberS{Value: parent}
	item[attrChildCount] = &ddbtypes.AttributeValueMemberN{Value: "0"}

	items := []ddbtypes.TransactWriteItem{{
		Put: &ddbtypes.Put{
			TableName:           aws.String(s.table),
			Item:                item,
			ConditionExpression: aws.String("attribute_not_exists(node_id)"),
		},
	}}
	if n.ParentID != "" {
		items = append(items, ddbtypes.TransactWriteItem{
			Update: &ddbtypes.Update{
				TableName:           aws.String(s.table),
				Key:                 nodeKey(n.ParentID),
				UpdateExpression:    aws.String("ADD #count :one"),
				ConditionExpression: aws.String("attribute_exists(node_id)"),
				ExpressionAttributeNames: map[string]string{
					"#count": attrChildCount,
				},
				ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
					":one": &ddbtypes.AttributeValueMemberN{Value: "1"},
				},
			},
		})
	}

	_, err = s.client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items})
	if err != nil {
		return "", mapTransactionError(err, n)
	}
	return n.NodeID, nil
}

// mapTransactionError maps condition failures to package errors. Item 0 is
// the node put and item 1 the parent update.
func mapTransactionError(err error, n *types.Node) error {
	var tce *ddbtypes.TransactionCanceledException
	if !errors.As(err, &tce) {
		return fmt.Errorf("create node %s: %w", n.NodeID, err)
	}
	for i, reason := range tce.CancellationReasons {
		if aws.ToString(reason.Code) != "ConditionalCheckFailed" {
			continue
		}
		if i == 0 {
			return fmt.Errorf("%w: node %s already exists", types.ErrInvalidID, n.NodeID)
		}
		return fmt.Errorf("%w: %s", types.ErrInvalidParent, n.ParentID)
	}
	return fmt.Errorf("create node %s: %w", n.NodeID, err)
}

func nodeKey(id string) map[string]ddbtypes.AttributeValue {
	return map[string]ddbtypes.AttributeValue{
		"node_id": &ddbtypes.AttributeValueMemberS{Value: id},
	}
}

// unmarshalNode decodes an item, mapping RootParent back to an empty
// ParentID and hydrating ChildCount.
func unmarshalNode(item map[string]ddbtypes.AttributeValue) (*types.Node, error) {
	var n types.Node
	if err := attributevalue.UnmarshalMap(item, &n); err != nil {
		return nil, fmt.Errorf("%w: unmarshal node: %v", types.ErrInvalidData, err)
	}
	if n.ParentID == RootParent {
		n.ParentID = ""
	}
	if v, ok := item[attrChildCount].(*ddbtypes.AttributeValueMemberN); ok {
		count, err := strconv.Atoi(v.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: child_count of %s: %v", types.ErrInvalidData, n.NodeID, err)
		}
		n.ChildCount = count
	}
	return &n, nil
}

// scanAll reads every node of the table.
func (s *Store) scanAll(ctx context.Context) ([]*types.Node, error) {
	var nodes []*types.Node
	paginator := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName: aws.String(s.table),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table, err)
		}
		for _, item := range page.Items {
			n, err := unmarshalNode(item)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

// queryChildren reads the direct children of parent ordered by position.
func (s *Store) queryChildren(ctx context.Context, parent string) ([]*types.Node, error) {
	if parent == "" {
		parent = RootParent
	}
	var nodes []*types.Node
	paginator := dynamodb.NewQueryPaginator(s.client, &dynamodb.QueryInput{
		TableName:              aws.String(s.table),
		IndexName:              aws.String(s.index),
		KeyConditionExpression: aws.String("parent_id = :parent"),
		ExpressionAttributeValues: map[string]ddbtypes.AttributeValue{
			":parent": &ddbtypes.AttributeValueMemberS{Value: parent},
		},
		ScanIndexForward: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("query children of %s: %w", parent, err)
		}
		for _, item := range page.Items {
			n, err := unmarshalNode(item)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, n)
		}
	}
	return nodes, nil
}

var _ types.TreeSource = (*Source)(nil)

// Source exposes the table to the grid. Child counts are maintained on
// write and cover the whole table.
type Source struct {
	store  *Store
	parent string
	scoped bool
}

// Records implements types.RecordSource. The unscoped source scans the table
// and orders parents before children.
func (s *Source) Records(ctx context.Context) ([]types.Record, error) {
	if s.scoped {
		nodes, err := s.store.queryChildren(ctx, s.parent)
		if err != nil {
			return nil, err
		}
		out := make([]types.Record, len(nodes))
		for i, n := range nodes {
			out[i] = n
		}
		return out, nil
	}
	nodes, err := s.store.scanAll(ctx)
	if err != nil {
		return nil, err
	}
	sortSiblings(nodes)
	tree, err := memsource.Nodes(nodes)
	if err != nil {
		return nil, err
	}
	return tree.Records(ctx)
}

// KeyOf implements types.RecordSource.
func (s *Source) KeyOf(rec types.Record) (types.Key, error) {
	return memsource.NodeKey(rec)
}

// ScopeToChildrenOf implements types.Scoper.
func (s *Source) ScopeToChildrenOf(_ context.Context, parent types.Key) (types.RecordSource, error) {
	return &Source{store: s.store, parent: parent.String(), scoped: true}, nil
}

// ParentIDOf implements types.Hierarchy.
func (s *Source) ParentIDOf(rec types.Record, _ types.Key, _ int) (types.Key, bool, error) {
	return memsource.NodeParent(rec)
}

// ChildCountOf implements types.Hierarchy.
func (s *Source) ChildCountOf(rec types.Record, _ types.Key, _ int) (int, error) {
	n, ok := rec.(*types.Node)
	if !ok {
		return 0, types.ErrInvalidData
	}
	return n.ChildCount, nil
}
