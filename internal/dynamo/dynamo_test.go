package dynamo

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	ddbtypes "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/treegrid/pkg/grid"
	"github.com/mesh-intelligence/treegrid/pkg/types"
)

// fakeDynamo keeps items in memory and pages results pageSize at a time.
type fakeDynamo struct {
	mu       sync.Mutex
	items    map[string]map[string]ddbtypes.AttributeValue
	pageSize int
	queries  []*dynamodb.QueryInput
	err      error
}

func newFake() *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]ddbtypes.AttributeValue{}, pageSize: 2}
}

func str(av ddbtypes.AttributeValue) string {
	if s, ok := av.(*ddbtypes.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func num(av ddbtypes.AttributeValue) int {
	if n, ok := av.(*ddbtypes.AttributeValueMemberN); ok {
		v, _ := strconv.Atoi(n.Value)
		return v
	}
	return 0
}

// page returns one page of items starting at the offset in start.
func (f *fakeDynamo) page(all []map[string]ddbtypes.AttributeValue, start map[string]ddbtypes.AttributeValue) ([]map[string]ddbtypes.AttributeValue, map[string]ddbtypes.AttributeValue) {
	offset := num(start["offset"])
	end := offset + f.pageSize
	if end >= len(all) {
		return all[offset:], nil
	}
	return all[offset:end], map[string]ddbtypes.AttributeValue{
		"offset": &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(end)},
	}
}

func (f *fakeDynamo) Query(_ context.Context, in *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.queries = append(f.queries, in)
	parent := str(in.ExpressionAttributeValues[":parent"])
	var matched []map[string]ddbtypes.AttributeValue
	for _, item := range f.items {
		if str(item["parent_id"]) == parent {
			matched = append(matched, item)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		pi, pj := num(matched[i]["position"]), num(matched[j]["position"])
		if pi != pj {
			return pi < pj
		}
		return str(matched[i]["node_id"]) < str(matched[j]["node_id"])
	})
	items, last := f.page(matched, in.ExclusiveStartKey)
	return &dynamodb.QueryOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	ids := make([]string, 0, len(f.items))
	for id := range f.items {
		ids = append(ids, id)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(ids)))
	all := make([]map[string]ddbtypes.AttributeValue, len(ids))
	for i, id := range ids {
		all[i] = f.items[id]
	}
	items, last := f.page(all, in.ExclusiveStartKey)
	return &dynamodb.ScanOutput{Items: items, LastEvaluatedKey: last}, nil
}

func (f *fakeDynamo) TransactWriteItems(_ context.Context, in *dynamodb.TransactWriteItemsInput, _ ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	reasons := make([]ddbtypes.CancellationReason, len(in.TransactItems))
	failed := false
	for i, ti := range in.TransactItems {
		reasons[i].Code = aws.String("None")
		switch {
		case ti.Put != nil:
			if _, ok := f.items[str(ti.Put.Item["node_id"])]; ok {
				reasons[i].Code = aws.String("ConditionalCheckFailed")
				failed = true
			}
		case ti.Update != nil:
			if _, ok := f.items[str(ti.Update.Key["node_id"])]; !ok {
				reasons[i].Code = aws.String("ConditionalCheckFailed")
				failed = true
			}
		}
	}
	if failed {
		return nil, &ddbtypes.TransactionCanceledException{CancellationReasons: reasons}
	}
	for _, ti := range in.TransactItems {
		switch {
		case ti.Put != nil:
			f.items[str(ti.Put.Item["node_id"])] = ti.Put.Item
		case ti.Update != nil:
			item := f.items[str(ti.Update.Key["node_id"])]
			item[attrChildCount] = &ddbtypes.AttributeValueMemberN{Value: strconv.Itoa(num(item[attrChildCount]) + 1)}
		}
	}
	return &dynamodb.TransactWriteItemsOutput{}, nil
}

func seed(t *testing.T, s *Store) {
	t.Helper()
	for _, n := range []*types.Node{
		{NodeID: "a", Name: "A"},
		{NodeID: "b", Name: "B", Position: 1},
		{NodeID: "a2", Name: "A2", ParentID: "a", Position: 2},
		{NodeID: "a1", Name: "A1", ParentID: "a", Position: 1, Fields: map[string]any{"size": 7}},
		{NodeID: "a1x", Name: "A1X", ParentID: "a1"},
	} {
		_, err := s.CreateNode(context.Background(), n)
		require.NoError(t, err)
	}
}

func keys(t *testing.T, src types.RecordSource) []string {
	t.Helper()
	records, err := src.Records(context.Background())
	require.NoError(t, err)
	out := make([]string, len(records))
	for i, rec := range records {
		k, err := src.KeyOf(rec)
		require.NoError(t, err)
		out[i] = k.String()
	}
	return out
}

func TestStore_CreateNode(t *testing.T) {
	fake := newFake()
	s := New(fake, types.Config{Backend: types.BackendDynamoDB}, nil)
	seed(t, s)

	assert.Equal(t, RootParent, str(fake.items["a"]["parent_id"]))
	assert.Equal(t, 2, num(fake.items["a"][attrChildCount]))
	assert.Equal(t, 1, num(fake.items["a1"][attrChildCount]))

	id, err := s.CreateNode(context.Background(), &types.Node{Name: "generated"})
	require.NoError(t, err)
	assert.Len(t, id, 36)

	tests := []struct {
		name    string
		node    *types.Node
		wantErr error
	}{
		{name: "nil", wantErr: types.ErrInvalidData},
		{name: "no name", node: &types.Node{NodeID: "x"}, wantErr: types.ErrInvalidName},
		{name: "duplicate", node: &types.Node{NodeID: "a", Name: "again"}, wantErr: types.ErrInvalidID},
		{name: "missing parent", node: &types.Node{NodeID: "y", Name: "Y", ParentID: "nope"}, wantErr: types.ErrInvalidParent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.CreateNode(context.Background(), tt.node)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSource_Records(t *testing.T) {
	ctx := context.Background()
	fake := newFake()
	s := New(fake, types.Config{Table: "nodes", ParentIndex: "by-parent"}, nil)
	seed(t, s)
	src := s.Source()

	assert.Equal(t, []string{"a", "a1", "a1x", "a2", "b"}, keys(t, src))

	root, err := src.ScopeToChildrenOf(ctx, types.Key{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys(t, root))

	children, err := src.ScopeToChildrenOf(ctx, types.NewKey("a"))
	require.NoError(t, err)
	records, err := children.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	a1 := records[0].(*types.Node)
	assert.Equal(t, "a1", a1.NodeID)
	assert.Equal(t, "a", a1.ParentID)
	assert.Equal(t, 1, a1.ChildCount)
	assert.EqualValues(t, 7, a1.Fields["size"])

	last := fake.queries[len(fake.queries)-1]
	assert.Equal(t, "nodes", aws.ToString(last.TableName))
	assert.Equal(t, "by-parent", aws.ToString(last.IndexName))

	parent, ok, err := src.ParentIDOf(a1, types.NewKey("a1"), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "a", parent.String())
}

func TestSource_Errors(t *testing.T) {
	fake := newFake()
	fake.err = errors.New("throttled")
	src := New(fake, types.Config{}, nil).Source()

	_, err := src.Records(context.Background())
	assert.ErrorIs(t, err, fake.err)

	view, err := src.ScopeToChildrenOf(context.Background(), types.NewKey("a"))
	require.NoError(t, err)
	_, err = view.Records(context.Background())
	assert.ErrorIs(t, err, fake.err)
}

func TestUnmarshalNode_BadCount(t *testing.T) {
	_, err := unmarshalNode(map[string]ddbtypes.AttributeValue{
		"node_id":      &ddbtypes.AttributeValueMemberS{Value: "a"},
		attrChildCount: &ddbtypes.AttributeValueMemberN{Value: "many"},
	})
	assert.ErrorIs(t, err, types.ErrInvalidData)
}

func TestSource_RendersScopedGrid(t *testing.T) {
	fake := newFake()
	s := New(fake, types.Config{}, nil)
	seed(t, s)

	cfg := grid.DefaultConfig()
	cfg.ID = "ddb"
	cfg.Columns = []types.ColumnSpec{{Attribute: "name"}}
	g, err := grid.New(s.Source(), nil, cfg)
	require.NoError(t, err)

	out, err := g.Render(context.Background(), grid.Request{NodeID: "a1", Token: "z"})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Rows)
	assert.Contains(t, out.HTML, `<tr class="treegrid-a1x treegrid-parent-a1" data-key="a1x">`)
	assert.Contains(t, out.HTML, `data-treegrid-token="z"`)
}
