package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/treegrid/pkg/types"
)

func TestParseColumns_Shorthand(t *testing.T) {
	specs, err := ParseColumns("name", "size:integer:Bytes", types.ColumnSpec{Attribute: "x"}, &types.ColumnSpec{Attribute: "y"})
	require.NoError(t, err)
	require.Len(t, specs, 4)
	assert.Equal(t, types.ColumnSpec{Attribute: "name", Format: types.FormatText}, specs[0])
	assert.Equal(t, "Bytes", specs[1].Label)
	assert.Equal(t, "y", specs[3].Attribute)

	_, err = ParseColumns(":bad")
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = ParseColumns(42)
	assert.ErrorIs(t, err, types.ErrConfiguration)

	_, err = ParseColumns((*types.ColumnSpec)(nil))
	assert.ErrorIs(t, err, types.ErrConfiguration)
}

func TestColumn_Cells(t *testing.T) {
	f := NewTextFormatter("en")
	rec := map[string]any{"name": "<root>", "size": 2048}

	t.Run("humanized label", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{Attribute: "created_at"}, f, "&nbsp;")
		require.NoError(t, err)
		assert.Equal(t, "Created At", c.Label())
		assert.Equal(t, "<th>Created At</th>", c.RenderHeaderCell())
		assert.Equal(t, "<td>&nbsp;</td>", c.RenderFooterCell())
	})

	t.Run("raw label", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{Attribute: "a", Label: "<i>A</i>", EncodeLabel: types.Bool(false)}, f, "")
		require.NoError(t, err)
		assert.Equal(t, "<th><i>A</i></th>", c.RenderHeaderCell())
	})

	t.Run("header overrides label", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{Attribute: "a", Header: "<u>A</u>"}, f, "")
		require.NoError(t, err)
		assert.Equal(t, "<th><u>A</u></th>", c.RenderHeaderCell())
	})

	t.Run("data cell", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{Attribute: "size", Format: FormatInteger, ContentOptions: map[string]any{"class": "num"}}, f, "")
		require.NoError(t, err)
		got, err := c.RenderDataCell(rec, types.NewKey(1), 0)
		require.NoError(t, err)
		assert.Equal(t, `<td class="num">2,048</td>`, got)
	})

	t.Run("value func and options func", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{
			Attribute: "label",
			Value: func(rec types.Record, key types.Key, index int) (any, error) {
				return key.String() + ":" + rec.(map[string]any)["name"].(string), nil
			},
			ContentOptionsFunc: func(_ types.Record, _ types.Key, index int) (map[string]any, error) {
				return map[string]any{"data-row": index}, nil
			},
		}, f, "")
		require.NoError(t, err)
		got, err := c.RenderDataCell(rec, types.NewKey("k"), 3)
		require.NoError(t, err)
		assert.Equal(t, `<td data-row="3">k:&lt;root&gt;</td>`, got)
	})

	t.Run("empty value renders empty cell", func(t *testing.T) {
		c, err := newColumn(types.ColumnSpec{Attribute: "name"}, f, "-")
		require.NoError(t, err)
		got, err := c.RenderDataCell(map[string]any{"name": ""}, types.NewKey(1), 0)
		require.NoError(t, err)
		assert.Equal(t, "<td>-</td>", got)
	})
}
