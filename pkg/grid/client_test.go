package grid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeClientOptions_RawExpressions(t *testing.T) {
	got, err := encodeClientOptions(map[string]any{
		"initialState": "collapsed",
		"expanderTemplate": JSExpression("function() { return '<b>'; }"),
		"nested": map[string]any{"onChange": JSExpression("noop"), "n": 1},
		"list": []any{JSExpression("a"), "b"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`{"expanderTemplate":function() { return '<b>'; },"initialState":"collapsed","list":[a,"b"],"nested":{"n":1,"onChange":noop}}`,
		got)

	empty, err := encodeClientOptions(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", empty)
}

func TestGrid_ClientOptions(t *testing.T) {
	g := &Grid{cfg: Config{Route: "/tree", PluginOptions: map[string]any{"treeColumn": 1}}}

	opts := g.clientOptions(scope{lazy: true}, Request{})
	src, ok := opts["source"].(JSExpression)
	require.True(t, ok)
	assert.Contains(t, string(src), `$.get("/tree", {treegrid_id: id, treegrid_token: token}`)
	assert.Contains(t, string(src), `'[data-treegrid-token="' + token + '"] > table > tbody > tr'`)
	assert.Equal(t, 1, opts["treeColumn"])

	opts = g.clientOptions(scope{lazy: true}, Request{Route: "/nodes"})
	assert.Contains(t, string(opts["source"].(JSExpression)), `$.get("/nodes"`)

	opts = g.clientOptions(scope{lazy: false}, Request{})
	assert.NotContains(t, opts, "source")

	g.cfg.PluginOptions["source"] = JSExpression("mySource")
	opts = g.clientOptions(scope{lazy: true}, Request{})
	assert.Equal(t, JSExpression("mySource"), opts["source"])
}

func TestRequestFromQuery_Scoped(t *testing.T) {
	req := RequestFromQuery(map[string][]string{
		ParamNodeID: {"42"},
		ParamToken:  {"tok"},
	})
	assert.Equal(t, Request{NodeID: "42", Token: "tok"}, req)
	assert.True(t, req.Scoped())
	assert.False(t, RequestFromQuery(nil).Scoped())
}

func TestDefaultSource_EscapesRoute(t *testing.T) {
	tests := []struct {
		name  string
		route string
		want  string
	}{
		{name: "plain path", route: "/tree", want: `$.get("/tree", {`},
		{name: "empty uses current path", route: "", want: `$.get(window.location.pathname, {`},
		{
			name:  "script end tag",
			route: "/x</script><script>alert(1)</script>",
			want:  `$.get("/x\u003c/script\u003e\u003cscript\u003ealert(1)\u003c/script\u003e", {`,
		},
		{name: "ampersand and quote", route: `/a&b"c`, want: `$.get("/a\u0026b\"c", {`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := string(defaultSource(tt.route))
			assert.Contains(t, src, tt.want)
			assert.NotContains(t, src, "</script>")
		})
	}
}

func TestClientScript_EscapesID(t *testing.T) {
	script, err := clientScript("tg", nil)
	require.NoError(t, err)
	assert.Equal(t, `jQuery("#tg").children("table").treegrid({});`, script)

	script, err = clientScript("a</script>", nil)
	require.NoError(t, err)
	assert.NotContains(t, script, "</script>")
	assert.Contains(t, script, `jQuery("#a\u003c/script\u003e")`)
}
