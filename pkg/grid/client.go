package grid

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// JSExpression is a plugin option value emitted verbatim into the client
// script instead of being JSON encoded.
type JSExpression string

// sourceCallback fetches the children of a node from route and hands the
// rows of the matching token-tagged fragment to the widget.
const sourceCallback = `function(id, complete) {
	var token = Math.random().toString(36).substr(2);
	$.get(%s, {%s: id, %s: token}, function(data) {
		complete($(data).find('[%s="' + token + '"] > table > tbody > tr'));
	});
}`

// currentPath is used when no route is configured.
const currentPath = JSExpression("window.location.pathname")

// clientOptions returns the widget options for a render. The default source
// callback is added only when lazy loading is active.
func (g *Grid) clientOptions(sc scope, req Request) map[string]any {
	opts := make(map[string]any, len(g.cfg.PluginOptions)+1)
	for k, v := range g.cfg.PluginOptions {
		opts[k] = v
	}
	if _, ok := opts["source"]; !ok && sc.lazy {
		opts["source"] = defaultSource(firstNonEmpty(req.Route, g.cfg.Route))
	}
	return opts
}

func defaultSource(route string) JSExpression {
	url := string(currentPath)
	if route != "" {
		url = jsString(route)
	}
	return JSExpression(fmt.Sprintf(sourceCallback, url, ParamNodeID, ParamToken, TokenAttr))
}

// jsString returns s as a JavaScript string literal that is safe inside an
// inline script element.
func jsString(s string) string {
	// json.Marshal escapes <, > and & so "</script>" cannot close the element.
	b, _ := json.Marshal(s)
	return string(b)
}

// clientScript returns the statement that attaches the widget to the table
// inside the container with the given id.
func clientScript(id string, opts map[string]any) (string, error) {
	encoded, err := encodeClientOptions(opts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`jQuery(%s).children("table").treegrid(%s);`, jsString("#"+id), encoded), nil
}

// encodeClientOptions JSON encodes opts, leaving JSExpression values as raw
// JavaScript.
func encodeClientOptions(opts map[string]any) (string, error) {
	if len(opts) == 0 {
		return "{}", nil
	}
	var exprs []string
	prefix := "__treegrid_js_"
	replaced := substituteExpressions(opts, prefix, &exprs)
	b, err := json.Marshal(replaced)
	if err != nil {
		return "", fmt.Errorf("encode plugin options: %w", err)
	}
	out := string(b)
	for i, e := range exprs {
		out = strings.Replace(out, strconv.Quote(prefix+strconv.Itoa(i)+"__"), e, 1)
	}
	return out, nil
}

func substituteExpressions(v any, prefix string, exprs *[]string) any {
	switch t := v.(type) {
	case JSExpression:
		*exprs = append(*exprs, string(t))
		return prefix + strconv.Itoa(len(*exprs)-1) + "__"
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = substituteExpressions(e, prefix, exprs)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = substituteExpressions(e, prefix, exprs)
		}
		return s
	default:
		return v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
