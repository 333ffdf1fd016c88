package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTag_Render(t *testing.T) {
	tests := []struct {
		name    string
		tag     string
		content string
		attrs   Attrs
		want    string
	}{
		{name: "no attributes", tag: "td", content: "x", want: "<td>x</td>"},
		{name: "content is verbatim", tag: "td", content: "<b>x</b>", want: "<td><b>x</b></td>"},
		{name: "void element", tag: "col", content: "ignored", attrs: Attrs{"width": "20%"}, want: `<col width="20%">`},
		{
			name:  "priority attributes first then lexical",
			tag:   "tr",
			attrs: Attrs{"data-key": "2", "class": "a b", "id": "r2", "data-count": 3},
			want:  `<tr id="r2" class="a b" data-count="3" data-key="2"></tr>`,
		},
		{name: "escaped values", tag: "div", attrs: Attrs{"title": `a"<b>`}, want: `<div title="a&#34;&lt;b&gt;"></div>`},
		{name: "booleans", tag: "input", attrs: Attrs{"checked": true, "disabled": false}, want: `<input checked>`},
		{name: "nil skipped", tag: "span", attrs: Attrs{"title": nil}, want: `<span></span>`},
		{name: "json value", tag: "div", attrs: Attrs{"data-cfg": map[string]int{"a": 1}}, want: `<div data-cfg="{&#34;a&#34;:1}"></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tag(tt.tag, tt.content, tt.attrs))
		})
	}
}

func TestAttrs_AddClass(t *testing.T) {
	a := Attrs{"class": "row highlight"}
	a.AddClass("treegrid-1", "highlight", "treegrid-parent-0 extra")
	assert.Equal(t, []string{"row", "highlight", "treegrid-1", "treegrid-parent-0", "extra"}, a["class"])

	empty := Attrs{}
	empty.AddClass()
	_, ok := empty["class"]
	assert.False(t, ok)
}

func TestAttrs_CloneIsolatesClasses(t *testing.T) {
	orig := Attrs{"class": []string{"a"}}
	c := orig.Clone()
	c.AddClass("b")
	assert.Equal(t, []string{"a"}, orig["class"])
	assert.Equal(t, []string{"a", "b"}, c["class"])
}

func TestAttrs_Pop(t *testing.T) {
	a := Attrs{"tag": "section", "class": "x"}
	assert.Equal(t, "section", a.Pop("tag", "div"))
	assert.Equal(t, "div", a.Pop("tag", "div"))
	_, ok := a["tag"]
	assert.False(t, ok)
}
