package server

import (
	"html/template"
	"io"

	"github.com/Masterminds/sprig/v3"
)

// Default client assets for the treegrid widget.
var (
	DefaultScripts = []string{
		"https://code.jquery.com/jquery-3.7.1.min.js",
		"https://cdn.jsdelivr.net/npm/jquery-treegrid@0.3.0/js/jquery.treegrid.min.js",
	}
	DefaultStylesheets = []string{
		"https://cdn.jsdelivr.net/npm/jquery-treegrid@0.3.0/css/jquery.treegrid.css",
	}
)

const pageTemplate = `<!DOCTYPE html>
<html lang="{{ .Lang | default "en" }}">
<head>
<meta charset="utf-8">
<title>{{ .Title | trim | default "Tree" }}</title>
{{- range .Stylesheets }}
<link rel="stylesheet" href="{{ . }}">
{{- end }}
</head>
<body>
{{ .Grid }}
{{- range .Scripts }}
<script src="{{ . }}"></script>
{{- end }}
<script>{{ .Script }}</script>
</body>
</html>
`

// page is the data of the full page template.
type page struct {
	Lang        string
	Title       string
	Stylesheets []string
	Scripts     []string
	Grid        template.HTML
	Script      template.JS
}

func newPageTemplate() *template.Template {
	return template.Must(template.New("page").Funcs(sprig.FuncMap()).Parse(pageTemplate))
}

func (p *page) execute(t *template.Template, w io.Writer) error {
	return t.Execute(w, p)
}
