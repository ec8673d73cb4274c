package render

import (
	"html/template"
	"strings"

	"github.com/jonathan/cv-generator/internal/types"
)

// htmlTemplate renders the document tree to the intermediate HTML handed
// to the browser. Block style refs become CSS classes resolved by the
// theme stylesheet.
const htmlTemplate = `<!DOCTYPE html>
<html lang="{{.Doc.Locale}}">
<head>
<meta charset="utf-8">
<title>{{.Doc.Title}}</title>
<style>{{.Stylesheet}}</style>
</head>
<body class="theme-{{.Doc.Theme}}">
{{range .Doc.Sections}}<section id="{{.ID}}">
{{if .Title}}<h2 class="section-title">{{.Title}}</h2>{{end}}
{{range .Blocks}}{{if eq .Kind "heading"}}<h{{headingLevel .Level}} class="{{.StyleRef}}">{{.Text}}</h{{headingLevel .Level}}>
{{else if eq .Kind "paragraph"}}<p class="{{.StyleRef}}">{{.Text}}</p>
{{else if eq .Kind "list"}}<ul class="{{.StyleRef}}">{{range .Items}}<li>{{.}}</li>{{end}}</ul>
{{else if eq .Kind "styled_box"}}<div class="box {{.StyleRef}}">{{.Text}}</div>
{{end}}{{end}}</section>
{{end}}</body>
</html>`

var docTemplate = template.Must(template.New("cv").Funcs(template.FuncMap{
	"headingLevel": headingLevel,
}).Parse(htmlTemplate))

// headingLevel clamps heading levels into the h1..h4 range.
func headingLevel(level int) int {
	if level < 1 {
		return 1
	}
	if level > 4 {
		return 4
	}
	return level
}

type templateData struct {
	Doc        *types.Document
	Stylesheet template.CSS
}

// BuildHTML renders a document description to HTML.
func BuildHTML(doc *types.Document) (string, error) {
	if doc == nil {
		return "", &TemplateError{Message: "nil document"}
	}

	var out strings.Builder
	data := templateData{
		Doc:        doc,
		Stylesheet: template.CSS(stylesheetFor(doc.Theme)),
	}
	if err := docTemplate.Execute(&out, data); err != nil {
		return "", &TemplateError{Message: "failed to execute document template", Cause: err}
	}
	return out.String(), nil
}

// stylesheetFor returns the theme's CSS. Themes share layout rules and
// differ only in typography and accent styling.
func stylesheetFor(theme types.Theme) string {
	base := `
body { font-family: "Helvetica Neue", Arial, sans-serif; color: #1a1a1a; margin: 0; }
section { margin-bottom: 14px; }
.section-title { border-bottom: 1px solid #ccc; padding-bottom: 2px; font-size: 14px; text-transform: uppercase; letter-spacing: 1px; }
ul { margin: 4px 0; padding-left: 18px; }
p { margin: 2px 0; font-size: 12px; }
h1 { margin: 0; font-size: 26px; }
h3 { margin: 8px 0 0; font-size: 13px; }
`
	switch theme {
	case types.ThemeClassic:
		return base + `
body { font-family: Georgia, "Times New Roman", serif; }
.classic-name { font-variant: small-caps; }
.classic-dates { font-style: italic; color: #555; }
.classic-tags { color: #555; font-size: 11px; }
`
	case types.ThemeCompact:
		return base + `
p { font-size: 11px; }
h1 { font-size: 22px; }
section { margin-bottom: 8px; }
.compact-dates { color: #666; font-size: 10px; }
.compact-tags { color: #666; font-size: 10px; }
`
	default:
		return base + `
.modern-name { color: #0a3d62; }
.modern-subtitle { color: #3c6382; font-size: 14px; }
.modern-dates { color: #666; font-size: 11px; }
.modern-tags { color: #3c6382; font-size: 11px; }
`
	}
}
