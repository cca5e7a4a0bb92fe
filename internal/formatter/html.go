package formatter

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/WajidKarimm/legalease-ai/internal/render"
)

// htmlFormatter renders the Markdown report as a standalone HTML page
type htmlFormatter struct {
	markdown *render.Markdown
}

// NewHTML creates a new HTML formatter
func NewHTML() Formatter {
	return &htmlFormatter{markdown: render.NewMarkdown(false)}
}

var pageTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; max-width: 960px; margin: 2rem auto; padding: 0 1rem; color: #111827; }
table { border-collapse: collapse; }
th, td { border: 1px solid #D1D5DB; padding: .4rem .6rem; text-align: left; }
blockquote { border-left: 4px solid #3B82F6; margin-left: 0; padding-left: 1rem; color: #374151; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func (f *htmlFormatter) Format(report *Report) ([]byte, error) {
	md, err := NewMarkdown().Format(report)
	if err != nil {
		return nil, err
	}

	// goldmark drops raw HTML unless rendering is marked unsafe
	body, err := f.markdown.HTML(string(md))
	if err != nil {
		return nil, fmt.Errorf("failed to render HTML: %w", err)
	}

	var b bytes.Buffer
	err = pageTemplate.Execute(&b, struct {
		Title string
		Body  template.HTML
	}{
		Title: report.Analysis.DisplayTitle(),
		// #nosec G203 - goldmark output with raw HTML omitted
		Body: template.HTML(body),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to write HTML page: %w", err)
	}
	return b.Bytes(), nil
}
