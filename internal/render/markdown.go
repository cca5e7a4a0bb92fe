package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// Markdown renders markdown for the terminal or as HTML
type Markdown struct {
	md      goldmark.Markdown
	heading lipgloss.Style
	strong  lipgloss.Style
	em      lipgloss.Style
	code    lipgloss.Style
	muted   lipgloss.Style
}

// NewMarkdown creates a renderer. With color off the output is plain text.
func NewMarkdown(color bool) *Markdown {
	m := &Markdown{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
	if color {
		m.heading = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3B82F6"))
		m.strong = lipgloss.NewStyle().Bold(true)
		m.em = lipgloss.NewStyle().Italic(true)
		m.code = lipgloss.NewStyle().Foreground(lipgloss.Color("#A855F7"))
		m.muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	}
	return m
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// Render converts markdown to styled terminal text
func (m *Markdown) Render(markdown string) (string, error) {
	src := []byte(markdown)
	doc := m.md.Parser().Parse(text.NewReader(src))

	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		return m.visit(&b, n, src, entering), nil
	})
	if err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}

	out := blankRuns.ReplaceAllString(b.String(), "\n\n")
	return strings.TrimSpace(out), nil
}

// HTML converts markdown to an HTML fragment
func (m *Markdown) HTML(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("converting markdown: %w", err)
	}
	return buf.String(), nil
}

func (m *Markdown) visit(b *strings.Builder, n ast.Node, src []byte, entering bool) ast.WalkStatus {
	switch node := n.(type) {
	case *ast.Heading:
		if entering {
			b.WriteString("\n")
			b.WriteString(m.heading.Render(plainText(node, src)))
			b.WriteString("\n\n")
		}
		return ast.WalkSkipChildren

	case *ast.Paragraph:
		if !entering {
			if _, inItem := node.Parent().(*ast.ListItem); inItem {
				b.WriteString("\n")
			} else {
				b.WriteString("\n\n")
			}
		}

	case *ast.TextBlock:
		if !entering {
			b.WriteString("\n")
		}

	case *ast.Text:
		if entering {
			b.Write(node.Segment.Value(src))
			switch {
			case node.HardLineBreak():
				b.WriteString("\n")
			case node.SoftLineBreak():
				b.WriteString(" ")
			}
		}

	case *ast.String:
		if entering {
			b.Write(node.Value)
		}

	case *ast.Emphasis:
		if entering {
			style := m.em
			if node.Level >= 2 {
				style = m.strong
			}
			b.WriteString(style.Render(plainText(node, src)))
		}
		return ast.WalkSkipChildren

	case *ast.CodeSpan:
		if entering {
			b.WriteString(m.code.Render(plainText(node, src)))
		}
		return ast.WalkSkipChildren

	case *ast.Link:
		if entering {
			b.WriteString(plainText(node, src))
			if dest := string(node.Destination); dest != "" {
				b.WriteString(m.muted.Render(" (" + dest + ")"))
			}
		}
		return ast.WalkSkipChildren

	case *ast.AutoLink:
		if entering {
			b.Write(node.URL(src))
		}
		return ast.WalkSkipChildren

	case *ast.ListItem:
		if entering {
			b.WriteString(strings.Repeat("  ", listDepth(node)-1))
			b.WriteString(bullet(node))
		}

	case *ast.List:
		if !entering && listDepth(node) == 0 {
			b.WriteString("\n")
		}

	case *ast.FencedCodeBlock, *ast.CodeBlock:
		if entering {
			lines := n.Lines()
			for i := 0; i < lines.Len(); i++ {
				line := lines.At(i)
				b.WriteString("    ")
				b.WriteString(m.code.Render(strings.TrimRight(string(line.Value(src)), "\n")))
				b.WriteString("\n")
			}
			b.WriteString("\n")
		}
		return ast.WalkSkipChildren

	case *ast.Blockquote:
		if entering {
			b.WriteString(m.muted.Render("│ "))
		}

	case *ast.ThematicBreak:
		if entering {
			b.WriteString(m.muted.Render(strings.Repeat("─", 20)))
			b.WriteString("\n\n")
		}

	case *east.TableCell:
		if entering && node.PreviousSibling() != nil {
			b.WriteString(m.muted.Render(" | "))
		}

	case *east.TableHeader, *east.TableRow:
		if !entering {
			b.WriteString("\n")
		}

	case *east.Table:
		if !entering {
			b.WriteString("\n")
		}

	case *ast.HTMLBlock, *ast.RawHTML:
		return ast.WalkSkipChildren
	}
	return ast.WalkContinue
}

// plainText concatenates the text beneath n
func plainText(n ast.Node, src []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}

// listDepth counts the lists enclosing n, not counting n itself
func listDepth(n ast.Node) int {
	depth := 0
	for p := n; p != nil; p = p.Parent() {
		if _, ok := p.(*ast.List); ok {
			depth++
		}
	}
	if _, ok := n.(*ast.List); ok {
		depth--
	}
	return depth
}

func bullet(item *ast.ListItem) string {
	list, ok := item.Parent().(*ast.List)
	if !ok || !list.IsOrdered() {
		return "• "
	}
	index := list.Start
	for s := item.PreviousSibling(); s != nil; s = s.PreviousSibling() {
		index++
	}
	return fmt.Sprintf("%d. ", index)
}
