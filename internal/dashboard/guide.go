package dashboard

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// DefaultGuide is shown when no guide could be generated for the contract
func DefaultGuide() *contract.NegotiationGuide {
	return &contract.NegotiationGuide{
		Sections: []contract.NegotiationSection{
			{
				Title:    "Non-Compete Clause",
				Current:  "2 years, 50-mile radius",
				Propose:  "12 months, 25-mile radius",
				Script:   `"I'm concerned about the 2-year non-compete period. Industry standard for similar roles is typically 12 months with a 25-mile radius. Would you be open to adjusting these terms to align with market norms?"`,
				Fallback: "18 months, 35-mile radius with exceptions for certain industries",
			},
			{
				Title:   "Termination & Severance",
				Current: "At-will employment, no severance",
				Propose: "2 weeks notice, 2 weeks severance per year of service",
				Script:  `"I'd like to discuss adding a mutual notice period of 2 weeks and a severance package of 2 weeks per year of service. This is standard in the industry and provides stability for both parties."`,
			},
		},
		Tips: []string{
			"Start with your ideal terms, but be prepared to compromise",
			"Reference industry standards to back up your requests",
			"Be professional and collaborative, not confrontational",
			"Get all changes in writing before signing",
			"Consider consulting an employment lawyer for high-value contracts",
		},
	}
}

// GuideMarkdown returns the guide as markdown. Server-supplied markdown
// wins over server HTML, which wins over structured sections; a guide
// with none of them yields "".
func GuideMarkdown(g *contract.NegotiationGuide) string {
	if g == nil {
		return ""
	}
	if strings.TrimSpace(g.Markdown) != "" {
		return g.Markdown
	}
	if strings.TrimSpace(g.HTML) != "" {
		if md := HTMLToMarkdown(g.HTML); md != "" {
			return md
		}
	}
	if len(g.Sections) == 0 && len(g.Tips) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("## Your Negotiation Strategy\n\n")
	b.WriteString("Based on our analysis, here are the key points to negotiate:\n\n")

	for i, s := range g.Sections {
		fmt.Fprintf(&b, "### %d. %s\n\n", i+1, s.Title)
		writeField(&b, "Current Terms", s.Current)
		writeField(&b, "Propose", s.Propose)
		writeField(&b, "How to say it", s.Script)
		writeField(&b, "Fallback position", s.Fallback)
	}

	if len(g.Tips) > 0 {
		b.WriteString("### Negotiation Tips\n\n")
		for _, tip := range g.Tips {
			fmt.Fprintf(&b, "- %s\n", tip)
		}
	}
	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if value == "" {
		return
	}
	fmt.Fprintf(b, "**%s:** %s\n\n", label, value)
}

// HTMLToMarkdown turns a server HTML fragment into markdown text. Only
// headings, paragraphs, lists, line breaks and emphasis survive; scripts
// and styles are dropped.
func HTMLToMarkdown(src string) string {
	doc, err := html.Parse(strings.NewReader(src))
	if err != nil {
		return ""
	}

	var b strings.Builder
	var walk func(n *html.Node)
	children := func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(collapseSpace(n.Data))
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head, atom.Title:
				return
			case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
				level := int(n.Data[1] - '0')
				b.WriteString("\n\n" + strings.Repeat("#", level) + " ")
				children(n)
				b.WriteString("\n\n")
				return
			case atom.P, atom.Div, atom.Section, atom.Ul, atom.Ol, atom.Table:
				b.WriteString("\n\n")
				children(n)
				b.WriteString("\n\n")
				return
			case atom.Li, atom.Tr:
				b.WriteString("\n- ")
				children(n)
				return
			case atom.Br:
				b.WriteString("\n")
				return
			case atom.Strong, atom.B:
				b.WriteString("**")
				children(n)
				b.WriteString("**")
				return
			case atom.Em, atom.I:
				b.WriteString("*")
				children(n)
				b.WriteString("*")
				return
			}
		}
		children(n)
	}
	walk(doc)

	var out []string
	blank := true
	for _, line := range strings.Split(b.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// collapseSpace folds runs of whitespace into one space, keeping a single
// leading or trailing space so inline elements stay separated
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			return " "
		}
		return ""
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s[:1], " \t\n\r") == "" {
		out = " " + out
	}
	if strings.TrimRight(s[len(s)-1:], " \t\n\r") == "" {
		out += " "
	}
	return out
}
