package render

import (
	"strings"
	"testing"
)

func TestCreateKinds(t *testing.T) {
	charts := NewTerminalCharts(20, MonoPalette())

	tests := []struct {
		name string
		spec ChartSpec
		want []string
	}{
		{
			name: "doughnut",
			spec: ChartSpec{
				Kind:   Doughnut,
				Title:  "Risk Distribution",
				Labels: []string{"High Risk", "Medium Risk", "Low Risk"},
				Series: []Series{{Values: []float64{2, 1, 1}}},
			},
			want: []string{"Risk Distribution", "High Risk 2 (50%)", "Low Risk 1 (25%)"},
		},
		{
			name: "bar",
			spec: ChartSpec{
				Kind:   Bar,
				Labels: []string{"Non-Compete", "Termination"},
				Series: []Series{{Label: "Count", Values: []float64{3, 1}}},
			},
			want: []string{"bar", "Non-Compete " + strings.Repeat(fullBlock, 20) + " 3"},
		},
		{
			name: "radar",
			spec: ChartSpec{
				Kind:   Radar,
				Labels: []string{"Salary"},
				Series: []Series{
					{Label: "Your Contract", Values: []float64{75}},
					{Label: "Industry Average", Values: []float64{50}},
				},
				Max: 100,
			},
			want: []string{"Salary", "Your Contract", "Industry Average " + strings.Repeat(fullBlock, 10) + strings.Repeat(emptyBlock, 10) + " 50"},
		},
		{
			name: "line",
			spec: ChartSpec{
				Kind:   Line,
				Labels: []string{"Jan", "Feb", "Mar"},
				Series: []Series{{Values: []float64{0, 5, 10}}},
				Max:    10,
			},
			want: []string{"▁", "█", "latest 10/10", "Jan .. Mar"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chart, err := charts.Create(tt.name, tt.spec)
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			view := chart.View()
			for _, want := range tt.want {
				if !strings.Contains(view, want) {
					t.Errorf("view missing %q:\n%s", want, view)
				}
			}
		})
	}
}

func TestCreateUnknownKind(t *testing.T) {
	if _, err := NewTerminalCharts(20, MonoPalette()).Create("x", ChartSpec{Kind: "pie"}); err == nil {
		t.Error("expected error for unknown chart kind")
	}
}

func TestDestroyClearsView(t *testing.T) {
	chart, err := NewTerminalCharts(20, MonoPalette()).Create("riskChart", ChartSpec{
		Kind:   Bar,
		Labels: []string{"a"},
		Series: []Series{{Values: []float64{1}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	chart.Destroy()
	if chart.View() != "" {
		t.Errorf("destroyed chart still renders %q", chart.View())
	}
}

func TestDoughnutEmpty(t *testing.T) {
	chart, _ := NewTerminalCharts(10, MonoPalette()).Create("empty", ChartSpec{Kind: Doughnut})
	if !strings.Contains(chart.View(), "(no data)") {
		t.Errorf("unexpected view %q", chart.View())
	}
}

func TestDoughnutFillsWidth(t *testing.T) {
	chart, _ := NewTerminalCharts(10, MonoPalette()).Create("d", ChartSpec{
		Kind:   Doughnut,
		Series: []Series{{Values: []float64{1, 1, 1}}},
	})
	bar := strings.Split(chart.View(), "\n")[1]
	if n := strings.Count(bar, fullBlock); n != 10 {
		t.Errorf("bar has %d cells, want 10: %q", n, bar)
	}
}

func TestMarkdownRender(t *testing.T) {
	md := NewMarkdown(false)

	src := "# Your Negotiation Strategy\n\n" +
		"Based on **our analysis**, here are the `key` points:\n\n" +
		"1. Non-Compete\n2. Termination\n\n" +
		"- Start high\n- Get it in writing\n\n" +
		"See [the guide](https://example.com).\n"

	out, err := md.Render(src)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"Your Negotiation Strategy",
		"Based on our analysis, here are the key points:",
		"1. Non-Compete",
		"2. Termination",
		"• Start high",
		"• Get it in writing",
		"the guide (https://example.com)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "**") || strings.Contains(out, "# ") {
		t.Errorf("markdown syntax left in output:\n%s", out)
	}
}

func TestMarkdownCodeBlock(t *testing.T) {
	out, err := NewMarkdown(false).Render("```\nline one\nline two\n```\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "line one") || !strings.Contains(out, "    line two") {
		t.Errorf("unexpected code block rendering:\n%s", out)
	}
}

func TestMarkdownHTML(t *testing.T) {
	html, err := NewMarkdown(false).HTML("## Tips\n\n- one\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "<h2>Tips</h2>") || !strings.Contains(html, "<li>one</li>") {
		t.Errorf("unexpected html %q", html)
	}
}
