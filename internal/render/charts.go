package render

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ChartKind selects how a chart is drawn
type ChartKind string

const (
	Doughnut ChartKind = "doughnut"
	Bar      ChartKind = "bar"
	Radar    ChartKind = "radar"
	Line     ChartKind = "line"
)

// Series is one named set of values
type Series struct {
	Label  string
	Values []float64
}

// ChartSpec describes a chart. Max of zero scales to the largest value.
type ChartSpec struct {
	Kind   ChartKind
	Title  string
	Labels []string
	Series []Series
	Max    float64
}

// Chart is a created chart instance
type Chart interface {
	View() string
	Destroy()
}

// Palette colors the chart segments
type Palette struct {
	High   lipgloss.TerminalColor
	Medium lipgloss.TerminalColor
	Low    lipgloss.TerminalColor
	Accent lipgloss.TerminalColor
	Muted  lipgloss.TerminalColor
}

// DefaultPalette matches the dashboard risk colors
func DefaultPalette() Palette {
	return Palette{
		High:   lipgloss.Color("#EF4444"),
		Medium: lipgloss.Color("#F59E0B"),
		Low:    lipgloss.Color("#10B981"),
		Accent: lipgloss.Color("#3B82F6"),
		Muted:  lipgloss.Color("#9CA3AF"),
	}
}

// MonoPalette draws without color
func MonoPalette() Palette {
	return Palette{
		High:   lipgloss.NoColor{},
		Medium: lipgloss.NoColor{},
		Low:    lipgloss.NoColor{},
		Accent: lipgloss.NoColor{},
		Muted:  lipgloss.NoColor{},
	}
}

const (
	fullBlock  = "█"
	emptyBlock = "░"
)

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// TerminalCharts draws charts as text blocks
type TerminalCharts struct {
	width   int
	palette Palette
}

// NewTerminalCharts creates a chart renderer whose bars are width cells wide
func NewTerminalCharts(width int, palette Palette) *TerminalCharts {
	if width < 10 {
		width = 10
	}
	return &TerminalCharts{width: width, palette: palette}
}

// Create draws spec and returns the chart instance
func (t *TerminalCharts) Create(name string, spec ChartSpec) (Chart, error) {
	var body string
	switch spec.Kind {
	case Doughnut:
		body = t.doughnut(spec)
	case Bar:
		body = t.bar(spec)
	case Radar:
		body = t.radar(spec)
	case Line:
		body = t.line(spec)
	default:
		return nil, fmt.Errorf("chart %s: unsupported kind %q", name, spec.Kind)
	}

	title := spec.Title
	if title == "" {
		title = name
	}
	return &textChart{view: lipgloss.NewStyle().Bold(true).Render(title) + "\n" + body}, nil
}

type textChart struct {
	view      string
	destroyed bool
}

func (c *textChart) View() string {
	if c.destroyed {
		return ""
	}
	return c.view
}

func (c *textChart) Destroy() {
	c.destroyed = true
	c.view = ""
}

func (t *TerminalCharts) segmentColor(i int) lipgloss.TerminalColor {
	colors := []lipgloss.TerminalColor{t.palette.High, t.palette.Medium, t.palette.Low, t.palette.Accent}
	return colors[i%len(colors)]
}

// doughnut renders the shares of one series as a single proportional bar
func (t *TerminalCharts) doughnut(spec ChartSpec) string {
	values := firstSeries(spec)
	total := 0.0
	for _, v := range values {
		total += math.Max(v, 0)
	}
	if total == 0 {
		return lipgloss.NewStyle().Foreground(t.palette.Muted).Render(strings.Repeat(emptyBlock, t.width)) + "\n(no data)"
	}

	var bar, legend strings.Builder
	used := 0
	for i, v := range values {
		cells := int(math.Round(math.Max(v, 0) / total * float64(t.width)))
		if i == len(values)-1 {
			cells = t.width - used
		}
		if used+cells > t.width {
			cells = t.width - used
		}
		style := lipgloss.NewStyle().Foreground(t.segmentColor(i))
		bar.WriteString(style.Render(strings.Repeat(fullBlock, cells)))
		used += cells

		fmt.Fprintf(&legend, "%s %s %s (%.0f%%)\n",
			style.Render(fullBlock), labelAt(spec.Labels, i), formatValue(v), v/total*100)
	}
	return bar.String() + "\n" + strings.TrimRight(legend.String(), "\n")
}

// bar renders one horizontal bar per label
func (t *TerminalCharts) bar(spec ChartSpec) string {
	values := firstSeries(spec)
	ceiling := scaleMax(spec, values)
	pad := labelWidth(spec.Labels)
	style := lipgloss.NewStyle().Foreground(t.palette.Accent)

	lines := make([]string, 0, len(values))
	for i, v := range values {
		lines = append(lines, fmt.Sprintf("%-*s %s %s",
			pad, labelAt(spec.Labels, i), style.Render(t.fill(v, ceiling)), formatValue(v)))
	}
	return strings.Join(lines, "\n")
}

// radar renders each axis as a pair of bars, one per series
func (t *TerminalCharts) radar(spec ChartSpec) string {
	ceiling := spec.Max
	if ceiling <= 0 {
		ceiling = 100
	}
	seriesPad := 0
	for _, s := range spec.Series {
		if len(s.Label) > seriesPad {
			seriesPad = len(s.Label)
		}
	}

	var b strings.Builder
	for i := range spec.Labels {
		fmt.Fprintf(&b, "%s\n", spec.Labels[i])
		for si, s := range spec.Series {
			v := valueAt(s.Values, i)
			color := t.palette.Accent
			if si > 0 {
				color = t.palette.Muted
			}
			fmt.Fprintf(&b, "  %-*s %s %s\n", seriesPad, s.Label,
				lipgloss.NewStyle().Foreground(color).Render(t.fill(v, ceiling)), formatValue(v))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// line renders the first series as a sparkline with its first and last labels
func (t *TerminalCharts) line(spec ChartSpec) string {
	values := firstSeries(spec)
	if len(values) == 0 {
		return "(no data)"
	}
	ceiling := scaleMax(spec, values)

	var spark strings.Builder
	for _, v := range values {
		level := int(math.Round(clamp(v/ceiling, 0, 1) * float64(len(sparkLevels)-1)))
		spark.WriteRune(sparkLevels[level])
	}

	out := lipgloss.NewStyle().Foreground(t.palette.Accent).Render(spark.String())
	out += fmt.Sprintf("  latest %s/%s", formatValue(values[len(values)-1]), formatValue(ceiling))
	if len(spec.Labels) > 0 {
		out += fmt.Sprintf("\n%s .. %s", spec.Labels[0], spec.Labels[len(spec.Labels)-1])
	}
	return out
}

func (t *TerminalCharts) fill(v, ceiling float64) string {
	cells := int(math.Round(clamp(v/ceiling, 0, 1) * float64(t.width)))
	return strings.Repeat(fullBlock, cells) + strings.Repeat(emptyBlock, t.width-cells)
}

func firstSeries(spec ChartSpec) []float64 {
	if len(spec.Series) == 0 {
		return nil
	}
	return spec.Series[0].Values
}

func scaleMax(spec ChartSpec, values []float64) float64 {
	if spec.Max > 0 {
		return spec.Max
	}
	ceiling := 0.0
	for _, v := range values {
		ceiling = math.Max(ceiling, v)
	}
	if ceiling == 0 {
		return 1
	}
	return ceiling
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		if n := lipgloss.Width(l); n > w {
			w = n
		}
	}
	return w
}

func labelAt(labels []string, i int) string {
	if i < len(labels) {
		return labels[i]
	}
	return fmt.Sprintf("#%d", i+1)
}

func valueAt(values []float64, i int) float64 {
	if i < len(values) {
		return values[i]
	}
	return 0
}

func formatValue(v float64) string {
	if v == math.Trunc(v) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.1f", v)
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}
