package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"

	"github.com/WajidKarimm/legalease-ai/internal/render"
)

// Theme represents a color theme for the TUI
type Theme struct {
	Name string

	// Primary colors
	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Accent    lipgloss.AdaptiveColor

	// Risk colors
	Success lipgloss.AdaptiveColor
	Warning lipgloss.AdaptiveColor
	Error   lipgloss.AdaptiveColor
	Info    lipgloss.AdaptiveColor

	// UI colors
	Border   lipgloss.AdaptiveColor
	Muted    lipgloss.AdaptiveColor
	Selected lipgloss.AdaptiveColor
}

// buildTheme creates a theme with the given colors
func buildTheme(name string, primary, secondary, accent, success, warning, errorColor, info, border, muted, selected [2]string) Theme {
	return Theme{
		Name:      name,
		Primary:   lipgloss.AdaptiveColor{Light: primary[0], Dark: primary[1]},
		Secondary: lipgloss.AdaptiveColor{Light: secondary[0], Dark: secondary[1]},
		Accent:    lipgloss.AdaptiveColor{Light: accent[0], Dark: accent[1]},
		Success:   lipgloss.AdaptiveColor{Light: success[0], Dark: success[1]},
		Warning:   lipgloss.AdaptiveColor{Light: warning[0], Dark: warning[1]},
		Error:     lipgloss.AdaptiveColor{Light: errorColor[0], Dark: errorColor[1]},
		Info:      lipgloss.AdaptiveColor{Light: info[0], Dark: info[1]},
		Border:    lipgloss.AdaptiveColor{Light: border[0], Dark: border[1]},
		Muted:     lipgloss.AdaptiveColor{Light: muted[0], Dark: muted[1]},
		Selected:  lipgloss.AdaptiveColor{Light: selected[0], Dark: selected[1]},
	}
}

// Available themes
var (
	DefaultTheme = buildTheme("default",
		[2]string{"#1E40AF", "#3B82F6"}, [2]string{"#6B7280", "#9CA3AF"}, [2]string{"#7C3AED", "#A855F7"},
		[2]string{"#059669", "#10B981"}, [2]string{"#D97706", "#F59E0B"}, [2]string{"#DC2626", "#EF4444"},
		[2]string{"#0891B2", "#06B6D4"}, [2]string{"#D1D5DB", "#374151"}, [2]string{"#6B7280", "#9CA3AF"},
		[2]string{"#DBEAFE", "#1E3A8A"})

	HighContrastTheme = buildTheme("high-contrast",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"}, [2]string{"#000080", "#8080FF"},
		[2]string{"#006600", "#00FF00"}, [2]string{"#CC6600", "#FFAA00"}, [2]string{"#CC0000", "#FF4444"},
		[2]string{"#0066CC", "#4499FF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#666666", "#BBBBBB"},
		[2]string{"#FFFF00", "#444444"})

	MonoTheme = buildTheme("mono",
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#555555", "#AAAAAA"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#000000", "#FFFFFF"}, [2]string{"#000000", "#FFFFFF"},
		[2]string{"#000000", "#FFFFFF"}, [2]string{"#888888", "#777777"}, [2]string{"#555555", "#AAAAAA"},
		[2]string{"#DDDDDD", "#333333"})
)

// ThemeByName returns the named theme
func ThemeByName(name string) (Theme, bool) {
	switch name {
	case "", "default":
		return DefaultTheme, true
	case "high-contrast":
		return HighContrastTheme, true
	case "mono":
		return MonoTheme, true
	default:
		return Theme{}, false
	}
}

// GetAvailableThemes returns list of available theme names
func GetAvailableThemes() []string {
	return []string{"default", "high-contrast", "mono"}
}

// IsColorDisabled checks if colors should be disabled
func IsColorDisabled() bool {
	return os.Getenv("NO_COLOR") != ""
}

// Palette returns the chart colors for the theme
func (t Theme) Palette() render.Palette {
	if t.Name == MonoTheme.Name {
		return render.MonoPalette()
	}
	return render.Palette{
		High:   t.Error,
		Medium: t.Warning,
		Low:    t.Success,
		Accent: t.Primary,
		Muted:  t.Muted,
	}
}

// Styles contains all the styled components
type Styles struct {
	Theme Theme

	Title    lipgloss.Style
	Header   lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Warning  lipgloss.Style
	Error    lipgloss.Style
	Info     lipgloss.Style
	Selected lipgloss.Style
	Box      lipgloss.Style

	// Chat roles
	User      lipgloss.Style
	Assistant lipgloss.Style
}

// NewStyles builds styles for a theme. With color off only weight and
// borders remain.
func NewStyles(theme Theme, color bool) Styles {
	s := Styles{
		Theme:     theme,
		Title:     lipgloss.NewStyle().Bold(true).Padding(0, 1),
		Header:    lipgloss.NewStyle().Bold(true),
		Muted:     lipgloss.NewStyle(),
		Success:   lipgloss.NewStyle().Bold(true),
		Warning:   lipgloss.NewStyle().Bold(true),
		Error:     lipgloss.NewStyle().Bold(true),
		Info:      lipgloss.NewStyle(),
		Selected:  lipgloss.NewStyle().Bold(true),
		Box:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		User:      lipgloss.NewStyle().Bold(true),
		Assistant: lipgloss.NewStyle().Bold(true),
	}
	if !color {
		return s
	}

	s.Title = s.Title.Foreground(theme.Primary)
	s.Header = s.Header.Foreground(theme.Primary)
	s.Muted = s.Muted.Foreground(theme.Muted)
	s.Success = s.Success.Foreground(theme.Success)
	s.Warning = s.Warning.Foreground(theme.Warning)
	s.Error = s.Error.Foreground(theme.Error)
	s.Info = s.Info.Foreground(theme.Info)
	s.Selected = s.Selected.Background(theme.Selected).Foreground(theme.Primary)
	s.Box = s.Box.BorderForeground(theme.Border)
	s.User = s.User.Foreground(theme.Accent)
	s.Assistant = s.Assistant.Foreground(theme.Primary)
	return s
}
