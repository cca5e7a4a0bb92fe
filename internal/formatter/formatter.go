package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// Report is everything an exported analysis can contain. Only Analysis is
// required.
type Report struct {
	ContractID  string
	Analysis    *contract.AnalysisResult
	Metadata    *contract.Metadata
	Comparison  *contract.ComparisonReport
	History     *contract.RiskHistory
	Guide       *contract.NegotiationGuide
	GeneratedAt time.Time
}

// Formatter defines the interface for output formatting
type Formatter interface {
	Format(report *Report) ([]byte, error)
}

// Formats lists the supported output formats
var Formats = []string{"text", "json", "markdown", "csv", "html"}

// New returns the formatter for format
func New(format string, color bool) (Formatter, error) {
	switch strings.ToLower(format) {
	case "", "text":
		return NewTerminal(color), nil
	case "json":
		return NewJSON(), nil
	case "markdown", "md":
		return NewMarkdown(), nil
	case "csv":
		return NewCSV(), nil
	case "html":
		return NewHTML(), nil
	default:
		return nil, fmt.Errorf("unsupported output format: %s (must be one of: %s)", format, strings.Join(Formats, ", "))
	}
}

// Extension returns the file extension for format
func Extension(format string) string {
	switch strings.ToLower(format) {
	case "json":
		return ".json"
	case "markdown", "md":
		return ".md"
	case "csv":
		return ".csv"
	case "html":
		return ".html"
	default:
		return ".txt"
	}
}

func checkReport(report *Report) error {
	if report == nil || report.Analysis == nil {
		return fmt.Errorf("report has no analysis")
	}
	return nil
}
