package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
)

// csvFormatter formats clauses as CSV
type csvFormatter struct{}

// NewCSV creates a new CSV formatter
func NewCSV() Formatter {
	return &csvFormatter{}
}

func (f *csvFormatter) Format(report *Report) ([]byte, error) {
	if err := checkReport(report); err != nil {
		return nil, err
	}

	var b bytes.Buffer
	writer := csv.NewWriter(&b)

	headers := []string{
		"Clause ID",
		"Type",
		"Risk Level",
		"Risk Score",
		"Percentile",
		"Concerns",
		"Content",
	}

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range report.Analysis.Clauses {
		percentile := ""
		if c.IndustryComparison != nil {
			percentile = formatScore(c.IndustryComparison.Percentile)
		}

		record := []string{
			c.ID,
			c.Type,
			c.RiskLevel.String(),
			formatScore(c.RiskScore),
			percentile,
			strings.Join(c.Concerns, "; "),
			escapeCSVString(c.Content),
		}

		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return b.Bytes(), nil
}
