package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/formatter"
)

func newExportCommand() *cobra.Command {
	var outputFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the full report of the current contract",
		Long: `Write the analysis, industry comparison, risk history and negotiation
guide of the current contract as text, JSON, Markdown, CSV or HTML.

Without --file the report goes to standard output. A file name without an
extension gets the one matching the format.`,
		Example: `  legalease export -o markdown --file report
  legalease export -o html --file offer.html
  legalease export -o csv > clauses.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if _, err := a.state.RequireContract(); err != nil {
				return err
			}

			loader := a.loader()
			if err := loader.Refresh(ctx); err != nil {
				return err
			}
			report := a.report(ctx, loader)

			color := a.color
			if outputFile != "" {
				color = false
			}
			f, err := formatter.New(a.format(), color)
			if err != nil {
				return err
			}
			data, err := f.Format(report)
			if err != nil {
				return err
			}

			if outputFile == "" {
				_, err = a.out.Write(data)
				return err
			}

			path := outputFile
			if filepath.Ext(path) == "" {
				path += formatter.Extension(a.format())
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("failed to write %s: %w", path, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Report written to %s\n", emoji.GetEmoji("success"), path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFile, "file", "f", "", "write the report to this file")

	return cmd
}
