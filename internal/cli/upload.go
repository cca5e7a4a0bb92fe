package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/formatter"
	"github.com/WajidKarimm/legalease-ai/internal/upload"
)

func newUploadCommand() *cobra.Command {
	var (
		contentType string
		open        bool
	)

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a contract for analysis",
		Long: `Upload a PDF or Word contract (at most 10MB) to the analysis service.

The analysis becomes the current contract and the dashboard is shown.
The document type is taken from the file extension unless --type is given.`,
		Example: `  # Analyze a contract and print the dashboard overview
  legalease upload offer.pdf

  # Analyze and open the interactive dashboard
  legalease upload offer.docx --open

  # Analyze and print the report as JSON
  legalease upload offer.pdf -o json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			doc, err := upload.FromFile(args[0], contentType)
			if err != nil {
				return err
			}

			var f formatter.Formatter
			if format := strings.ToLower(a.format()); format != "" && format != "text" {
				if f, err = a.formatter(); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s Uploading %s (%s)\n",
				emoji.GetEmoji("upload"), doc.Name, upload.FormatFileSize(doc.Size))

			result, err := a.flow(cmd.ErrOrStderr()).Process(ctx, doc)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s Analysis complete: %s (contract %s)\n\n",
				emoji.GetEmoji("success"), result.Analysis.DisplayTitle(), result.ContractID)

			if open {
				return runDashboardTUI(ctx, a)
			}

			if f != nil {
				data, err := f.Format(&formatter.Report{
					ContractID: result.ContractID,
					Analysis:   result.Analysis,
					Metadata:   &result.Metadata,
				})
				if err != nil {
					return err
				}
				_, err = a.out.Write(data)
				return err
			}

			renderer := a.renderer()
			defer renderer.Close()
			fmt.Fprintln(a.out, renderer.Render(dashboard.SnapshotOf(a.state)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&contentType, "type", "t", "", "document content type (default: from the file extension)")
	cmd.Flags().BoolVar(&open, "open", false, "open the interactive dashboard after the analysis")

	return cmd
}
