package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/upload"
)

func newWatchCommand() *cobra.Command {
	var (
		metricsAddr string
		contentType string
	)

	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Analyze every contract dropped into a directory",
		Long: `Watch a directory and upload each new PDF or Word file for analysis
once writes to it have settled. The last analyzed file becomes the
current contract. Press Ctrl+C to stop watching.

With metrics.enabled or --metrics, request and upload counters are served
in the prometheus format on /metrics while watching.`,
		Example: `  legalease watch ./inbox
  legalease watch --metrics 127.0.0.1:9464`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			dir := a.cfg.Watch.Directory
			if len(args) == 1 {
				dir = args[0]
			}
			dir = filepath.Clean(dir)

			var wg sync.WaitGroup
			defer wg.Wait()
			if metricsAddr == "" && a.cfg.Metrics.Enabled {
				metricsAddr = a.cfg.Metrics.Addr
			}
			if metricsAddr != "" {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if err := a.metrics.Serve(ctx, metricsAddr); err != nil {
						a.log.Error("%v", err)
					}
				}()
				fmt.Fprintf(cmd.ErrOrStderr(), "%s Metrics on http://%s/metrics\n", emoji.GetEmoji("statistics"), metricsAddr)
			}

			// concurrent uploads would interleave progress bars
			a.cfg.Upload.ShowProgress = false
			flow := a.flow(cmd.ErrOrStderr())

			var mu sync.Mutex
			report := func(format string, v ...any) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(a.out, format, v...)
			}

			inbox := upload.NewInbox(dir, a.cfg.Watch.Debounce, a.log)
			fmt.Fprintf(cmd.ErrOrStderr(), "%s Watching %s for contracts (Ctrl+C to stop)\n", emoji.GetEmoji("watch"), inbox.Dir())

			err = inbox.Run(ctx, func(ctx context.Context, path string) {
				doc, err := upload.FromFile(path, contentType)
				if err != nil {
					report("%s %s: %v\n", emoji.GetEmoji("error"), filepath.Base(path), err)
					return
				}
				result, err := flow.Process(ctx, doc)
				if err != nil {
					report("%s %s: %v\n", emoji.GetEmoji("error"), doc.Name, err)
					return
				}
				score := result.Analysis.Summary.OverallRiskScore
				report("%s %s: %s, risk %.1f/10 (%s), contract %s\n",
					emoji.GetEmoji("success"), doc.Name, result.Analysis.DisplayTitle(),
					score, contract.RiskIndicator(score), result.ContractID)
			})
			cancel()
			return err
		},
	}

	cmd.Flags().StringVar(&metricsAddr, "metrics", "", "serve prometheus metrics on this address")
	cmd.Flags().StringVarP(&contentType, "type", "t", "", "document content type (default: from the file extension)")

	return cmd
}
