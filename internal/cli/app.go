package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/api"
	"github.com/WajidKarimm/legalease-ai/internal/chat"
	"github.com/WajidKarimm/legalease-ai/internal/config"
	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
	"github.com/WajidKarimm/legalease-ai/internal/formatter"
	"github.com/WajidKarimm/legalease-ai/internal/inference"
	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/monitor"
	"github.com/WajidKarimm/legalease-ai/internal/progress"
	"github.com/WajidKarimm/legalease-ai/internal/render"
	"github.com/WajidKarimm/legalease-ai/internal/state"
	"github.com/WajidKarimm/legalease-ai/internal/storage"
	"github.com/WajidKarimm/legalease-ai/internal/ui"
	"github.com/WajidKarimm/legalease-ai/internal/upload"
)

// userAgent identifies the client to the backend
const userAgent = "legalease-cli"

// app is everything a command needs, built from the effective config
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	store   storage.Store
	state   *state.ClientState
	api     *api.Client
	metrics *monitor.Recorder
	theme   ui.Theme
	color   bool
	out     io.Writer
}

// newApp loads config and opens the local store. Callers must close it.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.NewWithCallback("cli", func() bool { return isVerbose() || cfg.Output.Verbose }).
		WithWriter(cmd.ErrOrStderr())

	store, err := openStore(cfg.Storage)
	if err != nil {
		return nil, err
	}

	tab, err := state.ParseTab(cfg.UI.DefaultTab)
	if err != nil {
		tab = state.TabOverview
	}
	st, err := state.Load(cmd.Context(), store, state.Options{
		Industry: cfg.UI.Industry,
		Tab:      tab,
		Token:    cfg.API.Token,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load client state: %w", err)
	}

	metrics := monitor.NewRecorder()
	client, err := api.New(api.Options{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		Tokens:    st,
		Logger:    log,
		Recorder:  metrics,
		UserAgent: userAgent,
	})
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	theme, ok := ui.ThemeByName(cfg.UI.Theme)
	if !ok {
		theme = ui.DefaultTheme
	}

	out := cmd.OutOrStdout()
	return &app{
		cfg:     cfg,
		log:     log,
		store:   store,
		state:   st,
		api:     client,
		metrics: metrics,
		theme:   theme,
		color:   useColor(cfg.Output.ColorMode, out),
		out:     out,
	}, nil
}

func openStore(cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case "memory":
		return storage.NewMemory(), nil
	default:
		store, err := storage.Open(config.ExpandPath(cfg.Path))
		if err != nil {
			return nil, fmt.Errorf("failed to open local store: %w", err)
		}
		return store, nil
	}
}

// useColor applies --no-color, NO_COLOR and output.color_mode in that order
func useColor(mode string, w io.Writer) bool {
	if noColor || ui.IsColorDisabled() {
		return false
	}
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.Warn("failed to close local store: %v", err)
	}
}

// format returns --output or the configured default
func (a *app) format() string {
	if outputFmt != "" {
		return outputFmt
	}
	return a.cfg.Output.DefaultFormat
}

func (a *app) palette() render.Palette {
	if !a.color {
		return render.MonoPalette()
	}
	return a.theme.Palette()
}

func (a *app) markdown() *render.Markdown {
	return render.NewMarkdown(a.color)
}

func (a *app) renderer() *dashboard.Renderer {
	charts := render.NewTerminalCharts(a.cfg.UI.ChartWidth, a.palette())
	return dashboard.NewRenderer(charts, a.markdown(), dashboard.Options{
		Color:      a.color,
		DateFormat: a.cfg.Output.TimestampFormat,
		Logger:     a.log,
	})
}

func (a *app) loader() *dashboard.Loader {
	return dashboard.NewLoader(a.api, a.state, a.log)
}

func (a *app) inference() (*inference.Client, error) {
	return inference.New(a.cfg.Inference.BaseURL, a.cfg.Inference.Timeout, a.log, a.metrics)
}

func (a *app) flow(w io.Writer) *upload.Flow {
	return upload.NewFlow(a.api, a.state, upload.Options{
		Reporter:  progress.NewReporter(a.cfg.Upload.ShowProgress, w),
		Logger:    a.log,
		Metrics:   a.metrics,
		StepDelay: a.cfg.Upload.StepDelay,
	})
}

func (a *app) chatSession() *chat.Session {
	return chat.NewSession(a.api, a.state, chat.Options{
		Logger:      a.log,
		Metrics:     a.metrics,
		LoadHistory: a.cfg.Chat.LoadHistory,
		TrackEvents: a.cfg.Chat.TrackEvents,
	})
}

// formatter returns the report formatter for the effective output format
func (a *app) formatter() (formatter.Formatter, error) {
	return formatter.New(a.format(), a.color)
}

// report gathers everything exportable about the current contract
func (a *app) report(ctx context.Context, loader *dashboard.Loader) *formatter.Report {
	snap := dashboard.SnapshotOf(a.state)
	report := &formatter.Report{
		ContractID:  snap.ContractID,
		Analysis:    snap.Analysis,
		Metadata:    snap.Metadata,
		GeneratedAt: time.Now(),
	}
	if snap.Analysis == nil {
		return report
	}
	report.History = loader.History(ctx, snap.ContractID)
	if comparison, err := loader.Comparison(ctx, snap.ContractID, snap.Industry); err == nil {
		report.Comparison = comparison
	}
	report.Guide = loader.Guide(ctx, snap.ContractID, snap.Analysis.Clauses)
	return report
}

// signalContext is cancelled on Ctrl+C or SIGTERM
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}
