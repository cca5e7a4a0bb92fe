package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/dashboard"
	"github.com/WajidKarimm/legalease-ai/internal/emoji"
	"github.com/WajidKarimm/legalease-ai/internal/render"
	"github.com/WajidKarimm/legalease-ai/internal/state"
	"github.com/WajidKarimm/legalease-ai/internal/ui"
)

// MsgNoHistory is shown when the backend has no score history
const MsgNoHistory = "No risk history available."

func newDashboardCommand() *cobra.Command {
	var (
		tab    string
		static bool
	)

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the analysis of the current contract",
		Long: `Open the interactive dashboard for the current contract.

Keys: 1-5 or tab switch views, f cycles the risk filter, i cycles the
comparison industry, r refreshes, n/p select a clause and a asks the
assistant about it. Use --static to print one view and exit.`,
		Example: `  legalease dashboard
  legalease dashboard --tab risks --static`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			if tab != "" {
				t, err := state.ParseTab(tab)
				if err != nil {
					return err
				}
				if err := a.state.SwitchTab(t); err != nil {
					return err
				}
			}

			if !static {
				return runDashboardTUI(ctx, a)
			}
			return printTab(ctx, a, a.state.Tab())
		},
	}

	cmd.Flags().StringVar(&tab, "tab", "", "initial view (overview, clauses, risks, comparison, negotiation)")
	cmd.Flags().BoolVar(&static, "static", false, "print the view once instead of opening the interactive dashboard")

	return cmd
}

// runDashboardTUI opens the dashboard and continues into the chat when
// the user asks about a clause
func runDashboardTUI(ctx context.Context, a *app) error {
	if _, err := a.state.RequireContract(); err != nil {
		return err
	}

	model := ui.NewDashboardModel(ctx, a.loader(), a.renderer(), a.state, ui.DashboardOptions{
		Theme: a.theme,
		Color: a.color,
	})
	clause, err := ui.RunDashboard(model)
	if err != nil {
		return err
	}
	if clause == nil {
		return nil
	}

	a.log.Debug("opening chat about clause %s", clause.ID)
	return runChatTUI(ctx, a)
}

func newClausesCommand() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "clauses",
		Short: "List the clauses of the current contract",
		Example: `  legalease clauses
  legalease clauses --filter high
  legalease clauses -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, ok := contract.ParseRiskLevel(strings.ToLower(filter))
			if !ok {
				return fmt.Errorf("invalid filter: %s (must be one of: all, high, medium, low)", filter)
			}
			return runTabCommand(cmd, state.TabClauses, func(a *app) {
				a.state.ApplyFilter(level)
			})
		},
	}

	cmd.Flags().StringVarP(&filter, "filter", "f", "all", "risk level to show (all, high, medium, low)")

	return cmd
}

func newRisksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "risks",
		Short: "Show the high-risk clauses of the current contract",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabCommand(cmd, state.TabRisks, nil)
		},
	}
}

func newCompareCommand() *cobra.Command {
	var industry string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare the current contract with industry standards",
		Example: `  legalease compare
  legalease compare --industry finance`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabCommand(cmd, state.TabComparison, func(a *app) {
				if industry != "" {
					a.state.SetIndustry(strings.ToLower(industry))
				}
			})
		},
	}

	cmd.Flags().StringVar(&industry, "industry", "", "industry to compare with (default: ui.industry)")

	return cmd
}

func newNegotiateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "negotiate",
		Short: "Show a negotiation guide for the high-risk clauses",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTabCommand(cmd, state.TabNegotiation, nil)
		},
	}
}

// runTabCommand prints one dashboard view of the current contract
func runTabCommand(cmd *cobra.Command, tab state.Tab, prepare func(a *app)) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, cancel := signalContext(cmd)
	defer cancel()

	if prepare != nil {
		prepare(a)
	}
	return printTab(ctx, a, tab)
}

func printTab(ctx context.Context, a *app, tab state.Tab) error {
	loader := a.loader()
	if err := loader.Refresh(ctx); err != nil {
		return err
	}
	snap := dashboard.SnapshotOf(a.state)
	snap.Tab = tab
	loader.Fill(ctx, &snap, tab)

	if strings.EqualFold(a.format(), "json") {
		return writeJSON(a.out, tabData(snap, tab))
	}

	renderer := a.renderer()
	defer renderer.Close()
	fmt.Fprintln(a.out, renderer.Render(snap))
	return nil
}

// tabData is the machine-readable content of a view
func tabData(snap dashboard.Snapshot, tab state.Tab) any {
	switch tab {
	case state.TabClauses:
		return snap.Clauses
	case state.TabRisks:
		return contract.HighRiskClauses(snap.Analysis.Clauses)
	case state.TabComparison:
		if snap.Comparison == nil {
			return map[string]string{"error": dashboard.MsgComparisonErr}
		}
		return snap.Comparison
	case state.TabNegotiation:
		return snap.Guide
	default:
		return snap.Analysis
	}
}

func newHistoryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show how the risk score of the current contract changed over time",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			ctx, cancel := signalContext(cmd)
			defer cancel()

			id, err := a.state.RequireContract()
			if err != nil {
				return err
			}
			history := a.loader().History(ctx, id)

			if strings.EqualFold(a.format(), "json") {
				return writeJSON(a.out, history)
			}
			if history == nil || len(history.Scores) == 0 {
				fmt.Fprintln(a.out, MsgNoHistory)
				return nil
			}

			charts := render.NewTerminalCharts(a.cfg.UI.ChartWidth, a.palette())
			chart, err := charts.Create(dashboard.ChartRiskTrend, dashboard.RiskTrendChart(*history))
			if err != nil {
				return err
			}
			defer chart.Destroy()

			fmt.Fprintf(a.out, "%s %s\n\n", emoji.GetEmoji("trend"), chart.View())
			for i, score := range history.Scores {
				date := ""
				if i < len(history.Dates) {
					date = history.Dates[i]
				}
				fmt.Fprintf(a.out, "  %-12s %4.1f/10  %s\n", date, score, contract.RiskIndicator(score))
			}
			return nil
		},
	}
}

func newUseCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "use [contract-id]",
		Short: "List stored analyses or make one the current contract",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			defer a.close()

			if len(args) == 1 {
				if err := a.state.SelectContract(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "%s Current contract: %s\n", emoji.GetEmoji("success"), args[0])
				return nil
			}

			contracts, err := a.state.StoredContracts(cmd.Context())
			if err != nil {
				return err
			}
			if len(contracts) == 0 {
				fmt.Fprintln(a.out, state.MsgNoContract)
				return nil
			}
			for _, c := range contracts {
				marker := " "
				if c.Current {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %s  %s\n", marker, c.ID, c.Title)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
