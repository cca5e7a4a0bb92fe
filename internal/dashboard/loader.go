package dashboard

import (
	"context"
	"fmt"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

// DataSource is the backend the dashboard reads from
type DataSource interface {
	ContractAnalysis(ctx context.Context, contractID string) (*contract.AnalysisResult, error)
	IndustryComparison(ctx context.Context, contractID, industry string) (*contract.ComparisonReport, error)
	RiskHistory(ctx context.Context, contractID string) (*contract.RiskHistory, error)
	NegotiationGuide(ctx context.Context, contractID string, clauseIDs []string) (*contract.NegotiationGuide, error)
}

// Loader fills snapshots from the backend and the client state
type Loader struct {
	source DataSource
	state  *state.ClientState
	log    *logger.Logger
}

// NewLoader creates a loader
func NewLoader(source DataSource, st *state.ClientState, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{source: source, state: st, log: log.WithComponent("dashboard")}
}

// Refresh fetches the current contract's analysis and stores it. When the
// backend fails and a stored analysis exists, the stored one is kept.
func (l *Loader) Refresh(ctx context.Context) error {
	id, err := l.state.RequireContract()
	if err != nil {
		return err
	}

	analysis, err := l.source.ContractAnalysis(ctx, id)
	if err != nil {
		if l.state.Analysis() != nil {
			l.log.WarnWithFields("using stored analysis", []logger.Field{logger.Contract(id), logger.Error(err)})
			return nil
		}
		return fmt.Errorf("failed to load contract analysis: %w", err)
	}

	meta := contract.Metadata{ID: id}
	if m := l.state.Metadata(); m != nil {
		meta = *m
	}
	filter := l.state.Filter()
	if err := l.state.SetAnalysis(ctx, meta, analysis); err != nil {
		return err
	}
	l.state.ApplyFilter(filter)
	return nil
}

// Load refreshes the analysis and gathers the data the active tab needs
func (l *Loader) Load(ctx context.Context) (Snapshot, error) {
	if err := l.Refresh(ctx); err != nil {
		return Snapshot{}, err
	}
	snap := SnapshotOf(l.state)
	l.Fill(ctx, &snap, snap.Tab)
	return snap, nil
}

// Fill loads tab-specific data into snap. Failures only degrade the view.
func (l *Loader) Fill(ctx context.Context, snap *Snapshot, tab state.Tab) {
	if snap.Analysis == nil || snap.ContractID == "" {
		return
	}
	switch tab {
	case state.TabOverview:
		if snap.History == nil {
			snap.History = l.History(ctx, snap.ContractID)
		}
	case state.TabComparison:
		snap.Comparison, snap.ComparisonErr = l.Comparison(ctx, snap.ContractID, snap.Industry)
	case state.TabNegotiation:
		if snap.Guide == nil {
			snap.Guide = l.Guide(ctx, snap.ContractID, snap.Analysis.Clauses)
		}
	}
}

// History returns the risk history or nil
func (l *Loader) History(ctx context.Context, contractID string) *contract.RiskHistory {
	history, err := l.source.RiskHistory(ctx, contractID)
	if err != nil {
		l.log.DebugWithFields("risk history unavailable", []logger.Field{logger.Contract(contractID), logger.Error(err)})
		return nil
	}
	return history
}

// Comparison returns the industry comparison for the contract
func (l *Loader) Comparison(ctx context.Context, contractID, industry string) (*contract.ComparisonReport, error) {
	if industry == "" {
		industry = state.DefaultIndustry
	}
	report, err := l.source.IndustryComparison(ctx, contractID, industry)
	if err != nil {
		l.log.WarnWithFields("comparison unavailable", []logger.Field{logger.Contract(contractID), logger.F("industry", industry), logger.Error(err)})
		return nil, err
	}
	return report, nil
}

// Guide asks for advice on the high-risk clauses, falling back to
// DefaultGuide on error
func (l *Loader) Guide(ctx context.Context, contractID string, clauses []contract.Clause) *contract.NegotiationGuide {
	ids := contract.ClauseIDs(contract.HighRiskClauses(clauses))
	guide, err := l.source.NegotiationGuide(ctx, contractID, ids)
	if err != nil || guide == nil {
		l.log.WarnWithFields("using default negotiation guide", []logger.Field{logger.Contract(contractID), logger.Error(err)})
		return DefaultGuide()
	}
	return guide
}
