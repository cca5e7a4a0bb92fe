package state

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/storage"
)

// MsgNoContract is shown in place of views that need a current contract
const MsgNoContract = "No contract found. Please upload a contract first."

// ErrNoContract is returned when an operation needs a current contract
var ErrNoContract = errors.New("no contract found: upload a contract first")

// Tab is a dashboard view
type Tab string

const (
	TabOverview    Tab = "overview"
	TabClauses     Tab = "clauses"
	TabRisks       Tab = "risks"
	TabComparison  Tab = "comparison"
	TabNegotiation Tab = "negotiation"
)

// Tabs lists the dashboard views in display order
var Tabs = []Tab{TabOverview, TabClauses, TabRisks, TabComparison, TabNegotiation}

// ParseTab validates a tab name
func ParseTab(s string) (Tab, error) {
	for _, t := range Tabs {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown tab: %s (must be one of: overview, clauses, risks, comparison, negotiation)", s)
}

// DefaultIndustry is the comparison baseline when none is configured
const DefaultIndustry = "tech"

// ClientState is everything the dashboard and chat know about the current
// contract. It is mutated only through its methods and persisted through
// the underlying store.
type ClientState struct {
	store storage.Store

	mu            sync.RWMutex
	contractID    string
	metadata      *contract.Metadata
	analysis      *contract.AnalysisResult
	filtered      []contract.Clause
	filter        contract.RiskLevel
	tab           Tab
	industry      string
	tokenOverride string
}

// Options configures Load
type Options struct {
	// Industry is the comparison baseline; empty means DefaultIndustry
	Industry string

	// Tab is the initial dashboard view; empty means overview
	Tab Tab

	// Token, when set, is used instead of the stored auth token
	Token string
}

// Load restores the state persisted in store. A missing contract is not an
// error; operations that need one return ErrNoContract.
func Load(ctx context.Context, store storage.Store, opts Options) (*ClientState, error) {
	s := &ClientState{
		store:         store,
		tab:           TabOverview,
		industry:      DefaultIndustry,
		tokenOverride: opts.Token,
	}
	if opts.Industry != "" {
		s.industry = opts.Industry
	}
	if opts.Tab != "" {
		s.tab = opts.Tab
	}

	id, ok, err := storage.Lookup(ctx, store, storage.KeyCurrentContractID)
	if err != nil {
		return nil, fmt.Errorf("loading current contract: %w", err)
	}
	if !ok {
		return s, nil
	}

	if err := s.load(ctx, id); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *ClientState) load(ctx context.Context, id string) error {
	var analysis contract.AnalysisResult
	err := storage.GetJSON(ctx, s.store, storage.AnalysisKey(id), &analysis)
	if errors.Is(err, storage.ErrNotFound) {
		err = storage.GetJSON(ctx, s.store, storage.KeyLatestAnalysis, &analysis)
	}
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("loading analysis %s: %w", id, err)
	}

	var meta contract.Metadata
	metaErr := storage.GetJSON(ctx, s.store, storage.KeyContract, &meta)
	if metaErr != nil && !errors.Is(metaErr, storage.ErrNotFound) {
		return fmt.Errorf("loading contract metadata: %w", metaErr)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.contractID = id
	s.analysis, s.filtered, s.metadata = nil, nil, nil
	if err == nil {
		s.analysis = &analysis
		s.filtered = contract.FilterClauses(analysis.Clauses, "")
	}
	if metaErr == nil && meta.ID == id {
		s.metadata = &meta
	}
	s.filter = ""
	return nil
}

// CurrentContractID returns the current contract id or ""
func (s *ClientState) CurrentContractID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.contractID
}

// RequireContract returns the current contract id or ErrNoContract
func (s *ClientState) RequireContract() (string, error) {
	id := s.CurrentContractID()
	if id == "" {
		return "", ErrNoContract
	}
	return id, nil
}

// Metadata returns the uploaded document's metadata, if known
func (s *ClientState) Metadata() *contract.Metadata {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metadata
}

// Analysis returns the current analysis or nil
func (s *ClientState) Analysis() *contract.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.analysis
}

// FilteredClauses returns a copy of the filtered clause view
func (s *ClientState) FilteredClauses() []contract.Clause {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]contract.Clause, len(s.filtered))
	copy(out, s.filtered)
	return out
}

// Filter returns the active risk filter; "" means all
func (s *ClientState) Filter() contract.RiskLevel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filter
}

// Tab returns the active dashboard view
func (s *ClientState) Tab() Tab {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tab
}

// Industry returns the comparison baseline
func (s *ClientState) Industry() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.industry
}

// SetAnalysis makes result the current contract, persists it and resets
// the filter
func (s *ClientState) SetAnalysis(ctx context.Context, meta contract.Metadata, result *contract.AnalysisResult) error {
	if meta.ID == "" {
		return fmt.Errorf("contract id is required")
	}
	if result == nil {
		return fmt.Errorf("analysis is required")
	}

	writes := []struct {
		key   string
		value any
	}{
		{storage.AnalysisKey(meta.ID), result},
		{storage.KeyLatestAnalysis, result},
		{storage.KeyContract, meta},
	}
	for _, w := range writes {
		if err := storage.SetJSON(ctx, s.store, w.key, w.value); err != nil {
			return fmt.Errorf("saving analysis: %w", err)
		}
	}
	if err := s.store.Set(ctx, storage.KeyCurrentContractID, meta.ID); err != nil {
		return fmt.Errorf("saving current contract: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractID = meta.ID
	s.metadata = &meta
	s.analysis = result
	s.filter = ""
	s.filtered = contract.FilterClauses(result.Clauses, "")
	return nil
}

// SelectContract switches to a previously stored analysis
func (s *ClientState) SelectContract(ctx context.Context, id string) error {
	if _, err := s.store.Get(ctx, storage.AnalysisKey(id)); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no stored analysis for contract %s", id)
		}
		return err
	}
	if err := s.store.Set(ctx, storage.KeyCurrentContractID, id); err != nil {
		return fmt.Errorf("saving current contract: %w", err)
	}
	return s.load(ctx, id)
}

// ApplyFilter recomputes the filtered view; level "" shows all clauses
func (s *ClientState) ApplyFilter(level contract.RiskLevel) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = level
	if s.analysis == nil {
		s.filtered = nil
		return
	}
	s.filtered = contract.FilterClauses(s.analysis.Clauses, level)
}

// SwitchTab changes the active view
func (s *ClientState) SwitchTab(tab Tab) error {
	if _, err := ParseTab(string(tab)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = tab
	return nil
}

// SetIndustry changes the comparison baseline
func (s *ClientState) SetIndustry(industry string) {
	if industry == "" {
		industry = DefaultIndustry
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.industry = industry
}

// Reset forgets the current contract ("new analysis"). Stored analyses
// stay available to SelectContract.
func (s *ClientState) Reset(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeyCurrentContractID); err != nil {
		return fmt.Errorf("clearing current contract: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.contractID = ""
	s.metadata = nil
	s.analysis = nil
	s.filtered = nil
	s.filter = ""
	s.tab = TabOverview
	return nil
}

// SelectClause remembers the clause opened for details
func (s *ClientState) SelectClause(ctx context.Context, clauseID string) error {
	return s.store.Set(ctx, storage.KeySelectedClause, clauseID)
}

// SelectedClause returns the clause last opened for details
func (s *ClientState) SelectedClause(ctx context.Context) (contract.Clause, bool, error) {
	id, ok, err := storage.Lookup(ctx, s.store, storage.KeySelectedClause)
	if err != nil || !ok {
		return contract.Clause{}, false, err
	}
	analysis := s.Analysis()
	if analysis == nil {
		return contract.Clause{}, false, nil
	}
	clause, found := contract.FindClause(analysis.Clauses, id)
	return clause, found, nil
}

// SetChatContext records the clause a chat should open with
func (s *ClientState) SetChatContext(ctx context.Context, clause contract.Clause) error {
	return storage.SetJSON(ctx, s.store, storage.KeyChatContext, contract.ChatContext{
		ClauseID:   clause.ID,
		ClauseType: clause.Type,
	})
}

// TakeChatContext returns and removes the stored chat context
func (s *ClientState) TakeChatContext(ctx context.Context) (*contract.ChatContext, error) {
	var cc contract.ChatContext
	err := storage.GetJSON(ctx, s.store, storage.KeyChatContext, &cc)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, storage.KeyChatContext); err != nil {
		return nil, err
	}
	return &cc, nil
}

// ConversationID returns the stored conversation of a contract or ""
func (s *ClientState) ConversationID(ctx context.Context, contractID string) (string, error) {
	id, _, err := storage.Lookup(ctx, s.store, storage.ConversationKey(contractID))
	return id, err
}

// SetConversationID stores the conversation of a contract
func (s *ClientState) SetConversationID(ctx context.Context, contractID, conversationID string) error {
	return s.store.Set(ctx, storage.ConversationKey(contractID), conversationID)
}

// ClearConversation forgets the conversation of a contract
func (s *ClientState) ClearConversation(ctx context.Context, contractID string) error {
	return s.store.Delete(ctx, storage.ConversationKey(contractID))
}

// StoredContract is a contract with an analysis in local storage
type StoredContract struct {
	ID      string
	Title   string
	Current bool
}

// StoredContracts lists every analysis kept in local storage
func (s *ClientState) StoredContracts(ctx context.Context) ([]StoredContract, error) {
	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	current := s.CurrentContractID()
	prefix := storage.AnalysisKey("")
	var out []StoredContract
	for _, key := range keys {
		id, ok := strings.CutPrefix(key, prefix)
		if !ok || id == "" {
			continue
		}
		var a contract.AnalysisResult
		if err := storage.GetJSON(ctx, s.store, key, &a); err != nil {
			continue
		}
		out = append(out, StoredContract{ID: id, Title: a.DisplayTitle(), Current: id == current})
	}
	return out, nil
}

// FallbackContractID is the id used when the backend assigns none
func FallbackContractID(now time.Time) string {
	return fmt.Sprintf("%d", now.UnixMilli())
}
