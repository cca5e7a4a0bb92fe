package state

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/storage"
)

func sampleAnalysis() *contract.AnalysisResult {
	return &contract.AnalysisResult{
		Title: "Employment Agreement",
		Summary: contract.Summary{
			TotalClauses: 4, HighRisk: 2, MediumRisk: 1, LowRisk: 1, OverallRiskScore: 7.2,
		},
		Clauses: []contract.Clause{
			{ID: "c1", Type: "non-compete", RiskLevel: contract.RiskHigh, RiskScore: 8.5},
			{ID: "c2", Type: "payment", RiskLevel: contract.RiskMedium, RiskScore: 5},
			{ID: "c3", Type: "termination", RiskLevel: contract.RiskHigh, RiskScore: 7.1},
			{ID: "c4", Type: "confidentiality", RiskLevel: contract.RiskLow, RiskScore: 2},
		},
	}
}

func newState(t *testing.T) (*ClientState, storage.Store) {
	t.Helper()
	store := storage.NewMemory()
	s, err := Load(context.Background(), store, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return s, store
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newState(t)

	if s.CurrentContractID() != "" || s.Analysis() != nil {
		t.Error("empty store should load an empty state")
	}
	if _, err := s.RequireContract(); !errors.Is(err, ErrNoContract) {
		t.Errorf("RequireContract() error = %v, want ErrNoContract", err)
	}
	if s.Industry() != DefaultIndustry || s.Tab() != TabOverview {
		t.Errorf("unexpected defaults industry=%s tab=%s", s.Industry(), s.Tab())
	}
}

func TestNoContractErrorText(t *testing.T) {
	msg := ErrNoContract.Error()
	if msg == "" || strings.ToLower(msg[:1]) != msg[:1] || strings.HasSuffix(msg, ".") {
		t.Errorf("ErrNoContract = %q, want a lowercase text without trailing period", msg)
	}
	if !strings.HasSuffix(MsgNoContract, ".") || !strings.Contains(MsgNoContract, "upload a contract") {
		t.Errorf("MsgNoContract = %q, want a full sentence", MsgNoContract)
	}
}

func TestSetAnalysisPersistsAndReloads(t *testing.T) {
	ctx := context.Background()
	s, store := newState(t)

	meta := contract.Metadata{ID: "42", Filename: "offer.pdf", UploadDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)}
	if err := s.SetAnalysis(ctx, meta, sampleAnalysis()); err != nil {
		t.Fatalf("SetAnalysis() error = %v", err)
	}

	for _, key := range []string{storage.KeyCurrentContractID, storage.AnalysisKey("42"), storage.KeyLatestAnalysis, storage.KeyContract} {
		if _, err := store.Get(ctx, key); err != nil {
			t.Errorf("key %s not written: %v", key, err)
		}
	}

	reloaded, err := Load(ctx, store, Options{})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if reloaded.CurrentContractID() != "42" {
		t.Errorf("CurrentContractID() = %q", reloaded.CurrentContractID())
	}
	if reloaded.Analysis() == nil || len(reloaded.FilteredClauses()) != 4 {
		t.Error("analysis not restored")
	}
	if m := reloaded.Metadata(); m == nil || m.Filename != "offer.pdf" {
		t.Errorf("metadata not restored: %+v", m)
	}
}

func TestApplyFilterKeepsOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)
	if err := s.SetAnalysis(ctx, contract.Metadata{ID: "1"}, sampleAnalysis()); err != nil {
		t.Fatal(err)
	}

	s.ApplyFilter(contract.RiskHigh)
	if got := contract.ClauseIDs(s.FilteredClauses()); !reflect.DeepEqual(got, []string{"c1", "c3"}) {
		t.Errorf("high filter = %v", got)
	}
	if s.Filter() != contract.RiskHigh {
		t.Errorf("Filter() = %q", s.Filter())
	}

	s.ApplyFilter("")
	if got := len(s.FilteredClauses()); got != 4 {
		t.Errorf("all filter returned %d clauses", got)
	}

	s.ApplyFilter(contract.RiskHigh)
	if err := s.SetAnalysis(ctx, contract.Metadata{ID: "2"}, sampleAnalysis()); err != nil {
		t.Fatal(err)
	}
	if s.Filter() != "" || len(s.FilteredClauses()) != 4 {
		t.Error("SetAnalysis should reset the filter")
	}
}

func TestSwitchTab(t *testing.T) {
	s, _ := newState(t)
	if err := s.SwitchTab(TabNegotiation); err != nil || s.Tab() != TabNegotiation {
		t.Errorf("SwitchTab() = %v, tab %s", err, s.Tab())
	}
	if err := s.SwitchTab("charts"); err == nil {
		t.Error("SwitchTab() should reject unknown tabs")
	}
}

func TestResetKeepsStoredAnalyses(t *testing.T) {
	ctx := context.Background()
	s, store := newState(t)
	_ = s.SetAnalysis(ctx, contract.Metadata{ID: "9"}, sampleAnalysis())

	if err := s.Reset(ctx); err != nil {
		t.Fatalf("Reset() error = %v", err)
	}
	if s.CurrentContractID() != "" || s.Analysis() != nil {
		t.Error("Reset() left state behind")
	}
	if _, err := store.Get(ctx, storage.KeyCurrentContractID); !errors.Is(err, storage.ErrNotFound) {
		t.Error("current_contract_id should be removed")
	}

	if err := s.SelectContract(ctx, "9"); err != nil {
		t.Fatalf("SelectContract() error = %v", err)
	}
	if s.CurrentContractID() != "9" {
		t.Error("SelectContract() did not switch")
	}
	if err := s.SelectContract(ctx, "missing"); err == nil {
		t.Error("SelectContract() should fail for unknown ids")
	}
}

func TestChatContextIsConsumed(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)

	if err := s.SetChatContext(ctx, contract.Clause{ID: "c1", Type: "non-compete"}); err != nil {
		t.Fatal(err)
	}
	cc, err := s.TakeChatContext(ctx)
	if err != nil || cc == nil || cc.ClauseType != "non-compete" {
		t.Fatalf("TakeChatContext() = %+v, %v", cc, err)
	}
	if again, _ := s.TakeChatContext(ctx); again != nil {
		t.Error("chat context should be removed after it is taken")
	}
}

func TestConversationID(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)

	if id, err := s.ConversationID(ctx, "c"); id != "" || err != nil {
		t.Errorf("ConversationID() = %q, %v", id, err)
	}
	_ = s.SetConversationID(ctx, "c", "conv-7")
	if id, _ := s.ConversationID(ctx, "c"); id != "conv-7" {
		t.Errorf("ConversationID() = %q", id)
	}
	_ = s.ClearConversation(ctx, "c")
	if id, _ := s.ConversationID(ctx, "c"); id != "" {
		t.Errorf("ConversationID() after clear = %q", id)
	}
}

func TestSelectedClause(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)
	_ = s.SetAnalysis(ctx, contract.Metadata{ID: "1"}, sampleAnalysis())

	if err := s.SelectClause(ctx, "c3"); err != nil {
		t.Fatal(err)
	}
	clause, ok, err := s.SelectedClause(ctx)
	if err != nil || !ok || clause.Type != "termination" {
		t.Errorf("SelectedClause() = %+v, %v, %v", clause, ok, err)
	}
}

func TestStoredContracts(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)
	_ = s.SetAnalysis(ctx, contract.Metadata{ID: "a"}, sampleAnalysis())
	_ = s.SetAnalysis(ctx, contract.Metadata{ID: "b"}, &contract.AnalysisResult{})

	list, err := s.StoredContracts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != "a" || list[1].ID != "b" || !list[1].Current {
		t.Errorf("StoredContracts() = %+v", list)
	}
	if list[1].Title != "Contract Analysis" {
		t.Errorf("untitled contract title = %q", list[1].Title)
	}
}

func TestFallbackContractID(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	if got := FallbackContractID(now); got != "1700000000123" {
		t.Errorf("FallbackContractID() = %s", got)
	}
}

func signed(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatal(err)
	}
	return token
}

func TestInspectToken(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name        string
		token       string
		wantLogged  bool
		wantExpired bool
		wantOpaque  bool
		wantSubject string
	}{
		{"empty", "", false, false, false, ""},
		{"opaque", "not-a-jwt", true, false, true, ""},
		{"valid", signed(t, jwt.MapClaims{"sub": "ana", "exp": now.Add(time.Hour).Unix()}), true, false, false, "ana"},
		{"expired", signed(t, jwt.MapClaims{"sub": "ana", "exp": now.Add(-time.Hour).Unix()}), false, true, false, "ana"},
		{"no expiry", signed(t, jwt.MapClaims{"sub": "bo"}), true, false, false, "bo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InspectToken(tt.token, now)
			if got.LoggedIn != tt.wantLogged || got.Expired != tt.wantExpired || got.Opaque != tt.wantOpaque || got.Subject != tt.wantSubject {
				t.Errorf("InspectToken() = %+v", got)
			}
		})
	}
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	s, _ := newState(t)

	if err := s.Login(ctx, "  "); err == nil {
		t.Error("Login() should reject empty tokens")
	}
	if err := s.Login(ctx, "tok"); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.AuthToken(ctx); tok != "tok" {
		t.Errorf("AuthToken() = %q", tok)
	}
	_ = s.SetAnalysis(ctx, contract.Metadata{ID: "1"}, sampleAnalysis())

	if err := s.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.AuthToken(ctx); tok != "" {
		t.Errorf("AuthToken() after logout = %q", tok)
	}
	if s.CurrentContractID() != "" {
		t.Error("Logout() should reset the contract")
	}
}

func TestTokenOverride(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	_ = store.Set(ctx, storage.KeyAuthToken, "stored")

	s, err := Load(ctx, store, Options{Token: "from-env"})
	if err != nil {
		t.Fatal(err)
	}
	if tok, _ := s.AuthToken(ctx); tok != "from-env" {
		t.Errorf("AuthToken() = %q, want override", tok)
	}
}
