package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/state"
	"github.com/WajidKarimm/legalease-ai/internal/storage"
)

type fakeBackend struct {
	mu         sync.Mutex
	sends      int32
	convIDs    []string
	reply      *contract.ChatReply
	sendErr    error
	history    *contract.ChatHistory
	historyErr error
	events     []map[string]any
	block      chan struct{}
	started    chan struct{}
}

func (f *fakeBackend) SendChatMessage(_ context.Context, _, _, conversationID string) (*contract.ChatReply, error) {
	atomic.AddInt32(&f.sends, 1)
	f.mu.Lock()
	f.convIDs = append(f.convIDs, conversationID)
	f.mu.Unlock()
	if f.started != nil {
		close(f.started)
	}
	if f.block != nil {
		<-f.block
	}
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	return f.reply, nil
}

func (f *fakeBackend) ChatHistory(context.Context, string) (*contract.ChatHistory, error) {
	return f.history, f.historyErr
}

func (f *fakeBackend) TrackEvent(_ context.Context, name string, props map[string]any) error {
	if name != EventMessageSent {
		return errors.New("unexpected event " + name)
	}
	f.mu.Lock()
	f.events = append(f.events, props)
	f.mu.Unlock()
	return nil
}

func newState(t *testing.T, contractID string) (*state.ClientState, storage.Store) {
	t.Helper()
	ctx := context.Background()
	store := storage.NewMemory()
	st, err := state.Load(ctx, store, state.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if contractID != "" {
		if err := st.SetAnalysis(ctx, contract.Metadata{ID: contractID}, &contract.AnalysisResult{}); err != nil {
			t.Fatal(err)
		}
	}
	return st, store
}

func startedSession(t *testing.T, backend *fakeBackend, opts Options) (*Session, storage.Store) {
	t.Helper()
	st, store := newState(t, "c-1")
	s := NewSession(backend, st, opts)
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	return s, store
}

func TestStartRequiresContract(t *testing.T) {
	st, _ := newState(t, "")
	err := NewSession(&fakeBackend{}, st, Options{}).Start(context.Background())
	if !errors.Is(err, state.ErrNoContract) {
		t.Errorf("Start() error = %v, want ErrNoContract", err)
	}
}

func TestSendEmpty(t *testing.T) {
	backend := &fakeBackend{}
	s, _ := startedSession(t, backend, Options{})
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, err := s.Send(context.Background(), text); !errors.Is(err, ErrEmptyMessage) {
			t.Errorf("Send(%q) error = %v", text, err)
		}
	}
	if backend.sends != 0 || len(s.Messages()) != 0 {
		t.Error("empty message should do nothing")
	}
}

func TestSendStoresConversation(t *testing.T) {
	backend := &fakeBackend{reply: &contract.ChatReply{
		Response:       "It lasts two years.",
		Sources:        []contract.Source{{Title: "Section 4"}},
		ConversationID: "conv-9",
	}}
	s, store := startedSession(t, backend, Options{TrackEvents: true})
	ctx := context.Background()

	reply, err := s.Send(ctx, "  How long is the non-compete?  ")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if reply.Content != "It lasts two years." || len(reply.Sources) != 1 {
		t.Errorf("reply = %+v", reply)
	}

	msgs := s.Messages()
	if len(msgs) != 2 || msgs[0].Role != contract.RoleUser || msgs[0].Content != "How long is the non-compete?" || msgs[1].Role != contract.RoleAssistant {
		t.Errorf("messages = %+v", msgs)
	}
	if stored, _ := store.Get(ctx, storage.ConversationKey("c-1")); stored != "conv-9" {
		t.Errorf("stored conversation = %q", stored)
	}

	if _, err := s.Send(ctx, "And the radius?"); err != nil {
		t.Fatal(err)
	}
	if backend.convIDs[0] != "" || backend.convIDs[1] != "conv-9" {
		t.Errorf("conversation ids sent = %v", backend.convIDs)
	}

	if len(backend.events) != 2 || backend.events[0]["contract_id"] != "c-1" || backend.events[0]["message_length"] != 28 {
		t.Errorf("events = %v", backend.events)
	}
}

func TestSendFailureAppendsNothing(t *testing.T) {
	backend := &fakeBackend{sendErr: errors.New("network response was not ok")}
	s, store := startedSession(t, backend, Options{TrackEvents: true})
	ctx := context.Background()

	if _, err := s.Send(ctx, "hello"); err == nil {
		t.Fatal("expected error")
	}
	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != contract.RoleUser {
		t.Errorf("only the user message should remain: %+v", msgs)
	}
	if _, err := store.Get(ctx, storage.ConversationKey("c-1")); !errors.Is(err, storage.ErrNotFound) {
		t.Error("conversation stored after failure")
	}
	if len(backend.events) != 0 {
		t.Error("event tracked after failure")
	}
	if s.Typing() {
		t.Error("typing flag left on")
	}
}

func TestSendInProgress(t *testing.T) {
	backend := &fakeBackend{
		reply:   &contract.ChatReply{Response: "ok"},
		block:   make(chan struct{}),
		started: make(chan struct{}),
	}
	var typing []bool
	var typingMu sync.Mutex
	s, _ := startedSession(t, backend, Options{OnTyping: func(on bool) {
		typingMu.Lock()
		typing = append(typing, on)
		typingMu.Unlock()
	}})

	done := make(chan error, 1)
	go func() {
		_, err := s.Send(context.Background(), "first")
		done <- err
	}()
	<-backend.started

	if _, err := s.Send(context.Background(), "second"); !errors.Is(err, ErrSendInProgress) {
		t.Errorf("second Send() error = %v, want ErrSendInProgress", err)
	}
	if !s.Typing() {
		t.Error("Typing() should be true while a reply is pending")
	}

	close(backend.block)
	if err := <-done; err != nil {
		t.Fatal(err)
	}
	if backend.sends != 1 {
		t.Errorf("%d requests sent, want 1", backend.sends)
	}
	if len(s.Messages()) != 2 {
		t.Errorf("messages = %+v", s.Messages())
	}

	typingMu.Lock()
	defer typingMu.Unlock()
	if len(typing) != 2 || !typing[0] || typing[1] {
		t.Errorf("typing signals = %v", typing)
	}
}

func TestStartGreetsForClauseContext(t *testing.T) {
	ctx := context.Background()
	st, store := newState(t, "c-1")
	if err := st.SetChatContext(ctx, contract.Clause{ID: "nc", Type: "Non-Compete"}); err != nil {
		t.Fatal(err)
	}

	s := NewSession(&fakeBackend{}, st, Options{})
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	msgs := s.Messages()
	want := "I see you'd like to discuss the Non-Compete clause. What would you like to know about it?"
	if len(msgs) != 1 || msgs[0].Content != want || msgs[0].Role != contract.RoleAssistant {
		t.Errorf("messages = %+v", msgs)
	}
	if _, err := store.Get(ctx, storage.KeyChatContext); !errors.Is(err, storage.ErrNotFound) {
		t.Error("chat context should be consumed")
	}

	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Messages()) != 0 {
		t.Error("greeting repeated on second start")
	}
}

func TestStartRestoresHistory(t *testing.T) {
	ctx := context.Background()
	st, _ := newState(t, "c-1")
	if err := st.SetConversationID(ctx, "c-1", "conv-1"); err != nil {
		t.Fatal(err)
	}

	backend := &fakeBackend{history: &contract.ChatHistory{Messages: []contract.ChatMessage{
		{Role: contract.RoleUser, Content: "q"},
		{Role: "ai", Content: "a"},
	}}}
	s := NewSession(backend, st, Options{LoadHistory: true})
	if err := s.Start(ctx); err != nil {
		t.Fatal(err)
	}
	msgs := s.Messages()
	if len(msgs) != 2 || msgs[1].Role != contract.RoleAssistant {
		t.Errorf("messages = %+v", msgs)
	}
	if s.ConversationID() != "conv-1" {
		t.Errorf("conversation id = %q", s.ConversationID())
	}

	backend.historyErr = errors.New("gone")
	if err := s.Start(ctx); err != nil {
		t.Errorf("history failure should be ignored: %v", err)
	}
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{reply: &contract.ChatReply{Response: "ok", ConversationID: "conv-2"}}
	s, store := startedSession(t, backend, Options{})
	if _, err := s.Send(ctx, "hi"); err != nil {
		t.Fatal(err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatal(err)
	}
	if len(s.Messages()) != 0 || s.ConversationID() != "" {
		t.Error("session not cleared")
	}
	if _, err := store.Get(ctx, storage.ConversationKey("c-1")); !errors.Is(err, storage.ErrNotFound) {
		t.Error("stored conversation not removed")
	}
}
