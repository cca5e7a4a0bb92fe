package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
	"github.com/WajidKarimm/legalease-ai/internal/logger"
	"github.com/WajidKarimm/legalease-ai/internal/monitor"
	"github.com/WajidKarimm/legalease-ai/internal/state"
)

var (
	// ErrEmptyMessage is returned for a blank message
	ErrEmptyMessage = errors.New("message is empty")

	// ErrSendInProgress is returned while another message awaits its reply
	ErrSendInProgress = errors.New("a message is already being sent")
)

// Messages shown by chat front ends
const (
	MsgSendFailed = "I apologize, but I encountered an error. Please try again."
	MsgCleared    = "Chat cleared. How can I help you today?"
)

// EventMessageSent is tracked after every answered message
const EventMessageSent = "chat_message_sent"

// Backend is the chat API
type Backend interface {
	SendChatMessage(ctx context.Context, contractID, message, conversationID string) (*contract.ChatReply, error)
	ChatHistory(ctx context.Context, conversationID string) (*contract.ChatHistory, error)
	TrackEvent(ctx context.Context, name string, props map[string]any) error
}

// Options configures a Session
type Options struct {
	Logger      *logger.Logger
	Metrics     *monitor.Recorder
	LoadHistory bool
	TrackEvents bool
	Now         func() time.Time

	// OnTyping is told when a reply starts and stops being awaited
	OnTyping func(typing bool)
}

// Session is one conversation about the current contract
type Session struct {
	backend     Backend
	state       *state.ClientState
	log         *logger.Logger
	metrics     *monitor.Recorder
	loadHistory bool
	trackEvents bool
	now         func() time.Time
	onTyping    func(bool)

	mu             sync.Mutex
	contractID     string
	conversationID string
	messages       []contract.ChatMessage
	typing         bool
}

// NewSession creates a session; call Start before Send
func NewSession(backend Backend, st *state.ClientState, opts Options) *Session {
	s := &Session{
		backend:     backend,
		state:       st,
		log:         opts.Logger,
		metrics:     opts.Metrics,
		loadHistory: opts.LoadHistory,
		trackEvents: opts.TrackEvents,
		now:         opts.Now,
		onTyping:    opts.OnTyping,
	}
	if s.log == nil {
		s.log = logger.Nop()
	}
	s.log = s.log.WithComponent("chat")
	if s.now == nil {
		s.now = time.Now
	}
	if s.onTyping == nil {
		s.onTyping = func(bool) {}
	}
	return s
}

// Start binds the session to the current contract, greets for a pending
// clause context and restores the previous conversation
func (s *Session) Start(ctx context.Context) error {
	contractID, err := s.state.RequireContract()
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.contractID = contractID
	s.conversationID = ""
	s.messages = nil
	s.mu.Unlock()

	clause, err := s.state.TakeChatContext(ctx)
	if err != nil {
		s.log.Warn("failed to read chat context: %v", err)
	}
	if clause != nil {
		s.appendAssistant(Greeting(clause.ClauseType), nil)
	}

	conversationID, err := s.state.ConversationID(ctx, contractID)
	if err != nil {
		s.log.Warn("failed to read conversation id: %v", err)
		return nil
	}
	if conversationID == "" {
		return nil
	}

	s.mu.Lock()
	s.conversationID = conversationID
	s.mu.Unlock()

	if s.loadHistory {
		s.restoreHistory(ctx, conversationID)
	}
	return nil
}

// Greeting opens a chat about a specific clause
func Greeting(clauseType string) string {
	return fmt.Sprintf("I see you'd like to discuss the %s clause. What would you like to know about it?", clauseType)
}

func (s *Session) restoreHistory(ctx context.Context, conversationID string) {
	history, err := s.backend.ChatHistory(ctx, conversationID)
	if err != nil {
		s.log.WarnWithFields("failed to load chat history", []logger.Field{logger.F("conversation", conversationID), logger.Error(err)})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range history.Messages {
		if m.Role != contract.RoleUser {
			m.Role = contract.RoleAssistant
		}
		s.messages = append(s.messages, m)
	}
	s.log.DebugWithFields("restored chat history", []logger.Field{logger.Count(len(history.Messages))})
}

// Send posts text and appends the reply. While a reply is pending every
// other call returns ErrSendInProgress without doing anything.
func (s *Session) Send(ctx context.Context, text string) (reply *contract.ChatMessage, err error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.Lock()
	if s.typing {
		s.mu.Unlock()
		return nil, ErrSendInProgress
	}
	if s.contractID == "" {
		s.mu.Unlock()
		return nil, state.ErrNoContract
	}
	s.typing = true
	contractID := s.contractID
	conversationID := s.conversationID
	s.messages = append(s.messages, contract.ChatMessage{
		Role:      contract.RoleUser,
		Content:   text,
		Timestamp: s.now(),
	})
	s.mu.Unlock()

	defer func() { s.metrics.ObserveChat(err) }()

	s.onTyping(true)
	resp, err := s.backend.SendChatMessage(ctx, contractID, text, conversationID)
	s.onTyping(false)

	s.mu.Lock()
	s.typing = false
	if err != nil {
		s.mu.Unlock()
		s.log.ErrorWithFields("chat message failed", []logger.Field{logger.Contract(contractID), logger.Error(err)})
		return nil, fmt.Errorf("sending chat message: %w", err)
	}

	msg := contract.ChatMessage{
		Role:      contract.RoleAssistant,
		Content:   resp.Response,
		Sources:   resp.Sources,
		Timestamp: s.now(),
	}
	s.messages = append(s.messages, msg)
	newConversation := resp.ConversationID != "" && resp.ConversationID != s.conversationID
	if resp.ConversationID != "" {
		s.conversationID = resp.ConversationID
	}
	s.mu.Unlock()

	if newConversation {
		if err := s.state.SetConversationID(ctx, contractID, resp.ConversationID); err != nil {
			s.log.Warn("failed to save conversation id: %v", err)
		}
	}

	if s.trackEvents {
		props := map[string]any{
			"contract_id":    contractID,
			"message_length": utf8.RuneCountInString(text),
		}
		if err := s.backend.TrackEvent(ctx, EventMessageSent, props); err != nil {
			s.log.Debug("event not tracked: %v", err)
		}
	}
	return &msg, nil
}

// Clear drops the conversation and forgets its stored id
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	contractID := s.contractID
	s.messages = nil
	s.conversationID = ""
	s.mu.Unlock()

	if contractID == "" {
		return nil
	}
	if err := s.state.ClearConversation(ctx, contractID); err != nil {
		return fmt.Errorf("clearing conversation: %w", err)
	}
	return nil
}

// Messages returns a copy of the conversation so far
func (s *Session) Messages() []contract.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]contract.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// ConversationID returns the backend conversation id, or "" before the
// first answered message
func (s *Session) ConversationID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conversationID
}

// ContractID returns the contract the session discusses
func (s *Session) ContractID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.contractID
}

// Typing reports whether a reply is pending
func (s *Session) Typing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.typing
}

func (s *Session) appendAssistant(text string, sources []contract.Source) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, contract.ChatMessage{
		Role:      contract.RoleAssistant,
		Content:   text,
		Sources:   sources,
		Timestamp: s.now(),
	})
}
