package api

import (
	"context"
	"fmt"
	"net/url"

	"github.com/WajidKarimm/legalease-ai/internal/contract"
)

// Backend paths
const (
	PathHealth  = "/api/health"
	PathPredict = "/api/predict"
	PathEvents  = "/api/events"
)

func contractPath(id, suffix string) string {
	return fmt.Sprintf("/api/contracts/%s/%s", url.PathEscape(id), suffix)
}

// Health returns the backend's health document as-is
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.Get(ctx, PathHealth, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzeContract uploads a document for analysis
func (c *Client) AnalyzeContract(ctx context.Context, file File) (*contract.AnalysisResult, error) {
	var out contract.AnalysisResult
	if err := c.Upload(ctx, PathPredict, file, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ContractAnalysis fetches a stored analysis
func (c *Client) ContractAnalysis(ctx context.Context, contractID string) (*contract.AnalysisResult, error) {
	var out contract.AnalysisResult
	if err := c.Get(ctx, contractPath(contractID, "analysis"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type chatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

// SendChatMessage asks a question about a contract. An empty
// conversationID starts a new conversation.
func (c *Client) SendChatMessage(ctx context.Context, contractID, message, conversationID string) (*contract.ChatReply, error) {
	body := chatRequest{Message: message}
	if conversationID != "" {
		body.ConversationID = &conversationID
	}

	var out contract.ChatReply
	if err := c.Post(ctx, contractPath(contractID, "chat"), body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ChatHistory loads the messages of a conversation
func (c *Client) ChatHistory(ctx context.Context, conversationID string) (*contract.ChatHistory, error) {
	var out contract.ChatHistory
	path := fmt.Sprintf("/api/chat/%s/messages", url.PathEscape(conversationID))
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out.ConversationID == "" {
		out.ConversationID = conversationID
	}
	return &out, nil
}

// IndustryComparison compares a contract against an industry's terms
func (c *Client) IndustryComparison(ctx context.Context, contractID, industry string) (*contract.ComparisonReport, error) {
	path := contractPath(contractID, "comparison")
	if industry != "" {
		path += "?industry=" + url.QueryEscape(industry)
	}

	var out contract.ComparisonReport
	if err := c.Get(ctx, path, &out); err != nil {
		return nil, err
	}
	if out.Industry == "" {
		out.Industry = industry
	}
	return &out, nil
}

// RiskHistory fetches the historical overall risk scores of a contract
func (c *Client) RiskHistory(ctx context.Context, contractID string) (*contract.RiskHistory, error) {
	var out contract.RiskHistory
	if err := c.Get(ctx, contractPath(contractID, "history"), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type negotiationRequest struct {
	ClauseIDs []string `json:"clause_ids"`
}

// NegotiationGuide requests advice for the given clauses
func (c *Client) NegotiationGuide(ctx context.Context, contractID string, clauseIDs []string) (*contract.NegotiationGuide, error) {
	if clauseIDs == nil {
		clauseIDs = []string{}
	}

	var out contract.NegotiationGuide
	if err := c.Post(ctx, contractPath(contractID, "negotiation"), negotiationRequest{ClauseIDs: clauseIDs}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

type eventRequest struct {
	Event      string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
}

// TrackEvent reports a usage event. Callers treat failures as non-fatal.
func (c *Client) TrackEvent(ctx context.Context, name string, props map[string]any) error {
	return c.Post(ctx, PathEvents, eventRequest{Event: name, Properties: props}, nil)
}
