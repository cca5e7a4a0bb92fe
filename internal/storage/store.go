package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Storage keys shared by the upload, dashboard and chat flows
const (
	KeyCurrentContractID = "current_contract_id"
	KeyContract          = "legallens_contract"
	KeyLatestAnalysis    = "legallens_analysis"
	KeyChatContext       = "chat_context"
	KeySelectedClause    = "selected_clause"
	KeyAuthToken         = "auth_token"
)

// ErrNotFound is returned when a key has no value
var ErrNotFound = errors.New("storage: key not found")

// AnalysisKey returns the key holding the analysis of one contract
func AnalysisKey(contractID string) string {
	return "analysis_" + contractID
}

// ConversationKey returns the key holding the chat conversation id of one contract
func ConversationKey(contractID string) string {
	return "chat_conv_" + contractID
}

// Store is a string key/value store that survives between runs
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
	Close() error
}

// GetJSON decodes the JSON value stored under key into out
func GetJSON(ctx context.Context, s Store, key string, out any) error {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("decoding %s: %w", key, err)
	}
	return nil
}

// SetJSON stores v under key as JSON
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// Lookup is Get with ErrNotFound turned into ok=false
func Lookup(ctx context.Context, s Store, key string) (string, bool, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}
