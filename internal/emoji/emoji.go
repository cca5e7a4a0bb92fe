package emoji

import "sync/atomic"

// emojiMap holds emoji and fallback mappings
var emojiMap = map[string][2]string{
	// [emoji, fallback]
	"error":       {"❌", "[ERR]"},
	"warning":     {"⚠️", "[WRN]"},
	"info":        {"ℹ️", "[INF]"},
	"success":     {"✅", "[OK]"},
	"insight":     {"💡", "[INS]"},
	"statistics":  {"📊", "[STATS]"},
	"contract":    {"📄", "[DOC]"},
	"clause":      {"📑", "[CLS]"},
	"risk_high":   {"🔴", "[HIGH]"},
	"risk_medium": {"🟡", "[MED]"},
	"risk_low":    {"🟢", "[LOW]"},
	"upload":      {"📤", "[UP]"},
	"chat":        {"💬", "[CHAT]"},
	"assistant":   {"⚖️", "[AI]"},
	"user":        {"🙂", "[YOU]"},
	"source":      {"📚", "[SRC]"},
	"guide":       {"🤝", "[NEG]"},
	"scale":       {"⚖️", "[BAL]"},
	"trend":       {"📈", "[TRD]"},
	"lock":        {"🔒", "[AUTH]"},
	"watch":       {"👀", "[WATCH]"},
	"help":        {"❓", "[?]"},
	"target":      {"🎯", "[>]"},
	"number":      {"🔢", "[#]"},
	"door":        {"🚪", "[EXIT]"},
}

var emojiDisabled atomic.Bool

// SetEmojiDisabled sets the global emoji disabled state
func SetEmojiDisabled(disabled bool) {
	emojiDisabled.Store(disabled)
}

// IsEmojiDisabled returns the current emoji disabled state
func IsEmojiDisabled() bool {
	return emojiDisabled.Load()
}

// GetEmoji returns emoji or fallback based on no-emoji setting
func GetEmoji(key string) string {
	if mapping, exists := emojiMap[key]; exists {
		if emojiDisabled.Load() {
			return mapping[1]
		}
		return mapping[0]
	}
	return "[?]"
}

// ForRisk returns the marker for a risk level name
func ForRisk(level string) string {
	switch level {
	case "high":
		return GetEmoji("risk_high")
	case "medium":
		return GetEmoji("risk_medium")
	case "low":
		return GetEmoji("risk_low")
	default:
		return GetEmoji("info")
	}
}
