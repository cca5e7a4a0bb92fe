package emoji

import "testing"

func TestGetEmoji(t *testing.T) {
	defer SetEmojiDisabled(false)

	tests := []struct {
		key      string
		disabled bool
		want     string
	}{
		{"success", false, "✅"},
		{"success", true, "[OK]"},
		{"risk_high", true, "[HIGH]"},
		{"missing", false, "[?]"},
		{"missing", true, "[?]"},
	}

	for _, tt := range tests {
		SetEmojiDisabled(tt.disabled)
		if got := GetEmoji(tt.key); got != tt.want {
			t.Errorf("GetEmoji(%q) disabled=%v = %q, want %q", tt.key, tt.disabled, got, tt.want)
		}
	}
}

func TestForRisk(t *testing.T) {
	SetEmojiDisabled(true)
	defer SetEmojiDisabled(false)

	tests := map[string]string{"high": "[HIGH]", "medium": "[MED]", "low": "[LOW]", "": "[INF]"}
	for level, want := range tests {
		if got := ForRisk(level); got != want {
			t.Errorf("ForRisk(%q) = %q, want %q", level, got, want)
		}
	}
}
