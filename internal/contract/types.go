package contract

import "time"

// RiskLevel is the backend's ordinal classification of a clause
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// String returns the level's wire value
func (r RiskLevel) String() string {
	return string(r)
}

// Valid reports whether r is one of the known levels
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

// ParseRiskLevel converts user input to a RiskLevel. "all" and "" return
// an empty level, which filters nothing.
func ParseRiskLevel(s string) (RiskLevel, bool) {
	switch s {
	case "", "all":
		return "", true
	}
	level := RiskLevel(s)
	return level, level.Valid()
}

// AnalysisResult is the backend's analysis of one contract document.
// The client never modifies it after decoding.
type AnalysisResult struct {
	ContractID   string       `json:"contract_id,omitempty"`
	Title        string       `json:"title,omitempty"`
	UploadDate   string       `json:"upload_date,omitempty"`
	PageCount    int          `json:"page_count,omitempty"`
	Summary      Summary      `json:"summary"`
	Clauses      []Clause     `json:"clauses"`
	KeyFindings  []KeyFinding `json:"key_findings,omitempty"`
	PlainSummary string       `json:"plain_summary,omitempty"`
}

// Summary holds the per-tier counts and the overall score
type Summary struct {
	TotalClauses     int     `json:"total_clauses"`
	HighRisk         int     `json:"high_risk"`
	MediumRisk       int     `json:"medium_risk"`
	LowRisk          int     `json:"low_risk"`
	OverallRiskScore float64 `json:"overall_risk_score"`
}

// Clause is one provision extracted and scored by the backend
type Clause struct {
	ID                 string              `json:"id"`
	Type               string              `json:"type"`
	RiskLevel          RiskLevel           `json:"risk_level"`
	RiskScore          float64             `json:"risk_score"`
	Content            string              `json:"content"`
	Concerns           []string            `json:"concerns"`
	IndustryComparison *IndustryComparison `json:"industry_comparison,omitempty"`
}

// IndustryComparison places a clause against the industry
type IndustryComparison struct {
	Percentile float64 `json:"percentile"`
}

// KeyFinding is a headline item shown at the top of the dashboard
type KeyFinding struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Severity    string `json:"severity,omitempty"`
}

// Metadata describes the locally uploaded document behind an analysis
type Metadata struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	UploadDate time.Time `json:"upload_date"`
}

// Role identifies the author of a chat message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Source is a citation attached to an assistant reply
type Source struct {
	Title   string `json:"title"`
	Excerpt string `json:"excerpt"`
}

// ChatMessage is one turn of a chat session
type ChatMessage struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	Sources   []Source  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatReply is the backend's answer to a chat message
type ChatReply struct {
	Response       string   `json:"response"`
	Sources        []Source `json:"sources,omitempty"`
	ConversationID string   `json:"conversation_id,omitempty"`
}

// ChatHistory is a stored conversation as returned by the backend
type ChatHistory struct {
	ConversationID string        `json:"conversation_id,omitempty"`
	Messages       []ChatMessage `json:"messages"`
}

// ChatContext is left behind by "ask about this clause" and consumed
// when the chat starts.
type ChatContext struct {
	ClauseID   string `json:"clause_id"`
	ClauseType string `json:"clause_type"`
}

// ComparisonReport compares a contract against an industry
type ComparisonReport struct {
	Industry    string       `json:"industry,omitempty"`
	Comparisons []Comparison `json:"comparisons"`
}

// Comparison is one row of a ComparisonReport
type Comparison struct {
	ClauseType       string  `json:"clause_type"`
	YourTerms        string  `json:"your_terms"`
	IndustryStandard string  `json:"industry_standard"`
	Percentile       float64 `json:"percentile"`
}

// RiskHistory is the historical overall score of a contract
type RiskHistory struct {
	Dates  []string  `json:"dates"`
	Scores []float64 `json:"scores"`
}

// NegotiationGuide is advice for the contract's high-risk clauses
type NegotiationGuide struct {
	Markdown string               `json:"markdown,omitempty"`
	HTML     string               `json:"html,omitempty"`
	Sections []NegotiationSection `json:"sections,omitempty"`
	Tips     []string             `json:"tips,omitempty"`
}

// NegotiationSection is the advice for one clause
type NegotiationSection struct {
	Title    string `json:"title"`
	Current  string `json:"current"`
	Propose  string `json:"propose"`
	Script   string `json:"script"`
	Fallback string `json:"fallback,omitempty"`
}
