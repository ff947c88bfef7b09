// Package model defines the core data types for the stock-chat service.
// In Go, we use structs instead of classes. Struct tags (the `json:"..."` and
// `db:"..."` annotations) tell serialization libraries how to map fields.
package model

import "time"

// Role identifies who produced a message in a conversation.
// Go doesn't have enums — we use typed string constants.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry in a conversation transcript. Messages are immutable
// once created — the transcript is append-only and strictly ordered.
type Message struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Kind is the classifier's label for a piece of user input.
type Kind string

const (
	KindTicker  Kind = "ticker"
	KindCompany Kind = "company"
	KindUnknown Kind = "unknown"
)

// ValidKind checks if a string is a Kind the classifier may emit.
func ValidKind(s string) bool {
	switch Kind(s) {
	case KindTicker, KindCompany, KindUnknown:
		return true
	}
	return false
}

// Classification is the result of labeling free-text input.
// For KindUnknown, Value carries the original input text unchanged.
type Classification struct {
	Kind  Kind   `json:"kind"`
	Value string `json:"value"`
}

// SymbolMatch is one candidate from a symbol search. Region and Currency
// drive the selection rule: US/USD candidates win over earlier ones.
type SymbolMatch struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Region   string `json:"region"`
	Currency string `json:"currency"`
}

// Granularity is the sampling resolution of a price quote.
type Granularity string

const (
	GranularityIntraday Granularity = "intraday"
	GranularityDaily    Granularity = "daily"
)

// PriceQuote is a single price observation. Price stays a string — the
// upstream API sends decimal strings and reformatting them would alter
// what the user sees ("148.00" must not become "148").
type PriceQuote struct {
	Symbol      string      `json:"symbol"`
	Price       string      `json:"price"`
	Timestamp   string      `json:"timestamp"`
	Granularity Granularity `json:"granularity"`
}

// APICall tracks each call to an upstream API (classifier or market data)
// for cost and failure monitoring.
type APICall struct {
	ID         int64     `db:"id" json:"id"`
	Input      string    `db:"input" json:"input"`
	Provider   string    `db:"provider" json:"provider"`
	Operation  string    `db:"operation" json:"operation"`
	Success    bool      `db:"success" json:"success"`
	DurationMs *int64    `db:"duration_ms" json:"duration_ms,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
