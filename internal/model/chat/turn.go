package chat

import "time"

// Turn records a single conversation entry. Immutable once created;
// sequence ids are assigned by the conversation log at append time.
type Turn struct {
	SequenceID int64     `json:"sequenceId"`
	Text       string    `json:"text"`
	IsUser     bool      `json:"isUser"`
	CreatedAt  time.Time `json:"createdAt"`
}
