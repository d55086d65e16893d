// Package conversation holds the append-only record of chat turns.
package conversation

import (
	"sync"
	"time"

	"github.com/avelasco/cryptochat/backend/internal/model/chat"
)

// Log is an insertion-ordered, append-only sequence of chat turns.
// Sequence ids are assigned at append time, so when overlapping
// submissions race, the order reflects completion, not submission.
type Log struct {
	mu      sync.RWMutex
	nextSeq int64
	turns   []chat.Turn
}

// NewLog returns an empty conversation log.
func NewLog() *Log {
	return &Log{}
}

// Append records one turn and returns it with its assigned sequence id.
func (l *Log) Append(text string, isUser bool) chat.Turn {
	l.mu.Lock()
	defer l.mu.Unlock()

	turn := chat.Turn{
		SequenceID: l.nextSeq,
		Text:       text,
		IsUser:     isUser,
		CreatedAt:  time.Now().UTC(),
	}
	l.nextSeq++
	l.turns = append(l.turns, turn)
	return turn
}

// Turns returns a copy of all turns in append order.
func (l *Log) Turns() []chat.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	copied := make([]chat.Turn, len(l.turns))
	copy(copied, l.turns)
	return copied
}

// Since returns the turns with a sequence id at or above seq.
func (l *Log) Since(seq int64) []chat.Turn {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for i, turn := range l.turns {
		if turn.SequenceID >= seq {
			copied := make([]chat.Turn, len(l.turns)-i)
			copy(copied, l.turns[i:])
			return copied
		}
	}
	return nil
}

// Len reports how many turns have been appended.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.turns)
}
