package voice

import (
	"testing"

	"github.com/avelasco/cryptochat/backend/internal/model/chat"
)

func TestPublishReachesSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.SpeakRequested("s1", "hello")

	event := <-ch
	if event.Type != EventSpeak || event.Text != "hello" {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.SessionID != "s1" {
		t.Fatalf("session id = %q", event.SessionID)
	}
}

func TestPublishIsScopedToSession(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.TurnAppended("s2", chat.Turn{Text: "other session"})

	select {
	case event := <-ch:
		t.Fatalf("event leaked across sessions: %+v", event)
	default:
	}
}

func TestPublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe("s1")
	defer cancel()

	// Overfill the subscriber buffer; publishing must drop, not stall.
	for i := 0; i < subscriberBuffer*2; i++ {
		hub.SpeakRequested("s1", "flood")
	}
}

func TestCancelClosesChannel(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")

	cancel()
	cancel() // second cancel is a no-op

	if _, open := <-ch; open {
		t.Fatal("expected closed channel after cancel")
	}
}

func TestSpeakIgnoresEmptyText(t *testing.T) {
	hub := NewHub()
	ch, cancel := hub.Subscribe("s1")
	defer cancel()

	hub.SpeakRequested("s1", "")

	select {
	case event := <-ch:
		t.Fatalf("unexpected event for empty text: %+v", event)
	default:
	}
}
