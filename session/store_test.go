package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/rkaranam/concierge/backend"
	"github.com/rkaranam/concierge/models"
)

type fakeBackend struct {
	mu        sync.Mutex
	reply     string
	err       error
	histories [][]models.Turn
}

func (f *fakeBackend) Generate(_ context.Context, prompt string, history []models.Turn, _ backend.Opts) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histories = append(f.histories, append([]models.Turn(nil), history...))
	if f.err != nil {
		return "", f.err
	}
	if f.reply != "" {
		return f.reply, nil
	}
	return "re: " + prompt, nil
}

func (f *fakeBackend) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.histories)
}

func newTestStore(t *testing.T, b backend.Generator) (*Store, *[]models.TurnEvent) {
	t.Helper()
	var events []models.TurnEvent
	var mu sync.Mutex
	store := NewStore(b, func(ev models.TurnEvent) error {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, ev)
		return nil
	})
	return store, &events
}

func TestBeginCreatesSessionWithoutBackendCall(t *testing.T) {
	b := &fakeBackend{}
	store, _ := newTestStore(t, b)

	store.Begin("CA123")

	if got := b.calls(); got != 0 {
		t.Fatalf("backend called %d times on Begin, want 0", got)
	}
	turns := store.Transcript("CA123")
	if len(turns) != 1 || turns[0].Role != models.RoleSystem {
		t.Fatalf("new session transcript = %v, want just the system preamble", turns)
	}
}

func TestFirstTurnSeesOnlyPreamble(t *testing.T) {
	b := &fakeBackend{reply: "sunny"}
	store, _ := newTestStore(t, b)

	store.Begin("CA123")
	reply := store.Turn(context.Background(), "CA123", "What's the weather")
	if reply != "sunny" {
		t.Fatalf("Turn = %q, want backend reply", reply)
	}

	if got := b.calls(); got != 1 {
		t.Fatalf("backend called %d times, want 1", got)
	}
	hist := b.histories[0]
	if len(hist) != 1 || hist[0].Role != models.RoleSystem {
		t.Fatalf("backend history = %v, want [system preamble]", hist)
	}

	turns := store.Transcript("CA123")
	if len(turns) != 3 {
		t.Fatalf("transcript has %d entries, want 3 (system, user, assistant)", len(turns))
	}
	if turns[1].Role != models.RoleUser || turns[1].Content != "What's the weather" {
		t.Fatalf("first turn after preamble = %+v, want the user's speech", turns[1])
	}
	if turns[2].Role != models.RoleAssistant || turns[2].Content != "sunny" {
		t.Fatalf("unexpected assistant turn: %+v", turns[2])
	}
}

func TestTurnCreatesSessionOnUnseenCallID(t *testing.T) {
	store, _ := newTestStore(t, &fakeBackend{})

	store.Turn(context.Background(), "CA999", "hi")

	turns := store.Transcript("CA999")
	if len(turns) != 3 || turns[0].Role != models.RoleSystem {
		t.Fatalf("transcript = %v, want preamble-seeded session", turns)
	}
}

func TestTrimKeepsPreambleAndRecentTurns(t *testing.T) {
	store, _ := newTestStore(t, &fakeBackend{})

	for i := 0; i < 12; i++ {
		store.Turn(context.Background(), "CA123", fmt.Sprintf("turn %d", i))
	}

	turns := store.Transcript("CA123")
	if len(turns) > maxTurns {
		t.Fatalf("transcript has %d turns after trim, want <= %d", len(turns), maxTurns)
	}
	if turns[0].Role != models.RoleSystem {
		t.Fatalf("preamble evicted: first turn is %+v", turns[0])
	}
	last := turns[len(turns)-1]
	if last.Role != models.RoleAssistant || last.Content != "re: turn 11" {
		t.Fatalf("most recent turn lost: %+v", last)
	}
}

func TestCloseThenTurnStartsFresh(t *testing.T) {
	store, _ := newTestStore(t, &fakeBackend{})
	ctx := context.Background()

	store.Turn(ctx, "CA123", "first call, first turn")
	store.Turn(ctx, "CA123", "first call, second turn")
	store.Close("CA123")

	store.Turn(ctx, "CA123", "second call")
	turns := store.Transcript("CA123")
	if len(turns) != 3 {
		t.Fatalf("transcript after close+turn has %d entries, want 3", len(turns))
	}
	for _, turn := range turns {
		if turn.Content == "first call, first turn" {
			t.Fatal("prior call's turns leaked into the fresh session")
		}
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	store, _ := newTestStore(t, &fakeBackend{})

	store.Close("never-seen")
	store.Turn(context.Background(), "CA123", "hi")
	store.Close("CA123")
	store.Close("CA123")

	if store.Transcript("CA123") != nil {
		t.Fatal("session still present after close")
	}
}

func TestBackendFailureKeepsSessionAlive(t *testing.T) {
	b := &fakeBackend{err: &backend.Error{Provider: "openai", Err: errors.New("timeout")}}
	store, events := newTestStore(t, b)
	ctx := context.Background()

	reply := store.Turn(ctx, "CA123", "hello?")
	if reply != backend.SpokenFallback {
		t.Fatalf("Turn = %q, want the spoken fallback", reply)
	}
	if len(*events) != 0 {
		t.Fatalf("published %d events for a failed turn, want 0", len(*events))
	}

	// Session survived for a retry on the next turn.
	b.mu.Lock()
	b.err = nil
	b.reply = "recovered"
	b.mu.Unlock()
	if got := store.Turn(ctx, "CA123", "still there?"); got != "recovered" {
		t.Fatalf("retry turn = %q, want backend reply", got)
	}
}

func TestTurnEventsPublishedInOrder(t *testing.T) {
	store, events := newTestStore(t, &fakeBackend{reply: "hello back"})

	store.Turn(context.Background(), "CA123", "hello")

	got := *events
	if len(got) != 2 {
		t.Fatalf("published %d events, want 2", len(got))
	}
	if got[0].Role != models.RoleUser || got[0].Content != "hello" || got[0].CallID != "CA123" {
		t.Fatalf("first event = %+v, want the user turn", got[0])
	}
	if got[1].Role != models.RoleAssistant || got[1].Content != "hello back" {
		t.Fatalf("second event = %+v, want the assistant turn", got[1])
	}
}

func TestIndependentCallsAdvanceConcurrently(t *testing.T) {
	store, _ := newTestStore(t, &fakeBackend{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			callID := fmt.Sprintf("CA%03d", i)
			for j := 0; j < 6; j++ {
				store.Turn(ctx, callID, fmt.Sprintf("turn %d", j))
			}
		}(i)
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		callID := fmt.Sprintf("CA%03d", i)
		turns := store.Transcript(callID)
		if len(turns) > maxTurns {
			t.Fatalf("call %s transcript has %d turns, want <= %d", callID, len(turns), maxTurns)
		}
		if turns[0].Role != models.RoleSystem {
			t.Fatalf("call %s lost its preamble", callID)
		}
	}
}
