package bus

import (
	"fmt"
	"sync"
	"testing"

	"github.com/admesh-io/admesh/core"
	"github.com/admesh-io/admesh/messagelog"
)

func newTestBus() (*Bus, *messagelog.InMemoryLog) {
	log := messagelog.NewInMemoryLog()
	return New(log), log
}

func TestBus_SendWithinBudget(t *testing.T) {
	b, log := newTestBus()
	b.StartSession("q1", 2)

	msg, err := b.Send("q1", "router", "analyst", core.MessageTypeRequest, map[string]any{"query": "pacing"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if msg == nil {
		t.Fatal("expected recorded message")
	}
	if msg.From != "router" || msg.To != "analyst" || msg.SessionID != "q1" {
		t.Fatalf("message addressing wrong: %+v", msg)
	}
	if log.Len() != 1 {
		t.Fatalf("expected 1 logged message, got %d", log.Len())
	}
	if b.Remaining("q1") != 1 {
		t.Errorf("expected 1 send remaining, got %d", b.Remaining("q1"))
	}
}

func TestBus_BudgetExhaustion(t *testing.T) {
	b, log := newTestBus()
	b.StartSession("q1", 3)

	for i := 0; i < 3; i++ {
		msg, err := b.Send("q1", "a", "b", core.MessageTypeRequest, nil)
		if err != nil || msg == nil {
			t.Fatalf("send %d should be accepted (msg=%v err=%v)", i, msg, err)
		}
	}

	// The (N+1)th send returns a nil marker, not an error.
	msg, err := b.Send("q1", "a", "b", core.MessageTypeRequest, nil)
	if err != nil {
		t.Fatalf("over-budget send must not error: %v", err)
	}
	if msg != nil {
		t.Fatal("over-budget send must not record a message")
	}
	if log.Len() != 3 {
		t.Fatalf("log should hold exactly the budget, got %d", log.Len())
	}
}

func TestBus_SendOutsideSession(t *testing.T) {
	b, log := newTestBus()

	msg, err := b.Send("never-started", "a", "b", core.MessageTypeRequest, nil)
	if err != nil {
		t.Fatalf("unknown-session send must not error: %v", err)
	}
	if msg != nil {
		t.Fatal("unknown-session send must not record a message")
	}
	if log.Len() != 0 {
		t.Fatal("nothing should be logged outside a started session")
	}
}

func TestBus_EndSessionUnknownIsNoOp(t *testing.T) {
	b, _ := newTestBus()
	b.EndSession("never-started") // must not panic or error

	b.StartSession("q1", 1)
	b.EndSession("q1")
	b.EndSession("q1") // second end is also a no-op
	if b.ActiveSessions() != 0 {
		t.Errorf("expected no active sessions, got %d", b.ActiveSessions())
	}
}

func TestBus_RestartResetsCounter(t *testing.T) {
	b, _ := newTestBus()
	b.StartSession("q1", 1)
	if msg, _ := b.Send("q1", "a", "b", core.MessageTypeRequest, nil); msg == nil {
		t.Fatal("first send should be accepted")
	}
	if msg, _ := b.Send("q1", "a", "b", core.MessageTypeRequest, nil); msg != nil {
		t.Fatal("budget should be exhausted")
	}

	// A retried request reusing the session id gets a fresh budget.
	b.StartSession("q1", 1)
	if msg, _ := b.Send("q1", "a", "b", core.MessageTypeRequest, nil); msg == nil {
		t.Fatal("send after restart should be accepted")
	}
}

func TestBus_EndSessionKeepsLog(t *testing.T) {
	b, log := newTestBus()
	b.StartSession("q1", 5)
	if _, err := b.Send("q1", "a", "b", core.MessageTypeRequest, nil); err != nil {
		t.Fatal(err)
	}
	b.EndSession("q1")

	if log.Len() != 1 {
		t.Fatal("ending a session must not remove logged messages")
	}
	got, err := b.GetMessages(core.MessageFilter{SessionID: "q1"})
	if err != nil {
		t.Fatalf("get messages failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 message after session end, got %d", len(got))
	}
}

func TestBus_ConcurrentSessions(t *testing.T) {
	b, _ := newTestBus()

	const sessions = 8
	const perSession = 5
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("q%d", i)
		b.StartSession(id, perSession)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perSession+2; j++ {
				_, _ = b.Send(id, "a", "b", core.MessageTypeRequest, nil)
			}
		}()
	}
	wg.Wait()

	for i := 0; i < sessions; i++ {
		id := fmt.Sprintf("q%d", i)
		got, err := b.GetMessages(core.MessageFilter{SessionID: id})
		if err != nil {
			t.Fatalf("get messages failed: %v", err)
		}
		if len(got) != perSession {
			t.Errorf("session %s accepted %d messages, want %d", id, len(got), perSession)
		}
	}
}
