package negotiation

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
	"time"

	market "mandi/internal/domain/entity/market"
	domain "mandi/internal/domain/entity/negotiation"
)

func newTestSession(seed int64) *Session {
	base := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	step := 0
	return NewSessionWithConfig(Config{
		Rng: rand.New(rand.NewSource(seed)),
		Now: func() time.Time {
			step++
			return base.Add(time.Duration(step) * time.Second)
		},
	})
}

func TestAppendAndHistoryOrder(t *testing.T) {
	s := newTestSession(1)

	const n = 25
	for i := 0; i < n; i++ {
		role := domain.RoleBuyer
		if i%2 == 1 {
			role = domain.RoleSeller
		}
		if _, err := s.Append(role, fmt.Sprintf("message %d", i)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history := s.History()
	if len(history) != n {
		t.Fatalf("expected %d messages, got %d", n, len(history))
	}
	for i, msg := range history {
		if msg.Content != fmt.Sprintf("message %d", i) {
			t.Fatalf("message %d out of order: %q", i, msg.Content)
		}
	}
}

func TestAppendRejectsInvalidRole(t *testing.T) {
	s := newTestSession(1)

	if _, err := s.Append(domain.Role("broker"), "hi"); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
}

func TestReset(t *testing.T) {
	s := newTestSession(1)
	s.Append(domain.RoleBuyer, "hello")
	s.Append(domain.RoleAssistant, "hi")

	s.Reset()

	if got := s.History(); len(got) != 0 {
		t.Fatalf("expected empty history after reset, got %d messages", len(got))
	}
}

func TestHistoryIsSnapshot(t *testing.T) {
	s := newTestSession(1)
	s.Append(domain.RoleBuyer, "hello")

	snapshot := s.History()
	snapshot[0].Content = "mutated"

	if s.History()[0].Content != "hello" {
		t.Error("mutating the snapshot leaked into the session")
	}
}

func TestSuggestOpeningPrice(t *testing.T) {
	s := newTestSession(1)

	buyer, err := s.SuggestOpeningPrice(1000, domain.RoleBuyer)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buyer != 950.0 {
		t.Errorf("buyer opening price = %v, want 950.0", buyer)
	}

	seller, err := s.SuggestOpeningPrice(1000, domain.RoleSeller)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seller != 1050.0 {
		t.Errorf("seller opening price = %v, want 1050.0", seller)
	}

	if _, err := s.SuggestOpeningPrice(1000, domain.RoleAssistant); !errors.Is(err, ErrNoOpeningPrice) {
		t.Errorf("expected ErrNoOpeningPrice for assistant, got %v", err)
	}
}

func TestPickReplyDeterministicUnderFixedSeed(t *testing.T) {
	phrases := []string{"a", "b", "c", "d"}

	first := newTestSession(42)
	second := newTestSession(42)

	for i := 0; i < 10; i++ {
		p1, err1 := first.PickReply(phrases)
		p2, err2 := second.PickReply(phrases)
		if err1 != nil || err2 != nil {
			t.Fatalf("unexpected errors: %v / %v", err1, err2)
		}
		if p1 != p2 {
			t.Fatalf("same seed diverged at pick %d: %q vs %q", i, p1, p2)
		}
	}
}

func TestPickReplyEmptyList(t *testing.T) {
	s := newTestSession(1)

	if _, err := s.PickReply(nil); !errors.Is(err, ErrNoPhrases) {
		t.Fatalf("expected ErrNoPhrases, got %v", err)
	}
}

func TestAssistantPhrases(t *testing.T) {
	rate := market.Rate{
		ID:    "wheat",
		Name:  "Wheat (गहूं)",
		Price: 2500,
		Trend: market.TrendRising,
	}

	phrases := AssistantPhrases(rate)
	if len(phrases) != 4 {
		t.Fatalf("expected 4 phrases, got %d", len(phrases))
	}

	s := newTestSession(1)
	picked, err := s.PickReply(phrases)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	found := false
	for _, p := range phrases {
		if p == picked {
			found = true
		}
	}
	if !found {
		t.Errorf("picked phrase %q not in the candidate list", picked)
	}
}
