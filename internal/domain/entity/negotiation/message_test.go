package negotiation

import (
	"testing"
	"time"
)

func TestNewRole(t *testing.T) {
	for _, s := range []string{"buyer", " Seller ", "ASSISTANT"} {
		if _, err := NewRole(s); err != nil {
			t.Errorf("expected %q to parse, got %v", s, err)
		}
	}

	if _, err := NewRole("ai_assistant"); err == nil {
		t.Error("expected error for unknown role")
	}
}

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage("01ARZ", RoleBuyer, "Can you do 2400?", time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Role != RoleBuyer || msg.Content != "Can you do 2400?" {
		t.Errorf("unexpected message: %+v", msg)
	}

	if _, err := NewMessage("01ARZ", Role("broker"), "hi", time.Now()); err == nil {
		t.Error("expected error for invalid role")
	}

	// Empty content is permitted; the chat layer decides whether to send it.
	if _, err := NewMessage("01ARZ", RoleSeller, "", time.Now()); err != nil {
		t.Errorf("expected empty content to be allowed, got %v", err)
	}
}
