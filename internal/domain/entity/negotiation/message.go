package negotiation

import (
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleBuyer     Role = "buyer"
	RoleSeller    Role = "seller"
	RoleAssistant Role = "assistant"
)

func (r Role) String() string {
	return string(r)
}

func (r Role) IsValid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAssistant:
		return true
	default:
		return false
	}
}

func NewRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", fmt.Errorf("invalid role: %s", s)
	}
	return r, nil
}

// Message is one turn in a buyer/seller chat. Messages are append-only and
// never mutated after creation.
type Message struct {
	ID        string    `json:"id"`
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewMessage validates the role and stamps the message. Empty content is
// permitted; the chat layer decides whether to send it.
func NewMessage(id string, role Role, content string, at time.Time) (*Message, error) {
	if !role.IsValid() {
		return nil, fmt.Errorf("invalid role: %s", role)
	}
	return &Message{
		ID:        id,
		Role:      role,
		Content:   content,
		CreatedAt: at,
	}, nil
}
