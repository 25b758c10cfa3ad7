package negotiation

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	market "mandi/internal/domain/entity/market"
	domain "mandi/internal/domain/entity/negotiation"
)

var (
	ErrInvalidRole = errors.New("role must be buyer, seller or assistant")
	ErrNoPhrases   = errors.New("candidate phrase list is empty")
	// ErrNoOpeningPrice signals that opening-price suggestions only exist
	// for the buyer and seller roles.
	ErrNoOpeningPrice = errors.New("opening price is only suggested for buyer or seller")
)

const (
	buyerOpeningFactor  = 0.95
	sellerOpeningFactor = 1.05
)

// Config wires the clock and random source so tests can fix both.
type Config struct {
	Rng *rand.Rand
	Now func() time.Time
}

// DefaultConfig returns the configuration used by the server.
func DefaultConfig() Config {
	return Config{
		Rng: rand.New(rand.NewSource(time.Now().UnixNano())),
		Now: time.Now,
	}
}

// Session holds the ordered message history for one buyer/seller pairing.
// History is append-only; messages are never mutated after creation.
type Session struct {
	mu       sync.RWMutex
	messages []domain.Message

	rng     *rand.Rand
	now     func() time.Time
	entropy *ulid.MonotonicEntropy
}

func NewSession() *Session {
	return NewSessionWithConfig(DefaultConfig())
}

func NewSessionWithConfig(cfg Config) *Session {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Session{
		rng:     cfg.Rng,
		now:     cfg.Now,
		entropy: ulid.Monotonic(cfg.Rng, 0),
	}
}

// Append validates the role and stores a message with the current timestamp
// at the end of the history. No maximum length is enforced.
func (s *Session) Append(role domain.Role, content string) (domain.Message, error) {
	if !role.IsValid() {
		return domain.Message{}, ErrInvalidRole
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id := ulid.MustNew(ulid.Timestamp(now), s.entropy).String()
	msg, err := domain.NewMessage(id, role, content, now)
	if err != nil {
		return domain.Message{}, err
	}
	s.messages = append(s.messages, *msg)
	return *msg, nil
}

// History returns a snapshot of the messages in append order.
func (s *Session) History() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Reset clears the history for a new negotiation context.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = nil
}

// SuggestOpeningPrice is a pure function: buyers open 5% below the base
// price, sellers 5% above.
func (s *Session) SuggestOpeningPrice(basePrice float64, role domain.Role) (float64, error) {
	switch role {
	case domain.RoleBuyer:
		return basePrice * buyerOpeningFactor, nil
	case domain.RoleSeller:
		return basePrice * sellerOpeningFactor, nil
	default:
		return 0, ErrNoOpeningPrice
	}
}

// PickReply selects one phrase uniformly at random. Deterministic under a
// fixed random source.
func (s *Session) PickReply(phrases []string) (string, error) {
	if len(phrases) == 0 {
		return "", ErrNoPhrases
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return phrases[s.rng.Intn(len(phrases))], nil
}

// AssistantPhrases builds the canned assistant responses for a crop snapshot.
func AssistantPhrases(rate market.Rate) []string {
	return []string{
		fmt.Sprintf("I understand you're interested in %s. The current market rate is ₹%.2f.", rate.Name, rate.Price),
		fmt.Sprintf("Based on market trends, a fair price range would be ₹%.2f to ₹%.2f.", rate.Price*buyerOpeningFactor, rate.Price*sellerOpeningFactor),
		"Let me help you find a mutually beneficial price point.",
		fmt.Sprintf("Considering the %s trend, this seems like a good time to negotiate.", rate.Trend),
	}
}
