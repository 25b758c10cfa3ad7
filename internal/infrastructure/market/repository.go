package market

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"time"

	domain "mandi/internal/domain/entity/market"
	"mandi/internal/domain/interfaces"
)

var _ interfaces.RateRepository = (*Repository)(nil)

// Config controls seeding and simulation behavior.
type Config struct {
	// Rng drives price perturbation and seeded history. Injectable so tests
	// can fix the sequence.
	Rng *rand.Rand
	// Now is the clock used for timestamps.
	Now func() time.Time
	// SeedHistoryEntries is how many historical price points to generate per
	// crop at initialization.
	SeedHistoryEntries int
}

// DefaultConfig returns the configuration used by the server.
func DefaultConfig() Config {
	return Config{
		Rng:                rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:                time.Now,
		SeedHistoryEntries: 7,
	}
}

type seedRate struct {
	id       string
	name     string
	price    float64
	unit     string
	location string
	trend    domain.Trend
}

// seedCatalog is the fixed demo catalog of Indian agricultural markets.
var seedCatalog = []seedRate{
	{"wheat", "Wheat (गहूं)", 2500.0, "quintal", "Pune Mandi", domain.TrendRising},
	{"rice", "Rice (चावल)", 3200.0, "quintal", "Mumbai Mandi", domain.TrendStable},
	{"onion", "Onion (कांदा)", 1800.0, "quintal", "Nashik Mandi", domain.TrendFalling},
	{"tomato", "Tomato (टमाटर)", 2200.0, "quintal", "Pune Mandi", domain.TrendRising},
	{"potato", "Potato (बटाटा)", 1500.0, "quintal", "Delhi Mandi", domain.TrendStable},
	{"sugarcane", "Sugarcane (ऊस)", 350.0, "quintal", "Kolhapur Mandi", domain.TrendRising},
	{"cotton", "Cotton (कापूस)", 5800.0, "quintal", "Nagpur Mandi", domain.TrendFalling},
	{"soybean", "Soybean (सोयाबीन)", 4200.0, "quintal", "Indore Mandi", domain.TrendStable},
}

// Repository keeps the mock rate catalog in memory for one session.
type Repository struct {
	mu    sync.RWMutex
	order []string
	rates map[string]*domain.Rate
	cfg   Config
}

// NewRepository seeds a repository with the default configuration.
func NewRepository() *Repository {
	return NewRepositoryWithConfig(DefaultConfig())
}

// NewRepositoryWithConfig seeds a repository, failing never: the seed catalog
// is known-valid, so construction errors indicate a programming mistake and
// are skipped defensively.
func NewRepositoryWithConfig(cfg Config) *Repository {
	if cfg.Rng == nil {
		cfg.Rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	r := &Repository{
		rates: make(map[string]*domain.Rate, len(seedCatalog)),
		cfg:   cfg,
	}
	now := cfg.Now()
	for _, s := range seedCatalog {
		rate, err := domain.NewRate(s.id, s.name, s.price, s.unit, s.location, s.trend, now)
		if err != nil {
			continue
		}
		for i := 0; i < cfg.SeedHistoryEntries; i++ {
			rate.AppendHistory(s.price + (cfg.Rng.Float64()*400 - 200))
		}
		r.order = append(r.order, s.id)
		r.rates[s.id] = rate
	}
	return r
}

func (r *Repository) GetAll(_ context.Context) (map[string]domain.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]domain.Rate, len(r.rates))
	for id, rate := range r.rates {
		out[id] = rate.Clone()
	}
	return out, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (domain.Rate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rate, ok := r.rates[id]
	if !ok {
		return domain.Rate{}, false, nil
	}
	return rate.Clone(), true, nil
}

func (r *Repository) Search(_ context.Context, query string) ([]domain.Rate, error) {
	query = strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Rate
	for _, id := range r.order {
		rate := r.rates[id]
		if query == "" || strings.Contains(strings.ToLower(rate.Name), query) {
			out = append(out, rate.Clone())
		}
	}
	return out, nil
}

func (r *Repository) FilterByTrend(_ context.Context, trend domain.Trend) ([]domain.Rate, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []domain.Rate
	for _, id := range r.order {
		if rate := r.rates[id]; rate.Trend == trend {
			out = append(out, rate.Clone())
		}
	}
	return out, nil
}

// Tick applies a pseudo-random perturbation of at most ±5% to every price.
// Trend is recomputed strictly from the price delta.
func (r *Repository) Tick(_ context.Context) (map[string]domain.Rate, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.cfg.Now()
	out := make(map[string]domain.Rate, len(r.rates))
	for id, rate := range r.rates {
		variation := r.cfg.Rng.Float64()*0.10 - 0.05
		newPrice := rate.Price * (1 + variation)

		switch {
		case newPrice > rate.Price:
			rate.Trend = domain.TrendRising
		case newPrice < rate.Price:
			rate.Trend = domain.TrendFalling
		default:
			rate.Trend = domain.TrendStable
		}

		rate.Price = newPrice
		rate.LastUpdated = now
		rate.AppendHistory(newPrice)

		out[id] = rate.Clone()
	}
	return out, nil
}

func (r *Repository) History(_ context.Context, id string, days int) ([]float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rate, ok := r.rates[id]
	if !ok || len(rate.History) == 0 || days <= 0 {
		return nil, nil
	}
	history := rate.History
	if len(history) > days {
		history = history[len(history)-days:]
	}
	out := make([]float64, len(history))
	copy(out, history)
	return out, nil
}
