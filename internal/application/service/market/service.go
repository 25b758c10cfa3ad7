package market

import (
	"context"
	"errors"
	"strings"

	domain "mandi/internal/domain/entity/market"
	"mandi/internal/domain/interfaces"
)

var (
	ErrNotFound     = errors.New("crop not found")
	ErrInvalidDays  = errors.New("days must be positive")
	ErrInvalidTrend = errors.New("invalid trend")
)

// Service exposes the rate catalog operations over a repository.
type Service struct {
	repo interfaces.RateRepository
}

func NewService(repo interfaces.RateRepository) *Service {
	return &Service{repo: repo}
}

// GetAll returns the current snapshot of every rate keyed by catalog id.
func (s *Service) GetAll(ctx context.Context) (map[string]domain.Rate, error) {
	return s.repo.GetAll(ctx)
}

// GetByName looks a crop up case-insensitively, ignoring internal whitespace
// ("  Basmati Rice " and "basmatirice" address the same record).
func (s *Service) GetByName(ctx context.Context, name string) (domain.Rate, error) {
	id := NormalizeName(name)
	rate, ok, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Rate{}, err
	}
	if !ok {
		return domain.Rate{}, ErrNotFound
	}
	return rate, nil
}

// Search matches the query as a case-insensitive substring over display
// names. An empty query matches the whole catalog.
func (s *Service) Search(ctx context.Context, query string) ([]domain.Rate, error) {
	return s.repo.Search(ctx, strings.TrimSpace(query))
}

// FilterByTrend returns rates with the given trend in catalog order.
func (s *Service) FilterByTrend(ctx context.Context, trend string) ([]domain.Rate, error) {
	t, err := domain.NewTrend(trend)
	if err != nil {
		return nil, ErrInvalidTrend
	}
	return s.repo.FilterByTrend(ctx, t)
}

// Tick perturbs every price and returns the fresh snapshot.
func (s *Service) Tick(ctx context.Context) (map[string]domain.Rate, error) {
	return s.repo.Tick(ctx)
}

// History returns the most recent days price points for a crop, fewer if not
// enough exist, empty if none are recorded. Unknown crops are a miss, not a
// fault.
func (s *Service) History(ctx context.Context, name string, days int) ([]float64, error) {
	if days <= 0 {
		return nil, ErrInvalidDays
	}
	return s.repo.History(ctx, NormalizeName(name), days)
}

// NormalizeName maps a user-supplied crop name onto a catalog id by
// lowercasing and removing spaces.
func NormalizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}
