package interfaces

import (
	"context"

	market "mandi/internal/domain/entity/market"
)

// RateRepository stores the commodity rate catalog for one session.
type RateRepository interface {
	// GetAll returns defensive copies of every rate keyed by catalog id.
	GetAll(ctx context.Context) (map[string]market.Rate, error)
	// GetByID looks up a rate by its normalized catalog id.
	GetByID(ctx context.Context, id string) (market.Rate, bool, error)
	// Search matches the query as a case-insensitive substring of display
	// names; an empty query matches all. Catalog insertion order.
	Search(ctx context.Context, query string) ([]market.Rate, error)
	// FilterByTrend returns rates with the given trend in insertion order.
	FilterByTrend(ctx context.Context, trend market.Trend) ([]market.Rate, error)
	// Tick perturbs every price by at most ±5%, recomputes trends and
	// refreshes timestamps, and returns the fresh snapshot.
	Tick(ctx context.Context) (map[string]market.Rate, error)
	// History returns the last days entries of a rate's price series.
	History(ctx context.Context, id string, days int) ([]float64, error)
}
