package market

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// MaxHistoryEntries caps the historical price series kept per rate.
const MaxHistoryEntries = 30

type Trend string

const (
	TrendRising  Trend = "rising"
	TrendFalling Trend = "falling"
	TrendStable  Trend = "stable"
)

func (t Trend) String() string {
	return string(t)
}

func (t Trend) IsValid() bool {
	switch t {
	case TrendRising, TrendFalling, TrendStable:
		return true
	default:
		return false
	}
}

func NewTrend(s string) (Trend, error) {
	t := Trend(strings.ToLower(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", fmt.Errorf("invalid trend: %s", s)
	}
	return t, nil
}

var (
	ErrNegativePrice = errors.New("price cannot be negative")
	ErrEmptyName     = errors.New("crop name cannot be empty")
	ErrEmptyUnit     = errors.New("unit cannot be empty")
	ErrEmptyLocation = errors.New("market location cannot be empty")
	ErrInvalidTrend  = errors.New("trend must be rising, falling or stable")
)

// Rate is one tradable crop's current market snapshot.
type Rate struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Price          float64   `json:"price"`
	Unit           string    `json:"unit"`
	MarketLocation string    `json:"market_location"`
	Trend          Trend     `json:"trend"`
	LastUpdated    time.Time `json:"last_updated"`
	History        []float64 `json:"history,omitempty"`
}

// NewRate validates and builds a rate snapshot. Construction fails on
// negative price, empty required fields, or an unrecognized trend.
func NewRate(id, name string, price float64, unit, location string, trend Trend, updated time.Time) (*Rate, error) {
	if price < 0 {
		return nil, ErrNegativePrice
	}
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyName
	}
	if strings.TrimSpace(unit) == "" {
		return nil, ErrEmptyUnit
	}
	if strings.TrimSpace(location) == "" {
		return nil, ErrEmptyLocation
	}
	if !trend.IsValid() {
		return nil, ErrInvalidTrend
	}
	return &Rate{
		ID:             id,
		Name:           name,
		Price:          price,
		Unit:           unit,
		MarketLocation: location,
		Trend:          trend,
		LastUpdated:    updated,
	}, nil
}

// Clone returns a deep copy so callers never observe repository mutation.
func (r Rate) Clone() Rate {
	out := r
	if r.History != nil {
		out.History = make([]float64, len(r.History))
		copy(out.History, r.History)
	}
	return out
}

// AppendHistory records a price point, keeping only the most recent
// MaxHistoryEntries values.
func (r *Rate) AppendHistory(price float64) {
	r.History = append(r.History, price)
	if len(r.History) > MaxHistoryEntries {
		r.History = r.History[len(r.History)-MaxHistoryEntries:]
	}
}
