package repositories

import (
	"context"
	"sync/atomic"

	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

// RateMemoryRepository keeps the latest rate snapshot in process memory.
// Snapshots are swapped whole, so readers never see a partial update.
type RateMemoryRepository struct {
	current atomic.Pointer[models.RateSnapshot]
}

// NewRateMemoryRepository creates an empty repository.
func NewRateMemoryRepository() *RateMemoryRepository {
	return &RateMemoryRepository{}
}

// SetRates replaces every stored rate with snapshot.
func (r *RateMemoryRepository) SetRates(_ context.Context, snapshot models.RateSnapshot) error {
	s := snapshot.Clone()
	r.current.Store(&s)
	return nil
}

// GetRate returns the stored rate for code, or 0 when unavailable.
func (r *RateMemoryRepository) GetRate(_ context.Context, code string) float64 {
	s := r.current.Load()
	if s == nil {
		return 0
	}
	return s.Rate(code)
}

// Snapshot returns a copy of the stored snapshot; empty before the first SetRates.
func (r *RateMemoryRepository) Snapshot(_ context.Context) models.RateSnapshot {
	s := r.current.Load()
	if s == nil {
		return models.RateSnapshot{}
	}
	return s.Clone()
}
