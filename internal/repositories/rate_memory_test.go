package repositories

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateMemoryRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewRateMemoryRepository()

	t.Run("empty_before_first_set", func(t *testing.T) {
		assert.Equal(t, 0.0, repo.GetRate(ctx, models.USD))
		assert.False(t, repo.Snapshot(ctx).Available())
	})

	t.Run("set_and_get", func(t *testing.T) {
		at := time.Date(2026, 1, 2, 15, 4, 0, 0, time.UTC)
		err := repo.SetRates(ctx, models.RateSnapshot{
			Rates:     map[string]float64{models.USD: 5, models.EUR: 5.5, models.BTC: 300000},
			UpdatedAt: at,
		})
		require.NoError(t, err)

		assert.Equal(t, 5.0, repo.GetRate(ctx, models.USD))
		assert.Equal(t, 300000.0, repo.GetRate(ctx, models.BTC))
		assert.Equal(t, 0.0, repo.GetRate(ctx, "GBP"))

		snap := repo.Snapshot(ctx)
		assert.True(t, snap.Available())
		assert.Equal(t, at, snap.UpdatedAt)
	})

	t.Run("replaces_wholesale", func(t *testing.T) {
		require.NoError(t, repo.SetRates(ctx, models.RateSnapshot{
			Rates: map[string]float64{models.USD: 6},
		}))
		assert.Equal(t, 6.0, repo.GetRate(ctx, models.USD))
		assert.Equal(t, 0.0, repo.GetRate(ctx, models.EUR))
	})

	t.Run("snapshot_is_a_copy", func(t *testing.T) {
		snap := repo.Snapshot(ctx)
		snap.Rates[models.USD] = 100
		assert.Equal(t, 6.0, repo.GetRate(ctx, models.USD))
	})

	t.Run("caller_map_is_not_retained", func(t *testing.T) {
		rates := map[string]float64{models.USD: 7}
		require.NoError(t, repo.SetRates(ctx, models.RateSnapshot{Rates: rates}))
		rates[models.USD] = 8
		assert.Equal(t, 7.0, repo.GetRate(ctx, models.USD))
	})
}

func TestRateMemoryRepository_ConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	repo := NewRateMemoryRepository()

	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		wg.Add(2)
		go func(v float64) {
			defer wg.Done()
			_ = repo.SetRates(ctx, models.RateSnapshot{
				Rates: map[string]float64{models.USD: v, models.EUR: v, models.BTC: v},
			})
		}(float64(i))
		go func() {
			defer wg.Done()
			snap := repo.Snapshot(ctx)
			// every snapshot is one whole write
			assert.Equal(t, snap.Rate(models.USD), snap.Rate(models.BTC))
		}()
	}
	wg.Wait()
}
