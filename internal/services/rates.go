package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
	"github.com/segmentio/kafka-go"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=rates.go -destination=mock_rates.go -package=services

// ErrInvalidRates is returned when the quote provider answers without a
// positive rate for every configured currency.
var ErrInvalidRates = errors.New("invalid rates")

// RateFetcher loads current rates from the quote provider.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error) // Returns rate per currency code
	Source() string                                             // Names the provider
}

// RateStore holds the latest rate snapshot.
type RateStore interface {
	SetRates(ctx context.Context, snapshot models.RateSnapshot) error // Replaces every rate at once
	GetRate(ctx context.Context, code string) float64                 // Returns 0 when unavailable
	Snapshot(ctx context.Context) models.RateSnapshot                 // Returns a copy of the stored rates
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RateService refreshes rates from the provider into the store and
// announces every successful refresh on Kafka.
type RateService struct {
	fetcher     RateFetcher
	store       RateStore
	kafkaWriter KafkaWriter
	base        string
	codes       []string

	group singleflight.Group
	now   func() time.Time
}

// NewRateService creates a new RateService. kafkaWriter may be nil.
func NewRateService(
	fetcher RateFetcher,
	store RateStore,
	kafkaWriter KafkaWriter,
	base string,
	codes []string,
) *RateService {
	return &RateService{
		fetcher:     fetcher,
		store:       store,
		kafkaWriter: kafkaWriter,
		base:        base,
		codes:       codes,
		now:         time.Now,
	}
}

// Refresh fetches and stores a new snapshot. Concurrent callers share a
// single upstream request. On failure the stored rates are left untouched.
func (s *RateService) Refresh(ctx context.Context) (models.RateSnapshot, error) {
	v, err, _ := s.group.Do("refresh", func() (interface{}, error) {
		return s.refresh(ctx)
	})
	if err != nil {
		return models.RateSnapshot{}, err
	}
	return v.(models.RateSnapshot).Clone(), nil
}

func (s *RateService) refresh(ctx context.Context) (models.RateSnapshot, error) {
	rates, err := s.fetcher.FetchRates(ctx)
	if err != nil {
		logger.Log.Errorw("failed to fetch rates", "source", s.fetcher.Source(), "error", err)
		return models.RateSnapshot{}, fmt.Errorf("fetch rates: %w", err)
	}

	snapshot := models.RateSnapshot{
		Rates:     make(map[string]float64, len(s.codes)),
		UpdatedAt: s.now(),
	}
	for _, code := range s.codes {
		rate := rates[code]
		if !positive(rate) {
			logger.Log.Errorw("rejecting rates", "source", s.fetcher.Source(), "code", code, "rate", rate)
			return models.RateSnapshot{}, fmt.Errorf("%s=%v: %w", code, rate, ErrInvalidRates)
		}
		snapshot.Rates[code] = rate
	}

	if err := s.store.SetRates(ctx, snapshot); err != nil {
		logger.Log.Errorw("failed to store rates", "error", err)
		return models.RateSnapshot{}, fmt.Errorf("store rates: %w", err)
	}

	s.publishRates(ctx, snapshot)
	return snapshot, nil
}

// publishRates publishes a RatesUpdatedEvent to Kafka.
func (s *RateService) publishRates(ctx context.Context, snapshot models.RateSnapshot) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "updated_at", snapshot.UpdatedAt)
		return
	}

	event := models.RatesUpdatedEvent{
		EventID:   uuid.New().String(),
		Source:    s.fetcher.Source(),
		Base:      s.base,
		Rates:     snapshot.Rates,
		FetchedAt: snapshot.UpdatedAt,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal rates event", "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(s.base),
		Value: payload,
		Time:  snapshot.UpdatedAt,
	}
	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish rates event", "event_id", event.EventID, "error", err)
		return
	}
	logger.Log.Infow("published rates event", "event_id", event.EventID)
}

// Snapshot returns the stored rates.
func (s *RateService) Snapshot(ctx context.Context) models.RateSnapshot {
	return s.store.Snapshot(ctx)
}

// RefreshPeriodically refreshes every interval until ctx is done.
// Failures are logged and retried on the next tick.
func (s *RateService) RefreshPeriodically(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := s.Refresh(ctx); err != nil {
				logger.Log.Warnw("periodic refresh failed", "error", err)
			}
		case <-ctx.Done():
			logger.Log.Infow("stopping periodic refresh")
			return
		}
	}
}
