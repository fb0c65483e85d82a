package facades

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// RateFetcher is implemented by every rate source facade.
type RateFetcher interface {
	FetchRates(ctx context.Context) (map[string]float64, error)
	Source() string
}

// loggingRateFetcher decorates a RateFetcher with logging
type loggingRateFetcher struct {
	next RateFetcher
	log  *zap.SugaredLogger
}

// NewLoggingRateFetcher returns a RateFetcher that logs every fetch.
func NewLoggingRateFetcher(log *zap.SugaredLogger, next RateFetcher) RateFetcher {
	return &loggingRateFetcher{
		next: next,
		log:  log,
	}
}

func (f *loggingRateFetcher) Source() string {
	return f.next.Source()
}

func (f *loggingRateFetcher) FetchRates(ctx context.Context) (rates map[string]float64, err error) {
	defer func(begin time.Time) {
		if err != nil {
			f.log.Errorw("fetch rates",
				"source", f.next.Source(),
				"took", time.Since(begin),
				"error", err,
			)
			return
		}
		f.log.Infow("fetch rates",
			"source", f.next.Source(),
			"rates", rates,
			"took", time.Since(begin),
		)
	}(time.Now())
	return f.next.FetchRates(ctx)
}
