package services

import (
	"context"

	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

//go:generate mockgen -source=convert.go -destination=mock_convert.go -package=services

// RateReader returns the latest stored rates.
type RateReader interface {
	Snapshot(ctx context.Context) models.RateSnapshot // Returns a copy of the stored rates
}

// ConvertService converts amounts against the stored rates.
type ConvertService struct {
	engine    *ConversionEngine
	rates     RateReader
	maxAmount float64
}

// NewConvertService creates a new ConvertService. A maxAmount of zero
// disables the upper bound.
func NewConvertService(engine *ConversionEngine, rates RateReader, maxAmount float64) *ConvertService {
	return &ConvertService{
		engine:    engine,
		rates:     rates,
		maxAmount: maxAmount,
	}
}

// Convert validates req and converts it with the current rates.
func (s *ConvertService) Convert(ctx context.Context, req models.ConvertRequest) (models.ConvertResponse, error) {
	if err := ValidateAmount(req.Amount, s.maxAmount); err != nil {
		return models.ConvertResponse{}, err
	}

	snapshot := s.rates.Snapshot(ctx)
	conv, err := s.engine.Convert(models.ConversionRequest{
		Amount:    req.Amount,
		Direction: req.Direction,
		Currency:  req.Currency,
	}, snapshot.Rates)
	if err != nil {
		logger.Log.Warnw("conversion rejected", "direction", req.Direction, "currency", req.Currency, "error", err)
		return models.ConvertResponse{}, err
	}

	resp := models.ConvertResponse{
		Direction:  req.Direction,
		BaseAmount: conv.BaseAmount,
		Amounts:    conv.Amounts,
		Formatted:  make(map[string]string, len(conv.Amounts)+1),
	}
	resp.Formatted[s.engine.Base()] = s.engine.Format(conv.BaseAmount, s.engine.Base())
	for code, amount := range conv.Amounts {
		resp.Formatted[code] = s.engine.Format(amount, code)
	}
	return resp, nil
}
