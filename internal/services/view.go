package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sbilibin2017/gw-currency-converter/internal/debounce"
	"github.com/sbilibin2017/gw-currency-converter/internal/logger"
	"github.com/sbilibin2017/gw-currency-converter/internal/models"
)

//go:generate mockgen -source=view.go -destination=mock_view.go -package=services

// Messages shown in the widget error banner.
const (
	MsgNegativeAmount  = "Por favor, digite um valor positivo."
	MsgAmountTooLarge  = "Valor muito grande. Digite um valor menor."
	MsgInvalidAmount   = "Por favor, digite um valor válido."
	MsgRatesLoadFailed = "Não foi possível carregar as cotações. Tente novamente mais tarde."
	MsgRatesMissing    = "Cotações indisponíveis. Tente novamente mais tarde."
)

var (
	// ErrUnknownField is returned for an edit of a field the widget does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrViewStopped is returned once the view service has been stopped.
	ErrViewStopped = errors.New("view stopped")
)

// ViewRates refreshes and reads the rates shown by the widget.
type ViewRates interface {
	Refresh(ctx context.Context) (models.RateSnapshot, error) // Fetches and stores new rates
	Snapshot(ctx context.Context) models.RateSnapshot         // Returns the stored rates
}

// ViewService keeps the state of the converter widget and applies user
// edits to it. Every state change happens under a single mutex.
type ViewService struct {
	rates     ViewRates
	engine    *ConversionEngine
	coalescer *debounce.Coalescer
	maxAmount float64
	loc       *time.Location

	mu          sync.Mutex
	view        models.View
	lastField   string
	edits       uint64
	ratesFailed bool
}

// NewViewService creates a new ViewService. Edits passed to Input are
// applied once the coalescer window elapses. A nil loc means UTC.
// Conversion stays disabled after a failed Refresh until one succeeds.
func NewViewService(
	rates ViewRates,
	engine *ConversionEngine,
	coalescer *debounce.Coalescer,
	maxAmount float64,
	loc *time.Location,
) *ViewService {
	if loc == nil {
		loc = time.UTC
	}

	fields := map[string]string{engine.Base(): ""}
	labels := make(map[string]string)
	for _, code := range engine.Foreign() {
		fields[code] = ""
		labels[code] = ""
	}

	return &ViewService{
		rates:     rates,
		engine:    engine,
		coalescer: coalescer,
		maxAmount: maxAmount,
		loc:       loc,
		view: models.View{
			Fields:     fields,
			RateLabels: labels,
		},
	}
}

// View returns a copy of the current widget state with the stored rates.
func (s *ViewService) View(ctx context.Context) models.View {
	snapshot := s.rates.Snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	view := s.renderLocked(snapshot)
	view.Pending = s.coalescer.Pending()
	return view
}

// Refresh reloads the rates. On failure the error banner is shown and the
// previously stored rates stay in place.
func (s *ViewService) Refresh(ctx context.Context) (models.View, error) {
	s.mu.Lock()
	s.view.Loading = true
	s.view.Error = ""
	s.mu.Unlock()

	snapshot, err := s.rates.Refresh(ctx)
	if err != nil {
		logger.Log.Errorw("failed to refresh widget rates", "error", err)
		snapshot = s.rates.Snapshot(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		s.view.Loading = false
		s.ratesFailed = true
		s.view.Error = MsgRatesLoadFailed
		if s.lastField != "" {
			s.clearResultsLocked(s.lastField)
		}
		return s.renderLocked(snapshot), err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.view.Loading = false
	s.ratesFailed = false
	if s.lastField != "" {
		s.applyLocked(s.lastField, s.view.Fields[s.lastField], snapshot)
	}
	return s.renderLocked(snapshot), nil
}

// Convert applies raw as the base currency field.
func (s *ViewService) Convert(ctx context.Context, raw string) models.View {
	snapshot := s.rates.Snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(s.engine.Base(), raw, snapshot)
	return s.renderLocked(snapshot)
}

// ConvertReverse applies raw as the field of foreign currency code.
func (s *ViewService) ConvertReverse(ctx context.Context, code, raw string) (models.View, error) {
	if !s.engine.IsForeign(code) {
		return models.View{}, fmt.Errorf("%q: %w", code, ErrUnknownField)
	}
	snapshot := s.rates.Snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.applyLocked(code, raw, snapshot)
	return s.renderLocked(snapshot), nil
}

// Input records raw in field and schedules its conversion. A later Input or
// Submit before the window elapses supersedes it.
func (s *ViewService) Input(field, raw string) error {
	if err := s.checkField(field); err != nil {
		return err
	}

	// Triggering under s.mu keeps the edit sequence and the coalescer in the same order.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits++
	seq := s.edits
	s.view.Fields[field] = raw

	scheduled := s.coalescer.Trigger(func() {
		s.applyScheduled(context.Background(), seq, field, raw)
	})
	if !scheduled {
		return ErrViewStopped
	}
	return nil
}

// Submit converts raw in field immediately, dropping any scheduled edit.
func (s *ViewService) Submit(ctx context.Context, field, raw string) (models.View, error) {
	if err := s.checkField(field); err != nil {
		return models.View{}, err
	}

	var view models.View
	flushed := s.coalescer.Flush(func() {
		view = s.apply(ctx, field, raw)
	})
	if !flushed {
		return models.View{}, ErrViewStopped
	}
	return view, nil
}

// Stop drops any scheduled edit and rejects later ones.
func (s *ViewService) Stop() {
	s.coalescer.Stop()
}

func (s *ViewService) checkField(field string) error {
	if field == s.engine.Base() || s.engine.IsForeign(field) {
		return nil
	}
	return fmt.Errorf("%q: %w", field, ErrUnknownField)
}

func (s *ViewService) apply(ctx context.Context, field, raw string) models.View {
	snapshot := s.rates.Snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.edits++
	s.applyLocked(field, raw, snapshot)
	return s.renderLocked(snapshot)
}

// applyScheduled applies an Input edit unless a later Input or Submit
// has been recorded since it was scheduled.
func (s *ViewService) applyScheduled(ctx context.Context, seq uint64, field, raw string) {
	snapshot := s.rates.Snapshot(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.edits {
		return
	}
	s.applyLocked(field, raw, snapshot)
}

func (s *ViewService) applyLocked(field, raw string, snapshot models.RateSnapshot) {
	s.view.Fields[field] = raw
	s.lastField = field
	if s.ratesFailed {
		s.showErrorLocked(MsgRatesLoadFailed)
		s.clearResultsLocked(field)
		return
	}
	if field == s.engine.Base() {
		s.convertLocked(raw, snapshot)
		return
	}
	s.convertReverseLocked(field, raw, snapshot)
}

func (s *ViewService) convertLocked(raw string, snapshot models.RateSnapshot) {
	amount, err := s.engine.ParseAmount(raw)
	switch {
	case errors.Is(err, ErrEmptyAmount):
		amount = 0
	case err != nil:
		s.showErrorLocked(MsgInvalidAmount)
		s.clearResultsLocked(s.engine.Base())
		return
	}

	if msg := s.validationMessage(amount); msg != "" {
		s.showErrorLocked(msg)
		s.clearResultsLocked(s.engine.Base())
		return
	}

	s.view.Error = ""
	if amount == 0 {
		s.clearResultsLocked(s.engine.Base())
		return
	}

	conv, err := s.engine.Convert(models.ConversionRequest{Amount: amount, Direction: models.ToForeign}, snapshot.Rates)
	if err != nil {
		logger.Log.Warnw("widget conversion failed", "amount", amount, "error", err)
		s.showErrorLocked(MsgRatesMissing)
		s.clearResultsLocked(s.engine.Base())
		return
	}

	for code, value := range conv.Amounts {
		s.view.Fields[code] = s.engine.FormatAmount(value, code)
	}
	s.hideBaseResultLocked()
}

func (s *ViewService) convertReverseLocked(code, raw string, snapshot models.RateSnapshot) {
	amount, err := s.engine.ParseAmount(raw)
	switch {
	case errors.Is(err, ErrEmptyAmount):
		amount = 0
	case err != nil:
		s.showErrorLocked(MsgInvalidAmount)
		s.clearResultsLocked(code)
		return
	}

	if msg := s.validationMessage(amount); msg != "" {
		s.showErrorLocked(msg)
		s.clearResultsLocked(code)
		return
	}

	s.view.Error = ""
	if amount == 0 {
		s.clearResultsLocked(code)
		return
	}

	conv, err := s.engine.Convert(models.ConversionRequest{Amount: amount, Direction: models.ToBase, Currency: code}, snapshot.Rates)
	if err != nil {
		logger.Log.Warnw("widget reverse conversion failed", "currency", code, "amount", amount, "error", err)
		s.showErrorLocked(MsgRatesMissing)
		s.clearResultsLocked(code)
		return
	}

	base := s.engine.Base()
	s.view.Fields[base] = s.engine.FormatAmount(conv.BaseAmount, base)
	s.view.BaseResult = s.engine.Format(conv.BaseAmount, base)
	s.view.BaseResultVisible = true
	for other, value := range conv.Amounts {
		if other == code {
			continue
		}
		s.view.Fields[other] = s.engine.FormatAmount(value, other)
	}
}

func (s *ViewService) validationMessage(amount float64) string {
	switch err := ValidateAmount(amount, s.maxAmount); {
	case err == nil:
		return ""
	case errors.Is(err, ErrNegativeAmount):
		return MsgNegativeAmount
	case errors.Is(err, ErrAmountTooLarge):
		return MsgAmountTooLarge
	default:
		return MsgInvalidAmount
	}
}

// renderLocked copies the widget state and fills the rate labels and the
// summary line from snapshot.
func (s *ViewService) renderLocked(snapshot models.RateSnapshot) models.View {
	view := s.view.Clone()
	base := s.engine.Base()

	parts := make([]string, 0, len(s.engine.Foreign())+1)
	for _, code := range s.engine.Foreign() {
		rate := snapshot.Rate(code)
		if !positive(rate) {
			continue
		}
		formatted := s.engine.Format(rate, base)
		view.RateLabels[code] = "Cotação: " + formatted
		parts = append(parts, s.engine.Spec(code).Name+": "+formatted)
	}

	if !snapshot.UpdatedAt.IsZero() {
		updated := snapshot.UpdatedAt
		view.UpdatedAt = &updated
		parts = append([]string{"Última atualização: " + updated.In(s.loc).Format("15:04")}, parts...)
		view.Summary = strings.Join(parts, " | ")
	}
	return view
}

func (s *ViewService) showErrorLocked(msg string) {
	s.view.Error = msg
}

// clearResultsLocked blanks every field but the edited one and hides the
// base result.
func (s *ViewService) clearResultsLocked(edited string) {
	for field := range s.view.Fields {
		if field != edited {
			s.view.Fields[field] = ""
		}
	}
	s.hideBaseResultLocked()
}

func (s *ViewService) hideBaseResultLocked() {
	s.view.BaseResult = ""
	s.view.BaseResultVisible = false
}
