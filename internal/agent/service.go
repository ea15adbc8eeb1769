package agent

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"

	"stockpulse/internal/envelope"
	"stockpulse/internal/errors"
	"stockpulse/internal/history"
	"stockpulse/internal/logging"
	"stockpulse/internal/models"
	"stockpulse/internal/normalize"
)

// Recorder persists ledger changes. Implementations must tolerate being
// called after every append and notification update.
type Recorder interface {
	SaveItem(ctx context.Context, item *models.AlertHistoryItem) error
	UpdateNotified(ctx context.Context, id, recipient string) error
}

// Service drives the analysis-record lifecycle: agent call, envelope
// unwrapping, normalization, ledger append, and the notification path.
type Service struct {
	transport Transport
	ledger    *history.Ledger
	recorder  Recorder // may be nil
	logger    zerolog.Logger
	running   atomic.Bool
}

// NewService creates a Service. recorder may be nil, in which case the
// ledger is process-local only.
func NewService(transport Transport, ledger *history.Ledger, recorder Recorder, logger zerolog.Logger) *Service {
	return &Service{
		transport: transport,
		ledger:    ledger,
		recorder:  recorder,
		logger:    logger,
	}
}

// Ledger exposes the service's ledger for querying and export.
func (s *Service) Ledger() *history.Ledger {
	return s.ledger
}

// RunAnalysis submits the watch-list and criteria to the analysis agent,
// normalizes the response, and appends the result to the ledger. Append is
// not idempotent and the ledger issues no request de-duplication, so at
// most one run may be outstanding at a time; a second concurrent call
// fails with ErrAnalysisInProgress.
func (s *Service) RunAnalysis(ctx context.Context, tickers []string, c models.Criteria) (*models.AlertHistoryItem, error) {
	if len(tickers) == 0 {
		return nil, errors.ErrEmptyWatchlist
	}
	if s.transport == nil {
		return nil, errors.NewAgentError("analysis", "No API key configured. Run 'stockpulse settings init' and add your OpenAI API key.", errors.ErrConfigInvalid)
	}
	if !s.running.CompareAndSwap(false, true) {
		return nil, errors.ErrAnalysisInProgress
	}
	defer s.running.Store(false)

	instruction := BuildAnalysisInstruction(tickers, c)
	raw, err := s.transport.Analyze(ctx, instruction)
	if err != nil {
		return nil, errors.NewAgentError("analysis", err.Error(), errors.ErrTransportFailed)
	}

	candidate := envelope.ParseBytes(raw)
	result, err := normalize.Normalize(candidate)
	if err != nil {
		// The agent answered but in a shape no extraction step could use.
		return nil, err
	}

	item := s.ledger.Append(*result)
	logging.LogAnalysis(s.logger, item.ID, len(result.Stocks), result.AnalysisSummary)

	if s.recorder != nil {
		if err := s.recorder.SaveItem(ctx, item); err != nil {
			s.logger.Warn().Err(err).Str("history_id", item.ID).Msg("Failed to persist history item")
		}
	}
	return item, nil
}

// SendAlert submits one stock analysis to the notification agent for the
// recipient. On logical success the owning unnotified ledger entry is
// marked notified; a notification failure leaves the ledger untouched.
// The returned item is nil when no unnotified entry contained the ticker.
func (s *Service) SendAlert(ctx context.Context, stock models.StockAnalysis, recipient, format string) (*models.AlertHistoryItem, error) {
	if strings.TrimSpace(recipient) == "" {
		return nil, errors.ErrRecipientRequired
	}
	if s.transport == nil {
		return nil, errors.NewAgentError("notification", "No API key configured. Run 'stockpulse settings init' and add your OpenAI API key.", errors.ErrConfigInvalid)
	}

	instruction := BuildAlertInstruction(stock, recipient, format)
	res, err := s.transport.Notify(ctx, instruction)
	if err != nil {
		return nil, errors.NewAgentError("notification", err.Error(), errors.ErrTransportFailed)
	}
	if !res.Success {
		return nil, errors.NewNotificationError(stock.Ticker, recipient, res.Error)
	}

	item := s.ledger.MarkNotified(stock.Ticker, recipient)
	if item == nil {
		return nil, nil
	}
	logging.LogAlertSent(s.logger, stock.Ticker, recipient, item.ID)

	if s.recorder != nil {
		if err := s.recorder.UpdateNotified(ctx, item.ID, recipient); err != nil {
			s.logger.Warn().Err(err).Str("history_id", item.ID).Msg("Failed to persist notification update")
		}
	}
	return item, nil
}
