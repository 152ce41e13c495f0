package payout

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/igotstrelkov/clippin/internal/logging"
)

// Transferer executes a transfer to a creator's connected account
type Transferer interface {
	Transfer(ctx context.Context, creatorID uuid.UUID, amountCents int64, payoutID uuid.UUID) (string, error)
}

// BatchResult summarizes one processing run over pending payouts
type BatchResult struct {
	Processed        int   `json:"processed"`
	SuccessCount     int   `json:"success_count"`
	FailedCount      int   `json:"failed_count"`
	TotalAmountCents int64 `json:"total_amount_cents"`
}

// Scheduler periodically drains pending payouts by executing Stripe
// transfers and settling each payout as completed or failed
type Scheduler struct {
	service    *Service
	transferer Transferer
	interval   time.Duration
	logger     zerolog.Logger

	stopCh     chan struct{}
	wg         sync.WaitGroup
	running    bool
	mu         sync.Mutex
	lastRun    time.Time
	lastResult *BatchResult
}

// NewScheduler creates a new payout scheduler
func NewScheduler(service *Service, transferer Transferer, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Scheduler{
		service:    service,
		transferer: transferer,
		interval:   interval,
		logger:     logging.NewLogger("payout_scheduler"),
		stopCh:     make(chan struct{}),
	}
}

// Start begins the scheduled payout processing
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("scheduler already running")
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info().Dur("interval", s.interval).Msg("Payout scheduler started")
	return nil
}

// Stop stops the scheduled payout processing
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stopCh)
	s.wg.Wait()
	s.logger.Info().Msg("Payout scheduler stopped")
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// GetLastResult returns the result of the last processing run
func (s *Scheduler) GetLastResult() *BatchResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastResult
}

func (s *Scheduler) run(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			result, err := s.ProcessPending(ctx)
			if err != nil {
				s.logger.Error().Err(err).Msg("Payout batch failed")
				continue
			}
			s.mu.Lock()
			s.lastRun = time.Now()
			s.lastResult = result
			s.mu.Unlock()
		}
	}
}

// ProcessPending executes transfers for all pending payouts. A transfer
// failure fails that payout and restores the creator's funds; it does not
// stop the batch.
func (s *Scheduler) ProcessPending(ctx context.Context) (*BatchResult, error) {
	pending, err := s.service.ListPending(ctx, 50)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending payouts: %w", err)
	}

	result := &BatchResult{}
	for _, p := range pending {
		result.Processed++

		transferID, err := s.transferer.Transfer(ctx, p.CreatorID, p.AmountCents, p.ID)
		if err != nil {
			s.logger.Warn().Err(err).Str("payout_id", p.ID.String()).Msg("Transfer failed")
			if failErr := s.service.Fail(ctx, p.ID, err.Error()); failErr != nil {
				s.logger.Error().Err(failErr).Str("payout_id", p.ID.String()).Msg("Failed to settle payout as failed")
			}
			result.FailedCount++
			continue
		}

		if err := s.service.Complete(ctx, p.ID, transferID); err != nil {
			s.logger.Error().Err(err).Str("payout_id", p.ID.String()).Msg("Failed to settle payout as completed")
			result.FailedCount++
			continue
		}

		result.SuccessCount++
		result.TotalAmountCents += p.AmountCents
	}

	if result.Processed > 0 {
		s.logger.Info().
			Int("processed", result.Processed).
			Int("succeeded", result.SuccessCount).
			Int("failed", result.FailedCount).
			Int64("total_amount_cents", result.TotalAmountCents).
			Msg("Payout batch completed")
	}

	return result, nil
}
