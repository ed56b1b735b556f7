package wallet

import (
	"context"
	"errors"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/mrz1836/beacon/internal/chain"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// AwaitFunding blocks until the wallet holds at least amount nanotons.
//
// When the balance is below half of amount the address is shown as a QR code
// and a funding request is logged before polling starts. Once the threshold
// is met (or was never in doubt) a one-shot recheck is scheduled unless
// StopAwaitFundingCheck has been called. Only one wait may run at a time.
func (s *Service) AwaitFunding(ctx context.Context, amount *big.Int) error {
	ledger, err := s.handle()
	if err != nil {
		return err
	}
	if amount == nil || amount.Sign() < 0 {
		return beaconerr.WithDetails(beaconerr.ErrInvalidAmount, map[string]string{"amount": amountString(amount)})
	}

	if err := s.beginWait(); err != nil {
		return err
	}
	defer s.endWait()

	waitID := uuid.NewString()
	addr := ledger.Address()

	balance, err := ledger.Balance(ctx, addr)
	if err != nil {
		return err
	}
	s.logger.Debug("[%s] balance %s TON, threshold %s TON", waitID, chain.FormatTON(balance), chain.FormatTON(amount))

	if chain.BelowHalf(balance, amount) {
		s.requestFunding(addr, amount)
		if err := s.pollUntilFunded(ctx, ledger, addr, amount, waitID); err != nil {
			return err
		}
	}

	s.scheduleRecheck(amount)
	return nil
}

// StopAwaitFundingCheck disables the post-funding recheck. A pending recheck
// is cancelled; a wait that is already blocking keeps running.
func (s *Service) StopAwaitFundingCheck() {
	s.recheckDisabled.Store(true)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recheck != nil {
		s.recheck.Stop()
		s.recheck = nil
	}
}

func (s *Service) requestFunding(addr string, amount *big.Int) {
	if s.qrWriter != nil {
		if err := s.renderQR(s.qrWriter, addr); err != nil {
			s.logger.Error("rendering qr code: %v", err)
		}
	}
	s.logger.Info("fund wallet %s with %s TON", addr, chain.FormatTON(amount))
	if s.onFunding != nil {
		s.onFunding(addr, new(big.Int).Set(amount))
	}
}

func (s *Service) pollUntilFunded(ctx context.Context, ledger chain.Ledger, addr string, amount *big.Int, waitID string) error {
	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("[%s] funding wait cancelled", waitID)
			return ctx.Err()
		case <-ticker.C:
		}
		s.metrics.RecordPoll()

		balance, err := ledger.Balance(ctx, addr)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			s.logger.Error("[%s] polling balance: %v", waitID, err)
			continue
		}

		if chain.AtLeast(balance, amount) {
			s.logger.Info("wallet %s funded with %s TON", addr, chain.FormatTON(balance))
			return nil
		}
	}
}

func (s *Service) beginWait() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.waiting {
		return beaconerr.ErrFundingInProgress
	}
	s.waiting = true
	return nil
}

func (s *Service) endWait() {
	s.mu.Lock()
	s.waiting = false
	s.mu.Unlock()
}

func (s *Service) scheduleRecheck(amount *big.Int) {
	if s.recheckDisabled.Load() {
		return
	}

	threshold := new(big.Int).Set(amount)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	if s.recheck != nil {
		s.recheck.Stop()
	}
	s.recheck = time.AfterFunc(s.recheckDelay, func() {
		s.runRecheck(threshold)
	})
}

func (s *Service) runRecheck(amount *big.Int) {
	if s.recheckDisabled.Load() || s.lifetime.Err() != nil {
		return
	}

	err := s.AwaitFunding(s.lifetime, amount)
	switch {
	case err == nil:
	case errors.Is(err, beaconerr.ErrFundingInProgress):
		s.logger.Debug("recheck skipped, a funding wait is already running")
	case s.lifetime.Err() != nil:
	default:
		s.logger.Error("funding recheck: %v", err)
	}
}

func amountString(n *big.Int) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}
