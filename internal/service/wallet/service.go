package wallet

import (
	"context"
	"io"
	"math/big"
	"sync"
	"sync/atomic"
	"time"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/config"
	"github.com/mrz1836/beacon/internal/keypair"
	"github.com/mrz1836/beacon/internal/metrics"
	"github.com/mrz1836/beacon/internal/output"
	beaconerr "github.com/mrz1836/beacon/pkg/errors"
)

// ErrClosed is returned by Init after Close.
var ErrClosed = beaconerr.New("SERVICE_CLOSED", "wallet service closed")

// Service is the wallet facade. Init connects once; every other operation
// fails with ErrNotInitialized until it has.
type Service struct {
	dial         chain.Dialer
	retry        chain.RetryConfig
	nodeURL      string
	keyPairPath  string
	pollInterval time.Duration
	recheckDelay time.Duration
	qrWriter     io.Writer
	renderQR     QRRenderer
	onFunding    FundingNotifier
	metrics      *metrics.Metrics
	logger       LogWriter

	initMu sync.Mutex

	mu      sync.Mutex
	ledger  chain.Ledger
	keyPair *keypair.KeyPair
	waiting bool
	recheck *time.Timer
	closed  bool

	recheckDisabled atomic.Bool

	lifetime context.Context //nolint:containedctx // Rechecks outlive the caller's context
	cancel   context.CancelFunc
}

// Config contains dependencies for creating a wallet service.
type Config struct {
	// Dialer opens the ledger connection. Required.
	Dialer chain.Dialer
	// Retry controls dial retries. Zero value means chain.DefaultRetryConfig.
	Retry chain.RetryConfig
	// NodeURL is used when Init receives an empty node URL.
	NodeURL string
	// KeyPairPath is where the key pair is loaded from or persisted to.
	KeyPairPath string
	// PollInterval defaults to config.DefaultPollInterval.
	PollInterval time.Duration
	// RecheckDelay defaults to config.DefaultRecheckDelay.
	RecheckDelay time.Duration
	// QRWriter receives the funding QR code. Nil disables it.
	QRWriter io.Writer
	// QRRenderer defaults to output.RenderQR, which only draws on terminals.
	QRRenderer QRRenderer
	// OnFundingRequest is called after the funding request is logged.
	OnFundingRequest FundingNotifier
	// Metrics defaults to metrics.Global.
	Metrics *metrics.Metrics
	Logger  LogWriter
}

// NewService creates a new wallet service instance.
func NewService(cfg *Config) *Service {
	s := &Service{
		dial:         cfg.Dialer,
		retry:        cfg.Retry,
		nodeURL:      cfg.NodeURL,
		keyPairPath:  cfg.KeyPairPath,
		pollInterval: cfg.PollInterval,
		recheckDelay: cfg.RecheckDelay,
		qrWriter:     cfg.QRWriter,
		renderQR:     cfg.QRRenderer,
		onFunding:    cfg.OnFundingRequest,
		metrics:      cfg.Metrics,
		logger:       cfg.Logger,
	}

	if s.retry.MaxAttempts == 0 {
		s.retry = chain.DefaultRetryConfig()
	}
	if s.pollInterval <= 0 {
		s.pollInterval = config.DefaultPollInterval
	}
	if s.recheckDelay <= 0 {
		s.recheckDelay = config.DefaultRecheckDelay
	}
	if s.renderQR == nil {
		s.renderQR = func(w io.Writer, data string) error {
			return output.RenderQR(w, data, output.DefaultQRConfig())
		}
	}
	if s.metrics == nil {
		s.metrics = metrics.Global
	}
	if s.logger == nil {
		s.logger = nopLogger{}
	}

	s.lifetime, s.cancel = context.WithCancel(context.Background())
	return s
}

// Init resolves the key pair (kp, then the key pair file, then a new key
// pair written to the file) and dials the ledger at nodeURL. Later calls
// are no-ops.
func (s *Service) Init(ctx context.Context, kp *keypair.KeyPair, nodeURL string) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.Lock()
	ready, closed := s.ledger != nil, s.closed
	s.mu.Unlock()

	if closed {
		return ErrClosed
	}
	if ready {
		return nil
	}

	resolved, created, err := keypair.Resolve(kp, s.keyPairPath)
	if err != nil {
		return err
	}
	if created {
		s.logger.Info("generated new key pair at %s", s.keyPairPath)
	}

	if nodeURL == "" {
		nodeURL = s.nodeURL
	}
	s.logger.Debug("connecting to ledger at %q", nodeURL)

	ledger, err := chain.DialWithRetry(ctx, s.retry, s.dial, nodeURL, resolved)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.ledger = ledger
	s.keyPair = resolved
	s.mu.Unlock()

	s.logger.Debug("connected, wallet %s", ledger.Address())
	return nil
}

// Address returns the wallet address.
func (s *Service) Address() (string, error) {
	ledger, err := s.handle()
	if err != nil {
		return "", err
	}
	return ledger.Address(), nil
}

// KeyPair returns the key pair the service is bound to.
func (s *Service) KeyPair() (*keypair.KeyPair, error) {
	if _, err := s.handle(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyPair, nil
}

// Balance returns the wallet balance in nanotons.
func (s *Service) Balance(ctx context.Context) (*big.Int, error) {
	ledger, err := s.handle()
	if err != nil {
		return nil, err
	}
	return ledger.Balance(ctx, ledger.Address())
}

// Close stops any pending recheck, cancels background work and closes the
// ledger connection.
func (s *Service) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	if s.recheck != nil {
		s.recheck.Stop()
		s.recheck = nil
	}
	ledger := s.ledger
	s.mu.Unlock()

	s.cancel()

	if ledger == nil {
		return nil
	}
	return ledger.Close()
}

func (s *Service) handle() (chain.Ledger, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ledger == nil || s.closed {
		return nil, beaconerr.ErrNotInitialized
	}
	return s.ledger, nil
}
