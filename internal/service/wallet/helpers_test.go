package wallet

import (
	"context"
	"fmt"
	"io"
	"math/big"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mrz1836/beacon/internal/chain"
	"github.com/mrz1836/beacon/internal/keypair"
)

const testAddress = "UQtest-wallet-address"

type balanceStep struct {
	value int64
	err   error
}

// fakeLedger replays balance steps; the last step repeats forever.
type fakeLedger struct {
	mu           sync.Mutex
	steps        []balanceStep
	balanceCalls int
	records      map[string]*chain.NameRecord
	nameErrs     map[string]error
	nameCalls    int
	closed       bool
}

func newFakeLedger(steps ...balanceStep) *fakeLedger {
	return &fakeLedger{
		steps:    steps,
		records:  map[string]*chain.NameRecord{},
		nameErrs: map[string]error{},
	}
}

func (f *fakeLedger) Address() string { return testAddress }

func (f *fakeLedger) Balance(_ context.Context, _ string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := f.balanceCalls
	if idx >= len(f.steps) {
		idx = len(f.steps) - 1
	}
	f.balanceCalls++

	if idx < 0 {
		return new(big.Int), nil
	}
	step := f.steps[idx]
	if step.err != nil {
		return nil, step.err
	}
	return big.NewInt(step.value), nil
}

func (f *fakeLedger) ResolveName(_ context.Context, name string) (*chain.NameRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nameCalls++

	if err, ok := f.nameErrs[name]; ok {
		return nil, err
	}
	if rec, ok := f.records[name]; ok {
		return rec, nil
	}
	return nil, chain.ErrNameNotFound
}

func (f *fakeLedger) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeLedger) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.balanceCalls
}

type logLine struct {
	level string
	msg   string
}

type recordingLogger struct {
	mu    sync.Mutex
	lines []logLine
}

func (l *recordingLogger) add(level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, logLine{level: level, msg: fmt.Sprintf(format, args...)})
}

func (l *recordingLogger) Debug(format string, args ...interface{}) { l.add("debug", format, args...) }
func (l *recordingLogger) Info(format string, args ...interface{})  { l.add("info", format, args...) }
func (l *recordingLogger) Error(format string, args ...interface{}) { l.add("error", format, args...) }

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, line := range l.lines {
		if line.level == level {
			n++
		}
	}
	return n
}

func (l *recordingLogger) contains(level, substr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, line := range l.lines {
		if line.level == level && strings.Contains(line.msg, substr) {
			return true
		}
	}
	return false
}

type qrRecorder struct {
	mu   sync.Mutex
	data []string
}

func (q *qrRecorder) render(_ io.Writer, data string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.data = append(q.data, data)
	return nil
}

func (q *qrRecorder) rendered() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]string(nil), q.data...)
}

type testEnv struct {
	svc     *Service
	ledger  *fakeLedger
	logger  *recordingLogger
	qr      *qrRecorder
	kpPath  string
	dials   *int
	dialsMu *sync.Mutex
}

func (e *testEnv) dialCount() int {
	e.dialsMu.Lock()
	defer e.dialsMu.Unlock()
	return *e.dials
}

func newTestEnv(t *testing.T, ledger *fakeLedger, mutate func(*Config)) *testEnv {
	t.Helper()

	env := &testEnv{
		ledger:  ledger,
		logger:  &recordingLogger{},
		qr:      &qrRecorder{},
		kpPath:  filepath.Join(t.TempDir(), ".data", "keypair.json"),
		dials:   new(int),
		dialsMu: &sync.Mutex{},
	}

	cfg := &Config{
		Dialer: func(_ context.Context, _ string, _ *keypair.KeyPair) (chain.Ledger, error) {
			env.dialsMu.Lock()
			*env.dials++
			env.dialsMu.Unlock()
			return ledger, nil
		},
		Retry:        chain.RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond},
		KeyPairPath:  env.kpPath,
		PollInterval: time.Millisecond,
		RecheckDelay: time.Hour,
		QRWriter:     io.Discard,
		QRRenderer:   env.qr.render,
		Logger:       env.logger,
	}
	if mutate != nil {
		mutate(cfg)
	}

	env.svc = NewService(cfg)
	t.Cleanup(func() { _ = env.svc.Close() })
	return env
}

func initEnv(t *testing.T, env *testEnv) {
	t.Helper()
	require.NoError(t, env.svc.Init(context.Background(), nil, ""))
}

func (s *Service) pendingRecheck() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.recheck != nil
}

func (s *Service) isWaiting() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.waiting
}
