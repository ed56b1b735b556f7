package config

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents logging verbosity levels.
type LogLevel int

// Log level constants.
const (
	LogLevelOff LogLevel = iota
	LogLevelError
	LogLevelInfo
	LogLevelDebug
)

// ParseLogLevel parses a log level string.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LogLevelOff
	case "error":
		return LogLevelError
	case "info":
		return LogLevelInfo
	case "debug":
		return LogLevelDebug
	default:
		return LogLevelError
	}
}

// String returns the string representation of a log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelOff:
		return "off"
	case LogLevelError:
		return "error"
	case LogLevelInfo:
		return "info"
	case LogLevelDebug:
		return "debug"
	default:
		return "error"
	}
}

// zapLevel maps a LogLevel onto the zap level that gates it.
func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelDebug:
		return zapcore.DebugLevel
	case LogLevelInfo:
		return zapcore.InfoLevel
	case LogLevelOff, LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.ErrorLevel
	}
}

// Logger handles logging to a file.
type Logger struct {
	mu       sync.Mutex
	level    LogLevel
	atom     zap.AtomicLevel
	sugar    *zap.SugaredLogger
	file     *os.File
	filePath string
}

// NewLogger creates a new logger writing to filePath.
func NewLogger(level LogLevel, filePath string) (*Logger, error) {
	logger := &Logger{
		level:    level,
		atom:     zap.NewAtomicLevelAt(level.zapLevel()),
		sugar:    zap.NewNop().Sugar(),
		filePath: filePath,
	}

	if level == LogLevelOff || filePath == "" {
		return logger, nil
	}

	filePath = ExpandHome(filePath)

	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}

	// #nosec G304 -- log file path is from validated config
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, err
	}

	logger.file = f
	logger.filePath = filePath
	logger.sugar = zap.New(zapcore.NewCore(fileEncoder(), zapcore.AddSync(f), logger.atom)).Sugar()

	return logger, nil
}

func fileEncoder() zapcore.Encoder {
	enc := zap.NewProductionEncoderConfig()
	enc.EncodeTime = zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000")
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	enc.CallerKey = zapcore.OmitKey
	return zapcore.NewConsoleEncoder(enc)
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file == nil {
		return nil
	}
	_ = l.sugar.Sync()
	err := l.file.Close()
	l.file = nil
	l.sugar = zap.NewNop().Sugar()
	return err
}

// SetLevel changes the log level.
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.atom.SetLevel(level.zapLevel())
}

// Level returns the current log level.
func (l *Logger) Level() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Path returns the resolved log file path.
func (l *Logger) Path() string {
	return l.filePath
}

// Debug logs a debug message.
func (l *Logger) Debug(format string, args ...any) {
	if s := l.active(); s != nil {
		s.Debugf(format, args...)
	}
}

// Info logs an informational message.
func (l *Logger) Info(format string, args ...any) {
	if s := l.active(); s != nil {
		s.Infof(format, args...)
	}
}

// Error logs an error message.
func (l *Logger) Error(format string, args ...any) {
	if s := l.active(); s != nil {
		s.Errorf(format, args...)
	}
}

// Zap exposes the underlying zap logger for callers that log structured fields.
func (l *Logger) Zap() *zap.Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.sugar.Desugar()
}

func (l *Logger) active() *zap.SugaredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.level == LogLevelOff || l.file == nil {
		return nil
	}
	return l.sugar
}

// NullLogger returns a logger that discards all output.
func NullLogger() *Logger {
	return &Logger{
		level: LogLevelOff,
		atom:  zap.NewAtomicLevelAt(zapcore.ErrorLevel),
		sugar: zap.NewNop().Sugar(),
	}
}
