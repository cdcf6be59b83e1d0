// Package log provides structured logging for adengage on top of zerolog.
//
// Components obtain a named Logger from a LoggerProvider and log with
// key/value pairs using the key constants defined in keys.go:
//
//	logger := log.GetLoggerWithName("aggregate").With(log.ComponentKey, "aggregate")
//	logger.Info("Aggregation completed", log.RowsKey, n, log.GroupsKey, len(means))
//
// Programs call SetupLogger once at startup. Output goes to stderr so that
// diagnostics printed to stdout stay machine-readable.
package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Level is a logging level.
type Level = zerolog.Level

// Logger is the key/value logging interface used by every component.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	// Error logs at error level. When the first argument is an error it is
	// attached as the error field and the rest are treated as key/value pairs.
	Error(msg string, keysAndValues ...interface{})
	With(keysAndValues ...interface{}) Logger
}

// LoggerProvider hands out loggers sharing one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}

// ParseLevel parses a level name, case-insensitively. An empty name is info.
func ParseLevel(level string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel, nil
	case "debug":
		return zerolog.DebugLevel, nil
	case "info", "":
		return zerolog.InfoLevel, nil
	case "warn", "warning":
		return zerolog.WarnLevel, nil
	case "error":
		return zerolog.ErrorLevel, nil
	case "fatal":
		return zerolog.FatalLevel, nil
	case "disabled", "off":
		return zerolog.Disabled, nil
	}
	return zerolog.NoLevel, fmt.Errorf("unknown log level %q", level)
}

// ToLogLevel is ParseLevel with unknown names mapped to info.
func ToLogLevel(level string) Level {
	lvl, err := ParseLevel(level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

type zerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider returns a provider writing console output to stderr.
func NewZerologProvider(level Level) LoggerProvider {
	return NewZerologProviderWithWriter(level, zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05",
	})
}

// NewZerologProviderWithWriter returns a provider writing to w. Tests pass a
// bytes.Buffer to capture JSON output.
func NewZerologProviderWithWriter(level Level, w io.Writer) LoggerProvider {
	return &zerologProvider{
		base: zerolog.New(w).Level(level).With().Timestamp().Logger(),
	}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{l: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{l: p.base.With().Str(NameKey, name).Logger()}
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level)
}

type zerologLogger struct {
	l zerolog.Logger
}

func (z *zerologLogger) Debug(msg string, kv ...interface{}) {
	z.l.Debug().Fields(normalize(kv)).Msg(msg)
}

func (z *zerologLogger) Info(msg string, kv ...interface{}) {
	z.l.Info().Fields(normalize(kv)).Msg(msg)
}

func (z *zerologLogger) Warn(msg string, kv ...interface{}) {
	z.l.Warn().Fields(normalize(kv)).Msg(msg)
}

func (z *zerologLogger) Error(msg string, kv ...interface{}) {
	ev := z.l.Error()
	if len(kv) > 0 {
		if err, ok := kv[0].(error); ok {
			ev = ev.Err(err)
			kv = kv[1:]
		}
	}
	ev.Fields(normalize(kv)).Msg(msg)
}

func (z *zerologLogger) With(kv ...interface{}) Logger {
	return &zerologLogger{l: z.l.With().Fields(normalize(kv)).Logger()}
}

// normalize drops a trailing key without a value so zerolog never sees an odd slice.
func normalize(kv []interface{}) []interface{} {
	if len(kv)%2 == 1 {
		return kv[:len(kv)-1]
	}
	return kv
}

var (
	globalMu       sync.RWMutex
	globalProvider = NewZerologProvider(zerolog.InfoLevel)
	globalLogger   = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
			With().Timestamp().Logger()
)

// SetupLogger configures the global level for both the provider and the raw
// zerolog logger returned by GetLogger.
func SetupLogger(level string) {
	lvl := ToLogLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	globalMu.Lock()
	defer globalMu.Unlock()
	globalProvider.SetLevel(lvl)
	globalLogger = globalLogger.Level(lvl)
}

// SetProvider replaces the global provider and returns the previous one.
func SetProvider(p LoggerProvider) LoggerProvider {
	globalMu.Lock()
	defer globalMu.Unlock()
	prev := globalProvider
	globalProvider = p
	return prev
}

// Provider returns the global provider.
func Provider() LoggerProvider {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return globalProvider
}

// GetLogger returns the global zerolog logger for event-style logging:
//
//	log.GetLogger().Warn().Err(err).Str("phase", "training").Msg("degenerate split")
func GetLogger() *zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	l := globalLogger
	return &l
}

// GetLoggerWithName returns a named Logger from the global provider.
func GetLoggerWithName(name string) Logger {
	return Provider().GetLoggerWithName(name)
}

// LogError logs err at error level through the global zerolog logger.
func LogError(err error, msg string) {
	if err == nil {
		return
	}
	GetLogger().Error().Err(err).Msg(msg)
}
