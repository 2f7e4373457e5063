package logging

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"fyrxlab.net/solvermotd/internal/application/ports"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configures a ZapGateway.
type Options struct {
	Level  ports.LogLevel
	Format string

	// Output overrides the default stderr sink.
	Output zapcore.WriteSyncer
}

// ZapGateway implements ports.LoggingGateway on top of zap
type ZapGateway struct {
	mu     sync.RWMutex
	logger *zap.Logger
	level  zap.AtomicLevel
	output zapcore.WriteSyncer
	format string
}

// NewZapGateway builds a zap logger from opts
func NewZapGateway(opts Options) (*ZapGateway, error) {
	zl, err := toZapLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	g := &ZapGateway{level: zap.NewAtomicLevelAt(zl), output: opts.Output}
	if err := g.build(opts.Format); err != nil {
		return nil, err
	}
	return g, nil
}

// NewFromLogger wraps an existing logger whose core is gated by level.
func NewFromLogger(logger *zap.Logger, level zap.AtomicLevel) *ZapGateway {
	return &ZapGateway{logger: logger, level: level, format: FormatConsole}
}

func (g *ZapGateway) build(format string) error {
	if format == "" {
		format = FormatConsole
	}

	var encCfg zapcore.EncoderConfig
	var cfg zap.Config
	switch format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
		encCfg = zap.NewProductionEncoderConfig()
	case FormatConsole:
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
		encCfg = zap.NewDevelopmentEncoderConfig()
	default:
		return fmt.Errorf("unknown log format %q (want console or json)", format)
	}

	var logger *zap.Logger
	if g.output != nil {
		var enc zapcore.Encoder
		if format == FormatJSON {
			enc = zapcore.NewJSONEncoder(encCfg)
		} else {
			enc = zapcore.NewConsoleEncoder(encCfg)
		}
		logger = zap.New(zapcore.NewCore(enc, g.output, g.level))
	} else {
		cfg.Level = g.level
		cfg.EncoderConfig = encCfg
		built, err := cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = built
	}

	g.mu.Lock()
	old := g.logger
	g.logger = logger
	g.format = format
	g.mu.Unlock()

	if old != nil {
		_ = old.Sync()
	}
	return nil
}

// Logger returns the underlying zap logger
func (g *ZapGateway) Logger() *zap.Logger {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.logger
}

// Log logs a message with the specified level
func (g *ZapGateway) Log(level ports.LogLevel, message string, fields map[string]interface{}) {
	zl, err := toZapLevel(level)
	if err != nil {
		zl = zapcore.InfoLevel
	}
	if ce := g.Logger().Check(zl, message); ce != nil {
		ce.Write(toFields(fields)...)
	}
}

// LogError logs an error
func (g *ZapGateway) LogError(err error, message string, fields map[string]interface{}) {
	if ce := g.Logger().Check(zapcore.ErrorLevel, message); ce != nil {
		ce.Write(append(toFields(fields), zap.Error(err))...)
	}
}

// SetLogLevel sets the logging level
func (g *ZapGateway) SetLogLevel(level ports.LogLevel) {
	if zl, err := toZapLevel(level); err == nil {
		g.level.SetLevel(zl)
	}
}

// GetLogLevel returns the current logging level
func (g *ZapGateway) GetLogLevel() ports.LogLevel {
	switch g.level.Level() {
	case zapcore.DebugLevel:
		return ports.LogLevelDebug
	case zapcore.WarnLevel:
		return ports.LogLevelWarn
	case zapcore.InfoLevel:
		return ports.LogLevelInfo
	default:
		return ports.LogLevelError
	}
}

// ConfigureLogging applies config, rebuilding the encoder when the format
// changes.
func (g *ZapGateway) ConfigureLogging(config *ports.LoggingConfig) error {
	if config == nil {
		return nil
	}
	if config.Level != "" {
		zl, err := toZapLevel(config.Level)
		if err != nil {
			return err
		}
		g.level.SetLevel(zl)
	}

	g.mu.RLock()
	format := g.format
	g.mu.RUnlock()
	if config.Format != "" && config.Format != format {
		return g.build(config.Format)
	}
	return nil
}

// Sync flushes buffered entries
func (g *ZapGateway) Sync() error {
	return g.Logger().Sync()
}

// ParseLevel validates a level name
func ParseLevel(value string) (ports.LogLevel, error) {
	level := ports.LogLevel(strings.ToLower(strings.TrimSpace(value)))
	if _, err := toZapLevel(level); err != nil {
		return "", err
	}
	return level, nil
}

func toZapLevel(level ports.LogLevel) (zapcore.Level, error) {
	switch level {
	case ports.LogLevelDebug:
		return zapcore.DebugLevel, nil
	case ports.LogLevelInfo, "":
		return zapcore.InfoLevel, nil
	case ports.LogLevelWarn, "warning":
		return zapcore.WarnLevel, nil
	case ports.LogLevelError:
		return zapcore.ErrorLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", level)
	}
}

// toFields orders keys so output is stable across runs.
func toFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys)+1)
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
