// Package gorm routes gorm statement logging through zerolog.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	gormio "gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Config of the gorm logger adapter.
type Config struct {
	// SlowThreshold marks statements slower than this as warnings. 0 disables it.
	SlowThreshold time.Duration

	// IgnoreRecordNotFound skips ErrRecordNotFound, lookups miss all the time.
	IgnoreRecordNotFound bool

	// Debug logs every statement on debug level.
	Debug bool
}

// ConfigDefault is the default config.
var ConfigDefault = Config{
	SlowThreshold:        200 * time.Millisecond, //nolint:mnd
	IgnoreRecordNotFound: true,
}

// Logger implements gorm's logger.Interface on top of the global zerolog logger.
type Logger struct {
	cfg   Config
	level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*Logger)(nil)

// New creates a gorm logger.
func New(config ...Config) *Logger {
	cfg := ConfigDefault
	if len(config) > 0 {
		cfg = config[0]
	}

	level := gormlogger.Warn
	if cfg.Debug {
		level = gormlogger.Info
	}

	return &Logger{cfg: cfg, level: level}
}

// LogMode returns a copy with the given level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	out := *l
	out.level = level

	return &out
}

// Info logs on debug level, gorm info messages are noise in production.
func (l *Logger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.logger(ctx).Debug().Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs on warn level.
func (l *Logger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.logger(ctx).Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs on error level.
func (l *Logger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.logger(ctx).Error().Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs a finished statement.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	var e *zerolog.Event

	switch {
	case err != nil && l.level >= gormlogger.Error &&
		!(l.cfg.IgnoreRecordNotFound && errors.Is(err, gormio.ErrRecordNotFound)):
		e = l.logger(ctx).Error().Err(err)
	case l.cfg.SlowThreshold > 0 && elapsed > l.cfg.SlowThreshold && l.level >= gormlogger.Warn:
		e = l.logger(ctx).Warn().Dur("threshold", l.cfg.SlowThreshold)
	case l.level >= gormlogger.Info:
		e = l.logger(ctx).Debug()
	default:
		return
	}

	sql, rows := fc()

	e.Str("sql", sql).
		Int64("rows", rows).
		Dur("elapsed", elapsed).
		Msg("gorm")
}

// logger prefers a logger stored in ctx and falls back to the global one.
func (l *Logger) logger(ctx context.Context) *zerolog.Logger {
	if ctx != nil {
		if ctxLogger := zerolog.Ctx(ctx); ctxLogger.GetLevel() != zerolog.Disabled {
			return ctxLogger
		}
	}

	return &log.Logger
}
