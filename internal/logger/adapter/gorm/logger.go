// Package gorm routes gorm's query log through the global zerolog logger.
package gorm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Logger implements gorm's logger.Interface on top of zerolog.
type Logger struct {
	// SlowThreshold marks queries taking longer as warnings. Zero disables it.
	SlowThreshold time.Duration
	level         gormlogger.LogLevel
}

// New returns a Logger at warn level.
func New(slowThreshold time.Duration) *Logger {
	return &Logger{
		SlowThreshold: slowThreshold,
		level:         gormlogger.Warn,
	}
}

// LogMode returns a copy of the logger using level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	n := *l
	n.level = level

	return &n
}

// Info logs at info level.
func (l *Logger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		log.Info().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Warn logs at warn level.
func (l *Logger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		log.Warn().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Error logs at error level.
func (l *Logger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		log.Error().Str("component", "gorm").Msg(fmt.Sprintf(msg, data...))
	}
}

// Trace logs a finished query. Failed queries are errors (record not found excluded),
// slow queries are warnings and everything else is logged at trace level.
func (l *Logger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)

	switch {
	case err != nil && l.level >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		log.Error().Err(err).Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		log.Warn().Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		log.Trace().Str("component", "gorm").Dur("elapsed", elapsed).
			Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
