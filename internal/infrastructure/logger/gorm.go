package logger

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold marks statements slower than this as slow
const DefaultSlowQueryThreshold = 200 * time.Millisecond

var tablePattern = regexp.MustCompile(`(?i)\b(?:FROM|INTO|UPDATE)\s+"?([a-z_]+)"?`)

// GormLogger writes GORM statements to zap.
// Lookups by postal code, profile name and id miss routinely, so
// record-not-found results are dropped unless WithLogRecordNotFound is set.
type GormLogger struct {
	base        *zap.Logger
	level       gormlogger.LogLevel
	slow        time.Duration
	logNotFound bool
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold sets the slow statement threshold; zero disables slow warnings
func WithSlowThreshold(threshold time.Duration) GormLoggerOption {
	return func(l *GormLogger) {
		l.slow = threshold
	}
}

// WithLogRecordNotFound logs gorm.ErrRecordNotFound as an error
func WithLogRecordNotFound() GormLoggerOption {
	return func(l *GormLogger) {
		l.logNotFound = true
	}
}

// NewGormLogger creates a GORM logger named "gorm" under zapLogger
func NewGormLogger(zapLogger *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{
		base:  zapLogger.Named("gorm"),
		level: level,
		slow:  DefaultSlowQueryThreshold,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LogMode returns a copy at the given level
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Info, zapcore.InfoLevel, msg, data)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Warn, zapcore.WarnLevel, msg, data)
}

func (l *GormLogger) Error(ctx context.Context, msg string, data ...any) {
	l.printf(ctx, gormlogger.Error, zapcore.ErrorLevel, msg, data)
}

func (l *GormLogger) printf(ctx context.Context, enabledAt gormlogger.LogLevel, lvl zapcore.Level, msg string, data []any) {
	if l.level < enabledAt {
		return
	}
	l.base.With(correlationFields(ctx)...).Sugar().Logf(lvl, msg, data...)
}

// Trace logs one executed statement: failures at error, slow statements at
// warn and everything else at debug when the level is Info.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	if errors.Is(err, gormlogger.ErrRecordNotFound) && !l.logNotFound {
		return
	}

	elapsed := time.Since(begin)
	failed := err != nil
	isSlow := l.slow > 0 && elapsed > l.slow

	var msg string
	var lvl zapcore.Level
	switch {
	case failed && l.level >= gormlogger.Error:
		msg, lvl = "Statement failed", zapcore.ErrorLevel
	case isSlow && l.level >= gormlogger.Warn:
		msg, lvl = "Slow statement", zapcore.WarnLevel
	case !failed && l.level >= gormlogger.Info:
		msg, lvl = "Statement executed", zapcore.DebugLevel
	default:
		return
	}

	sql, rows := fc()
	fields := append(correlationFields(ctx),
		zap.String("statement", statementKind(sql)),
		zap.String("table", statementTable(sql)),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
		zap.String("sql", sql),
	)
	if isSlow {
		fields = append(fields, zap.Duration("slow_threshold", l.slow))
	}
	if failed {
		fields = append(fields, zap.Error(err))
	}
	l.base.Log(lvl, msg, fields...)
}

func correlationFields(ctx context.Context) []zap.Field {
	var fields []zap.Field
	if id := GetRequestID(ctx); id != "" {
		fields = append(fields, zap.String("request_id", id))
	}
	if id := GetTraceID(ctx); id != "" {
		fields = append(fields, zap.String("trace_id", id))
	}
	return fields
}

// statementKind returns the leading SQL keyword, e.g. SELECT or INSERT
func statementKind(sql string) string {
	kind, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	return strings.ToUpper(kind)
}

func statementTable(sql string) string {
	if m := tablePattern.FindStringSubmatch(sql); m != nil {
		return m[1]
	}
	return ""
}

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// MapGormLogLevel maps an application log level onto GORM's; unknown levels give Warn
func MapGormLogLevel(level string) gormlogger.LogLevel {
	if l, ok := gormLevels[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return gormlogger.Warn
}
