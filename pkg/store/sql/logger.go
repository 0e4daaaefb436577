//nolint:goprintffuncname
package sql

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger routes gorm's statement log through logrus so SQL traces share the
// server's level, format and output.
type gormLogger struct {
	log    *logrus.Logger
	config LoggerConfig
}

type LoggerConfig struct {
	SlowThreshold             time.Duration
	IgnoreRecordNotFoundError bool
}

//nolint:ireturn
func NewLogger(log *logrus.Logger, cfg LoggerConfig) logger.Interface {
	return &gormLogger{log: log, config: cfg}
}

// LogMode is a no-op; the logrus level decides what gets written.
//
//nolint:ireturn
func (l *gormLogger) LogMode(_ logger.LogLevel) logger.Interface {
	return l
}

const callerSearchDepth = 15

// entry returns a logrus entry annotated with the first caller outside gorm, which is
// the store method that issued the statement.
func (l *gormLogger) entry(ctx context.Context) *logrus.Entry {
	entry := l.log.WithContext(ctx)

	pcs := make([]uintptr, callerSearchDepth)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(3, pcs)])

	for frame, more := frames.Next(); more; frame, more = frames.Next() {
		if strings.HasPrefix(frame.Function, "gorm.io/") {
			continue
		}

		return entry.WithField("caller", fmt.Sprintf("%s:%d", frame.Function, frame.Line))
	}

	return entry
}

func (l *gormLogger) Info(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Infof(format, args...)
}

func (l *gormLogger) Warn(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Warnf(format, args...)
}

func (l *gormLogger) Error(ctx context.Context, format string, args ...interface{}) {
	l.entry(ctx).Errorf(format, args...)
}

// Trace logs the statement as an error, a slow query or a debug trace, in that order
// of precedence.
func (l *gormLogger) Trace(
	ctx context.Context,
	begin time.Time,
	statement func() (sql string, rowsAffected int64),
	err error,
) {
	elapsed := time.Since(begin)

	withSQL := func() *logrus.Entry {
		sql, rows := statement()
		fields := logrus.Fields{
			"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
			"sql":        sql,
		}
		if rows >= 0 {
			fields["rows"] = rows
		}

		return l.entry(ctx).WithFields(fields)
	}

	switch {
	case err != nil && l.log.IsLevelEnabled(logrus.ErrorLevel) &&
		!(l.config.IgnoreRecordNotFoundError && errors.Is(err, gorm.ErrRecordNotFound)):
		withSQL().WithError(err).Error("SQL error")
	case l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold &&
		l.log.IsLevelEnabled(logrus.WarnLevel):
		withSQL().Warnf("slow SQL >= %v", l.config.SlowThreshold)
	case l.log.IsLevelEnabled(logrus.DebugLevel):
		withSQL().Debug("SQL trace")
	}
}
