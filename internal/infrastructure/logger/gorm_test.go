package logger

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func newObservedGormLogger(level gormlogger.LogLevel, opts ...GormLoggerOption) (*GormLogger, *observer.ObservedLogs) {
	core, recorded := observer.New(zap.DebugLevel)
	return NewGormLogger(zap.New(core), level, opts...), recorded
}

func TestGormLogger_Trace(t *testing.T) {
	ctx := context.Background()
	query := func() (string, int64) { return "SELECT * FROM orders", 3 }

	t.Run("logs queries at info level", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)

		gl.Trace(ctx, time.Now(), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Query", entries[0].Message)
		assert.Equal(t, "SELECT * FROM orders", entries[0].ContextMap()["sql"])
		assert.Equal(t, int64(3), entries[0].ContextMap()["rows"])
	})

	t.Run("silent level logs nothing", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Silent)

		gl.Trace(ctx, time.Now(), query, errors.New("broken"))

		assert.Empty(t, recorded.All())
	})

	t.Run("errors are logged with the error field", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), query, errors.New("connection reset"))

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "SQL Error", entries[0].Message)
	})

	t.Run("record not found is suppressed by default", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error)

		gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Empty(t, recorded.All())
	})

	t.Run("record not found is logged when configured", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Error, WithIgnoreRecordNotFoundError(false))

		gl.Trace(ctx, time.Now(), query, gormlogger.ErrRecordNotFound)

		assert.Len(t, recorded.All(), 1)
	})

	t.Run("slow queries are logged as warnings", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Warn, WithSlowThreshold(time.Nanosecond))

		gl.Trace(ctx, time.Now().Add(-time.Second), query, nil)

		entries := recorded.FilterLevelExact(zap.WarnLevel).All()
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Message, "SLOW SQL")
	})

	t.Run("includes request ID from context", func(t *testing.T) {
		gl, recorded := newObservedGormLogger(gormlogger.Info)
		reqCtx, _ := WithRequestID(ctx, zap.NewNop(), "req-789")

		gl.Trace(reqCtx, time.Now(), query, nil)

		entries := recorded.All()
		require.Len(t, entries, 1)
		assert.Equal(t, "req-789", entries[0].ContextMap()["request_id"])
	})
}

func TestGormLogger_LogMode(t *testing.T) {
	gl, _ := newObservedGormLogger(gormlogger.Warn)

	elevated := gl.LogMode(gormlogger.Info)

	assert.NotSame(t, gl, elevated)
	assert.Equal(t, gormlogger.Warn, gl.logLevel)
}

func TestMapGormLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected gormlogger.LogLevel
	}{
		{"silent", gormlogger.Silent},
		{"error", gormlogger.Error},
		{"warn", gormlogger.Warn},
		{"info", gormlogger.Info},
		{"debug", gormlogger.Info},
		{"unknown", gormlogger.Warn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			assert.Equal(t, tt.expected, MapGormLogLevel(tt.level))
		})
	}
}
