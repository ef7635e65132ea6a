package logging

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type line struct {
	level Level
	msg   string
}

type recorder struct {
	mu    sync.Mutex
	lines []line
}

func (r *recorder) fn(level Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lines = append(r.lines, line{level, msg})
}

func TestFromZap(t *testing.T) {
	tests := []struct {
		in   zapcore.Level
		want Level
	}{
		{zapcore.DebugLevel, LevelDebug},
		{zapcore.InfoLevel, LevelInfo},
		{zapcore.WarnLevel, LevelWarning},
		{zapcore.ErrorLevel, LevelError},
		{zapcore.DPanicLevel, LevelError},
		{zapcore.FatalLevel, LevelError},
	}
	for _, tt := range tests {
		t.Run(tt.in.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FromZap(tt.in))
		})
	}
}

func TestLevelNumbers(t *testing.T) {
	assert.Equal(t, Level(0), LevelError)
	assert.Equal(t, Level(1), LevelWarning)
	assert.Equal(t, Level(2), LevelInfo)
	assert.Equal(t, Level(3), LevelDebug)
}

func TestSinkCore_Forwards(t *testing.T) {
	var sink Sink
	rec := &recorder{}
	sink.Attach(rec.fn)

	log := New(&sink, zapcore.DebugLevel).With(zap.String("context_id", "abc"))
	log.Warn("missing expected resource", zap.Int32("ref_id", 4))
	log.Debug("tick")

	require.Len(t, rec.lines, 2)
	assert.Equal(t, LevelWarning, rec.lines[0].level)
	assert.Contains(t, rec.lines[0].msg, "missing expected resource")
	assert.Contains(t, rec.lines[0].msg, `"context_id": "abc"`)
	assert.Contains(t, rec.lines[0].msg, `"ref_id": 4`)
	assert.NotContains(t, rec.lines[0].msg, "\n")
	assert.Equal(t, LevelDebug, rec.lines[1].level)
}

func TestSinkCore_LevelFilter(t *testing.T) {
	var sink Sink
	rec := &recorder{}
	sink.Attach(rec.fn)

	log := New(&sink, zapcore.InfoLevel)
	log.Debug("dropped")
	log.Info("kept")

	require.Len(t, rec.lines, 1)
	assert.Equal(t, "kept", rec.lines[0].msg)
}

func TestSinkCore_Detach(t *testing.T) {
	var sink Sink
	rec := &recorder{}
	log := New(&sink, zapcore.DebugLevel)

	log.Info("before attach")
	sink.Attach(rec.fn)
	assert.True(t, sink.Attached())
	log.Info("attached")
	sink.Detach()
	assert.False(t, sink.Attached())
	log.Info("after detach")

	require.Len(t, rec.lines, 1)
	assert.Equal(t, "attached", rec.lines[0].msg)
}

func TestSink_Swap(t *testing.T) {
	var sink Sink
	first, second := &recorder{}, &recorder{}
	log := New(&sink, zapcore.DebugLevel)

	sink.Attach(first.fn)
	log.Info("one")
	sink.Attach(second.fn)
	log.Info("two")
	sink.Attach(nil)
	log.Info("three")

	require.Len(t, first.lines, 1)
	require.Len(t, second.lines, 1)
	assert.Equal(t, "two", second.lines[0].msg)
}

func TestSink_ConcurrentSwap(t *testing.T) {
	var sink Sink
	rec := &recorder{}
	log := New(&sink, zapcore.DebugLevel)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				log.Info("entry")
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				sink.Attach(rec.fn)
				sink.Detach()
			}
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, len(rec.lines), 400)
}
