package logging

import (
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is the host's log severity.
type Level uint8

const (
	LevelError Level = iota
	LevelWarning
	LevelInfo
	LevelDebug
)

func (l Level) String() string {
	switch l {
	case LevelError:
		return "error"
	case LevelWarning:
		return "warning"
	case LevelInfo:
		return "info"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// FromZap maps a zap level onto the host's levels.
func FromZap(l zapcore.Level) Level {
	switch {
	case l >= zapcore.ErrorLevel:
		return LevelError
	case l == zapcore.WarnLevel:
		return LevelWarning
	case l == zapcore.InfoLevel:
		return LevelInfo
	default:
		return LevelDebug
	}
}

// Func receives one rendered log line.
type Func func(level Level, msg string)

// Sink holds the currently attached Func.
type Sink struct {
	fn atomic.Pointer[Func]
}

// Attach installs fn, replacing any previous sink. A nil fn detaches.
func (s *Sink) Attach(fn Func) {
	if fn == nil {
		s.fn.Store(nil)
		return
	}
	s.fn.Store(&fn)
}

// Detach removes the sink; later entries are dropped.
func (s *Sink) Detach() { s.fn.Store(nil) }

// Attached reports whether a sink is installed.
func (s *Sink) Attached() bool { return s.fn.Load() != nil }

func (s *Sink) emit(level Level, msg string) {
	if fn := s.fn.Load(); fn != nil {
		(*fn)(level, msg)
	}
}

var encoderConfig = zapcore.EncoderConfig{
	MessageKey:       "msg",
	NameKey:          "logger",
	EncodeDuration:   zapcore.StringDurationEncoder,
	EncodeName:       zapcore.FullNameEncoder,
	ConsoleSeparator: " ",
}

// SinkCore is a zapcore.Core writing to a Sink.
type SinkCore struct {
	zapcore.LevelEnabler
	sink *Sink
	enc  zapcore.Encoder
}

// NewCore returns a core that renders entries at or above enab into sink.
func NewCore(sink *Sink, enab zapcore.LevelEnabler) *SinkCore {
	return &SinkCore{
		LevelEnabler: enab,
		sink:         sink,
		enc:          zapcore.NewConsoleEncoder(encoderConfig),
	}
}

// New builds a logger over a SinkCore.
func New(sink *Sink, enab zapcore.LevelEnabler, opts ...zap.Option) *zap.Logger {
	return zap.New(NewCore(sink, enab), opts...)
}

func (c *SinkCore) With(fields []zapcore.Field) zapcore.Core {
	clone := &SinkCore{LevelEnabler: c.LevelEnabler, sink: c.sink, enc: c.enc.Clone()}
	for _, f := range fields {
		f.AddTo(clone.enc)
	}
	return clone
}

func (c *SinkCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

func (c *SinkCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	if !c.sink.Attached() {
		return nil
	}
	buf, err := c.enc.EncodeEntry(ent, fields)
	if err != nil {
		return err
	}
	msg := strings.TrimSuffix(buf.String(), "\n")
	buf.Free()
	c.sink.emit(FromZap(ent.Level), msg)
	return nil
}

func (c *SinkCore) Sync() error { return nil }
