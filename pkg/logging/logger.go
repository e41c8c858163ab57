package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"
)

// Field is one structured key/value attached to an entry.
type Field struct {
	Key   string
	Value any
}

// Logger is what every component of the service logs through.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	// With returns a child carrying fields on every entry.
	With(fields ...Field) Logger
	SetLevel(level Level)
	GetLevel() Level
}

// LogEntry is the line format written by JSONLogger.
type LogEntry struct {
	Time    string         `json:"time"`
	Level   string         `json:"level"`
	Message string         `json:"msg"`
	Fields  map[string]any `json:"fields,omitempty"`
}

// sink is shared by a logger and all of its children.
type sink struct {
	mu    sync.Mutex
	w     io.Writer
	level atomic.Int32
}

func (s *sink) write(line []byte) {
	s.mu.Lock()
	_, _ = s.w.Write(line)
	s.mu.Unlock()
}

// JSONLogger writes one JSON object per line. Children made with With share
// the parent's writer and level.
type JSONLogger struct {
	sink   *sink
	fields []Field
	now    func() time.Time
}

// NewJSONLogger logs entries at or above level to w.
func NewJSONLogger(w io.Writer, level Level) *JSONLogger {
	s := &sink{w: w}
	s.level.Store(int32(level))
	return &JSONLogger{sink: s, now: time.Now}
}

func (l *JSONLogger) enabled(level Level) bool {
	return level >= Level(l.sink.level.Load())
}

func (l *JSONLogger) emit(level Level, msg string, extra []Field) {
	if !l.enabled(level) {
		return
	}
	entry := LogEntry{
		Time:    l.now().UTC().Format(time.RFC3339Nano),
		Level:   level.String(),
		Message: msg,
	}
	if n := len(l.fields) + len(extra); n > 0 {
		entry.Fields = make(map[string]any, n)
		for _, f := range l.fields {
			entry.Fields[f.Key] = f.Value
		}
		// call-site fields override inherited ones
		for _, f := range extra {
			entry.Fields[f.Key] = f.Value
		}
	}

	line, err := json.Marshal(entry)
	if err != nil {
		line = fmt.Appendf(nil, `{"time":%q,"level":"ERROR","msg":"unencodable log entry","error":%q}`,
			entry.Time, err.Error())
	}
	l.sink.write(append(line, '\n'))
}

func (l *JSONLogger) Debug(msg string, fields ...Field) { l.emit(DebugLevel, msg, fields) }
func (l *JSONLogger) Info(msg string, fields ...Field)  { l.emit(InfoLevel, msg, fields) }
func (l *JSONLogger) Warn(msg string, fields ...Field)  { l.emit(WarnLevel, msg, fields) }
func (l *JSONLogger) Error(msg string, fields ...Field) { l.emit(ErrorLevel, msg, fields) }

// With returns a child logger. Changing the child's level changes the
// parent's too.
func (l *JSONLogger) With(fields ...Field) Logger {
	child := *l
	child.fields = append(append(make([]Field, 0, len(l.fields)+len(fields)), l.fields...), fields...)
	return &child
}

func (l *JSONLogger) SetLevel(level Level) { l.sink.level.Store(int32(level)) }
func (l *JSONLogger) GetLevel() Level      { return Level(l.sink.level.Load()) }

// NopLogger discards everything. The watch TUI and tests use it.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (n NopLogger) With(...Field) Logger { return n }
func (NopLogger) SetLevel(Level)         {}
func (NopLogger) GetLevel() Level        { return InfoLevel }

// NewNopLogger returns a Logger that writes nothing.
func NewNopLogger() Logger {
	return NopLogger{}
}
