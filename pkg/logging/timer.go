package logging

import "time"

// TimedOperation logs a message with its elapsed latency when it ends.
type TimedOperation struct {
	logger Logger
	msg    string
	start  time.Time
	fields []Field
}

// StartTimer starts timing msg; fields are repeated on the closing entry.
func StartTimer(logger Logger, msg string, fields ...Field) *TimedOperation {
	return &TimedOperation{logger: logger, msg: msg, start: time.Now(), fields: fields}
}

// End logs at info level.
func (t *TimedOperation) End(extra ...Field) {
	t.logger.Info(t.msg, t.closing(extra)...)
}

// EndError logs at error level with err attached.
func (t *TimedOperation) EndError(err error, extra ...Field) {
	t.logger.Error(t.msg, append(t.closing(extra), Error(err))...)
}

func (t *TimedOperation) closing(extra []Field) []Field {
	out := make([]Field, 0, len(t.fields)+len(extra)+2)
	out = append(out, t.fields...)
	out = append(out, extra...)
	return append(out, Latency(time.Since(t.start)))
}
