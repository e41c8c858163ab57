package logging

import "time"

func String(key, value string) Field             { return Field{Key: key, Value: value} }
func Int(key string, value int) Field            { return Field{Key: key, Value: value} }
func Uint64(key string, value uint64) Field      { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field          { return Field{Key: key, Value: value} }
func Duration(key string, d time.Duration) Field { return Field{Key: key, Value: d.String()} }

// Error records err's message under "error"; a nil err logs null.
func Error(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Fields shared by the api, client and cli packages, so the same concept
// always lands under the same key.

func Component(name string) Field { return String("component", name) }
func MarkerID(id string) Field    { return String("marker_id", id) }
func Region(region string) Field  { return String("region", region) }
func State(s string) Field        { return String("state", s) }
func RequestID(id string) Field   { return String("request_id", id) }
func Path(p string) Field         { return String("path", p) }
func Status(code int) Field       { return Int("status", code) }
func Count(n int) Field           { return Int("count", n) }

// Seq tags a client load attempt with its sequence number.
func Seq(n uint64) Field { return Uint64("seq", n) }

// Latency is the elapsed time of a request or load.
func Latency(d time.Duration) Field { return Duration("latency", d) }
