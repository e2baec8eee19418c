// Package logstream keeps a bounded in-memory tail of application log
// lines and fans new lines out to live subscribers. The dashboard uses
// it to show what the bot has been doing without shelling into the box.
package logstream

import (
	"fmt"
	"sync"
	"time"

	"github.com/fractal-nyc/attendabot/core"
)

const defaultCapacity = 500

// Line is a single captured log record.
type Line struct {
	At    time.Time `json:"at"`
	Level string    `json:"level"`
	Msg   string    `json:"msg"`
}

// Ring is a fixed-capacity buffer of recent log lines with subscriber
// fan-out. Writes never block on slow subscribers; a subscriber whose
// channel is full simply misses lines.
type Ring struct {
	mu   sync.Mutex
	buf  []Line
	next int
	full bool
	subs map[chan Line]struct{}
}

func NewRing(capacity int) *Ring {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Ring{
		buf:  make([]Line, capacity),
		subs: make(map[chan Line]struct{}),
	}
}

// Append records a line and notifies subscribers.
func (r *Ring) Append(level, msg string) {
	line := Line{At: time.Now().UTC(), Level: level, Msg: msg}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.buf[r.next] = line
	r.next = (r.next + 1) % len(r.buf)
	if r.next == 0 {
		r.full = true
	}
	for ch := range r.subs {
		select {
		case ch <- line:
		default:
		}
	}
}

// Tail returns the buffered lines, oldest first.
func (r *Ring) Tail() []Line {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.full {
		out := make([]Line, r.next)
		copy(out, r.buf[:r.next])
		return out
	}
	out := make([]Line, 0, len(r.buf))
	out = append(out, r.buf[r.next:]...)
	out = append(out, r.buf[:r.next]...)
	return out
}

// Subscribe registers a channel that receives lines appended after the
// call. The caller must Unsubscribe when done.
func (r *Ring) Subscribe() chan Line {
	ch := make(chan Line, 64)
	r.mu.Lock()
	r.subs[ch] = struct{}{}
	r.mu.Unlock()
	return ch
}

func (r *Ring) Unsubscribe(ch chan Line) {
	r.mu.Lock()
	delete(r.subs, ch)
	r.mu.Unlock()
	close(ch)
}

// TeeLogger wraps another core.Logger and copies every record into a
// Ring so the dashboard can stream it.
type TeeLogger struct {
	Next core.Logger
	Ring *Ring
}

var _ core.Logger = (*TeeLogger)(nil)

func (l *TeeLogger) Enable(enabled bool) { l.Next.Enable(enabled) }

func (l *TeeLogger) Debug(msg string, args ...interface{}) {
	l.Ring.Append("debug", format(msg, args...))
	l.Next.Debug(msg, args...)
}

func (l *TeeLogger) Info(msg string, args ...interface{}) {
	l.Ring.Append("info", format(msg, args...))
	l.Next.Info(msg, args...)
}

func (l *TeeLogger) Warn(msg string, args ...interface{}) {
	l.Ring.Append("warn", format(msg, args...))
	l.Next.Warn(msg, args...)
}

func (l *TeeLogger) Error(msg string, args ...interface{}) {
	l.Ring.Append("error", format(msg, args...))
	l.Next.Error(msg, args...)
}

func (l *TeeLogger) Fatal(msg string, args ...interface{}) {
	l.Ring.Append("fatal", format(msg, args...))
	l.Next.Fatal(msg, args...)
}

func format(msg string, args ...interface{}) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf("%s %v", msg, args)
}
