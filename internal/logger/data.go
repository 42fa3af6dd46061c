package logger

import (
	"io"
	"log"
	"sync"
)

// Logger writes leveled, component-tagged lines:
//
//	[2006-01-02 15:04:05.000] [INFO] [Reconciler] Slot loaded: dataset=RIPS rows=120
type Logger struct {
	MinLevel LogLevel
	mu       sync.Mutex
	out      *log.Logger
}

// LogLevel represents the severity of a log message
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

// New returns a logger writing to w. A nil writer falls back to the
// standard library's default logger output.
func New(w io.Writer, level LogLevel) *Logger {
	l := &Logger{MinLevel: level}
	if w != nil {
		l.out = log.New(w, "", 0)
	}
	return l
}

// Discard returns a logger that drops everything, handy in tests.
func Discard() *Logger {
	return New(io.Discard, LevelError+1)
}
