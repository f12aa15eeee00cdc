package putfile

import (
	"io"
	"log"
	"sync"
)

// LogWriters holds the io.Writers for each logging stream.
type LogWriters struct {
	// Ops carries lifecycle events, skipped fields and errors.
	Ops io.Writer
	// Diag carries station lists and per-field detail.
	Diag io.Writer
}

var (
	mu         sync.RWMutex
	opsLogger  *log.Logger
	diagLogger *log.Logger
)

// SetLogWriters configures both logging streams. A nil writer disables
// that stream.
func SetLogWriters(w LogWriters) {
	mu.Lock()
	defer mu.Unlock()
	opsLogger = newLogger("[putxform] ", w.Ops)
	diagLogger = newLogger("[putxform] ", w.Diag)
}

func newLogger(prefix string, w io.Writer) *log.Logger {
	if w == nil {
		return nil
	}
	return log.New(w, prefix, log.LstdFlags)
}

func opsf(format string, args ...interface{}) {
	mu.RLock()
	l := opsLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}

func diagf(format string, args ...interface{}) {
	mu.RLock()
	l := diagLogger
	mu.RUnlock()
	if l != nil {
		l.Printf(format, args...)
	}
}
