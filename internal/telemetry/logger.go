package telemetry

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	enableDebug atomic.Bool

	// mu guards the queue lifecycle. Producers hold it shared while they
	// enqueue; Start and Stop hold it exclusively.
	mu    sync.RWMutex
	logCh chan logEntry
	done  chan struct{}

	outMu sync.Mutex
	out   io.Writer = os.Stderr
)

const queueSize = 8192

type logEntry struct {
	timestamp time.Time
	level     string
	message   string
}

// SetOutput redirects log lines. Results go to stdout, so the default is stderr.
func SetOutput(w io.Writer) {
	outMu.Lock()
	out = w
	outMu.Unlock()
}

// Start spins up the async writer. Before Start (and after Stop) lines are
// written synchronously.
func Start() {
	mu.Lock()
	defer mu.Unlock()
	if logCh != nil {
		return
	}
	logCh = make(chan logEntry, queueSize)
	done = make(chan struct{})

	go func(ch <-chan logEntry, done chan<- struct{}) {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				fmt.Fprintf(os.Stderr, "telemetry panic: %v\n", r)
			}
		}()
		for entry := range ch {
			write(entry)
		}
	}(logCh, done)
}

// Stop closes the queue and waits until every queued line is written.
func Stop() {
	mu.Lock()
	ch, d := logCh, done
	logCh, done = nil, nil
	mu.Unlock()

	if ch == nil {
		return
	}
	close(ch)
	<-d
}

func EnableDebug(on bool) { enableDebug.Store(on) }

func write(e logEntry) {
	outMu.Lock()
	defer outMu.Unlock()
	fmt.Fprintf(out, "%s [%s] %s\n",
		e.timestamp.Format("2006/01/02 15:04:05.000"),
		e.level,
		e.message)
}

// Non-blocking enqueue; drop if saturated.
func enqueue(level, message string) {
	entry := logEntry{
		timestamp: time.Now(),
		level:     level,
		message:   message,
	}

	mu.RLock()
	defer mu.RUnlock()
	if logCh == nil {
		write(entry)
		return
	}
	select {
	case logCh <- entry:
	default:
		fmt.Fprintf(os.Stderr, "telemetry: buffer full, dropping log: %s\n", message)
	}
}

// INFO is always on (use sparingly on hot path).
func Infof(format string, args ...any) {
	enqueue("INFO", fmt.Sprintf(format, args...))
}

func Warnf(format string, args ...any) {
	enqueue("WARN", fmt.Sprintf(format, args...))
}

func Errorf(format string, args ...any) {
	enqueue("ERROR", fmt.Sprintf(format, args...))
}

// DEBUG only formats if enabled (zero cost when off).
func Debugf(format string, args ...any) {
	if !enableDebug.Load() {
		return
	}
	enqueue("DEBUG", fmt.Sprintf(format, args...))
}

