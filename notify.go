package aeratron

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/brutella/hap/log"
)

// Notifier receives one event per dispatched command. The controller only
// ever calls it after the frame went out.
type Notifier interface {
	Event(format string, args ...interface{})
}

type nopNotifier struct{}

func (nopNotifier) Event(string, ...interface{}) {}

// EventLog appends timestamped event lines to a file and keeps a bounded
// in-memory tail for the control panel's log page.
type EventLog struct {
	mu   sync.Mutex
	f    *os.File
	tail []string
	max  int
}

// NewEventLog opens (or creates) the log file at path. An empty path keeps
// the log memory-only.
func NewEventLog(path string) (*EventLog, error) {
	e := &EventLog{max: 100}
	if path == "" {
		return e, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	e.f = f
	return e, nil
}

func (e *EventLog) Event(format string, args ...interface{}) {
	line := fmt.Sprintf("%s %s", time.Now().Format("2006-01-02 15:04:05"), fmt.Sprintf(format, args...))

	e.mu.Lock()
	defer e.mu.Unlock()

	e.tail = append(e.tail, line)
	if len(e.tail) > e.max {
		e.tail = e.tail[len(e.tail)-e.max:]
	}

	if e.f != nil {
		if _, err := fmt.Fprintln(e.f, line); err != nil {
			log.Info.Printf("event log write failed: %s", err.Error())
		}
	}
	log.Debug.Println(line)
}

// Tail returns the most recent event lines, oldest first.
func (e *EventLog) Tail() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, len(e.tail))
	copy(out, e.tail)
	return out
}

func (e *EventLog) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.f == nil {
		return nil
	}
	return e.f.Close()
}
