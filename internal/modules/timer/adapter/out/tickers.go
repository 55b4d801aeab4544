package out

import (
	"sync"
	"time"

	timerout "focusflow/internal/modules/timer/port/out"
)

// WallTicker drives the timer from a time.Ticker on its own goroutine.
type WallTicker struct {
	mu       sync.Mutex
	interval time.Duration
	stop     chan struct{}
}

func NewWallTicker() timerout.TickSource {
	return &WallTicker{interval: time.Second}
}

func (w *WallTicker) Start(fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop != nil {
		return
	}
	stop := make(chan struct{})
	w.stop = stop
	go func() {
		t := time.NewTicker(w.interval)
		defer t.Stop()
		for {
			select {
			case <-stop:
				return
			case <-t.C:
				select {
				case <-stop:
					return
				default:
				}
				fn()
			}
		}
	}()
}

// Stop does not wait for the goroutine; it may be the caller.
func (w *WallTicker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stop == nil {
		return
	}
	close(w.stop)
	w.stop = nil
}

// ManualTicker never fires on its own. The TUI and tests call Tick directly;
// the ticker only records whether a source would be active.
type ManualTicker struct {
	mu     sync.Mutex
	active bool
	starts int
}

func NewManualTicker() *ManualTicker {
	return &ManualTicker{}
}

func (m *ManualTicker) Start(func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active {
		return
	}
	m.active = true
	m.starts++
}

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = false
}

func (m *ManualTicker) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// Starts counts inactive-to-active transitions.
func (m *ManualTicker) Starts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.starts
}
