// Package alarm watches the reading bus and raises low/high alarms
// against the configured mg/dL thresholds. The presenter only displays
// alarm state, this is where it is computed.
package alarm

import (
	"log"
	"sync"
	"time"

	"github.com/dribbe/glucomon/pkg/ebus"
	"github.com/dribbe/glucomon/pkg/glucose"
	"github.com/dribbe/glucomon/pkg/sound"
)

type State int

const (
	StateNone State = iota
	StateLow
	StateHigh
)

func (s State) String() string {
	switch s {
	case StateLow:
		return "LOW"
	case StateHigh:
		return "HIGH"
	default:
		return "none"
	}
}

// Active reports whether the state should light up the display.
func (s State) Active() bool {
	return s != StateNone
}

const toneRepeat = 5 * time.Minute

type Watcher struct {
	mu        sync.Mutex
	low, high int
	state     State
	muted     bool
	lastTone  time.Time
	onChange  []func(State)
	unsub     func()
}

func NewWatcher(low, high int) *Watcher {
	return &Watcher{low: low, high: high}
}

// Evaluate maps a mg/dL value to an alarm state. Inverted thresholds
// disable alarming, mirroring the display's neutral color fallback.
func (w *Watcher) Evaluate(value int) State {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.low >= w.high {
		return StateNone
	}
	switch {
	case value < w.low:
		return StateLow
	case value >= w.high:
		return StateHigh
	default:
		return StateNone
	}
}

func (w *Watcher) SetThresholds(low, high int) {
	w.mu.Lock()
	w.low, w.high = low, high
	w.mu.Unlock()
}

func (w *Watcher) SetMuted(muted bool) {
	w.mu.Lock()
	w.muted = muted
	w.mu.Unlock()
}

// State returns the alarm state of the last seen reading.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// OnChange registers f to run on every state transition. Must be called
// before Start.
func (w *Watcher) OnChange(f func(State)) {
	w.onChange = append(w.onChange, f)
}

func (w *Watcher) Start() {
	w.unsub = ebus.SubscribeFunc(ebus.TopicReading, w.handle)
}

func (w *Watcher) Stop() {
	if w.unsub != nil {
		w.unsub()
		w.unsub = nil
	}
}

func (w *Watcher) handle(u glucose.Update) {
	if u.Reading.Value == nil {
		return
	}
	next := w.Evaluate(*u.Reading.Value)

	w.mu.Lock()
	changed := next != w.state
	w.state = next
	ring := next.Active() && !w.muted && time.Since(w.lastTone) >= toneRepeat
	if changed && next.Active() {
		ring = !w.muted
	}
	if ring {
		w.lastTone = time.Now()
	}
	w.mu.Unlock()

	if changed {
		log.Println("alarm state", next)
		for _, f := range w.onChange {
			f(next)
		}
	}
	if ring {
		go w.ring(next)
	}
}

func (w *Watcher) ring(s State) {
	// low gets the urgent pattern
	beeps, freq := 2, 660.0
	if s == StateLow {
		beeps, freq = 4, 880.0
	}
	for i := 0; i < beeps; i++ {
		if err := sound.Play(freq, 300*time.Millisecond); err != nil {
			log.Println("alarm tone:", err)
			return
		}
		time.Sleep(150 * time.Millisecond)
	}
}
