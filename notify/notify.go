// SPDX-License-Identifier: GPL-3.0-only

// Package notify holds the single-slot toast state shown to the dashboard
// user. A new Show replaces whatever is visible and restarts the expiry
// timer; there is no queue.
package notify

import (
	"sync"
	"time"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// DefaultDuration is how long a toast stays visible unless dismissed.
const DefaultDuration = 3000 * time.Millisecond

type State struct {
	Visible  bool     `json:"visible"`
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

type Notifier struct {
	mu        sync.Mutex
	state     State
	duration  time.Duration
	timer     *time.Timer
	gen       uint64
	onDismiss func(State)
}

func NewNotifier(duration time.Duration) *Notifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Notifier{duration: duration}
}

// SetOnDismiss registers a hook invoked with the last shown state whenever
// the slot clears, by timeout or explicit dismissal.
func (n *Notifier) SetOnDismiss(fn func(State)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onDismiss = fn
}

// Show replaces the current toast and restarts the expiry timer.
func (n *Notifier) Show(message string, severity Severity) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
	}
	n.state = State{Visible: true, Message: message, Severity: severity}
	gen := n.gen
	n.timer = time.AfterFunc(n.duration, func() {
		n.expire(gen)
	})
}

// Dismiss clears the slot before the timer fires.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	last := n.state
	n.state = State{}
	fn := n.onDismiss
	n.mu.Unlock()

	if fn != nil && last.Visible {
		fn(last)
	}
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.state.Visible {
		// superseded by a newer Show or an explicit Dismiss
		n.mu.Unlock()
		return
	}
	last := n.state
	n.state = State{}
	n.timer = nil
	fn := n.onDismiss
	n.mu.Unlock()

	if fn != nil {
		fn(last)
	}
}

// Current returns a snapshot of the slot.
func (n *Notifier) Current() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Close stops any pending timer. The notifier must not be used afterwards.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
	n.state = State{}
}
