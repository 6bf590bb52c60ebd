// SPDX-License-Identifier: GPL-3.0-only

// Package display tracks per-key presentation state that never touches
// persistence: reveal toggles, secret masking and the transient
// copied-to-clipboard marker. Everything is keyed by record ID, not content.
package display

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dandi-server/notify"
)

const SecretPrefix = "dandi-"

// DefaultCopyFeedback is how long the copied marker stays on a key.
const DefaultCopyFeedback = 2000 * time.Millisecond

var ErrClipboardFailed = errors.New("clipboard write failed")

// Clipboard is the external copy target. The system clipboard is one
// implementation; tests and the server use an in-memory one.
type Clipboard interface {
	WriteText(text string) error
}

// MemoryClipboard keeps the last written text. It never fails.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
}

func NewMemoryClipboard() *MemoryClipboard {
	return &MemoryClipboard{}
}

func (m *MemoryClipboard) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.text = text
	return nil
}

func (m *MemoryClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}

// Mask hides everything after the fixed secret prefix, one asterisk per
// remaining byte. Secrets without the prefix are hidden entirely.
func Mask(secret string) string {
	rest, ok := strings.CutPrefix(secret, SecretPrefix)
	if !ok {
		return strings.Repeat("*", len(secret))
	}
	return SecretPrefix + strings.Repeat("*", len(rest))
}

type Notifier interface {
	Show(message string, severity notify.Severity)
}

type State struct {
	mu        sync.Mutex
	revealed  map[uint]bool
	copiedID  uint
	copiedSet bool
	gen       uint64
	timer     *time.Timer
	feedback  time.Duration
	clipboard Clipboard
	notifier  Notifier
}

func NewState(clipboard Clipboard, notifier Notifier, feedback time.Duration) *State {
	if feedback <= 0 {
		feedback = DefaultCopyFeedback
	}
	return &State{
		revealed:  make(map[uint]bool),
		feedback:  feedback,
		clipboard: clipboard,
		notifier:  notifier,
	}
}

// ToggleReveal flips the reveal flag for one key and reports the new value.
func (s *State) ToggleReveal(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.revealed[id] = !s.revealed[id]
	return s.revealed[id]
}

func (s *State) Revealed(id uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.revealed[id]
}

// CopyToClipboard writes the full secret to the clipboard collaborator and,
// on success, marks the key as just-copied until the feedback window lapses
// or another copy supersedes it.
func (s *State) CopyToClipboard(secret string, id uint) error {
	if err := s.clipboard.WriteText(secret); err != nil {
		s.notifier.Show("Failed to copy to clipboard", notify.SeverityError)
		return fmt.Errorf("%w: %v", ErrClipboardFailed, err)
	}

	s.mu.Lock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
	}
	s.copiedID = id
	s.copiedSet = true
	gen := s.gen
	s.timer = time.AfterFunc(s.feedback, func() {
		s.clearCopied(gen)
	})
	s.mu.Unlock()

	s.notifier.Show("Copied API Key to clipboard", notify.SeveritySuccess)
	return nil
}

func (s *State) clearCopied(gen uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen {
		return
	}
	s.copiedSet = false
	s.copiedID = 0
	s.timer = nil
}

// Copied reports which key, if any, currently carries the copied marker.
func (s *State) Copied() (uint, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copiedID, s.copiedSet
}

// Close stops the pending feedback timer.
func (s *State) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.copiedSet = false
	s.copiedID = 0
}
