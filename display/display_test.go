// SPDX-License-Identifier: GPL-3.0-only

package display

import (
	"errors"
	"sync"
	"testing"
	"time"

	"dandi-server/notify"
)

type fakeNotifier struct {
	mu         sync.Mutex
	messages   []string
	severities []notify.Severity
}

func (f *fakeNotifier) Show(message string, severity notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	f.severities = append(f.severities, severity)
}

func (f *fakeNotifier) last() (string, notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return "", ""
	}
	return f.messages[len(f.messages)-1], f.severities[len(f.severities)-1]
}

type failingClipboard struct{}

func (failingClipboard) WriteText(string) error {
	return errors.New("denied")
}

func TestMaskKeepsPrefixAndHidesRest(t *testing.T) {
	got := Mask("dandi-abc123")
	if got != "dandi-******" {
		t.Errorf("Expected 'dandi-******', got %q", got)
	}
}

func TestMaskWithoutPrefixHidesEverything(t *testing.T) {
	got := Mask("foo-123")
	if got != "*******" {
		t.Errorf("Expected seven asterisks, got %q", got)
	}
}

func TestMaskEmptyRemainder(t *testing.T) {
	got := Mask("dandi-")
	if got != "dandi-" {
		t.Errorf("Expected bare prefix, got %q", got)
	}
}

func TestToggleRevealFlips(t *testing.T) {
	s := NewState(NewMemoryClipboard(), &fakeNotifier{}, time.Minute)
	defer s.Close()

	if s.Revealed(1) {
		t.Error("Keys should start hidden")
	}
	if !s.ToggleReveal(1) {
		t.Error("First toggle should reveal")
	}
	if s.ToggleReveal(1) {
		t.Error("Second toggle should hide again")
	}
	if s.Revealed(2) {
		t.Error("Toggling one key must not affect another")
	}
}

func TestCopySetsMarkerAndNotifies(t *testing.T) {
	clip := NewMemoryClipboard()
	fn := &fakeNotifier{}
	s := NewState(clip, fn, time.Minute)
	defer s.Close()

	if err := s.CopyToClipboard("dandi-abc123", 7); err != nil {
		t.Fatalf("CopyToClipboard failed: %v", err)
	}

	if clip.Text() != "dandi-abc123" {
		t.Errorf("Clipboard holds %q, expected the full secret", clip.Text())
	}
	id, ok := s.Copied()
	if !ok || id != 7 {
		t.Errorf("Expected copied marker on key 7, got (%d, %v)", id, ok)
	}
	msg, sev := fn.last()
	if msg != "Copied API Key to clipboard" || sev != notify.SeveritySuccess {
		t.Errorf("Unexpected notification: %q / %s", msg, sev)
	}
}

func TestCopyMarkerAutoReverts(t *testing.T) {
	s := NewState(NewMemoryClipboard(), &fakeNotifier{}, 10*time.Millisecond)
	defer s.Close()

	if err := s.CopyToClipboard("dandi-abc123", 7); err != nil {
		t.Fatalf("CopyToClipboard failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := s.Copied(); !ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("Copied marker never reverted")
		}
		time.Sleep(2 * time.Millisecond)
	}
}

func TestNewCopySupersedesMarker(t *testing.T) {
	s := NewState(NewMemoryClipboard(), &fakeNotifier{}, 100*time.Millisecond)
	defer s.Close()

	if err := s.CopyToClipboard("dandi-aaa1111111", 1); err != nil {
		t.Fatalf("CopyToClipboard failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if err := s.CopyToClipboard("dandi-bbb2222222", 2); err != nil {
		t.Fatalf("CopyToClipboard failed: %v", err)
	}
	time.Sleep(60 * time.Millisecond)

	// 120ms after the first copy, 60ms after the second: the marker must
	// still point at key 2.
	id, ok := s.Copied()
	if !ok || id != 2 {
		t.Errorf("Expected marker on key 2, got (%d, %v)", id, ok)
	}
}

func TestCopyFailureLeavesMarkerUnset(t *testing.T) {
	fn := &fakeNotifier{}
	s := NewState(failingClipboard{}, fn, time.Minute)
	defer s.Close()

	err := s.CopyToClipboard("dandi-abc123", 7)
	if !errors.Is(err, ErrClipboardFailed) {
		t.Fatalf("Expected ErrClipboardFailed, got %v", err)
	}

	if _, ok := s.Copied(); ok {
		t.Error("Copied marker must stay unset when the clipboard fails")
	}
	msg, sev := fn.last()
	if msg != "Failed to copy to clipboard" || sev != notify.SeverityError {
		t.Errorf("Unexpected notification: %q / %s", msg, sev)
	}
}
