// SPDX-License-Identifier: GPL-3.0-only

package gate

import (
	"sync"
	"testing"
	"time"

	"dandi-server/notify"
)

type fakeNotifier struct {
	mu         sync.Mutex
	messages   []string
	severities []notify.Severity
	dismissed  int
}

func (f *fakeNotifier) Show(message string, severity notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
	f.severities = append(f.severities, severity)
}

func (f *fakeNotifier) Dismiss() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dismissed++
}

func (f *fakeNotifier) last() (string, notify.Severity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		return "", ""
	}
	return f.messages[len(f.messages)-1], f.severities[len(f.severities)-1]
}

type navRecorder struct {
	mu      sync.Mutex
	targets []string
}

func (r *navRecorder) navigate(target string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.targets = append(r.targets, target)
}

func (r *navRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.targets...)
}

func TestValidatePredicate(t *testing.T) {
	cases := []struct {
		candidate string
		want      bool
	}{
		{"dandi-1234567890", true},
		{"dandi-12", false},
		{"foo-1234567890", false},
		{"", false},
		{"dandi-12345", true},
		{"dandi-1234", false},
	}
	for _, tc := range cases {
		if got := Validate(tc.candidate); got != tc.want {
			t.Errorf("Validate(%q) = %v, want %v", tc.candidate, got, tc.want)
		}
	}
}

func TestSubmitAcceptMintsVerifiableToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	fn := &fakeNotifier{}
	g := NewGate(fn, nil, time.Minute)
	defer g.Close()

	outcome := g.Submit("dandi-1234567890")
	if !outcome.Accepted {
		t.Fatalf("Expected acceptance, got %+v", outcome)
	}
	if outcome.SessionToken == "" {
		t.Fatal("Accepted submission must carry a session token")
	}
	if g.Phase() != PhaseAccepted {
		t.Errorf("Expected PhaseAccepted, got %v", g.Phase())
	}

	candidate, err := g.VerifyToken(outcome.SessionToken)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if candidate != "dandi-1234567890" {
		t.Errorf("Token carries %q, expected the submitted candidate", candidate)
	}

	msg, sev := fn.last()
	if msg != "Valid API key, /protected can be accessed" || sev != notify.SeveritySuccess {
		t.Errorf("Unexpected notification: %q / %s", msg, sev)
	}
}

func TestSubmitRejectShortCandidate(t *testing.T) {
	fn := &fakeNotifier{}
	g := NewGate(fn, nil, time.Minute)
	defer g.Close()

	outcome := g.Submit("dandi-12")
	if outcome.Accepted {
		t.Fatal("Short candidate must be rejected")
	}
	if outcome.SessionToken != "" {
		t.Error("Rejected submission must not carry a token")
	}
	if g.Phase() != PhaseRejected {
		t.Errorf("Expected PhaseRejected, got %v", g.Phase())
	}

	msg, sev := fn.last()
	if msg != "Invalid API key" || sev != notify.SeverityError {
		t.Errorf("Unexpected notification: %q / %s", msg, sev)
	}
}

func TestSubmitRejectWrongPrefix(t *testing.T) {
	fn := &fakeNotifier{}
	g := NewGate(fn, nil, time.Minute)
	defer g.Close()

	if g.Submit("foo-1234567890").Accepted {
		t.Error("Wrong prefix must be rejected")
	}
}

func TestAcceptNavigatesAfterDelay(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	rec := &navRecorder{}
	g := NewGate(&fakeNotifier{}, rec.navigate, 10*time.Millisecond)
	defer g.Close()

	if !g.Submit("dandi-1234567890").Accepted {
		t.Fatal("Expected acceptance")
	}

	deadline := time.Now().Add(time.Second)
	for len(rec.all()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("Navigate callback never fired")
		}
		time.Sleep(2 * time.Millisecond)
	}
	if targets := rec.all(); targets[0] != ProtectedPath {
		t.Errorf("Expected navigation to %s, got %s", ProtectedPath, targets[0])
	}
}

func TestCloseCancelsPendingNavigation(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	rec := &navRecorder{}
	g := NewGate(&fakeNotifier{}, rec.navigate, 20*time.Millisecond)

	if !g.Submit("dandi-1234567890").Accepted {
		t.Fatal("Expected acceptance")
	}
	g.Close()
	time.Sleep(50 * time.Millisecond)

	if len(rec.all()) != 0 {
		t.Error("Navigation fired after Close")
	}
}

func TestEnterWithoutTokenRedirects(t *testing.T) {
	g := NewGate(&fakeNotifier{}, nil, time.Minute)
	defer g.Close()

	entry := g.Enter("")
	if entry.Unlocked {
		t.Fatal("Empty token must not unlock the protected view")
	}
	if entry.Redirect != SubmitPath {
		t.Errorf("Expected redirect to %s, got %s", SubmitPath, entry.Redirect)
	}
}

func TestEnterWithGarbageTokenRedirects(t *testing.T) {
	g := NewGate(&fakeNotifier{}, nil, time.Minute)
	defer g.Close()

	if g.Enter("not-a-token").Unlocked {
		t.Error("Unverifiable token must not unlock the protected view")
	}
}

func TestEnterWithValidTokenUnlocks(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	g := NewGate(&fakeNotifier{}, nil, time.Minute)
	defer g.Close()

	outcome := g.Submit("dandi-1234567890")
	if !outcome.Accepted {
		t.Fatal("Expected acceptance")
	}

	entry := g.Enter(outcome.SessionToken)
	if !entry.Unlocked {
		t.Fatalf("Valid token must unlock, got %+v", entry)
	}
	if entry.Key != "dandi-1234567890" {
		t.Errorf("Unlocked entry carries %q, expected the candidate", entry.Key)
	}
}

func TestEnterRejectsTokenSignedWithOtherSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	g := NewGate(&fakeNotifier{}, nil, time.Minute)
	outcome := g.Submit("dandi-1234567890")
	g.Close()
	if !outcome.Accepted {
		t.Fatal("Expected acceptance")
	}

	t.Setenv("JWT_SECRET", "rotated-secret")
	g2 := NewGate(&fakeNotifier{}, nil, time.Minute)
	defer g2.Close()

	if g2.Enter(outcome.SessionToken).Unlocked {
		t.Error("Token signed under a different secret must not unlock")
	}
}

func TestDismissAfterRejectionNavigatesBack(t *testing.T) {
	rec := &navRecorder{}
	fn := &fakeNotifier{}
	g := NewGate(fn, rec.navigate, time.Minute)
	defer g.Close()

	g.Submit("dandi-12")
	g.DismissNotification()

	targets := rec.all()
	if len(targets) != 1 || targets[0] != SubmitPath {
		t.Fatalf("Expected one navigation to %s, got %v", SubmitPath, targets)
	}
	if fn.dismissed != 1 {
		t.Errorf("Expected the toast to be dismissed once, got %d", fn.dismissed)
	}
	if g.Phase() != PhaseIdle {
		t.Errorf("Gate should return to PhaseIdle after the rejected dismissal, got %v", g.Phase())
	}
}

func TestDismissAfterAcceptanceDoesNotNavigate(t *testing.T) {
	t.Setenv("JWT_SECRET", "gate-test-secret")
	rec := &navRecorder{}
	g := NewGate(&fakeNotifier{}, rec.navigate, time.Minute)
	defer g.Close()

	g.Submit("dandi-1234567890")
	g.DismissNotification()

	for _, target := range rec.all() {
		if target == SubmitPath {
			t.Error("Dismissal after acceptance must not navigate back to submission")
		}
	}
}
