// SPDX-License-Identifier: GPL-3.0-only

// Package gate implements the playground entry flow: a candidate key is
// submitted, shape-checked, and on acceptance exchanged for a short-lived
// signed session token that the protected view verifies before unlocking.
// The token replaces the ambient per-tab storage a browser client would use
// to carry the key between the two views.
package gate

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"dandi-server/commons"
	"dandi-server/notify"

	"github.com/golang-jwt/jwt/v5"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseValidating
	PhaseAccepted
	PhaseRejected
)

const (
	SecretPrefix = "dandi-"

	// Candidates at or below this length are rejected regardless of prefix.
	minCandidateLength = 10

	// DefaultRedirectDelay is how long an accepted submission waits before
	// the navigate callback fires.
	DefaultRedirectDelay = 1500 * time.Millisecond

	// DefaultTokenTTL bounds how long an accepted candidate stays usable.
	DefaultTokenTTL = 10 * time.Minute

	SubmitPath    = "/v1/playground"
	ProtectedPath = "/v1/protected"
)

var ErrValidation = errors.New("error validating API key")

// Validate is the shape check applied to every candidate: the fixed prefix
// plus a minimum length. It does not prove the key was ever issued.
func Validate(candidate string) bool {
	return strings.HasPrefix(candidate, SecretPrefix) && len(candidate) > minCandidateLength
}

// Outcome is the transient result of one submission.
type Outcome struct {
	Accepted     bool
	Reason       string
	SessionToken string
}

// Entry is the protected view's admission decision.
type Entry struct {
	Unlocked bool
	Key      string
	Redirect string
}

type Notifier interface {
	Show(message string, severity notify.Severity)
	Dismiss()
}

type Gate struct {
	mu       sync.Mutex
	phase    Phase
	notifier Notifier
	navigate func(target string)
	delay    time.Duration
	tokenTTL time.Duration
	timer    *time.Timer
	gen      uint64
}

// NewGate wires the gate to its notifier and a navigate callback invoked
// with the target path when a redirect is due.
func NewGate(notifier Notifier, navigate func(target string), delay time.Duration) *Gate {
	if delay <= 0 {
		delay = DefaultRedirectDelay
	}
	return &Gate{
		phase:    PhaseIdle,
		notifier: notifier,
		navigate: navigate,
		delay:    delay,
		tokenTTL: DefaultTokenTTL,
	}
}

func (g *Gate) Phase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.phase
}

// Delay reports how long acceptance waits before navigating.
func (g *Gate) Delay() time.Duration {
	return g.delay
}

// Submit runs the shape check on a candidate key. Acceptance mints a signed
// session token and schedules navigation to the protected view; rejection
// raises an error toast and stays put.
func (g *Gate) Submit(candidate string) Outcome {
	g.mu.Lock()
	g.phase = PhaseValidating
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
	g.mu.Unlock()

	if !Validate(candidate) {
		g.mu.Lock()
		g.phase = PhaseRejected
		g.mu.Unlock()
		g.notifier.Show("Invalid API key", notify.SeverityError)
		return Outcome{Accepted: false, Reason: "Invalid API key"}
	}

	token, err := g.mintToken(candidate)
	if err != nil {
		g.mu.Lock()
		g.phase = PhaseRejected
		g.mu.Unlock()
		g.notifier.Show("Error validating API key", notify.SeverityError)
		return Outcome{Accepted: false, Reason: "Error validating API key"}
	}

	g.mu.Lock()
	g.phase = PhaseAccepted
	gen := g.gen
	g.timer = time.AfterFunc(g.delay, func() {
		g.fireNavigate(gen, ProtectedPath)
	})
	g.mu.Unlock()

	g.notifier.Show("Valid API key, /protected can be accessed", notify.SeveritySuccess)
	return Outcome{
		Accepted:     true,
		Reason:       "Valid API key, /protected can be accessed",
		SessionToken: token,
	}
}

// Enter is the protected view's admission check. An absent or unverifiable
// token sends the caller back to the submission view; a verified token is
// still re-run through the shape check before unlocking.
func (g *Gate) Enter(token string) Entry {
	if token == "" {
		return Entry{Redirect: SubmitPath}
	}
	candidate, err := g.VerifyToken(token)
	if err != nil {
		return Entry{Redirect: SubmitPath}
	}
	if !Validate(candidate) {
		return Entry{Redirect: SubmitPath}
	}
	return Entry{Unlocked: true, Key: candidate}
}

// DismissNotification clears the toast; while the last outcome was a
// rejection this also navigates back to the submission view. The overload
// is deliberate: dismissal is the rejected flow's only exit.
func (g *Gate) DismissNotification() {
	g.notifier.Dismiss()

	g.mu.Lock()
	rejected := g.phase == PhaseRejected
	if rejected {
		g.phase = PhaseIdle
	}
	nav := g.navigate
	g.mu.Unlock()

	if rejected && nav != nil {
		nav(SubmitPath)
	}
}

// Close cancels any pending navigation. Late timers become no-ops.
func (g *Gate) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.gen++
	if g.timer != nil {
		g.timer.Stop()
		g.timer = nil
	}
}

func (g *Gate) fireNavigate(gen uint64, target string) {
	g.mu.Lock()
	if gen != g.gen {
		g.mu.Unlock()
		return
	}
	g.timer = nil
	nav := g.navigate
	g.mu.Unlock()

	if nav != nil {
		nav(target)
	}
}

func (g *Gate) mintToken(candidate string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iat": now.Unix(),
		"exp": now.Add(g.tokenTTL).Unix(),
		"key": candidate,
	})
	signed, err := token.SignedString(signingSecret())
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return signed, nil
}

// VerifyToken checks the signature and expiry of a session token and
// returns the candidate key it carries.
func (g *Gate) VerifyToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return signingSecret(), nil
	})
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: invalid session token", ErrValidation)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("%w: malformed claims", ErrValidation)
	}
	candidate, ok := claims["key"].(string)
	if !ok || candidate == "" {
		return "", fmt.Errorf("%w: missing key claim", ErrValidation)
	}
	return candidate, nil
}

func signingSecret() []byte {
	return []byte(commons.GetEnv("JWT_SECRET", "default_very_secret_key"))
}
