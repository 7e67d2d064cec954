// Package policy implements the password policy engine.
//
// The identity store only depends on the Engine interface, so any engine
// exposing the same check/generate contract is substitutable.
package policy

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/authvault/authvault/internal/config"
)

// Engine validates candidate passwords and generates compliant ones.
type Engine interface {
	// Check reports whether password satisfies the policy. On rejection the
	// returned feedback lists every violated rule in human-readable form.
	Check(password string) (bool, []string)

	// Generate returns a random password of the given length that satisfies
	// the policy.
	Generate(length int) string
}

// Checker is the default policy engine.
type Checker struct {
	cfg config.Policy
}

// New creates the default policy engine from configuration.
func New(cfg config.Policy) *Checker {
	return &Checker{cfg: cfg}
}

// Check validates a password against the configured policy. It does not
// mutate input. Character counts use runes, not bytes, to be user-friendly.
func (c *Checker) Check(password string) (bool, []string) {
	var feedback []string

	if utf8.RuneCountInString(password) < c.cfg.MinLength {
		feedback = append(feedback, fmt.Sprintf("password must be at least %d characters long", c.cfg.MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSymbol bool

	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSymbol = true
		}
	}

	if c.cfg.RequireUpper && !hasUpper {
		feedback = append(feedback, "password must contain an uppercase letter")
	}

	if c.cfg.RequireLower && !hasLower {
		feedback = append(feedback, "password must contain a lowercase letter")
	}

	if c.cfg.RequireDigit && !hasDigit {
		feedback = append(feedback, "password must contain a digit")
	}

	if c.cfg.RequireSymbol && !hasSymbol {
		feedback = append(feedback, "password must contain a special character")
	}

	return len(feedback) == 0, feedback
}
