package game

import (
	"fmt"
	"strings"
	"time"

	cache "github.com/go-pkgz/expirable-cache/v3"
	"golang.org/x/term"
)

const (
	loginAttemptInterval = 10 * time.Second
	loginAttemptMaxKeys  = 16 * 1024
)

// loginRateLimiter tracks failed login attempts per username. The
// backing cache expires entries after loginAttemptInterval and caps the
// key count, so an attacker spamming unique usernames cannot grow it
// without bound.
type loginRateLimiter struct {
	attempts cache.Cache[string, time.Time]
}

func newLoginRateLimiter() *loginRateLimiter {
	return &loginRateLimiter{
		attempts: cache.NewCache[string, time.Time]().WithTTL(loginAttemptInterval).WithMaxKeys(loginAttemptMaxKeys),
	}
}

// waitIfNeeded blocks if a recent failed attempt exists for the
// username.
func (l *loginRateLimiter) waitIfNeeded(username string, t *term.Terminal) {
	if last, found := l.attempts.Get(strings.ToLower(username)); found {
		if wait := loginAttemptInterval - time.Since(last); wait > 0 {
			fmt.Fprintf(t, "Please wait %v before trying again.\n", wait.Round(time.Second))
			time.Sleep(wait)
		}
	}
}

// recordFailure records a failed login attempt for rate limiting.
func (l *loginRateLimiter) recordFailure(username string) {
	l.attempts.Set(strings.ToLower(username), time.Now(), 0)
}

// clearFailure removes the rate limit entry on successful login.
func (l *loginRateLimiter) clearFailure(username string) {
	l.attempts.Invalidate(strings.ToLower(username))
}
