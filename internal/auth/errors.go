package auth

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCredential covers every authentication failure the client may
// not distinguish: unknown identifier, wrong password, unreachable account
// store. Collapsing them prevents user enumeration.
var ErrInvalidCredential = errors.New("invalid credentials")

// ErrProfileInactive is returned when credentials verify but the account
// profile is missing or deactivated. Handlers surface it exactly like
// ErrInvalidCredential; the distinction exists for logging.
var ErrProfileInactive = errors.New("account inactive or missing")

// ErrSessionPersist is returned when the session row could not be written
// after successful credential verification. The auth grant established
// during verification has been torn down by the time this is returned.
var ErrSessionPersist = errors.New("session could not be persisted")

// LockoutError rejects a login purely on rate-limiting grounds, before any
// store is contacted. RetryAfter is how long until the identifier may try
// again.
type LockoutError struct {
	RetryAfter time.Duration
}

func (e *LockoutError) Error() string {
	return fmt.Sprintf("too many failed attempts, retry in %s", e.RetryAfter.Round(time.Second))
}
