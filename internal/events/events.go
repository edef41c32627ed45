// Package events carries side effects out of the core operations. Instead of
// implicit framework signals, producers publish typed events on a Bus and
// listeners are registered explicitly at startup.
package events

import (
	"time"

	"github.com/waylo/waylo-api/pkg/logger"
)

// AccountCreated is published once per successful registration.
type AccountCreated struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// AccountCreatedListener reacts to a new account. Listener errors are logged
// and do not fail the registration that triggered them, except for listeners
// registered with SubscribeCritical.
type AccountCreatedListener func(AccountCreated) error

type Bus struct {
	critical []AccountCreatedListener
	best     []AccountCreatedListener
}

func NewBus() *Bus {
	return &Bus{}
}

// SubscribeCritical registers a listener whose failure fails the publish.
// The album auto-create listener is critical: an account without an album is
// an invariant violation.
func (b *Bus) SubscribeCritical(l AccountCreatedListener) {
	b.critical = append(b.critical, l)
}

// Subscribe registers a best-effort listener.
func (b *Bus) Subscribe(l AccountCreatedListener) {
	b.best = append(b.best, l)
}

// PublishAccountCreated runs listeners synchronously in registration order.
func (b *Bus) PublishAccountCreated(ev AccountCreated) error {
	for _, l := range b.critical {
		if err := l(ev); err != nil {
			return err
		}
	}
	for _, l := range b.best {
		if err := l(ev); err != nil {
			logger.Warn("account-created listener failed", "user_id", ev.UserID, "error", err)
		}
	}
	return nil
}
