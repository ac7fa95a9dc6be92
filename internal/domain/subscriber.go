package domain

import "time"

// Subscriber is a newsletter signup. Unsubscribing flips Active off;
// re-subscribing the same email reactivates the row rather than
// duplicating it.
type Subscriber struct {
	Email        string
	Active       bool
	SubscribedAt time.Time
}
