package domain

import "time"

// SubscriptionTerm is how long a payment keeps a subscriber active.
const SubscriptionTerm = 30 * 24 * time.Hour

// Subscriber is a chat user who may opt in to convergent-buy alerts.
// The pipeline only reads the notify bits and the validity predicate.
type Subscriber struct {
	UserID           int64
	NotifyInfluencer bool
	NotifySmart      bool
	PaymentDate      time.Time
}

// PaymentValid reports whether the subscription is still inside its term
// at the given instant.
func (s *Subscriber) PaymentValid(now time.Time) bool {
	return now.Sub(s.PaymentDate) <= SubscriptionTerm
}
