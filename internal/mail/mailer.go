// Package mail defines the outbound mail collaborator. Delivery
// guarantees (retry, backoff) belong to the implementation behind the
// interface, not to the callers.
package mail

import "context"

// Message is a plain-text mail ready to send.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Mailer sends messages.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
