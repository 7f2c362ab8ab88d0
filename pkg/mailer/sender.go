package mailer

import "context"

// Sender is implemented by email providers.
// It accepts a fully-prepared Email and handles delivery.
type Sender interface {
	// Send delivers an email message.
	// The Email must have To, Subject, and HTML already set.
	Send(ctx context.Context, email *Email) error
}
