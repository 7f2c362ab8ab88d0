package mailer

import "fmt"

// Address formats a display name and email into RFC 5322 form.
// Returns "Name <email>" if name is provided, otherwise just email.
func Address(name, email string) string {
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully-prepared message ready for a Sender.
type Email struct {
	Headers map[string]string // Custom headers
	Subject string
	HTML    string
	Text    string // Plain text alternative
	From    string // Overrides the provider's default sender
	ReplyTo string
	To      []string // At least one required
	Tags    []string // Provider tags, for analytics
}
