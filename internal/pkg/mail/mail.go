// Package mail sends email through a provider-agnostic Mail interface;
// SMTP is the bundled implementation.
package mail

import (
	"context"
	"io"
)

// Message is a provider-agnostic email payload.
type Message struct {
	// From overrides the sender configured on the implementation.
	From string
	To   []string
	Cc   []string
	Bcc  []string

	Subject string
	// TextBody is sent alone, or as the first alternative when HTMLBody is set.
	TextBody string
	HTMLBody string
}

// Mail abstracts an email provider.
type Mail interface {
	io.Closer
	Send(ctx context.Context, msg Message) error
}
