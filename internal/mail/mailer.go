// Package mail delivers finished reports over SMTP. The audit engine
// never imports this; only the delivery worker does.
package mail

import "context"

type (
	// Report is one deliverable: the plaintext body, an optional
	// document attachment and the recipient lists, passed through
	// from the run configuration unaltered.
	Report struct {
		Date              string
		Body              string
		AttachmentName    string
		Attachment        []byte
		PrimaryRecipients []string
		CCRecipients      []string
	}

	Mailer interface {
		Send(ctx context.Context, r Report) error
	}
)
