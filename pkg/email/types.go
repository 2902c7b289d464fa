package email

import "context"

// Sender is the outbound transport the form relay hands composed messages to.
type Sender interface {
	Send(ctx context.Context, m Message) error
	Verify(ctx context.Context) error
	Configured() bool
}

type Message struct {
	To          []string
	CC          []string
	BCC         []string
	ReplyTo     string
	Subject     string
	TextBody    string
	HTMLBody    string
	Headers     map[string]string
	Attachments []Attachment
}

// Attachment is a file carried inline with the message.
type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}
