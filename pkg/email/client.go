package email

import (
	"context"
	"crypto/tls"
	"io"
	"strings"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/hawkstone-global/hawkstone_backend/config"
)

const provider = "gomail/smtp"

type Client struct {
	cfg Config
}

var _ Sender = (*Client)(nil)

// NewFromCentral creates a new email client from central config
func NewFromCentral(cfg config.EmailConfig) (*Client, error) {
	return New(FromCentralConfig(cfg))
}

func New(cfg Config) (*Client, error) {
	return &Client{cfg: cfg}, nil
}

// Configured reports whether SMTP credentials are present.
func (c *Client) Configured() bool {
	return strings.TrimSpace(c.cfg.SMTPUsername) != "" && c.cfg.SMTPPassword != ""
}

// Config returns the client's configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// Send composes m and delivers it over a freshly dialed SMTP connection.
//
// gomail offers no way to abort an exchange in flight, so when ctx or the
// SMTP timeout fires first Send returns immediately and the dial/send
// goroutine is left to finish (or fail) on its own.
func (c *Client) Send(ctx context.Context, m Message) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}
	if !c.Configured() {
		return ErrNotConfigured{}
	}

	msg, err := buildMessage(c.cfg.Sender(), m)
	if err != nil {
		return err
	}

	d := c.newDialer()
	return c.race(ctx, func() error {
		return d.DialAndSend(msg)
	})
}

// Verify dials and authenticates against the SMTP server, then hangs up.
func (c *Client) Verify(ctx context.Context) error {
	if !c.cfg.Enabled {
		return ErrDisabled{}
	}
	if !c.Configured() {
		return ErrNotConfigured{}
	}

	d := c.newDialer()
	return c.race(ctx, func() error {
		sc, err := d.Dial()
		if err != nil {
			return err
		}
		return sc.Close()
	})
}

func (c *Client) race(ctx context.Context, fn func() error) error {
	// Never start an exchange that could outlive an already expired caller.
	if err := ctx.Err(); err != nil {
		return err
	}

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	// Respect ctx deadline if it's sooner than our config timeout.
	wait := c.cfg.SMTPTimeout()
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 && d < wait {
			wait = d
		}
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return ErrSend{Provider: provider, Err: err}
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return context.DeadlineExceeded
	}
}

func (c *Client) newDialer() *gomail.Dialer {
	d := gomail.NewDialer(c.cfg.SMTPHost, c.cfg.SMTPPort, c.cfg.SMTPUsername, c.cfg.SMTPPassword)

	// Implicit TLS only when asked for; otherwise gomail upgrades with STARTTLS.
	d.SSL = c.cfg.SMTPUseSSL
	d.TLSConfig = &tls.Config{ServerName: c.cfg.SMTPHost, MinVersion: tls.VersionTLS12}

	return d
}

func buildMessage(from string, m Message) (*gomail.Message, error) {
	msg := gomail.NewMessage()

	// From
	from = strings.TrimSpace(from)
	if from == "" {
		return nil, ErrInvalidMessage{Reason: "from is required"}
	}
	msg.SetHeader("From", from)

	// Recipients
	to := cleanAddrs(m.To)
	if len(to) == 0 {
		return nil, ErrInvalidMessage{Reason: "at least one recipient is required"}
	}
	msg.SetHeader("To", to...)
	if cc := cleanAddrs(m.CC); len(cc) > 0 {
		msg.SetHeader("Cc", cc...)
	}
	if bcc := cleanAddrs(m.BCC); len(bcc) > 0 {
		msg.SetHeader("Bcc", bcc...)
	}
	if rt := strings.TrimSpace(m.ReplyTo); rt != "" {
		msg.SetHeader("Reply-To", rt)
	}

	// Subject
	subj := strings.TrimSpace(m.Subject)
	if subj == "" {
		return nil, ErrInvalidMessage{Reason: "subject is required"}
	}
	msg.SetHeader("Subject", subj)

	// Extra headers
	for k, v := range m.Headers {
		k = strings.TrimSpace(k)
		v = strings.TrimSpace(v)
		if k == "" || v == "" {
			continue
		}
		msg.SetHeader(k, v)
	}

	// Body
	hasText := strings.TrimSpace(m.TextBody) != ""
	hasHTML := strings.TrimSpace(m.HTMLBody) != ""

	switch {
	case hasText && hasHTML:
		msg.SetBody("text/plain", m.TextBody)
		msg.AddAlternative("text/html", m.HTMLBody)
	case hasHTML:
		msg.SetBody("text/html", m.HTMLBody)
	case hasText:
		msg.SetBody("text/plain", m.TextBody)
	default:
		return nil, ErrInvalidMessage{Reason: "either TextBody or HTMLBody is required"}
	}

	for _, a := range m.Attachments {
		attach(msg, a)
	}

	return msg, nil
}

func attach(msg *gomail.Message, a Attachment) {
	data := a.Data
	settings := []gomail.FileSetting{
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(data)
			return err
		}),
	}
	if ct := strings.TrimSpace(a.ContentType); ct != "" {
		settings = append(settings, gomail.SetHeader(map[string][]string{
			"Content-Type": {ct},
		}))
	}
	msg.Attach(a.Filename, settings...)
}

func cleanAddrs(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
