package relay

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
)

type fakeSender struct {
	mu          sync.Mutex
	configured  bool
	sendErr     error
	verifyErr   error
	block       bool
	slowVerify  bool
	verifyCalls int
	sendCalls   int
	sent        []email.Message
}

func (f *fakeSender) Configured() bool { return f.configured }

func (f *fakeSender) Verify(ctx context.Context) error {
	f.mu.Lock()
	f.verifyCalls++
	f.mu.Unlock()
	if f.slowVerify {
		<-ctx.Done()
		return nil
	}
	return f.verifyErr
}

func (f *fakeSender) Send(ctx context.Context, m email.Message) error {
	f.mu.Lock()
	f.sendCalls++
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, m)
	return nil
}

func (f *fakeSender) sends() []email.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]email.Message(nil), f.sent...)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(s *fakeSender, opts Options) Service {
	if len(opts.Recipients) == 0 {
		opts.Recipients = []string{"inbox@example.com"}
	}
	return New(s, opts, quietLogger())
}

func validContact() ContactRequest {
	return ContactRequest{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Service: "contract-staffing",
		Message: "We need five contractors.",
	}
}

func validCareer() CareerRequest {
	return CareerRequest{
		FirstName: "Grace",
		LastName:  "Hopper",
		Email:     "grace@example.com",
		Phone:     "2079460958",
		JobTitle:  "Data Engineer",
		Consent1:  true,
	}
}

func TestSubmitContact_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *ContactRequest)
		want   string
	}{
		{"name", func(r *ContactRequest) { r.Name = "" }, "name"},
		{"email", func(r *ContactRequest) { r.Email = "" }, "email"},
		{"service", func(r *ContactRequest) { r.Service = "" }, "service"},
		{"message whitespace", func(r *ContactRequest) { r.Message = "   " }, "message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSender{configured: true}
			svc := newTestService(s, Options{VerifyBeforeSend: true})

			req := validContact()
			tt.mutate(&req)

			err := svc.SubmitContact(context.Background(), req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("SubmitContact() error = %v, want ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0] != tt.want {
				t.Errorf("Fields = %v, want [%s]", vErr.Fields, tt.want)
			}
			if len(s.sends()) != 0 || s.verifyCalls != 0 {
				t.Error("transport was used for an invalid submission")
			}
		})
	}
}

func TestSubmitCareer_MissingFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *CareerRequest)
		want   string
	}{
		{"firstName", func(r *CareerRequest) { r.FirstName = "" }, "firstName"},
		{"lastName", func(r *CareerRequest) { r.LastName = "" }, "lastName"},
		{"email", func(r *CareerRequest) { r.Email = "" }, "email"},
		{"phone", func(r *CareerRequest) { r.Phone = "" }, "phone"},
		{"jobTitle", func(r *CareerRequest) { r.JobTitle = "" }, "jobTitle"},
		{"consent1", func(r *CareerRequest) { r.Consent1 = false }, "consent1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSender{configured: true}
			svc := newTestService(s, Options{})

			req := validCareer()
			tt.mutate(&req)

			err := svc.SubmitCareer(context.Background(), req)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("SubmitCareer() error = %v, want ValidationError", err)
			}
			if len(vErr.Fields) != 1 || vErr.Fields[0] != tt.want {
				t.Errorf("Fields = %v, want [%s]", vErr.Fields, tt.want)
			}
			if len(s.sends()) != 0 {
				t.Error("send attempted for an invalid submission")
			}
		})
	}
}

func TestSubmit_NotConfigured(t *testing.T) {
	s := &fakeSender{configured: false}
	svc := newTestService(s, Options{VerifyBeforeSend: true})

	if err := svc.SubmitContact(context.Background(), validContact()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SubmitContact() error = %v, want ErrConfiguration", err)
	}
	if err := svc.SubmitCareer(context.Background(), validCareer()); !errors.Is(err, ErrConfiguration) {
		t.Errorf("SubmitCareer() error = %v, want ErrConfiguration", err)
	}
	if len(s.sends()) != 0 || s.verifyCalls != 0 {
		t.Error("transport was used without credentials")
	}
}

func TestSubmit_ValidationBeforeConfiguration(t *testing.T) {
	s := &fakeSender{configured: false}
	svc := newTestService(s, Options{})

	req := validContact()
	req.Email = ""

	var vErr *ValidationError
	if err := svc.SubmitContact(context.Background(), req); !errors.As(err, &vErr) {
		t.Fatalf("SubmitContact() error = %v, want ValidationError", err)
	}
}

func TestSubmitContact_ServiceLabelInSubject(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"contract-staffing", "New Contact Form Submission - Contract & Temporary Staffing"},
		{"managed-services", "New Contact Form Submission - Managed Services (SOW)"},
		{"underwater-basket-weaving", "New Contact Form Submission - underwater-basket-weaving"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s := &fakeSender{configured: true}
			svc := newTestService(s, Options{})

			req := validContact()
			req.Service = tt.code
			if err := svc.SubmitContact(context.Background(), req); err != nil {
				t.Fatalf("SubmitContact() error = %v", err)
			}

			sent := s.sends()
			if len(sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sent))
			}
			if sent[0].Subject != tt.want {
				t.Errorf("Subject = %q, want %q", sent[0].Subject, tt.want)
			}
			if sent[0].To[0] != "inbox@example.com" {
				t.Errorf("To = %v", sent[0].To)
			}
		})
	}
}

func TestSubmitCareer_ResumeAttachment(t *testing.T) {
	payload := []byte("%PDF-1.7 pretend resume")
	encoded := base64.StdEncoding.EncodeToString(payload)

	s := &fakeSender{configured: true}
	svc := newTestService(s, Options{})

	req := validCareer()
	req.ResumeFileName = "grace-hopper.pdf"
	req.ResumeData = "data:application/pdf;base64," + encoded

	if err := svc.SubmitCareer(context.Background(), req); err != nil {
		t.Fatalf("SubmitCareer() error = %v", err)
	}

	sent := s.sends()
	if len(sent) != 1 || len(sent[0].Attachments) != 1 {
		t.Fatalf("expected one message with one attachment, got %+v", sent)
	}
	att := sent[0].Attachments[0]
	if att.Filename != "grace-hopper.pdf" {
		t.Errorf("Filename = %q", att.Filename)
	}
	if att.ContentType != "application/pdf" {
		t.Errorf("ContentType = %q", att.ContentType)
	}
	if string(att.Data) != string(payload) {
		t.Errorf("Data = %q, want %q", att.Data, payload)
	}
	if sent[0].Subject != "New Career Application - Data Engineer" {
		t.Errorf("Subject = %q", sent[0].Subject)
	}
}

func TestSubmitCareer_BadResumeStillSends(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no comma", "not-a-data-url"},
		{"bad base64", "data:application/pdf;base64,@@@@"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &fakeSender{configured: true}
			svc := newTestService(s, Options{})

			req := validCareer()
			req.ResumeFileName = "cv.pdf"
			req.ResumeData = tt.data

			if err := svc.SubmitCareer(context.Background(), req); err != nil {
				t.Fatalf("SubmitCareer() error = %v", err)
			}
			sent := s.sends()
			if len(sent) != 1 {
				t.Fatalf("sent %d messages, want 1", len(sent))
			}
			if len(sent[0].Attachments) != 0 {
				t.Error("expected no attachment for undecodable resume")
			}
		})
	}
}

func TestSubmitCareer_ResumeNeedsFileName(t *testing.T) {
	s := &fakeSender{configured: true}
	svc := newTestService(s, Options{})

	req := validCareer()
	req.ResumeData = "data:text/plain;base64," + base64.StdEncoding.EncodeToString([]byte("cv"))

	if err := svc.SubmitCareer(context.Background(), req); err != nil {
		t.Fatalf("SubmitCareer() error = %v", err)
	}
	if n := len(s.sends()[0].Attachments); n != 0 {
		t.Errorf("attachments = %d, want 0", n)
	}
}

func TestSubmit_SendFailure(t *testing.T) {
	s := &fakeSender{configured: true, sendErr: errors.New("535 authentication failed")}
	svc := newTestService(s, Options{})

	err := svc.SubmitContact(context.Background(), validContact())
	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("SubmitContact() error = %v, want TransportError", err)
	}
	if tErr.Op != "send" {
		t.Errorf("Op = %q, want send", tErr.Op)
	}
	if err.Error() == "" {
		t.Error("empty error message")
	}
}

func TestSubmit_VerifyToggle(t *testing.T) {
	t.Run("verify enabled and failing", func(t *testing.T) {
		s := &fakeSender{configured: true, verifyErr: errors.New("dial tcp: refused")}
		svc := newTestService(s, Options{VerifyBeforeSend: true})

		err := svc.SubmitContact(context.Background(), validContact())
		var tErr *TransportError
		if !errors.As(err, &tErr) || tErr.Op != "verify" {
			t.Fatalf("SubmitContact() error = %v, want verify TransportError", err)
		}
		if len(s.sends()) != 0 {
			t.Error("send attempted after failed verify")
		}
	})

	t.Run("verify disabled", func(t *testing.T) {
		s := &fakeSender{configured: true, verifyErr: errors.New("should not be called")}
		svc := newTestService(s, Options{VerifyBeforeSend: false})

		if err := svc.SubmitContact(context.Background(), validContact()); err != nil {
			t.Fatalf("SubmitContact() error = %v", err)
		}
		if s.verifyCalls != 0 {
			t.Errorf("verify called %d times, want 0", s.verifyCalls)
		}
	})
}

func TestSubmit_Timeout(t *testing.T) {
	s := &fakeSender{configured: true, block: true}
	svc := newTestService(s, Options{SendTimeout: 50 * time.Millisecond})

	start := time.Now()
	err := svc.SubmitCareer(context.Background(), validCareer())

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("SubmitCareer() error = %v, want TransportError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error %v does not wrap context.DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("took %v, expected the send timeout to bound it", elapsed)
	}
}

func TestSubmit_DisabledTransportIsConfigurationError(t *testing.T) {
	s := &fakeSender{configured: true, sendErr: email.ErrDisabled{}}
	svc := newTestService(s, Options{})

	if err := svc.SubmitContact(context.Background(), validContact()); !errors.Is(err, ErrConfiguration) {
		t.Fatalf("SubmitContact() error = %v, want ErrConfiguration", err)
	}
}

func TestSubmit_NoDeduplication(t *testing.T) {
	s := &fakeSender{configured: true}
	svc := newTestService(s, Options{})

	for i := 0; i < 2; i++ {
		if err := svc.SubmitContact(context.Background(), validContact()); err != nil {
			t.Fatalf("SubmitContact() #%d error = %v", i+1, err)
		}
	}
	if n := len(s.sends()); n != 2 {
		t.Errorf("sent %d messages, want 2", n)
	}
}

func TestSubmitCareer_PhoneFormatting(t *testing.T) {
	s := &fakeSender{configured: true}
	svc := newTestService(s, Options{})

	req := validCareer()
	req.CountryCode = "+44"

	if err := svc.SubmitCareer(context.Background(), req); err != nil {
		t.Fatalf("SubmitCareer() error = %v", err)
	}
	if body := s.sends()[0].HTMLBody; !strings.Contains(body, "+44 20 7946 0958") {
		t.Error("career email missing formatted phone number")
	}
}

func TestServiceLabel(t *testing.T) {
	for code, label := range serviceLabels {
		if got := ServiceLabel(code); got != label {
			t.Errorf("ServiceLabel(%q) = %q, want %q", code, got, label)
		}
	}
	if got := ServiceLabel("bespoke"); got != "bespoke" {
		t.Errorf("ServiceLabel(bespoke) = %q", got)
	}
}

func TestSubmit_AllRecipients(t *testing.T) {
	recipients := email.Config{Recipient: "hr@example.com, ops@example.com"}.To()

	s := &fakeSender{configured: true}
	svc := newTestService(s, Options{Recipients: recipients})

	if err := svc.SubmitContact(context.Background(), validContact()); err != nil {
		t.Fatalf("SubmitContact() error = %v", err)
	}
	if err := svc.SubmitCareer(context.Background(), validCareer()); err != nil {
		t.Fatalf("SubmitCareer() error = %v", err)
	}

	sent := s.sends()
	if len(sent) != 2 {
		t.Fatalf("sent %d messages, want 2", len(sent))
	}
	for _, m := range sent {
		if len(m.To) != 2 || m.To[0] != "hr@example.com" || m.To[1] != "ops@example.com" {
			t.Errorf("%q: To = %v", m.Subject, m.To)
		}
	}
}

func TestSubmit_NoSendAfterDeadlineSpentOnVerify(t *testing.T) {
	s := &fakeSender{configured: true, slowVerify: true}
	svc := newTestService(s, Options{SendTimeout: 50 * time.Millisecond, VerifyBeforeSend: true})

	err := svc.SubmitContact(context.Background(), validContact())

	var tErr *TransportError
	if !errors.As(err, &tErr) {
		t.Fatalf("SubmitContact() error = %v, want TransportError", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want it to wrap context.DeadlineExceeded", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendCalls != 0 {
		t.Errorf("Send called %d times after the deadline", s.sendCalls)
	}
}
