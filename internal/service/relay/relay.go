package relay

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/hawkstone-global/hawkstone_backend/pkg/email"
	"github.com/hawkstone-global/hawkstone_backend/pkg/phone"
	"github.com/hawkstone-global/hawkstone_backend/pkg/reqctx"
)

const (
	FormContact = "contact"
	FormCareer  = "career"
)

// ---------------------------------------------------------------------------
// DTOs
// ---------------------------------------------------------------------------

type ContactRequest struct {
	Name    string
	Email   string
	Phone   string
	Company string
	Service string
	Message string
}

type CareerRequest struct {
	FirstName       string
	LastName        string
	Email           string
	CountryCode     string
	Phone           string
	JobTitle        string
	JobID           string
	Consent1        bool
	Consent2        bool
	LinkedInProfile string
	ResumeFileName  string
	ResumeFileType  string
	ResumeData      string
}

// Options parameterize the relay. Recipients should already have the
// fall-back-to-sender rule applied.
type Options struct {
	Recipients       []string
	AppName          string
	SendTimeout      time.Duration
	VerifyBeforeSend bool
}

// ---------------------------------------------------------------------------
// Interface
// ---------------------------------------------------------------------------

// Service relays website form submissions to the company inbox as email.
// Nothing is stored and nothing is deduplicated: every call that passes
// validation results in its own send attempt.
type Service interface {
	SubmitContact(ctx context.Context, req ContactRequest) error
	SubmitCareer(ctx context.Context, req CareerRequest) error
}

// ---------------------------------------------------------------------------
// Implementation
// ---------------------------------------------------------------------------

type relayService struct {
	mailer  email.Sender
	opts    Options
	log     *slog.Logger
	metrics *relayMetrics
}

func New(mailer email.Sender, opts Options, log *slog.Logger) Service {
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 8 * time.Second
	}
	if log == nil {
		log = slog.Default()
	}
	return &relayService{
		mailer:  mailer,
		opts:    opts,
		log:     log.With(slog.String("component", "relay")),
		metrics: newMetrics(),
	}
}

func (s *relayService) SubmitContact(ctx context.Context, req ContactRequest) error {
	req = req.normalized()
	log := s.logger(ctx, FormContact).With(slog.String("service", req.Service))
	log.Info("contact submission received")

	if missing := req.missing(); len(missing) > 0 {
		log.Info("contact submission rejected", slog.Any("missing", missing))
		s.metrics.record(ctx, FormContact, outcomeInvalid, 0)
		return &ValidationError{Fields: missing}
	}

	msg := email.BuildContactEmail(email.ContactEmailData{
		To:           s.opts.Recipients,
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Company:      req.Company,
		ServiceLabel: ServiceLabel(req.Service),
		Message:      req.Message,
		AppName:      s.opts.AppName,
	})

	return s.deliver(ctx, log, FormContact, msg)
}

func (s *relayService) SubmitCareer(ctx context.Context, req CareerRequest) error {
	req = req.normalized()
	log := s.logger(ctx, FormCareer).With(slog.String("job_title", req.JobTitle))
	log.Info("career application received")

	if missing := req.missing(); len(missing) > 0 {
		log.Info("career application rejected", slog.Any("missing", missing))
		s.metrics.record(ctx, FormCareer, outcomeInvalid, 0)
		return &ValidationError{Fields: missing}
	}

	data := email.CareerEmailData{
		To:                    s.opts.Recipients,
		JobTitle:              req.JobTitle,
		JobID:                 req.JobID,
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 phone.Format(req.CountryCode, req.Phone),
		LinkedInProfile:       req.LinkedInProfile,
		DataProcessingConsent: req.Consent1,
		DataRetentionConsent:  req.Consent2,
		AppName:               s.opts.AppName,
	}

	// A resume that cannot be decoded never blocks the application itself.
	var attachments []email.Attachment
	if req.ResumeData != "" && req.ResumeFileName != "" {
		att, err := decodeResume(req.ResumeFileName, req.ResumeFileType, req.ResumeData)
		if err != nil {
			log.Warn("could not attach resume", slog.String("file", req.ResumeFileName), slog.Any("error", err))
		} else {
			attachments = append(attachments, att)
			data.ResumeFileName = att.Filename
			log.Debug("resume attached", slog.String("file", att.Filename), slog.Int("bytes", len(att.Data)))
		}
	}

	msg := email.BuildCareerEmail(data)
	msg.Attachments = attachments

	return s.deliver(ctx, log, FormCareer, msg)
}

// deliver runs the credential check, the optional verify and the send under
// a single SendTimeout deadline.
func (s *relayService) deliver(ctx context.Context, log *slog.Logger, form string, msg email.Message) error {
	if !s.mailer.Configured() {
		log.Error("email credentials not configured")
		s.metrics.record(ctx, form, outcomeUnconfigured, 0)
		return ErrConfiguration
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.SendTimeout)
	defer cancel()

	start := time.Now()

	if s.opts.VerifyBeforeSend {
		if err := s.mailer.Verify(ctx); err != nil {
			return s.fail(ctx, log, form, "verify", err, time.Since(start))
		}
		log.Debug("email transport verified")
	}

	// A verify that used up the deadline must not start a send the caller
	// will already have been told failed.
	if err := ctx.Err(); err != nil {
		return s.fail(ctx, log, form, "send", err, time.Since(start))
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		return s.fail(ctx, log, form, "send", err, time.Since(start))
	}

	elapsed := time.Since(start)
	s.metrics.record(ctx, form, outcomeSent, elapsed)
	log.Info("form relayed",
		slog.Int("recipients", len(msg.To)),
		slog.Int("attachments", len(msg.Attachments)),
		slog.Duration("elapsed", elapsed),
	)
	return nil
}

func (s *relayService) fail(ctx context.Context, log *slog.Logger, form, op string, err error, elapsed time.Duration) error {
	if errors.As(err, &email.ErrDisabled{}) || errors.As(err, &email.ErrNotConfigured{}) {
		log.Error("email transport unavailable", slog.String("op", op), slog.Any("error", err))
		s.metrics.record(ctx, form, outcomeUnconfigured, elapsed)
		return ErrConfiguration
	}

	log.Error("email relay failed",
		slog.String("op", op),
		slog.Bool("timeout", errors.Is(err, context.DeadlineExceeded)),
		slog.Duration("elapsed", elapsed),
		slog.Any("error", err),
	)
	s.metrics.record(ctx, form, outcomeFailed, elapsed)
	return &TransportError{Op: op, Err: err}
}

func (s *relayService) logger(ctx context.Context, form string) *slog.Logger {
	log := s.log.With(slog.String("form", form))
	if rid := reqctx.RequestIDFromContext(ctx); rid != "" {
		log = log.With(slog.String("request_id", rid))
	}
	return log
}

// ---------------------------------------------------------------------------
// Validation
// ---------------------------------------------------------------------------

func (r ContactRequest) normalized() ContactRequest {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Company = strings.TrimSpace(r.Company)
	r.Service = strings.TrimSpace(r.Service)
	r.Message = strings.TrimSpace(r.Message)
	return r
}

func (r ContactRequest) missing() []string {
	return missingFields(
		field{"name", r.Name != ""},
		field{"email", r.Email != ""},
		field{"service", r.Service != ""},
		field{"message", r.Message != ""},
	)
}

func (r CareerRequest) normalized() CareerRequest {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
	r.CountryCode = strings.TrimSpace(r.CountryCode)
	r.Phone = strings.TrimSpace(r.Phone)
	r.JobTitle = strings.TrimSpace(r.JobTitle)
	r.JobID = strings.TrimSpace(r.JobID)
	r.LinkedInProfile = strings.TrimSpace(r.LinkedInProfile)
	r.ResumeFileName = strings.TrimSpace(r.ResumeFileName)
	r.ResumeFileType = strings.TrimSpace(r.ResumeFileType)
	return r
}

func (r CareerRequest) missing() []string {
	return missingFields(
		field{"firstName", r.FirstName != ""},
		field{"lastName", r.LastName != ""},
		field{"email", r.Email != ""},
		field{"phone", r.Phone != ""},
		field{"jobTitle", r.JobTitle != ""},
		field{"consent1", r.Consent1},
	)
}

type field struct {
	name    string
	present bool
}

func missingFields(fields ...field) []string {
	var out []string
	for _, f := range fields {
		if !f.present {
			out = append(out, f.name)
		}
	}
	return out
}
