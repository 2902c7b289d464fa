package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v3"

	"github.com/hawkstone-global/hawkstone_backend/internal/service/relay"
)

const msgCredentialsMissing = "Server configuration error: Email credentials not set"

// FormHandler serves both public forms through the same relay service.
type FormHandler struct {
	svc relay.Service
	// exposeErrors adds the underlying transport error to 500 bodies.
	exposeErrors bool
}

func NewFormHandler(svc relay.Service, exposeErrors bool) *FormHandler {
	return &FormHandler{svc: svc, exposeErrors: exposeErrors}
}

type contactRequest struct {
	Name    string `json:"name" form:"name"`
	Email   string `json:"email" form:"email"`
	Phone   string `json:"phone" form:"phone"`
	Company string `json:"company" form:"company"`
	Service string `json:"service" form:"service"`
	Message string `json:"message" form:"message"`
}

type careerRequest struct {
	FirstName       string `json:"firstName" form:"firstName"`
	LastName        string `json:"lastName" form:"lastName"`
	Email           string `json:"email" form:"email"`
	CountryCode     string `json:"countryCode" form:"countryCode"`
	Phone           string `json:"phone" form:"phone"`
	JobTitle        string `json:"jobTitle" form:"jobTitle"`
	JobID           string `json:"jobId" form:"jobId"`
	Consent1        flag   `json:"consent1" form:"consent1"`
	Consent2        flag   `json:"consent2" form:"consent2"`
	LinkedInProfile string `json:"linkedinProfile" form:"linkedinProfile"`
	ResumeFileName  string `json:"resumeFileName" form:"resumeFileName"`
	ResumeFileType  string `json:"resumeFileType" form:"resumeFileType"`
	ResumeData      string `json:"resumeData" form:"resumeData"`
}

// POST /api/contact
func (h *FormHandler) Contact(c fiber.Ctx) error {
	var req contactRequest
	if err := bindForm(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.svc.SubmitContact(c.Context(), relay.ContactRequest{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
		Service: req.Service,
		Message: req.Message,
	})
	if err != nil {
		return h.fail(c, err, "Failed to send contact form. Please try again later.")
	}
	return ok(c, "Contact form submitted successfully")
}

// POST /api/careers
func (h *FormHandler) Career(c fiber.Ctx) error {
	var req careerRequest
	if err := bindForm(c, &req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	err := h.svc.SubmitCareer(c.Context(), relay.CareerRequest{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Email:           req.Email,
		CountryCode:     req.CountryCode,
		Phone:           req.Phone,
		JobTitle:        req.JobTitle,
		JobID:           req.JobID,
		Consent1:        bool(req.Consent1),
		Consent2:        bool(req.Consent2),
		LinkedInProfile: req.LinkedInProfile,
		ResumeFileName:  req.ResumeFileName,
		ResumeFileType:  req.ResumeFileType,
		ResumeData:      req.ResumeData,
	})
	if err != nil {
		return h.fail(c, err, "Failed to submit career application. Please try again later.")
	}
	return ok(c, "Career application submitted successfully")
}

// bindForm decodes JSON or urlencoded/multipart form bodies by Content-Type.
// A body sent without a Content-Type is treated as JSON.
func bindForm(c fiber.Ctx, out any) error {
	if c.Get(fiber.HeaderContentType) == "" {
		return c.Bind().JSON(out)
	}
	return c.Bind().Body(out)
}

func (h *FormHandler) fail(c fiber.Ctx, err error, generic string) error {
	var vErr *relay.ValidationError
	switch {
	case errors.As(err, &vErr):
		return badRequest(c, "Missing required fields: "+strings.Join(vErr.Fields, ", "))
	case errors.Is(err, relay.ErrConfiguration):
		return internalError(c, msgCredentialsMissing, nil)
	}

	var tErr *relay.TransportError
	if !errors.As(err, &tErr) {
		slog.ErrorContext(c.Context(), "unexpected relay error", slog.Any("error", err))
	}
	if h.exposeErrors {
		return internalError(c, generic, err)
	}
	return internalError(c, generic, nil)
}

// flag decodes the consent checkboxes, which browsers and form libraries
// send as booleans, "true"/"on" strings, or 0/1.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*f = false
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		return f.UnmarshalText([]byte(s))
	case bytes.Equal(b, []byte("true")):
		*f = true
		return nil
	case bytes.Equal(b, []byte("false")):
		*f = false
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = n != 0
	return nil
}

// UnmarshalText handles checkbox values posted as form fields.
func (f *flag) UnmarshalText(b []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(b))) {
	case "true", "on", "yes", "1":
		*f = true
	default:
		*f = false
	}
	return nil
}
