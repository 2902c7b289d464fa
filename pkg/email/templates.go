package email

import (
	"fmt"
	"html"
	"strings"
)

const notProvided = "Not provided"

// ContactEmailData carries a contact-form inquiry into the notification email.
type ContactEmailData struct {
	To           []string
	Name         string
	Email        string
	Phone        string
	Company      string
	ServiceLabel string
	Message      string
	AppName      string
}

// CareerEmailData carries a job application into the notification email.
type CareerEmailData struct {
	To                    []string
	JobTitle              string
	JobID                 string
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	LinkedInProfile       string
	DataProcessingConsent bool
	DataRetentionConsent  bool
	ResumeFileName        string
	AppName               string
}

// BuildContactEmail renders a contact-form inquiry for the site owner.
func BuildContactEmail(data ContactEmailData) Message {
	company := orNotProvided(data.Company)
	phone := orNotProvided(data.Phone)

	subject := fmt.Sprintf("New Contact Form Submission - %s", data.ServiceLabel)

	textBody := fmt.Sprintf(`New Contact Form Submission

Name: %s
Email: %s
Phone: %s
Company: %s
Service Interest: %s

Message:
%s

--
This message was sent from the %s contact form.`,
		data.Name, data.Email, phone, company, data.ServiceLabel, data.Message, data.AppName)

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #1e3a5f;">New Contact Form Submission</h2>
    <p><strong>Name:</strong> %s</p>
    <p><strong>Email:</strong> %s</p>
    <p><strong>Phone:</strong> %s</p>
    <p><strong>Company:</strong> %s</p>
    <p><strong>Service Interest:</strong> %s</p>
    <p><strong>Message:</strong></p>
    <p style="background-color: #f3f4f6; padding: 10px 15px; border-radius: 4px;">%s</p>
    <hr>
    <p style="color: #6b7280; font-size: 12px;">This message was sent from the %s contact form.</p>
</body>
</html>`,
		esc(data.Name), esc(data.Email), esc(phone), esc(company), esc(data.ServiceLabel),
		multiline(data.Message), esc(data.AppName))

	return Message{
		To:       append([]string(nil), data.To...),
		ReplyTo:  data.Email,
		Subject:  subject,
		TextBody: textBody,
		HTMLBody: htmlBody,
	}
}

// BuildCareerEmail renders a job application for the recruiting inbox.
// Attachments are added by the caller.
func BuildCareerEmail(data CareerEmailData) Message {
	jobID := orNotProvided(data.JobID)

	subject := fmt.Sprintf("New Career Application - %s", data.JobTitle)

	var text strings.Builder
	fmt.Fprintf(&text, "New Career Application Submission\n\n")
	fmt.Fprintf(&text, "Job Title: %s\nJob ID: %s\n", data.JobTitle, jobID)
	fmt.Fprintf(&text, "First Name: %s\nLast Name: %s\n", data.FirstName, data.LastName)
	fmt.Fprintf(&text, "Email: %s\nPhone: %s\n", data.Email, data.Phone)
	if data.LinkedInProfile != "" {
		fmt.Fprintf(&text, "LinkedIn Profile: %s\n", data.LinkedInProfile)
	}
	fmt.Fprintf(&text, "Data Processing Consent: %s\n", yesNo(data.DataProcessingConsent))
	fmt.Fprintf(&text, "Data Retention Consent: %s\n", yesNo(data.DataRetentionConsent))
	if data.ResumeFileName != "" {
		fmt.Fprintf(&text, "Resume: %s (attached)\n", data.ResumeFileName)
	}
	fmt.Fprintf(&text, "\n--\nThis application was submitted through the %s careers page.", data.AppName)

	var rows strings.Builder
	row := func(label, value string) {
		fmt.Fprintf(&rows, "    <p><strong>%s:</strong> %s</p>\n", label, value)
	}
	row("Job Title", esc(data.JobTitle))
	row("Job ID", esc(jobID))
	row("First Name", esc(data.FirstName))
	row("Last Name", esc(data.LastName))
	row("Email", esc(data.Email))
	row("Phone", esc(data.Phone))
	if data.LinkedInProfile != "" {
		link := esc(data.LinkedInProfile)
		row("LinkedIn Profile", fmt.Sprintf(`<a href="%s">%s</a>`, link, link))
	}
	row("Data Processing Consent", yesNo(data.DataProcessingConsent))
	row("Data Retention Consent", yesNo(data.DataRetentionConsent))
	if data.ResumeFileName != "" {
		row("Resume", esc(data.ResumeFileName)+" (attached)")
	}

	htmlBody := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
</head>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <h2 style="color: #1e3a5f;">New Career Application Submission</h2>
%s    <hr>
    <p style="color: #6b7280; font-size: 12px;">This application was submitted through the %s careers page.</p>
</body>
</html>`, rows.String(), esc(data.AppName))

	return Message{
		To:       append([]string(nil), data.To...),
		ReplyTo:  data.Email,
		Subject:  subject,
		TextBody: text.String(),
		HTMLBody: htmlBody,
	}
}

func esc(s string) string { return html.EscapeString(s) }

func multiline(s string) string {
	return strings.ReplaceAll(esc(s), "\n", "<br>")
}

func orNotProvided(s string) string {
	if strings.TrimSpace(s) == "" {
		return notProvided
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
