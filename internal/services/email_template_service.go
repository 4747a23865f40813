package services

import (
	"bytes"
	"fmt"
	"text/template"
)

// ListingConfirmationTemplate is sent to the contact address of a new listing.
const ListingConfirmationTemplate = "listing_confirmation"

// EmailTemplate is a subject and body pair rendered with text/template.
type EmailTemplate struct {
	TemplateID string
	Locale     string
	Subject    string
	Body       string
}

var defaultEmailTemplates = map[string]EmailTemplate{
	ListingConfirmationTemplate: {
		TemplateID: ListingConfirmationTemplate,
		Locale:     "en-US",
		Subject:    "Your listing is live on {{.app_name}}",
		Body: "Your listing \"{{.title}}\" in {{.city}} is live.\n\n" +
			"Listing ID: {{.listing_id}}\n" +
			"Renters will contact you at this address.\n",
	},
}

// IEmailTemplateService renders email templates.
type IEmailTemplateService interface {
	Render(templateID string, data map[string]string) (subject, body string, err error)
}

// EmailTemplateService renders the built-in templates.
type EmailTemplateService struct {
	templates map[string]EmailTemplate
}

// NewEmailTemplateService creates a new instance of EmailTemplateService
func NewEmailTemplateService() *EmailTemplateService {
	return &EmailTemplateService{templates: defaultEmailTemplates}
}

// Render executes the subject and body of templateID with data.
func (s *EmailTemplateService) Render(templateID string, data map[string]string) (string, string, error) {
	tmpl, ok := s.templates[templateID]
	if !ok {
		return "", "", fmt.Errorf("template not found: %s", templateID)
	}
	subject, err := execute(templateID+".subject", tmpl.Subject, data)
	if err != nil {
		return "", "", err
	}
	body, err := execute(templateID+".body", tmpl.Body, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}

func execute(name, text string, data map[string]string) (string, error) {
	t, err := template.New(name).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("error parsing template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("error rendering template %s: %w", name, err)
	}
	return buf.String(), nil
}
