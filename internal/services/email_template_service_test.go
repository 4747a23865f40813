package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmailTemplateService_Render(t *testing.T) {
	svc := NewEmailTemplateService()

	subject, body, err := svc.Render(ListingConfirmationTemplate, map[string]string{
		"app_name":   "Storage Marketplace",
		"title":      "Large Garage",
		"city":       "Austin",
		"listing_id": "abc-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "Your listing is live on Storage Marketplace", subject)
	assert.Contains(t, body, `"Large Garage" in Austin`)
	assert.Contains(t, body, "Listing ID: abc-123")
}

func TestEmailTemplateService_Errors(t *testing.T) {
	svc := NewEmailTemplateService()

	_, _, err := svc.Render("nope", nil)
	assert.ErrorContains(t, err, "template not found")

	_, _, err = svc.Render(ListingConfirmationTemplate, map[string]string{"title": "x"})
	assert.Error(t, err, "missing keys fail rendering")
}
