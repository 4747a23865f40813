package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"storagemarket/web/internal/services"
)

// MessageUnitNotFound is returned for unknown listing identifiers.
const MessageUnitNotFound = "Unit not found"

// SubmitListingForm is the multipart form accepted by POST /v1/listings.
type SubmitListingForm struct {
	Title         string `form:"title" binding:"required"`
	Description   string `form:"description" binding:"required"`
	LocationCity  string `form:"location_city" binding:"required"`
	LocationZip   string `form:"location_zip" binding:"required"`
	PricePerMonth string `form:"price_per_month" binding:"required,nonnegative"`
	UnitType      string `form:"unit_type" binding:"required,unit_type"`
	SizeSqFt      string `form:"size_sq_ft" binding:"required,nonnegative_int"`
	ContactEmail  string `form:"contact_email" binding:"required,email"`
}

func (f SubmitListingForm) toInput() services.ListingInput {
	return services.ListingInput{
		Title:         f.Title,
		Description:   f.Description,
		LocationCity:  f.LocationCity,
		LocationZip:   f.LocationZip,
		PricePerMonth: f.PricePerMonth,
		UnitType:      f.UnitType,
		SizeSqFt:      f.SizeSqFt,
		ContactEmail:  f.ContactEmail,
	}
}

// RestListingHandler handles REST requests for listings.
type RestListingHandler struct {
	browseService     services.IBrowseService
	detailService     services.IDetailService
	submissionService services.ISubmissionService
	maxImageBytes     int64
}

// NewRestListingHandler creates a new RestListingHandler.
func NewRestListingHandler(browseService services.IBrowseService, detailService services.IDetailService, submissionService services.ISubmissionService, maxImageBytes int64) *RestListingHandler {
	return &RestListingHandler{
		browseService:     browseService,
		detailService:     detailService,
		submissionService: submissionService,
		maxImageBytes:     maxImageBytes,
	}
}

// ListListings handles GET /v1/listings?q=&type=
func (h *RestListingHandler) ListListings(c *gin.Context) {
	view := h.browseService.Open(c.Request.Context())
	view.SetSearchTerm(c.Query("q"))
	view.SetSelectedType(c.Query("type"))

	data := view.VisibleViews()
	c.JSON(http.StatusOK, gin.H{
		"data":          data,
		"unit_types":    view.UnitTypes(),
		"total":         len(data),
		"empty_message": view.EmptyMessage(),
	})
}

// GetListingByID handles GET /v1/listings/:id
func (h *RestListingHandler) GetListingByID(c *gin.Context) {
	view := h.detailService.Open(c.Request.Context(), c.Param("id"))
	if !view.Found {
		c.JSON(http.StatusNotFound, gin.H{"error": MessageUnitNotFound, "back_to": view.BackTo})
		return
	}
	c.JSON(http.StatusOK, view.Listing)
}

// SubmitListing handles POST /v1/listings
func (h *RestListingHandler) SubmitListing(c *gin.Context) {
	var form SubmitListingForm
	if err := c.ShouldBind(&form); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid listing", "details": formatValidationErrors(validationErrs)})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid form submission"})
		return
	}

	image, status, err := h.readImage(c)
	if err != nil {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	submission := h.submissionService.NewSubmission()
	outcome := h.submissionService.Submit(c.Request.Context(), submission, form.toInput(), image)
	if outcome.State != services.SubmissionSuccess {
		if outcome.Err != nil {
			_ = c.Error(outcome.Err)
		}
		status := http.StatusInternalServerError
		if errors.Is(outcome.Err, services.ErrInvalidListingInput) {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{"state": outcome.State, "error": outcome.ErrorMessage})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"state":             outcome.State,
		"data":              services.NewListingView(*outcome.Listing),
		"redirect_to":       outcome.RedirectTo,
		"redirect_after_ms": outcome.RedirectAfter.Milliseconds(),
	})
}

// readImage returns the optional "image" file, or an error with its HTTP status.
func (h *RestListingHandler) readImage(c *gin.Context) (*services.ImageFile, int, error) {
	header, err := c.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, http.StatusOK, nil
	}
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid image upload")
	}
	if h.maxImageBytes > 0 && header.Size > h.maxImageBytes {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("image exceeds the %d MB limit", h.maxImageBytes/(1024*1024))
	}

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return nil, http.StatusBadRequest, fmt.Errorf("uploaded file must be an image")
	}

	file, err := header.Open()
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid image upload")
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("invalid image upload")
	}

	return &services.ImageFile{Name: header.Filename, ContentType: contentType, Data: data}, http.StatusOK, nil
}
