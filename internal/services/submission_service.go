package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"storagemarket/web/internal/config"
	"storagemarket/web/internal/logging"
	"storagemarket/web/internal/models"
	"storagemarket/web/internal/storage"
	"storagemarket/web/internal/store"
)

// GenericSubmitFailure is shown when an error carries no message of its own.
const GenericSubmitFailure = "Failed to submit listing. Please try again."

var (
	// ErrSubmissionInProgress is returned by Begin while an attempt is already running.
	ErrSubmissionInProgress = errors.New("submission already in progress")
	// ErrSubmissionComplete is returned by Begin once the submission has succeeded.
	ErrSubmissionComplete = errors.New("listing already submitted")
	// ErrMediaStoreUnavailable is returned when an image is attached but no media store is configured.
	ErrMediaStoreUnavailable = errors.New("image uploads are not available")
	// ErrInvalidListingInput matches coercion failures, which happen before any store call.
	ErrInvalidListingInput = errors.New("invalid listing input")
)

// inputError is a coercion failure. Its text is shown to the user as is.
type inputError struct {
	msg string
}

func (e *inputError) Error() string { return e.msg }

func (e *inputError) Is(target error) bool { return target == ErrInvalidListingInput }

// SubmissionState is the state of a Submission.
type SubmissionState string

const (
	SubmissionIdle       SubmissionState = "idle"
	SubmissionSubmitting SubmissionState = "submitting"
	SubmissionSuccess    SubmissionState = "success"
)

// ListingInput holds the submission form values after input-layer validation.
// Price and size are still raw strings.
type ListingInput struct {
	Title         string
	Description   string
	LocationCity  string
	LocationZip   string
	PricePerMonth string
	UnitType      string
	SizeSqFt      string
	ContactEmail  string
}

// ImageFile is an image attached to a submission.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Submission tracks one submission form through idle, submitting and success.
// A failed attempt returns it to idle with the error message kept.
type Submission struct {
	state         SubmissionState
	errorMessage  string
	listing       *models.Listing
	redirectAfter time.Duration
}

// NewSubmission returns an idle submission that redirects to the browse page
// redirectAfter after it succeeds.
func NewSubmission(redirectAfter time.Duration) *Submission {
	return &Submission{state: SubmissionIdle, redirectAfter: redirectAfter}
}

// Begin moves an idle submission to submitting and clears the previous error.
func (s *Submission) Begin() error {
	switch s.state {
	case SubmissionSubmitting:
		return ErrSubmissionInProgress
	case SubmissionSuccess:
		return ErrSubmissionComplete
	}
	s.state = SubmissionSubmitting
	s.errorMessage = ""
	return nil
}

// Fail ends the running attempt and returns the submission to idle.
func (s *Submission) Fail(message string) {
	s.state = SubmissionIdle
	s.errorMessage = message
}

// Succeed ends the running attempt in the terminal success state.
func (s *Submission) Succeed(listing *models.Listing) {
	s.state = SubmissionSuccess
	s.errorMessage = ""
	s.listing = listing
}

func (s *Submission) State() SubmissionState {
	return s.state
}

func (s *Submission) ErrorMessage() string {
	return s.errorMessage
}

func (s *Submission) Listing() *models.Listing {
	return s.listing
}

// RedirectTo is the page shown after a successful submission, or "" before that.
func (s *Submission) RedirectTo() string {
	if s.state != SubmissionSuccess {
		return ""
	}
	return BrowsePath
}

func (s *Submission) RedirectAfter() time.Duration {
	return s.redirectAfter
}

// SubmissionOutcome is the result of one Submit call.
type SubmissionOutcome struct {
	State         SubmissionState
	Listing       *models.Listing
	ErrorMessage  string
	Err           error
	RedirectTo    string
	RedirectAfter time.Duration
}

// IListingNotifier is told about every listing created through a submission.
type IListingNotifier interface {
	ListingCreated(ctx context.Context, listing models.Listing) error
}

// ISubmissionService persists new listings.
type ISubmissionService interface {
	NewSubmission() *Submission
	Submit(ctx context.Context, submission *Submission, input ListingInput, image *ImageFile) SubmissionOutcome
}

// submissionService implements ISubmissionService.
type submissionService struct {
	listings      store.IListingStore
	media         storage.IMediaStore
	notifier      IListingNotifier
	pathPrefix    string
	redirectAfter time.Duration
}

// NewSubmissionService creates a new SubmissionService. media and notifier may be nil.
func NewSubmissionService(cfg *config.Config, listings store.IListingStore, media storage.IMediaStore, notifier IListingNotifier) ISubmissionService {
	return &submissionService{
		listings:      listings,
		media:         media,
		notifier:      notifier,
		pathPrefix:    cfg.MediaPathPrefix,
		redirectAfter: cfg.SuccessRedirectDelay,
	}
}

func (s *submissionService) NewSubmission() *Submission {
	return NewSubmission(s.redirectAfter)
}

// Submit runs one attempt: coerce the numeric fields, upload the image if any, then insert the listing.
// Errors never escape; they end the attempt with a user-facing message.
func (s *submissionService) Submit(ctx context.Context, submission *Submission, input ListingInput, image *ImageFile) SubmissionOutcome {
	if err := submission.Begin(); err != nil {
		return SubmissionOutcome{
			State:        submission.State(),
			Listing:      submission.Listing(),
			ErrorMessage: err.Error(),
			Err:          err,
		}
	}

	listing, err := s.submit(ctx, input, image)
	if err != nil {
		submission.Fail(userMessage(err))
		return SubmissionOutcome{
			State:        submission.State(),
			ErrorMessage: submission.ErrorMessage(),
			Err:          err,
		}
	}

	submission.Succeed(listing)
	s.notify(ctx, *listing)
	return SubmissionOutcome{
		State:         submission.State(),
		Listing:       listing,
		RedirectTo:    submission.RedirectTo(),
		RedirectAfter: submission.RedirectAfter(),
	}
}

func (s *submissionService) submit(ctx context.Context, input ListingInput, image *ImageFile) (*models.Listing, error) {
	price, err := parsePrice(input.PricePerMonth)
	if err != nil {
		return nil, err
	}
	size, err := parseSize(input.SizeSqFt)
	if err != nil {
		return nil, err
	}

	var imageURL *string
	var uploadedPath string
	if image != nil {
		if s.media == nil {
			return nil, ErrMediaStoreUnavailable
		}
		uploadedPath = storage.NewObjectPath(s.pathPrefix, image.Name)
		if err := s.media.Upload(ctx, uploadedPath, image.ContentType, image.Data); err != nil {
			return nil, fmt.Errorf("image upload failed: %w", err)
		}
		url := s.media.PublicURL(uploadedPath)
		imageURL = &url
	}

	draft := models.NewListingDraft(
		input.Title,
		input.Description,
		input.LocationCity,
		input.LocationZip,
		price,
		input.UnitType,
		size,
		imageURL,
		input.ContactEmail,
	)

	listing, err := s.listings.Insert(ctx, draft)
	if err != nil {
		if uploadedPath != "" {
			logging.Logger.WithFields(logrus.Fields{
				"path":  uploadedPath,
				"error": err,
			}).Warn("Listing insert failed after image upload; uploaded image is orphaned")
		}
		return nil, err
	}

	logging.Logger.WithFields(logrus.Fields{
		"listing_id": listing.ID,
		"unit_type":  listing.UnitType,
		"has_image":  listing.ImageURL != nil,
	}).Info("Listing created")
	return listing, nil
}

func (s *submissionService) notify(ctx context.Context, listing models.Listing) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.ListingCreated(ctx, listing); err != nil {
		logging.Logger.WithError(err).WithField("listing_id", listing.ID).Warn("Failed to notify about new listing")
	}
}

func parsePrice(raw string) (float64, error) {
	price, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, &inputError{fmt.Sprintf("price per month must be a number, got %q", raw)}
	}
	return price, nil
}

func parseSize(raw string) (int, error) {
	size, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 32)
	if err != nil {
		return 0, &inputError{fmt.Sprintf("size must be a whole number of square feet, got %q", raw)}
	}
	return int(size), nil
}

// userMessage picks the message shown for a failed attempt: the backend's own message if one was
// reported, else the error text, else GenericSubmitFailure.
func userMessage(err error) string {
	var svcErr interface{ ServiceMessage() string }
	if errors.As(err, &svcErr) && svcErr.ServiceMessage() != "" {
		return svcErr.ServiceMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return GenericSubmitFailure
}
