package handlers_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"storagemarket/web/internal/services"
)

// --- Mocks ---

// MockBrowseService
type MockBrowseService struct {
	mock.Mock
}

func (m *MockBrowseService) Open(ctx context.Context) *services.BrowseView {
	args := m.Called(ctx)
	return args.Get(0).(*services.BrowseView)
}

// MockDetailService
type MockDetailService struct {
	mock.Mock
}

func (m *MockDetailService) Open(ctx context.Context, id string) services.DetailView {
	args := m.Called(ctx, id)
	return args.Get(0).(services.DetailView)
}

// MockSubmissionService
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) NewSubmission() *services.Submission {
	args := m.Called()
	return args.Get(0).(*services.Submission)
}

func (m *MockSubmissionService) Submit(ctx context.Context, submission *services.Submission, input services.ListingInput, image *services.ImageFile) services.SubmissionOutcome {
	args := m.Called(ctx, submission, input, image)
	return args.Get(0).(services.SubmissionOutcome)
}

// MockLocationService
type MockLocationService struct {
	mock.Mock
}

func (m *MockLocationService) SuggestLocations(query string) []string {
	args := m.Called(query)
	return args.Get(0).([]string)
}

func (m *MockLocationService) UnitTypes() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockLocationService) DefaultImage(unitType string) string {
	args := m.Called(unitType)
	return args.String(0)
}
