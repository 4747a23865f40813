package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"go.mongodb.org/mongo-driver/mongo"

	"storagemarket/web/internal/utils"
)

// mockMongoDuplicateKeyError creates an error that IsMongoDuplicateKeyError will recognize.
func mockMongoDuplicateKeyError(key string) error {
	mongoErr := mongo.WriteError{
		Code:    11000,
		Message: fmt.Sprintf("E11000 duplicate key error collection: test.listings index: _id_ dup key: { : \"%s\" }", key),
	}
	return mongo.WriteException{WriteErrors: []mongo.WriteError{mongoErr}}
}

func TestWithRetries_SuccessfulFirstAttempt(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		return nil
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_FailureNonDuplicateKey(t *testing.T) {
	var opCalled int
	expectedErr := errors.New("some other error")
	operation := func() error {
		opCalled++
		return expectedErr
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if !errors.Is(err, expectedErr) {
		t.Errorf("Expected error %v, got %v", expectedErr, err)
	}
	if opCalled != 1 {
		t.Errorf("Expected operation to be called 1 time, got %d", opCalled)
	}
}

func TestWithRetries_ExhaustRetries(t *testing.T) {
	var opCalled int
	operation := func() error {
		opCalled++
		return mockMongoDuplicateKeyError("colliding-id")
	}

	maxRetries := 3
	err := WithRetries(operation, maxRetries, IsMongoDuplicateKeyError)

	if err == nil {
		t.Fatal("Expected a duplicate key error, got nil")
	}
	if !IsMongoDuplicateKeyError(err) {
		t.Errorf("Expected a Mongo duplicate key error, got %T: %v", err, err)
	}
	if opCalled != maxRetries+1 {
		t.Errorf("Expected operation to be called %d times, got %d", maxRetries+1, opCalled)
	}
}

func TestWithRetries_CollisionResolves(t *testing.T) {
	originalHook := utils.NewIDHook
	defer func() { utils.NewIDHook = originalHook }()

	idsToReturn := []string{"id-1", "id-1", "id-2"}
	hookCallCount := 0
	utils.NewIDHook = func() (string, bool) {
		if hookCallCount < len(idsToReturn) {
			id := idsToReturn[hookCallCount]
			hookCallCount++
			return id, true
		}
		return "", false
	}

	inserted := map[string]bool{"id-1": true}
	var opCalled int

	operation := func() error {
		opCalled++
		newID := utils.NewID()
		if inserted[newID] {
			return mockMongoDuplicateKeyError(newID)
		}
		inserted[newID] = true
		return nil
	}

	err := WithRetries(operation, 3, IsMongoDuplicateKeyError)
	if err != nil {
		t.Fatalf("Expected no error as collision should resolve, got: %v", err)
	}
	if opCalled != 3 {
		t.Errorf("Expected operation to be called 3 times, got %d", opCalled)
	}
	if !inserted["id-2"] {
		t.Errorf("Expected id-2 to be inserted after retry")
	}
	if hookCallCount != 3 {
		t.Errorf("Expected NewIDHook to be called 3 times, got %d", hookCallCount)
	}
}

func TestIsPostgresUniqueViolation(t *testing.T) {
	unique := &pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint \"listings_pkey\""}
	other := &pq.Error{Code: "23502", Message: "null value in column \"title\""}

	if !IsPostgresUniqueViolation(unique) {
		t.Error("Expected 23505 to be a unique violation")
	}
	if !IsPostgresUniqueViolation(fmt.Errorf("insert: %w", unique)) {
		t.Error("Expected wrapped 23505 to be a unique violation")
	}
	if IsPostgresUniqueViolation(other) {
		t.Error("Expected 23502 not to be a unique violation")
	}
	if IsPostgresUniqueViolation(errors.New("plain")) {
		t.Error("Expected plain error not to be a unique violation")
	}
}

func TestTryPostgres_RetriesUniqueViolation(t *testing.T) {
	var opCalled int
	err := TryPostgres(func() error {
		opCalled++
		if opCalled < 2 {
			return &pq.Error{Code: "23505"}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Expected success on second attempt, got %v", err)
	}
	if opCalled != 2 {
		t.Errorf("Expected operation to be called 2 times, got %d", opCalled)
	}
}
