package utils

import (
	"strings"

	"github.com/google/uuid"
)

// IDHookFunc defines the signature for the NewID test hook.
// It returns an ID and a boolean indicating whether to override the default generation.
type IDHookFunc func() (id string, override bool)

// NewIDHook is a package-level variable that tests can set to override NewID behavior.
var NewIDHook IDHookFunc

// NewID returns a new random listing identifier.
func NewID() string {
	if NewIDHook != nil {
		if id, override := NewIDHook(); override {
			return id
		}
	}
	return uuid.NewString()
}

// NormalizeID trims an identifier taken from a URL or form. It returns false
// when nothing usable is left.
func NormalizeID(raw string) (string, bool) {
	id := strings.TrimSpace(raw)
	return id, id != ""
}
