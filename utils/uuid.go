package utils

import (
	"github.com/google/uuid"
)

// GenerateID returns a fresh random identifier, used to keep stored
// upload filenames collision-free.
func GenerateID() string {
	return uuid.New().String()
}
