package uid

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateGameID returns a random 32 character hex id.
func GenerateGameID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// ValidGameID reports whether id has the shape GenerateGameID produces.
func ValidGameID(id string) bool {
	if len(id) != 32 {
		return false
	}
	_, err := uuid.Parse(id)
	return err == nil
}
