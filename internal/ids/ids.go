package ids

import "github.com/google/uuid"

// New returns a random UUID string for entity primary keys.
func New() string {
	return uuid.NewString()
}
