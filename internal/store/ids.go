package store

import "github.com/google/uuid"

// newTaskID returns a random UUID string. Task ids are opaque to every caller.
func newTaskID() string {
	return uuid.NewString()
}
