// Package registry holds the authoritative faculty, admin, subject, and
// student roster data behind a pluggable persistence port. The whole
// snapshot is loaded at boot and rewritten wholesale after every
// mutation; there is no incremental update.
package registry

import (
	"errors"

	"attendance-server-go/models"
)

var (
	// ErrFacultyNotFound means no assignment exists for the faculty id.
	ErrFacultyNotFound = errors.New("faculty not found")

	// ErrSubjectNotFound means the (semester, subject) pair is unknown.
	ErrSubjectNotFound = errors.New("subject not found")

	// ErrSubjectExists means the subject is already in the catalog for
	// that semester.
	ErrSubjectExists = errors.New("subject already exists")

	// ErrDuplicateAssignment means the faculty id, or the exact
	// (faculty, semester, subject) triple, is already registered.
	ErrDuplicateAssignment = errors.New("assignment already exists")

	// ErrInvalidCredentials means the password did not match.
	ErrInvalidCredentials = errors.New("invalid password")
)

// Snapshot is the registry's complete persisted state.
type Snapshot struct {
	Faculty  []models.Faculty            `json:"faculty"`
	Admins   []models.Admin              `json:"admins"`
	Subjects map[string][]string         `json:"subjects"` // semester -> subject catalog
	Students map[string][]models.Student `json:"students"` // semester -> roster
}

// emptySnapshot returns a Snapshot with maps initialized.
func emptySnapshot() Snapshot {
	return Snapshot{
		Subjects: make(map[string][]string),
		Students: make(map[string][]models.Student),
	}
}

// Store is the persistence port: read the whole snapshot, write the
// whole snapshot. Tests substitute an in-memory implementation.
type Store interface {
	Load() (Snapshot, error)
	Save(Snapshot) error
}
