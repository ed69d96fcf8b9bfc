package registry

import (
	"fmt"
	"sync"

	"attendance-server-go/ledger"
	"attendance-server-go/models"
)

// Registry is the in-memory roster state plus its persistence port and
// the ledger store it keeps in sync. Every mutation updates the
// in-memory snapshot, applies the ledger side effects, and rewrites the
// persisted snapshot in full.
//
// The mutex guards the in-memory state only. Ledger files themselves
// are written without locks; concurrent saves to the same ledger are
// last-write-wins.
type Registry struct {
	mu      sync.RWMutex
	store   Store
	ledgers *ledger.Store

	// dateColumns is the fixed label set stamped into every newly
	// created ledger.
	dateColumns []string

	snap Snapshot
}

// New loads the persisted snapshot and returns a ready Registry.
func New(store Store, ledgers *ledger.Store, dateColumns []string) (*Registry, error) {
	snap, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load registry: %w", err)
	}
	return &Registry{
		store:       store,
		ledgers:     ledgers,
		dateColumns: dateColumns,
		snap:        snap,
	}, nil
}

// IsEmpty reports whether the registry has no faculty at all, which
// triggers the demo seed at boot.
func (r *Registry) IsEmpty() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.snap.Faculty) == 0
}

// PublicFaculty returns every assignment without passwords.
func (r *Registry) PublicFaculty() []models.Faculty {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Faculty, 0, len(r.snap.Faculty))
	for _, f := range r.snap.Faculty {
		out = append(out, f.Public())
	}
	return out
}

// FacultyByID finds one assignment by faculty id.
func (r *Registry) FacultyByID(id string) (models.Faculty, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, f := range r.snap.Faculty {
		if f.ID == id {
			return f, nil
		}
	}
	return models.Faculty{}, fmt.Errorf("faculty %s: %w", id, ErrFacultyNotFound)
}

// Authenticate checks a faculty password and returns the profile
// without it.
func (r *Registry) Authenticate(id, password string) (models.Faculty, error) {
	f, err := r.FacultyByID(id)
	if err != nil {
		return models.Faculty{}, err
	}
	if f.Password != password {
		return models.Faculty{}, ErrInvalidCredentials
	}
	return f.Public(), nil
}

// AuthenticateAdmin checks an admin password.
func (r *Registry) AuthenticateAdmin(id, password string) (models.Admin, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.snap.Admins {
		if a.ID != id {
			continue
		}
		if a.Password != password {
			return models.Admin{}, ErrInvalidCredentials
		}
		a.Password = ""
		return a, nil
	}
	return models.Admin{}, fmt.Errorf("admin %s: %w", id, ErrFacultyNotFound)
}

// AssignmentsBySubject returns every assignment teaching the subject in
// the semester.
func (r *Registry) AssignmentsBySubject(semester, subject string) []models.Faculty {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Faculty
	for _, f := range r.snap.Faculty {
		if f.Semester == semester && f.Subject == subject {
			out = append(out, f)
		}
	}
	return out
}

// AssignmentsBySemester returns every assignment in the semester.
func (r *Registry) AssignmentsBySemester(semester string) []models.Faculty {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Faculty
	for _, f := range r.snap.Faculty {
		if f.Semester == semester {
			out = append(out, f)
		}
	}
	return out
}

// StudentsBySemester returns the semester roster in stored order.
func (r *Registry) StudentsBySemester(semester string) []models.Student {
	r.mu.RLock()
	defer r.mu.RUnlock()
	students := r.snap.Students[semester]
	out := make([]models.Student, len(students))
	copy(out, students)
	return out
}

// Subjects returns the subject catalog for a semester.
func (r *Registry) Subjects(semester string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subjects := r.snap.Subjects[semester]
	out := make([]string, len(subjects))
	copy(out, subjects)
	return out
}

// AddAssignment registers one assignment and creates its empty ledger.
// The faculty id and the (faculty, semester, subject) triple must both
// be new: duplicate triples silently sharing a ledger file lose data.
func (r *Registry) AddAssignment(f models.Faculty) error {
	if f.ID == "" || f.Semester == "" || f.Subject == "" {
		return fmt.Errorf("faculty id, semester, and subject are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Faculty ids are unique, which makes every (faculty, semester,
	// subject) triple unique and every triple's ledger file its own.
	for _, existing := range r.snap.Faculty {
		if existing.ID == f.ID {
			return fmt.Errorf("faculty %s: %w", f.ID, ErrDuplicateAssignment)
		}
	}

	if !r.ledgers.Exists(f) {
		if err := r.ledgers.CreateEmpty(f, r.dateColumns); err != nil {
			return err
		}
	}

	r.snap.Faculty = append(r.snap.Faculty, f)
	r.ensureSubject(f.Semester, f.Subject)
	return r.store.Save(r.snap)
}

// RemoveAssignment deletes the assignment's ledger file and drops the
// entry.
func (r *Registry) RemoveAssignment(facultyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	index := -1
	for i, f := range r.snap.Faculty {
		if f.ID == facultyID {
			index = i
			break
		}
	}
	if index == -1 {
		return fmt.Errorf("faculty %s: %w", facultyID, ErrFacultyNotFound)
	}

	if err := r.ledgers.Delete(r.snap.Faculty[index]); err != nil {
		return err
	}
	r.snap.Faculty = append(r.snap.Faculty[:index], r.snap.Faculty[index+1:]...)
	return r.store.Save(r.snap)
}

// AddSubject puts a subject in the semester catalog and registers its
// assignments, each with a fresh empty ledger. Students are added
// later through AddStudentsToLedger; new ledgers start with zero rows.
func (r *Registry) AddSubject(semester, subject string, faculty []models.Faculty) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.snap.Subjects[semester] {
		if existing == subject {
			return fmt.Errorf("%s in %s: %w", subject, semester, ErrSubjectExists)
		}
	}

	for _, f := range faculty {
		f.Semester = semester
		f.Subject = subject
		for _, existing := range r.snap.Faculty {
			if existing.ID == f.ID {
				return fmt.Errorf("faculty %s: %w", f.ID, ErrDuplicateAssignment)
			}
		}
		if !r.ledgers.Exists(f) {
			if err := r.ledgers.CreateEmpty(f, r.dateColumns); err != nil {
				return err
			}
		}
		r.snap.Faculty = append(r.snap.Faculty, f)
	}

	r.ensureSubject(semester, subject)
	return r.store.Save(r.snap)
}

// DeleteSubject removes every assignment for (semester, subject),
// deletes each one's ledger file, and drops the subject from the
// catalog. All three effects must land; a ledger delete failure aborts
// with an error rather than leaving the catalog half-updated.
func (r *Registry) DeleteSubject(semester, subject string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subjectIndex := -1
	for i, s := range r.snap.Subjects[semester] {
		if s == subject {
			subjectIndex = i
			break
		}
	}

	var keep, remove []models.Faculty
	for _, f := range r.snap.Faculty {
		if f.Semester == semester && f.Subject == subject {
			remove = append(remove, f)
		} else {
			keep = append(keep, f)
		}
	}

	if subjectIndex == -1 && len(remove) == 0 {
		return fmt.Errorf("%s in %s: %w", subject, semester, ErrSubjectNotFound)
	}

	for _, f := range remove {
		if err := r.ledgers.Delete(f); err != nil {
			return err
		}
	}

	r.snap.Faculty = keep
	if subjectIndex != -1 {
		subjects := r.snap.Subjects[semester]
		r.snap.Subjects[semester] = append(subjects[:subjectIndex], subjects[subjectIndex+1:]...)
	}
	return r.store.Save(r.snap)
}

// AddStudents merges students into the semester roster, skipping roll
// numbers already present and preserving order.
func (r *Registry) AddStudents(semester string, students []models.Student) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing := make(map[string]bool)
	for _, st := range r.snap.Students[semester] {
		existing[st.RollNo] = true
	}
	for _, st := range students {
		if st.RollNo == "" || existing[st.RollNo] {
			continue
		}
		existing[st.RollNo] = true
		r.snap.Students[semester] = append(r.snap.Students[semester], st)
	}
	return r.store.Save(r.snap)
}

// AddStudentsToLedger appends students to one faculty's ledger. Returns
// the number of rows actually added.
func (r *Registry) AddStudentsToLedger(facultyID string, students []models.Student) (int, error) {
	f, err := r.FacultyByID(facultyID)
	if err != nil {
		return 0, err
	}
	return r.ledgers.AppendStudents(f, students)
}

// ensureSubject adds a subject to the catalog if absent. Callers hold
// the write lock.
func (r *Registry) ensureSubject(semester, subject string) {
	for _, s := range r.snap.Subjects[semester] {
		if s == subject {
			return
		}
	}
	r.snap.Subjects[semester] = append(r.snap.Subjects[semester], subject)
}
