package registry

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-server-go/ledger"
	"attendance-server-go/models"
)

// memStore is an in-memory Store for tests.
type memStore struct {
	snap  Snapshot
	saves int
}

func newMemStore() *memStore {
	return &memStore{snap: emptySnapshot()}
}

func (m *memStore) Load() (Snapshot, error) { return m.snap, nil }

func (m *memStore) Save(snap Snapshot) error {
	m.snap = snap
	m.saves++
	return nil
}

var testDates = []string{"08-Dec", "09-Dec"}

func newTestRegistry(t *testing.T) (*Registry, *ledger.Store, *memStore) {
	t.Helper()
	ledgers, err := ledger.NewStore(t.TempDir())
	require.NoError(t, err)
	store := newMemStore()
	reg, err := New(store, ledgers, testDates)
	require.NoError(t, err)
	return reg, ledgers, store
}

func vikram() models.Faculty {
	return models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Password: "vikram123", Semester: "3-2", Subject: "NLP", Department: "CSE(DS)"}
}

func TestAddAssignmentCreatesLedger(t *testing.T) {
	reg, ledgers, store := newTestRegistry(t)
	f := vikram()

	require.NoError(t, reg.AddAssignment(f))

	assert.True(t, ledgers.Exists(f))
	assert.Equal(t, 1, store.saves)
	assert.Equal(t, []string{"NLP"}, reg.Subjects("3-2"))

	sheet, err := ledgers.ReadAll(f)
	require.NoError(t, err)
	assert.Empty(t, sheet.Rows)
	assert.Equal(t, testDates, sheet.DateColumns)
}

func TestAddAssignmentRejectsDuplicates(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	require.NoError(t, reg.AddAssignment(vikram()))

	err := reg.AddAssignment(vikram())
	assert.ErrorIs(t, err, ErrDuplicateAssignment)
}

func TestAddAssignmentRequiresFields(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	err := reg.AddAssignment(models.Faculty{ID: "FAC001"})
	assert.Error(t, err)
}

func TestAuthenticate(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	require.NoError(t, reg.AddAssignment(vikram()))

	f, err := reg.Authenticate("FAC001", "vikram123")
	require.NoError(t, err)
	assert.Equal(t, "Mr. Vikram", f.Name)
	assert.Empty(t, f.Password, "password must not leak")

	_, err = reg.Authenticate("FAC001", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = reg.Authenticate("FAC999", "vikram123")
	assert.ErrorIs(t, err, ErrFacultyNotFound)
}

func TestPublicFacultyStripsPasswords(t *testing.T) {
	reg, _, _ := newTestRegistry(t)
	require.NoError(t, reg.AddAssignment(vikram()))

	list := reg.PublicFaculty()
	require.Len(t, list, 1)
	assert.Empty(t, list[0].Password)
}

func TestRemoveAssignmentDeletesLedger(t *testing.T) {
	reg, ledgers, _ := newTestRegistry(t)
	f := vikram()
	require.NoError(t, reg.AddAssignment(f))

	require.NoError(t, reg.RemoveAssignment(f.ID))

	assert.False(t, ledgers.Exists(f))
	_, err := reg.FacultyByID(f.ID)
	assert.ErrorIs(t, err, ErrFacultyNotFound)

	assert.ErrorIs(t, reg.RemoveAssignment(f.ID), ErrFacultyNotFound)
}

func TestAddSubject(t *testing.T) {
	reg, ledgers, _ := newTestRegistry(t)

	faculty := []models.Faculty{
		{ID: "FAC001", Name: "Mr. Vikram", Password: "vikram123"},
		{ID: "FAC002", Name: "Dr. Kiran", Password: "kiran123"},
	}
	require.NoError(t, reg.AddSubject("3-2", "NLP", faculty))

	assert.Equal(t, []string{"NLP"}, reg.Subjects("3-2"))
	assignments := reg.AssignmentsBySubject("3-2", "NLP")
	require.Len(t, assignments, 2)
	for _, f := range assignments {
		assert.True(t, ledgers.Exists(f))
		sheet, err := ledgers.ReadAll(f)
		require.NoError(t, err)
		assert.Empty(t, sheet.Rows, "new ledgers start with zero rows")
	}

	assert.ErrorIs(t, reg.AddSubject("3-2", "NLP", nil), ErrSubjectExists)
}

func TestDeleteSubjectCascades(t *testing.T) {
	reg, ledgers, _ := newTestRegistry(t)
	require.NoError(t, reg.AddSubject("3-2", "NLP", []models.Faculty{
		{ID: "FAC001", Name: "Mr. Vikram"},
		{ID: "FAC002", Name: "Dr. Kiran"},
	}))
	assignments := reg.AssignmentsBySubject("3-2", "NLP")
	require.Len(t, assignments, 2)

	require.NoError(t, reg.DeleteSubject("3-2", "NLP"))

	// All three effects: assignments gone, ledger files gone, subject
	// out of the catalog.
	assert.Empty(t, reg.AssignmentsBySubject("3-2", "NLP"))
	assert.Empty(t, reg.Subjects("3-2"))
	for _, f := range assignments {
		_, err := ledgers.ReadAll(f)
		assert.ErrorIs(t, err, ledger.ErrNotFound)
	}

	assert.ErrorIs(t, reg.DeleteSubject("3-2", "NLP"), ErrSubjectNotFound)
}

func TestAddStudentsDedupes(t *testing.T) {
	reg, _, _ := newTestRegistry(t)

	require.NoError(t, reg.AddStudents("3-2", []models.Student{
		{RollNo: "R1", Name: "Alice"},
		{RollNo: "R2", Name: "Bob"},
	}))
	require.NoError(t, reg.AddStudents("3-2", []models.Student{
		{RollNo: "R2", Name: "Bob Again"},
		{RollNo: "R3", Name: "Carol"},
	}))

	roster := reg.StudentsBySemester("3-2")
	require.Len(t, roster, 3)
	assert.Equal(t, "Bob", roster[1].Name)
}

func TestAddStudentsToLedger(t *testing.T) {
	reg, ledgers, _ := newTestRegistry(t)
	f := vikram()
	require.NoError(t, reg.AddAssignment(f))

	added, err := reg.AddStudentsToLedger(f.ID, []models.Student{{RollNo: "R1", Name: "Alice"}})
	require.NoError(t, err)
	assert.Equal(t, 1, added)

	sheet, err := ledgers.ReadAll(f)
	require.NoError(t, err)
	require.Len(t, sheet.Rows, 1)
	assert.Equal(t, "R1", sheet.Rows[0].RollNo)

	_, err = reg.AddStudentsToLedger("FAC999", nil)
	assert.ErrorIs(t, err, ErrFacultyNotFound)
}

func TestSeedOnEmptyRegistry(t *testing.T) {
	reg, ledgers, _ := newTestRegistry(t)
	require.True(t, reg.IsEmpty())

	require.NoError(t, reg.Seed())

	assert.False(t, reg.IsEmpty())
	assert.NotEmpty(t, reg.Subjects("3-2"))
	assert.NotEmpty(t, reg.StudentsBySemester("4-2"))

	f, err := reg.FacultyByID("FAC001")
	require.NoError(t, err)
	sheet, err := ledgers.ReadAll(f)
	require.NoError(t, err)
	assert.NotEmpty(t, sheet.Rows, "seeded ledgers carry the semester roster")
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	store := NewFileStore(path)

	// Missing file loads as an empty snapshot.
	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Faculty)

	snap.Faculty = append(snap.Faculty, vikram())
	snap.Subjects["3-2"] = []string{"NLP"}
	snap.Students["3-2"] = []models.Student{{RollNo: "R1", Name: "Alice"}}
	require.NoError(t, store.Save(snap))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, snap, loaded)
}
