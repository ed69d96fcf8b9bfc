package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/ledger"
	"attendance-server-go/models"
)

// stubAssignments is a fixed in-memory AssignmentSource.
type stubAssignments struct {
	faculty []models.Faculty
}

func (s *stubAssignments) AssignmentsBySubject(semester, subject string) []models.Faculty {
	var out []models.Faculty
	for _, f := range s.faculty {
		if f.Semester == semester && f.Subject == subject {
			out = append(out, f)
		}
	}
	return out
}

func (s *stubAssignments) AssignmentsBySemester(semester string) []models.Faculty {
	var out []models.Faculty
	for _, f := range s.faculty {
		if f.Semester == semester {
			out = append(out, f)
		}
	}
	return out
}

func newTestReporter(t *testing.T, faculty ...models.Faculty) (*Reporter, *ledger.Store) {
	t.Helper()
	store, err := ledger.NewStore(t.TempDir())
	require.NoError(t, err)
	return NewReporter(&stubAssignments{faculty: faculty}, store), store
}

// fillLedger creates a ledger, adds the students, and applies one mark
// batch per date.
func fillLedger(t *testing.T, store *ledger.Store, f models.Faculty, dates []string, students []models.Student, marks map[string][]models.Mark) {
	t.Helper()
	require.NoError(t, store.CreateEmpty(f, dates))
	_, err := store.AppendStudents(f, students)
	require.NoError(t, err)
	updater := ledger.NewUpdater(store)
	for date, batch := range marks {
		_, err := updater.Apply(f, date, batch)
		require.NoError(t, err)
	}
}

func openReport(t *testing.T, doc *Document) *excelize.File {
	t.Helper()
	file, err := excelize.OpenReader(bytes.NewReader(doc.Content))
	require.NoError(t, err)
	t.Cleanup(func() { file.Close() })
	return file
}

func TestSubjectReportAdditiveMerge(t *testing.T) {
	f1 := models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Semester: "3-2", Subject: "NLP"}
	f2 := models.Faculty{ID: "FAC002", Name: "Dr. Kiran", Semester: "3-2", Subject: "NLP"}
	rep, store := newTestReporter(t, f1, f2)

	students := []models.Student{{RollNo: "R1", Name: "Alice"}}
	fillLedger(t, store, f1, []string{"08-Dec", "09-Dec", "10-Dec", "11-Dec"}, students, map[string][]models.Mark{
		"08-Dec": {{RollNo: "R1", Status: "P"}},
		"09-Dec": {{RollNo: "R1", Status: "P"}},
		"10-Dec": {{RollNo: "R1", Status: "P"}},
		"11-Dec": {{RollNo: "R1", Status: "A"}},
	})
	fillLedger(t, store, f2, []string{"12-Dec", "13-Dec"}, students, map[string][]models.Mark{
		"12-Dec": {{RollNo: "R1", Status: "P"}},
		"13-Dec": {{RollNo: "R1", Status: "P"}},
	})

	doc, err := rep.Subject("3-2", "NLP")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(doc.FileName, ".xlsx"))

	file := openReport(t, doc)
	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	// 5 present + 1 absent across both ledgers: counts sum, they are
	// never overwritten.
	assert.Equal(t, []string{"R1", "Alice", "6", "5", "83.33%"}, rows[1])
}

func TestSubjectReportSortsByRollAsString(t *testing.T) {
	f := models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Semester: "3-2", Subject: "NLP"}
	rep, store := newTestReporter(t, f)

	fillLedger(t, store, f, []string{"08-Dec"}, []models.Student{
		{RollNo: "22091A329", Name: "Late Admit"},
		{RollNo: "22091A3210", Name: "Ananya Gupta"},
	}, map[string][]models.Mark{
		"08-Dec": {{RollNo: "22091A329", Status: "P"}, {RollNo: "22091A3210", Status: "P"}},
	})

	doc, err := rep.Subject("3-2", "NLP")
	require.NoError(t, err)

	file := openReport(t, doc)
	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "22091A3210", rows[1][0], "lexicographic order, not numeric")
	assert.Equal(t, "22091A329", rows[2][0])
}

func TestSubjectReportNoFaculty(t *testing.T) {
	rep, _ := newTestReporter(t)

	_, err := rep.Subject("3-2", "NLP")
	assert.ErrorIs(t, err, ErrNoFacultyFound)
}

func TestSubjectReportNoData(t *testing.T) {
	// Assignment exists but its ledger was never created.
	f := models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Semester: "3-2", Subject: "NLP"}
	rep, _ := newTestReporter(t, f)

	_, err := rep.Subject("3-2", "NLP")
	assert.ErrorIs(t, err, ErrNoDataFound)
}

func TestSubjectReportZeroClasses(t *testing.T) {
	f := models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Semester: "3-2", Subject: "NLP"}
	rep, store := newTestReporter(t, f)

	fillLedger(t, store, f, []string{"08-Dec"}, []models.Student{{RollNo: "R1", Name: "Alice"}}, nil)

	doc, err := rep.Subject("3-2", "NLP")
	require.NoError(t, err)

	file := openReport(t, doc)
	rows, err := file.GetRows(file.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "0", rows[1][2])
	assert.Equal(t, "0%", rows[1][4])
}

func TestCombinedReport(t *testing.T) {
	f1 := models.Faculty{ID: "FAC001", Name: "Mr. Vikram", Semester: "3-2", Subject: "NLP"}
	f2 := models.Faculty{ID: "FAC010", Name: "Ms. Lakshmi", Semester: "4-2", Subject: "Deep Learning"}
	noLedger := models.Faculty{ID: "FAC099", Name: "Mr. Ghost", Semester: "4-2", Subject: "Ethics"}
	rep, store := newTestReporter(t, f1, f2, noLedger)

	fillLedger(t, store, f1, []string{"08-Dec"}, []models.Student{{RollNo: "R1", Name: "Alice"}}, map[string][]models.Mark{
		"08-Dec": {{RollNo: "R1", Status: "P"}},
	})
	fillLedger(t, store, f2, []string{"09-Dec"}, []models.Student{{RollNo: "S1", Name: "Ravi Teja"}}, nil)

	doc, err := rep.Combined([]string{"3-2", "4-2"})
	require.NoError(t, err)

	file := openReport(t, doc)
	sheets := file.GetSheetList()
	// Assignments without a ledger are skipped, not errors.
	require.Len(t, sheets, 2)
	assert.Contains(t, sheets, "3-2_Mr. Vikram")
	assert.Contains(t, sheets, "4-2_Ms. Lakshmi")

	rows, err := file.GetRows("3-2_Mr. Vikram")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "R1", rows[1][1], "ledger rows copied verbatim")
}

func TestCombinedReportSheetNameFallsBackToID(t *testing.T) {
	long := models.Faculty{ID: "FAC001", Name: "Dr. Venkata Subramanyam Raghavendra", Semester: "3-2", Subject: "NLP"}
	rep, store := newTestReporter(t, long)
	fillLedger(t, store, long, []string{"08-Dec"}, []models.Student{{RollNo: "R1", Name: "Alice"}}, nil)

	doc, err := rep.Combined([]string{"3-2"})
	require.NoError(t, err)

	file := openReport(t, doc)
	sheets := file.GetSheetList()
	require.Len(t, sheets, 1)
	assert.Equal(t, "3-2_FAC001", sheets[0])
}

func TestCombinedReportNoData(t *testing.T) {
	rep, _ := newTestReporter(t)

	_, err := rep.Combined([]string{"3-2", "4-2"})
	assert.ErrorIs(t, err, ErrNoDataFound)
}
