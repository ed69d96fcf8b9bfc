package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attendance-server-go/models"
)

func setupLedger(t *testing.T) (*Updater, models.Faculty) {
	t.Helper()
	store := newTestStore(t)
	f := testFaculty()
	require.NoError(t, store.CreateEmpty(f, []string{"08-Dec", "09-Dec"}))
	_, err := store.AppendStudents(f, []models.Student{
		{RollNo: "R1", Name: "Alice"},
		{RollNo: "R2", Name: "Bob"},
	})
	require.NoError(t, err)
	return NewUpdater(store), f
}

func TestApplyMarksAndRecomputesTotals(t *testing.T) {
	updater, f := setupLedger(t)

	updated, err := updater.Apply(f, "08-Dec", []models.Mark{{RollNo: "R1", Status: "A"}})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	updated, err = updater.Apply(f, "09-Dec", []models.Mark{
		{RollNo: "R1", Status: "P"},
		{RollNo: "R2", Status: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated)

	sheet, err := updater.Store.ReadAll(f)
	require.NoError(t, err)

	r1 := sheet.Find("R1")
	require.NotNil(t, r1)
	assert.Equal(t, 1, r1.Present)
	assert.Equal(t, 1, r1.Absent)
	assert.Equal(t, "50.0%", r1.Percent)

	r2 := sheet.Find("R2")
	require.NotNil(t, r2)
	assert.Equal(t, 0, r2.Present)
	assert.Equal(t, 1, r2.Absent)
	assert.Equal(t, "0.0%", r2.Percent)
}

func TestApplyIsIdempotent(t *testing.T) {
	updater, f := setupLedger(t)
	batch := []models.Mark{{RollNo: "R1", Status: "P"}, {RollNo: "R2", Status: "A"}}

	_, err := updater.Apply(f, "08-Dec", batch)
	require.NoError(t, err)
	first, err := updater.Store.ReadAll(f)
	require.NoError(t, err)

	_, err = updater.Apply(f, "08-Dec", batch)
	require.NoError(t, err)
	second, err := updater.Store.ReadAll(f)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestApplyUnknownDateColumnMutatesNothing(t *testing.T) {
	updater, f := setupLedger(t)
	_, err := updater.Apply(f, "08-Dec", []models.Mark{{RollNo: "R1", Status: "P"}})
	require.NoError(t, err)
	before, err := updater.Store.ReadAll(f)
	require.NoError(t, err)

	_, err = updater.Apply(f, "25-Dec", []models.Mark{{RollNo: "R1", Status: "A"}})
	assert.ErrorIs(t, err, ErrUnknownDateColumn)

	after, err := updater.Store.ReadAll(f)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestApplySkipsUnknownRollNumbers(t *testing.T) {
	updater, f := setupLedger(t)

	updated, err := updater.Apply(f, "08-Dec", []models.Mark{
		{RollNo: "R1", Status: "P"},
		{RollNo: "NOBODY", Status: "A"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
}

func TestLoad(t *testing.T) {
	updater, f := setupLedger(t)
	_, err := updater.Apply(f, "09-Dec", []models.Mark{{RollNo: "R2", Status: "P"}})
	require.NoError(t, err)

	attendance, err := updater.Load(f, "09-Dec")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"R1": "", "R2": "P"}, attendance)

	_, err = updater.Load(f, "25-Dec")
	assert.ErrorIs(t, err, ErrUnknownDateColumn)
}
