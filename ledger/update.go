package ledger

import (
	"fmt"

	"attendance-server-go/models"
)

// Updater applies per-date attendance batches to one ledger at a time.
type Updater struct {
	Store *Store
}

// NewUpdater creates an Updater over the given store.
func NewUpdater(store *Store) *Updater {
	return &Updater{Store: store}
}

// Apply writes a batch of marks into the given date column and
// recomputes totals for every mutated row, then rewrites the whole
// ledger. The date column is validated before anything is touched:
// an unknown label fails the entire batch with ErrUnknownDateColumn.
// Marks for roll numbers not in the ledger are skipped, matching the
// permissive save behavior faculty rely on. Returns the number of
// distinct rows updated.
func (u *Updater) Apply(f models.Faculty, date string, marks []models.Mark) (int, error) {
	sheet, err := u.Store.ReadAll(f)
	if err != nil {
		return 0, err
	}
	if !sheet.HasDate(date) {
		return 0, fmt.Errorf("%q: %w", date, ErrUnknownDateColumn)
	}

	mutated := make(map[string]bool)
	for _, mark := range marks {
		row := sheet.Find(mark.RollNo)
		if row == nil {
			continue
		}
		row.Dates[date] = mark.Status
		row.Recompute(sheet.DateColumns)
		mutated[mark.RollNo] = true
	}

	if err := u.Store.write(f, sheet); err != nil {
		return 0, err
	}
	return len(mutated), nil
}

// Load returns the rollNo → status mapping for one date column, empty
// string for unfilled cells. Used by the per-date attendance view.
func (u *Updater) Load(f models.Faculty, date string) (map[string]string, error) {
	sheet, err := u.Store.ReadAll(f)
	if err != nil {
		return nil, err
	}
	if !sheet.HasDate(date) {
		return nil, fmt.Errorf("%q: %w", date, ErrUnknownDateColumn)
	}

	attendance := make(map[string]string, len(sheet.Rows))
	for _, row := range sheet.Rows {
		attendance[row.RollNo] = row.Dates[date]
	}
	return attendance, nil
}
