package ledger

import (
	"fmt"
	"hash/crc32"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"attendance-server-go/models"
)

var whitespaceRe = regexp.MustCompile(`[\s-]+`)

// Store maps assignments to their backing .xlsx ledger files inside a
// single directory and owns all reads and writes of those files.
type Store struct {
	Dir string
}

// NewStore creates the sheets directory if needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create sheets directory %s: %w", dir, err)
	}
	return &Store{Dir: dir}, nil
}

// FileName derives the ledger file name for an assignment. The readable
// part follows the {id}_{semester}_{subject} convention with spaces and
// hyphens collapsed to underscores; the crc32 of the raw triple keeps
// distinct assignments distinct even when normalization collides.
func FileName(f models.Faculty) string {
	sem := strings.ReplaceAll(f.Semester, "-", "_")
	subj := whitespaceRe.ReplaceAllString(f.Subject, "_")
	sum := crc32.ChecksumIEEE([]byte(f.ID + "\x00" + f.Semester + "\x00" + f.Subject))
	return fmt.Sprintf("%s_%s_%s_%08x.xlsx", f.ID, sem, subj, sum)
}

// PathFor returns the full path of the assignment's ledger file.
func (s *Store) PathFor(f models.Faculty) string {
	return filepath.Join(s.Dir, FileName(f))
}

// Exists reports whether the assignment's ledger file is on disk.
func (s *Store) Exists(f models.Faculty) bool {
	_, err := os.Stat(s.PathFor(f))
	return err == nil
}

// ReadAll loads the assignment's ledger. Returns ErrNotFound when no
// sheet has been created yet.
func (s *Store) ReadAll(f models.Faculty) (*Sheet, error) {
	path := s.PathFor(f)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("ledger for faculty %s: %w", f.ID, ErrNotFound)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger %s: %w", path, err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing ledger %s: %v", path, err)
		}
	}()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("ledger %s contains no sheets", path)
	}
	grid, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", path, err)
	}
	sheet, err := parseSheet(grid)
	if err != nil {
		return nil, fmt.Errorf("failed to parse ledger %s: %w", path, err)
	}
	return sheet, nil
}

// CreateEmpty writes a new ledger containing only the header row. The
// date-column set passed here is final for the life of the ledger.
func (s *Store) CreateEmpty(f models.Faculty, dateColumns []string) error {
	sheet := &Sheet{DateColumns: dateColumns}
	return s.write(f, sheet)
}

// AppendStudents adds students to the assignment's ledger with every
// date cell blank and totals zeroed. Students whose roll number is
// already present are skipped; existing row order is preserved. Returns
// the number of rows actually appended.
func (s *Store) AppendStudents(f models.Faculty, students []models.Student) (int, error) {
	sheet, err := s.ReadAll(f)
	if err != nil {
		return 0, err
	}

	existing := make(map[string]bool, len(sheet.Rows))
	for _, row := range sheet.Rows {
		existing[row.RollNo] = true
	}

	added := 0
	for _, st := range students {
		if st.RollNo == "" || existing[st.RollNo] {
			continue
		}
		existing[st.RollNo] = true
		row := Row{
			Seq:     len(sheet.Rows) + 1,
			RollNo:  st.RollNo,
			Name:    st.Name,
			Dates:   make(map[string]string, len(sheet.DateColumns)),
			Percent: "0%",
		}
		for _, d := range sheet.DateColumns {
			row.Dates[d] = ""
		}
		sheet.Rows = append(sheet.Rows, row)
		added++
	}

	if added == 0 {
		return 0, nil
	}
	if err := s.write(f, sheet); err != nil {
		return 0, err
	}
	return added, nil
}

// Delete removes the assignment's ledger file. A missing file is not an
// error; cascade deletes call this for every assignment unconditionally.
func (s *Store) Delete(f models.Faculty) error {
	err := os.Remove(s.PathFor(f))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete ledger for faculty %s: %w", f.ID, err)
	}
	return nil
}

// write serializes the sheet and replaces the ledger file wholesale.
func (s *Store) write(f models.Faculty, sheet *Sheet) error {
	file := excelize.NewFile()
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing workbook for faculty %s: %v", f.ID, err)
		}
	}()

	if err := file.SetSheetName(file.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := WriteSheet(file, SheetName, sheet); err != nil {
		return err
	}
	if err := file.SaveAs(s.PathFor(f)); err != nil {
		return fmt.Errorf("failed to save ledger for faculty %s: %w", f.ID, err)
	}
	return nil
}

// WriteSheet lays out header, rows, and column widths on an open
// worksheet. The report builder uses it to copy ledger rows verbatim
// into multi-sheet workbooks.
func WriteSheet(file *excelize.File, sheetName string, sheet *Sheet) error {
	header := make([]interface{}, 0, len(sheet.DateColumns)+6)
	header = append(header, colSeq, colRoll, colName)
	for _, d := range sheet.DateColumns {
		header = append(header, d)
	}
	header = append(header, colPresent, colAbsent, colPercent)
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header row: %w", err)
	}

	for i, row := range sheet.Rows {
		cells := make([]interface{}, 0, len(header))
		cells = append(cells, row.Seq, row.RollNo, row.Name)
		for _, d := range sheet.DateColumns {
			cells = append(cells, row.Dates[d])
		}
		cells = append(cells, row.Present, row.Absent, row.Percent)
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute row anchor: %w", err)
		}
		if err := file.SetSheetRow(sheetName, anchor, &cells); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	widths := []float64{5, 15, 25}
	for range sheet.DateColumns {
		widths = append(widths, 8)
	}
	widths = append(widths, 12, 12, 10)
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return fmt.Errorf("failed to compute column name: %w", err)
		}
		if err := file.SetColWidth(sheetName, col, col, w); err != nil {
			return fmt.Errorf("failed to set column width: %w", err)
		}
	}
	return nil
}
