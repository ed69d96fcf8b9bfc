// Package report builds downloadable workbook reports by merging rows
// from many attendance ledgers. Reports are generated in memory and
// never written into the ledger directory.
package report

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"attendance-server-go/ledger"
	"attendance-server-go/models"
)

var (
	// ErrNoFacultyFound means no assignment matched the requested
	// semester and subject.
	ErrNoFacultyFound = errors.New("no faculty found for subject")

	// ErrNoDataFound means the matched assignments produced zero rows
	// or zero sheets.
	ErrNoDataFound = errors.New("no attendance data found")
)

// AssignmentSource resolves which assignments contribute to a report.
// The roster registry implements it.
type AssignmentSource interface {
	AssignmentsBySubject(semester, subject string) []models.Faculty
	AssignmentsBySemester(semester string) []models.Faculty
}

// Document is a finished report: workbook bytes plus a generated
// download name.
type Document struct {
	FileName string
	Content  []byte
}

// Reporter aggregates ledgers into report documents.
type Reporter struct {
	Assignments AssignmentSource
	Store       *ledger.Store
}

// NewReporter creates a Reporter.
func NewReporter(assignments AssignmentSource, store *ledger.Store) *Reporter {
	return &Reporter{Assignments: assignments, Store: store}
}

// studentRecord accumulates one student's counts across every ledger
// contributing to a subject. Counts are summed, never overwritten: each
// faculty ledger represents separate class sessions.
type studentRecord struct {
	RollNo  string
	Name    string
	Present int
	Absent  int
}

// Subject merges every ledger for (semester, subject) into one
// per-student summary sheet. Ledgers that do not exist yet, or that
// fail to load, are skipped with a diagnostic so one bad sheet cannot
// sink the whole report.
func (r *Reporter) Subject(semester, subject string) (*Document, error) {
	assignments := r.Assignments.AssignmentsBySubject(semester, subject)
	if len(assignments) == 0 {
		return nil, fmt.Errorf("%s / %s: %w", semester, subject, ErrNoFacultyFound)
	}

	records := make(map[string]*studentRecord)
	for _, f := range assignments {
		if !r.Store.Exists(f) {
			log.Printf("Subject report: no ledger yet for faculty %s (%s / %s), skipping", f.ID, semester, subject)
			continue
		}
		sheet, err := r.Store.ReadAll(f)
		if err != nil {
			log.Printf("Subject report: failed to read ledger for faculty %s: %v, skipping", f.ID, err)
			continue
		}
		for _, row := range sheet.Rows {
			rec := records[row.RollNo]
			if rec == nil {
				rec = &studentRecord{RollNo: row.RollNo, Name: row.Name}
				records[row.RollNo] = rec
			}
			if rec.Name == "" {
				rec.Name = row.Name
			}
			for _, d := range sheet.DateColumns {
				switch row.Dates[d] {
				case ledger.StatusPresent:
					rec.Present++
				case ledger.StatusAbsent:
					rec.Absent++
				}
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%s / %s: %w", semester, subject, ErrNoDataFound)
	}

	rolls := make([]string, 0, len(records))
	for roll := range records {
		rolls = append(rolls, roll)
	}
	// Roll numbers sort as strings: "22091A3210" before "22091A329".
	sort.Strings(rolls)

	file := excelize.NewFile()
	defer closeWorkbook(file)

	sheetName := "Subject Report"
	if err := file.SetSheetName(file.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("failed to name report sheet: %w", err)
	}
	header := []interface{}{"Roll No", "Student Name", "Classes Conducted", "Classes Attended", "Percentage"}
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write report header: %w", err)
	}
	for i, roll := range rolls {
		rec := records[roll]
		conducted := rec.Present + rec.Absent
		percent := "0%"
		if conducted > 0 {
			percent = fmt.Sprintf("%.2f%%", float64(rec.Present)/float64(conducted)*100)
		}
		cells := []interface{}{rec.RollNo, rec.Name, conducted, rec.Present, percent}
		anchor, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute report row anchor: %w", err)
		}
		if err := file.SetSheetRow(sheetName, anchor, &cells); err != nil {
			return nil, fmt.Errorf("failed to write report row %d: %w", i+2, err)
		}
	}
	widths := []float64{15, 25, 16, 16, 12}
	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("failed to compute report column name: %w", err)
		}
		if err := file.SetColWidth(sheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("failed to set report column width: %w", err)
		}
	}

	return finish(file, fmt.Sprintf("subject_report_%s_%s_%s.xlsx",
		sanitizeToken(semester), sanitizeToken(subject), shortID()))
}

// Combined builds one workbook with a sheet per (semester, assignment)
// that has an existing ledger, rows copied verbatim. Assignments with
// no ledger yet are skipped; zero produced sheets is ErrNoDataFound.
func (r *Reporter) Combined(semesters []string) (*Document, error) {
	file := excelize.NewFile()
	defer closeWorkbook(file)

	defaultSheet := file.GetSheetName(0)
	used := make(map[string]bool)
	produced := 0

	for _, semester := range semesters {
		for _, f := range r.Assignments.AssignmentsBySemester(semester) {
			if !r.Store.Exists(f) {
				continue
			}
			sheet, err := r.Store.ReadAll(f)
			if err != nil {
				log.Printf("Combined report: failed to read ledger for faculty %s: %v, skipping", f.ID, err)
				continue
			}

			name := combinedSheetName(semester, f, used)
			used[name] = true
			if produced == 0 {
				if err := file.SetSheetName(defaultSheet, name); err != nil {
					return nil, fmt.Errorf("failed to name sheet %q: %w", name, err)
				}
			} else {
				if _, err := file.NewSheet(name); err != nil {
					return nil, fmt.Errorf("failed to add sheet %q: %w", name, err)
				}
			}
			if err := ledger.WriteSheet(file, name, sheet); err != nil {
				return nil, fmt.Errorf("failed to write sheet %q: %w", name, err)
			}
			produced++
		}
	}

	if produced == 0 {
		return nil, fmt.Errorf("semesters %s: %w", strings.Join(semesters, ","), ErrNoDataFound)
	}

	return finish(file, fmt.Sprintf("combined_report_%s.xlsx", shortID()))
}

// combinedSheetName builds a legal, unique worksheet name. Workbook
// sheet names are capped at 31 characters; when semester+facultyName
// will not fit, the shorter facultyId is used instead.
func combinedSheetName(semester string, f models.Faculty, used map[string]bool) string {
	name := sanitizeSheetName(semester + "_" + f.Name)
	if len(name) > 31 {
		name = sanitizeSheetName(semester + "_" + f.ID)
	}
	if len(name) > 31 {
		name = name[:31]
	}
	if !used[name] {
		return name
	}
	for i := 2; ; i++ {
		suffix := fmt.Sprintf("_%d", i)
		candidate := name
		if len(candidate)+len(suffix) > 31 {
			candidate = candidate[:31-len(suffix)]
		}
		candidate += suffix
		if !used[candidate] {
			return candidate
		}
	}
}

// sheetNameIllegal covers the characters xlsx forbids in sheet names.
var sheetNameIllegal = strings.NewReplacer(":", "", "\\", "", "/", "", "?", "", "*", "", "[", "", "]", "")

func sanitizeSheetName(name string) string {
	return strings.TrimSpace(sheetNameIllegal.Replace(name))
}

func sanitizeToken(s string) string {
	return strings.NewReplacer(" ", "_", "-", "_", "/", "_").Replace(s)
}

func shortID() string {
	return uuid.NewString()[:8]
}

func finish(file *excelize.File, fileName string) (*Document, error) {
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize report: %w", err)
	}
	return &Document{FileName: fileName, Content: buf.Bytes()}, nil
}

func closeWorkbook(file *excelize.File) {
	if err := file.Close(); err != nil {
		log.Printf("Error closing report workbook: %v", err)
	}
}
