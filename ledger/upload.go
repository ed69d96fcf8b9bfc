package ledger

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"
)

// UploadRow is one processed student line from an uploaded sheet.
// Totals are recomputed from the P/A cells the uploader filled in;
// the percentage counts filled days only. The absence reason is
// base64-encoded before it leaves the server, as the clients expect.
type UploadRow struct {
	RollNo          string            `json:"StudentRollNo"`
	Name            string            `json:"StudentName"`
	DateAttendance  map[string]string `json:"dateAttendance"`
	TotalPresent    int               `json:"TotalPresent"`
	TotalAbsent     int               `json:"TotalAbsent"`
	TotalDays       int               `json:"TotalDays"`
	Percentage      string            `json:"Percentage"`
	AbsenceReason   string            `json:"AbsenceReason"`
	ParentContacted bool              `json:"ParentContacted"`
}

// ParseUpload reads an uploaded workbook's first sheet and returns the
// processed rows plus the date-column labels found in the header.
// Headers are matched through the usual alias resolution, and only
// columns that look like date labels count as attendance columns.
func ParseUpload(r io.Reader) ([]UploadRow, []string, error) {
	file, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.Printf("Error closing uploaded file: %v", err)
		}
	}()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, nil, errors.New("uploaded file does not contain any sheets")
	}
	grid, err := file.GetRows(sheetName)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheetName, err)
	}
	if len(grid) == 0 {
		return nil, nil, errors.New("uploaded sheet is empty")
	}

	layout, err := resolveColumns(grid[0])
	if err != nil {
		return nil, nil, err
	}
	var dates []dateColumn
	for _, d := range layout.dates {
		if IsDateLabel(d.label) {
			dates = append(dates, d)
		}
	}

	var labels []string
	for _, d := range dates {
		labels = append(labels, d.label)
	}

	var rows []UploadRow
	for _, raw := range grid[1:] {
		roll := cellAt(raw, layout.roll)
		if roll == "" {
			continue
		}
		row := UploadRow{
			RollNo:         roll,
			Name:           cellAt(raw, layout.name),
			DateAttendance: make(map[string]string, len(dates)),
		}
		for _, d := range dates {
			switch strings.ToUpper(cellAt(raw, d.index)) {
			case StatusPresent:
				row.DateAttendance[d.label] = StatusPresent
				row.TotalPresent++
			case StatusAbsent:
				row.DateAttendance[d.label] = StatusAbsent
				row.TotalAbsent++
			default:
				row.DateAttendance[d.label] = ""
			}
		}
		row.TotalDays = row.TotalPresent + row.TotalAbsent
		if row.TotalDays > 0 {
			row.Percentage = fmt.Sprintf("%.1f%%", float64(row.TotalPresent)/float64(row.TotalDays)*100)
		} else {
			row.Percentage = "0%"
		}

		reason := cellAt(raw, layout.reason)
		if reason == "" {
			reason = "N/A"
		}
		row.AbsenceReason = base64.StdEncoding.EncodeToString([]byte(reason))
		row.ParentContacted = strings.EqualFold(cellAt(raw, layout.parent), "Yes") || row.TotalAbsent > 3

		rows = append(rows, row)
	}
	return rows, labels, nil
}
