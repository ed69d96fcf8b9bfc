package ledger

import (
	"fmt"
	"strconv"
	"strings"
)

// Canonical column headers written to every ledger. Readers accept the
// variants listed in headerAliases so sheets edited elsewhere still load.
const (
	colSeq     = "S.No"
	colRoll    = "Roll No"
	colName    = "Student Name"
	colPresent = "Total Present"
	colAbsent  = "Total Absent"
	colPercent = "Percentage"
	colReason  = "Absence Reason"
	colParent  = "Parent Contacted"

	// SheetName is the single worksheet every ledger file contains.
	SheetName = "Attendance"
)

// Attendance cell values. Anything else in a date column is treated as
// unfilled.
const (
	StatusPresent = "P"
	StatusAbsent  = "A"
)

// Row is one student's line in a ledger: identity, one cell per date
// column, and the derived totals. Totals are always recomputed from the
// date cells, never trusted from disk.
type Row struct {
	Seq     int
	RollNo  string
	Name    string
	Dates   map[string]string
	Present int
	Absent  int
	Percent string
}

// Recompute refreshes the derived totals from the date cells.
func (r *Row) Recompute(dateColumns []string) {
	present, absent := 0, 0
	for _, d := range dateColumns {
		switch r.Dates[d] {
		case StatusPresent:
			present++
		case StatusAbsent:
			absent++
		}
	}
	r.Present = present
	r.Absent = absent
	r.Percent = FormatPercent(present, absent)
}

// FormatPercent renders present/(present+absent) as e.g. "83.3%", or
// "0%" when nothing has been filled yet.
func FormatPercent(present, absent int) string {
	total := present + absent
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.1f%%", float64(present)/float64(total)*100)
}

// Sheet is a fully loaded ledger: the fixed date-column set in display
// order plus every student row.
type Sheet struct {
	DateColumns []string
	Rows        []Row
}

// HasDate reports whether label is one of the ledger's date columns.
func (s *Sheet) HasDate(label string) bool {
	for _, d := range s.DateColumns {
		if d == label {
			return true
		}
	}
	return false
}

// Find returns the row with the given roll number, or nil.
func (s *Sheet) Find(rollNo string) *Row {
	for i := range s.Rows {
		if s.Rows[i].RollNo == rollNo {
			return &s.Rows[i]
		}
	}
	return nil
}

// headerAliases maps normalized header names to the canonical column.
// Resolution happens once per load; nothing downstream ever branches on
// header spelling again.
var headerAliases = map[string]string{
	"sno":           colSeq,
	"rollno":        colRoll,
	"studentrollno": colRoll,
	"htno":          colRoll,
	"name":          colName,
	"studentname":   colName,
	"totalpresent":  colPresent,
	"totalabsent":   colAbsent,
	"percentage":    colPercent,

	// Upload-only columns.
	"absencereason":   colReason,
	"reason":          colReason,
	"parentcontacted": colParent,
}

func canonicalHeader(raw string) (string, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.ReplaceAll(key, " ", "")
	key = strings.ReplaceAll(key, ".", "")
	canon, ok := headerAliases[key]
	return canon, ok
}

// columnLayout is the resolved position of every column in one sheet.
// A -1 index means the sheet does not carry that column.
type columnLayout struct {
	seq, roll, name          int
	present, absent, percent int
	reason, parent           int
	dates                    []dateColumn
}

type dateColumn struct {
	index int
	label string
}

// resolveColumns maps a raw header row to a columnLayout. Every header
// that is not one of the fixed columns is taken as a date column, in
// display order.
func resolveColumns(headers []string) (columnLayout, error) {
	layout := columnLayout{seq: -1, roll: -1, name: -1, present: -1, absent: -1, percent: -1, reason: -1, parent: -1}
	for i, h := range headers {
		canon, ok := canonicalHeader(h)
		if !ok {
			if strings.TrimSpace(h) == "" {
				continue
			}
			layout.dates = append(layout.dates, dateColumn{index: i, label: h})
			continue
		}
		switch canon {
		case colSeq:
			layout.seq = i
		case colRoll:
			layout.roll = i
		case colName:
			layout.name = i
		case colPresent:
			layout.present = i
		case colAbsent:
			layout.absent = i
		case colPercent:
			layout.percent = i
		case colReason:
			layout.reason = i
		case colParent:
			layout.parent = i
		}
	}
	if layout.roll == -1 {
		return layout, fmt.Errorf("sheet has no roll number column")
	}
	return layout, nil
}

// parseSheet converts the raw cell grid from the codec into a Sheet.
func parseSheet(grid [][]string) (*Sheet, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("sheet is empty")
	}
	layout, err := resolveColumns(grid[0])
	if err != nil {
		return nil, err
	}

	sheet := &Sheet{}
	for _, d := range layout.dates {
		sheet.DateColumns = append(sheet.DateColumns, d.label)
	}

	for _, raw := range grid[1:] {
		roll := cellAt(raw, layout.roll)
		if roll == "" {
			continue
		}
		row := Row{
			RollNo: roll,
			Name:   cellAt(raw, layout.name),
			Dates:  make(map[string]string, len(layout.dates)),
		}
		if seq, err := strconv.Atoi(cellAt(raw, layout.seq)); err == nil {
			row.Seq = seq
		}
		for _, d := range layout.dates {
			if v := strings.ToUpper(strings.TrimSpace(cellAt(raw, d.index))); v == StatusPresent || v == StatusAbsent {
				row.Dates[d.label] = v
			} else {
				row.Dates[d.label] = ""
			}
		}
		row.Recompute(sheet.DateColumns)
		sheet.Rows = append(sheet.Rows, row)
	}
	return sheet, nil
}

// cellAt is bounds-safe: GetRows trims trailing empty cells, so short
// rows are normal.
func cellAt(row []string, index int) string {
	if index < 0 || index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
