package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-server-go/ledger"
	"attendance-server-go/models"
	"attendance-server-go/registry"
	"attendance-server-go/report"
)

// APIHandler holds the dependencies for API handlers.
type APIHandler struct {
	Registry *registry.Registry
	Ledgers  *ledger.Store
	Updater  *ledger.Updater
	Reporter *report.Reporter
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(reg *registry.Registry, ledgers *ledger.Store, updater *ledger.Updater, reporter *report.Reporter) *APIHandler {
	return &APIHandler{
		Registry: reg,
		Ledgers:  ledgers,
		Updater:  updater,
		Reporter: reporter,
	}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ledger.ErrNotFound),
		errors.Is(err, registry.ErrFacultyNotFound),
		errors.Is(err, registry.ErrSubjectNotFound),
		errors.Is(err, report.ErrNoFacultyFound),
		errors.Is(err, report.ErrNoDataFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrUnknownDateColumn):
		return http.StatusBadRequest
	case errors.Is(err, registry.ErrDuplicateAssignment),
		errors.Is(err, registry.ErrSubjectExists):
		return http.StatusConflict
	case errors.Is(err, registry.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// fail logs the error and writes the standard failure envelope.
func fail(c *gin.Context, context string, err error) {
	log.Printf("Error in %s: %v", context, err)
	c.JSON(statusFor(err), gin.H{"success": false, "message": err.Error()})
}

// --- Faculty Handlers ---

// GetFacultyList handles GET /api/faculty/list.
func (h *APIHandler) GetFacultyList(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    h.Registry.PublicFaculty(),
	})
}

// FacultyLogin handles POST /api/faculty/login.
func (h *APIHandler) FacultyLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if req.FacultyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "facultyId is required"})
		return
	}

	faculty, err := h.Registry.Authenticate(req.FacultyID, req.Password)
	if err != nil {
		fail(c, "FacultyLogin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"faculty": faculty,
	})
}

// AdminLogin handles POST /api/admin/login.
func (h *APIHandler) AdminLogin(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if req.AdminID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "adminId is required"})
		return
	}

	admin, err := h.Registry.AuthenticateAdmin(req.AdminID, req.Password)
	if err != nil {
		fail(c, "AdminLogin", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Login successful",
		"admin":   admin,
	})
}

// GetStudentsBySemester handles GET /api/students/:semester.
func (h *APIHandler) GetStudentsBySemester(c *gin.Context) {
	semester := c.Param("semester")
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"semester": semester,
		"data":     h.Registry.StudentsBySemester(semester),
	})
}

// --- Attendance Handlers ---

// LoadAttendance handles GET /api/attendance/load/:facultyId/:date.
// A missing ledger is not an error here: the client shows an empty
// grid instead.
func (h *APIHandler) LoadAttendance(c *gin.Context) {
	facultyID := c.Param("facultyId")
	date := c.Param("date")

	faculty, err := h.Registry.FacultyByID(facultyID)
	if err != nil {
		fail(c, "LoadAttendance", err)
		return
	}

	attendance, err := h.Updater.Load(faculty, date)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{
				"success":    true,
				"exists":     false,
				"message":    "Sheet not found. It is created when the assignment is registered.",
				"attendance": gin.H{},
			})
			return
		}
		fail(c, "LoadAttendance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"exists":     true,
		"date":       date,
		"attendance": attendance,
		"fileName":   ledger.FileName(faculty),
	})
}

// SaveAttendance handles POST /api/attendance/save. The whole batch is
// rejected when the date column does not exist; unknown roll numbers
// within the batch are skipped.
func (h *APIHandler) SaveAttendance(c *gin.Context) {
	var req models.SaveAttendanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	faculty, err := h.Registry.FacultyByID(req.FacultyID)
	if err != nil {
		fail(c, "SaveAttendance", err)
		return
	}

	updated, err := h.Updater.Apply(faculty, req.Date, req.Attendance)
	if err != nil {
		fail(c, "SaveAttendance", err)
		return
	}

	fileName := ledger.FileName(faculty)
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"message":      fmt.Sprintf("Attendance saved for %s", req.Date),
		"fileName":     fileName,
		"sheetUrl":     "/sheets/" + fileName,
		"updatedCount": updated,
	})
}

// rowView is the JSON shape of one ledger row.
type rowView struct {
	Seq          int               `json:"sNo"`
	RollNo       string            `json:"rollNo"`
	Name         string            `json:"name"`
	Attendance   map[string]string `json:"attendance"`
	TotalPresent int               `json:"totalPresent"`
	TotalAbsent  int               `json:"totalAbsent"`
	Percentage   string            `json:"percentage"`
}

// GetSheetInfo handles GET /api/attendance/sheet/:facultyId.
func (h *APIHandler) GetSheetInfo(c *gin.Context) {
	facultyID := c.Param("facultyId")

	faculty, err := h.Registry.FacultyByID(facultyID)
	if err != nil {
		fail(c, "GetSheetInfo", err)
		return
	}

	if !h.Ledgers.Exists(faculty) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"exists":  false,
			"message": "No attendance sheet found for this assignment.",
		})
		return
	}

	sheet, err := h.Ledgers.ReadAll(faculty)
	if err != nil {
		fail(c, "GetSheetInfo", err)
		return
	}

	rows := make([]rowView, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		rows = append(rows, rowView{
			Seq:          row.Seq,
			RollNo:       row.RollNo,
			Name:         row.Name,
			Attendance:   row.Dates,
			TotalPresent: row.Present,
			TotalAbsent:  row.Absent,
			Percentage:   row.Percent,
		})
	}

	fileName := ledger.FileName(faculty)
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"exists":   true,
		"fileName": fileName,
		"sheetUrl": "/sheets/" + fileName,
		"dates":    sheet.DateColumns,
		"data":     rows,
	})
}

// UploadAttendance handles POST /api/upload-attendance: parse an
// uploaded workbook and return the computed per-student summary.
func (h *APIHandler) UploadAttendance(c *gin.Context) {
	file, header, err := c.Request.FormFile("attendanceFile")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "No file uploaded"})
		return
	}
	defer file.Close()

	log.Printf("Received attendance upload: %s", header.Filename)

	rows, dates, err := ledger.ParseUpload(file)
	if err != nil {
		fail(c, "UploadAttendance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    rows,
		"dates":   dates,
		"message": fmt.Sprintf("Attendance data uploaded successfully. %d students, %d dates.", len(rows), len(dates)),
	})
}

// --- Ping Handler ---

// PingHandler handles GET /api/ping.
func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Pong!"})
}
