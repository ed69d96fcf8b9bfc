package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// --- Report Handlers ---

// SubjectReport handles GET /api/reports/subject?semester=&subject=.
// Streams the merged per-student workbook back as a download.
func (h *APIHandler) SubjectReport(c *gin.Context) {
	semester := c.Query("semester")
	subject := c.Query("subject")
	if semester == "" || subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "semester and subject query parameters are required"})
		return
	}

	doc, err := h.Reporter.Subject(semester, subject)
	if err != nil {
		fail(c, "SubjectReport", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, doc.Content)
}

// CombinedReport handles GET /api/reports/combined?semesters=3-2,4-2.
// One sheet per assignment that has a ledger on disk.
func (h *APIHandler) CombinedReport(c *gin.Context) {
	raw := c.Query("semesters")
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "semesters query parameter is required"})
		return
	}
	var semesters []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			semesters = append(semesters, s)
		}
	}
	if len(semesters) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "at least one semester is required"})
		return
	}

	doc, err := h.Reporter.Combined(semesters)
	if err != nil {
		fail(c, "CombinedReport", err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+doc.FileName+`"`)
	c.Data(http.StatusOK, xlsxContentType, doc.Content)
}
