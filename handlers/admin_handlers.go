package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"attendance-server-go/models"
)

// --- Admin Handlers ---

// AddSubject handles POST /api/admin/subjects: create a subject and
// register its faculty assignments, each with a fresh empty ledger.
func (h *APIHandler) AddSubject(c *gin.Context) {
	var req models.AddSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.Registry.AddSubject(req.Semester, req.Subject, req.Faculty); err != nil {
		fail(c, "AddSubject", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Subject %s added to semester %s with %d assignments", req.Subject, req.Semester, len(req.Faculty)),
	})
}

// DeleteSubject handles DELETE /api/admin/subjects: remove the subject
// from the catalog, every assignment teaching it, and their ledger
// files.
func (h *APIHandler) DeleteSubject(c *gin.Context) {
	var req models.DeleteSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.Registry.DeleteSubject(req.Semester, req.Subject); err != nil {
		fail(c, "DeleteSubject", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Subject %s removed from semester %s", req.Subject, req.Semester),
	})
}

// AddAssignment handles POST /api/admin/assignments.
func (h *APIHandler) AddAssignment(c *gin.Context) {
	var faculty models.Faculty
	if err := c.ShouldBindJSON(&faculty); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}
	if faculty.ID == "" || faculty.Semester == "" || faculty.Subject == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "id, semester, and subject are required"})
		return
	}

	if err := h.Registry.AddAssignment(faculty); err != nil {
		fail(c, "AddAssignment", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Assignment created for faculty %s", faculty.ID),
		"faculty": faculty.Public(),
	})
}

// RemoveAssignment handles DELETE /api/admin/assignments/:facultyId.
func (h *APIHandler) RemoveAssignment(c *gin.Context) {
	facultyID := c.Param("facultyId")

	if err := h.Registry.RemoveAssignment(facultyID); err != nil {
		fail(c, "RemoveAssignment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": fmt.Sprintf("Assignment and ledger removed for faculty %s", facultyID),
	})
}

// AddStudents handles POST /api/admin/students: merge students into the
// semester roster and, when facultyId is given, append them to that
// faculty's ledger too.
func (h *APIHandler) AddStudents(c *gin.Context) {
	var req models.AddStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body: " + err.Error()})
		return
	}

	if err := h.Registry.AddStudents(req.Semester, req.Students); err != nil {
		fail(c, "AddStudents", err)
		return
	}

	appended := 0
	if req.FacultyID != "" {
		var err error
		appended, err = h.Registry.AddStudentsToLedger(req.FacultyID, req.Students)
		if err != nil {
			fail(c, "AddStudents", err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       fmt.Sprintf("%d students processed for semester %s", len(req.Students), req.Semester),
		"appendedCount": appended,
	})
}
