package models

// Faculty is one teaching assignment: a faculty member bound to a
// semester and subject. Exactly one ledger file backs each assignment.
type Faculty struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Password   string `json:"password,omitempty"`
	Semester   string `json:"semester"`
	Subject    string `json:"subject"`
	Department string `json:"department"`
}

// Public returns the faculty profile without the password.
func (f Faculty) Public() Faculty {
	f.Password = ""
	return f
}

// Admin is an administrative login (super admin or department admin).
type Admin struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Password string `json:"password,omitempty"`
	Role     string `json:"role"`
}

// Student is one roster entry.
type Student struct {
	RollNo string `json:"rollNo"`
	Name   string `json:"name"`
}

// Mark is one attendance entry in a save batch.
type Mark struct {
	RollNo string `json:"rollNo" binding:"required"`
	Status string `json:"status" binding:"required,oneof=P A"`
}

// SaveAttendanceRequest is the body of POST /api/attendance/save.
type SaveAttendanceRequest struct {
	FacultyID  string `json:"facultyId" binding:"required"`
	Date       string `json:"date" binding:"required"`
	Attendance []Mark `json:"attendance" binding:"required,dive"`
}

// LoginRequest is shared by faculty and admin login.
type LoginRequest struct {
	FacultyID string `json:"facultyId"`
	AdminID   string `json:"adminId"`
	Password  string `json:"password" binding:"required"`
}

// AddSubjectRequest creates a subject and its assignments in one call.
type AddSubjectRequest struct {
	Semester string    `json:"semester" binding:"required"`
	Subject  string    `json:"subject" binding:"required"`
	Faculty  []Faculty `json:"faculty"`
}

// DeleteSubjectRequest removes a subject and everything under it.
type DeleteSubjectRequest struct {
	Semester string `json:"semester" binding:"required"`
	Subject  string `json:"subject" binding:"required"`
}

// AddStudentsRequest adds students to a semester roster and, when
// FacultyID is set, to that faculty's ledger as well.
type AddStudentsRequest struct {
	Semester  string    `json:"semester" binding:"required"`
	FacultyID string    `json:"facultyId"`
	Students  []Student `json:"students" binding:"required,dive"`
}
