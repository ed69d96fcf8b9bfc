package registry

import (
	"fmt"
	"log"

	"attendance-server-go/models"
)

// Seed installs the demo faculty, admins, and rosters used by a fresh
// deployment. main calls it only when the loaded snapshot is empty.
func (r *Registry) Seed() error {
	faculty := []models.Faculty{
		{ID: "FAC001", Name: "Mr. Vikram", Password: "vikram123", Semester: "3-2", Subject: "NLP", Department: "CSE(DS)"},
		{ID: "FAC002", Name: "Dr. Kiran", Password: "kiran123", Semester: "3-2", Subject: "NLP", Department: "CSE(DS)"},
		{ID: "FAC004", Name: "Mr. Vishwanath", Password: "vishwanath123", Semester: "3-2", Subject: "Data Visualization", Department: "CSE(DS)"},
		{ID: "FAC007", Name: "Dr. Raghavendra", Password: "raghavendra123", Semester: "3-2", Subject: "Predictive Analysis", Department: "CSE(DS)"},
		{ID: "FAC010", Name: "Ms. Lakshmi", Password: "lakshmi123", Semester: "4-2", Subject: "Deep Learning", Department: "CSE(DS)"},
		{ID: "FAC011", Name: "Mr. Srinivas", Password: "srinivas123", Semester: "4-2", Subject: "Big Data Analytics", Department: "CSE(DS)"},
	}

	admins := []models.Admin{
		{ID: "ADMIN001", Name: "Principal", Password: "admin@2025", Role: "super_admin"},
		{ID: "ADMIN002", Name: "HOD CSE(DS)", Password: "hod@cseds", Role: "department_admin"},
	}

	students := map[string][]models.Student{
		"3-2": {
			{RollNo: "22091A3201", Name: "Rahul Sharma"},
			{RollNo: "22091A3202", Name: "Priya Patel"},
			{RollNo: "22091A3203", Name: "Amit Kumar"},
			{RollNo: "22091A3204", Name: "Sneha Reddy"},
			{RollNo: "22091A3205", Name: "Vikram Singh"},
			{RollNo: "22091A3206", Name: "Kavya Nair"},
			{RollNo: "22091A3207", Name: "Arjun Mehta"},
			{RollNo: "22091A3208", Name: "Deepika Rao"},
			{RollNo: "22091A3209", Name: "Karthik Iyer"},
			{RollNo: "22091A3210", Name: "Ananya Gupta"},
		},
		"4-2": {
			{RollNo: "21091A3201", Name: "Ravi Teja"},
			{RollNo: "21091A3202", Name: "Meena Kumari"},
			{RollNo: "21091A3203", Name: "Suresh Babu"},
			{RollNo: "21091A3204", Name: "Divya Sharma"},
			{RollNo: "21091A3205", Name: "Naveen Reddy"},
		},
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, f := range faculty {
		if !r.ledgers.Exists(f) {
			if err := r.ledgers.CreateEmpty(f, r.dateColumns); err != nil {
				return fmt.Errorf("failed to seed ledger for %s: %w", f.ID, err)
			}
			if _, err := r.ledgers.AppendStudents(f, students[f.Semester]); err != nil {
				return fmt.Errorf("failed to seed roster for %s: %w", f.ID, err)
			}
		}
		r.snap.Faculty = append(r.snap.Faculty, f)
		r.ensureSubject(f.Semester, f.Subject)
	}
	r.snap.Admins = append(r.snap.Admins, admins...)
	for sem, roster := range students {
		r.snap.Students[sem] = append(r.snap.Students[sem], roster...)
	}

	if err := r.store.Save(r.snap); err != nil {
		return err
	}
	log.Printf("Seeded registry: %d faculty, %d admins, %d semesters", len(faculty), len(admins), len(students))
	return nil
}
