package models

// ParentStudentRelation links a parent user to a student. Many-to-many join
// record with its own lifecycle; at most one row per (parent, student) pair.
type ParentStudentRelation struct {
	ID        string `json:"id" db:"id"`
	ParentID  string `json:"parentId" db:"parent_id"`
	StudentID string `json:"studentId" db:"student_id"`
}

// StudentBusAssignment links a student to the bus that picks them up. A
// student holds at most one assignment at a time.
type StudentBusAssignment struct {
	ID        string `json:"id" db:"id"`
	StudentID string `json:"studentId" db:"student_id"`
	BusID     string `json:"busId" db:"bus_id"`
}
