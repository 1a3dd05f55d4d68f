package models

import (
	"regexp"
	"time"
)

// UserRole represents the available roles for the RBAC system.
type UserRole string

const (
	RoleSuperAdmin      UserRole = "SUPER_ADMIN"
	RoleDepartmentAdmin UserRole = "DEPARTMENT_ADMIN"
	RoleTeacher         UserRole = "TEACHER"
	RoleStudent         UserRole = "STUDENT"
)

// sessionPattern accepts academic sessions such as 2019-20 or 2019-2020.
var sessionPattern = regexp.MustCompile(`^\d{4}-(\d{2}|\d{4})$`)

// ValidSession reports whether raw is a well-formed academic session.
func ValidSession(raw string) bool {
	return sessionPattern.MatchString(raw)
}

// User is a teacher, student or administrator of a department.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	Role         UserRole  `db:"role" json:"role"`
	DepartmentID *int64    `db:"department_id" json:"department_id,omitempty"`
	Session      *string   `db:"session" json:"session,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// Enrollment registers a student for a course.
type Enrollment struct {
	StudentID int64 `db:"student_id" json:"student_id"`
	CourseID  int64 `db:"course_id" json:"course_id"`
}
