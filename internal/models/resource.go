package models

// ResourceStatus marks whether a room or lab may be booked.
type ResourceStatus string

const (
	ResourceAvailable   ResourceStatus = "AVAILABLE"
	ResourceUnavailable ResourceStatus = "UNAVAILABLE"
)

// Room is a theory classroom owned by a department.
type Room struct {
	ID           int64          `db:"id" json:"id"`
	DepartmentID int64          `db:"department_id" json:"department_id"`
	Name         string         `db:"name" json:"name"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Status       ResourceStatus `db:"status" json:"status"`
}

// Lab is a laboratory owned by a department.
type Lab struct {
	ID           int64          `db:"id" json:"id"`
	DepartmentID int64          `db:"department_id" json:"department_id"`
	Name         string         `db:"name" json:"name"`
	Capacity     int            `db:"capacity" json:"capacity"`
	Status       ResourceStatus `db:"status" json:"status"`
}

// Semester is a cohort of a department identified by its intake session.
type Semester struct {
	ID           int64  `db:"id" json:"id"`
	DepartmentID int64  `db:"department_id" json:"department_id"`
	Name         string `db:"name" json:"name"`
	Session      string `db:"session" json:"session"`
	IsActive     bool   `db:"is_active" json:"is_active"`
}

// Department owns rooms, labs, courses and semesters.
type Department struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
	Code string `db:"code" json:"code"`
}
