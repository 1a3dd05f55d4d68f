package models

import "time"

// CourseType decides which kind of location a course is taught in.
type CourseType string

const (
	CourseTypeTheory  CourseType = "THEORY"
	CourseTypeLab     CourseType = "LAB"
	CourseTypeProject CourseType = "PROJECT"
	CourseTypeThesis  CourseType = "THESIS"
)

// NeedsLab reports whether the course is held in a lab rather than a room.
func (t CourseType) NeedsLab() bool {
	return t == CourseTypeLab
}

// Course is a department course offering.
type Course struct {
	ID           int64      `db:"id" json:"id"`
	DepartmentID int64      `db:"department_id" json:"department_id"`
	Code         string     `db:"code" json:"code"`
	Name         string     `db:"name" json:"name"`
	Credits      float64    `db:"credits" json:"credits"`
	Type         CourseType `db:"type" json:"type"`
	IsMajor      bool       `db:"is_major" json:"is_major"`
}

// CourseTeacher assigns one teacher to a course for a semester. The pair
// (semester, course) is unique; re-assigning replaces the teacher.
type CourseTeacher struct {
	ID         int64     `db:"id" json:"id"`
	SemesterID int64     `db:"semester_id" json:"semester_id"`
	CourseID   int64     `db:"course_id" json:"course_id"`
	TeacherID  int64     `db:"teacher_id" json:"teacher_id"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// CourseTeacherDetail carries the course attributes the generator needs.
type CourseTeacherDetail struct {
	CourseTeacher
	CourseCode    string     `db:"course_code" json:"course_code"`
	CourseName    string     `db:"course_name" json:"course_name"`
	CourseCredits float64    `db:"course_credits" json:"course_credits"`
	CourseType    CourseType `db:"course_type" json:"course_type"`
	IsMajor       bool       `db:"is_major" json:"is_major"`
	TeacherName   string     `db:"teacher_name" json:"teacher_name"`
}
