package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/routine-api/internal/models"
)

const courseTeacherDetailSelect = `
SELECT ct.id, ct.semester_id, ct.course_id, ct.teacher_id, ct.created_at, ct.updated_at,
       c.code AS course_code, c.name AS course_name, c.credits AS course_credits, c.type AS course_type,
       c.is_major, u.name AS teacher_name
FROM course_teachers ct
JOIN semesters s ON s.id = ct.semester_id
JOIN courses c ON c.id = ct.course_id
JOIN users u ON u.id = ct.teacher_id`

// CourseTeacherRepository persists course-teacher assignments per semester.
type CourseTeacherRepository struct {
	db *sqlx.DB
}

// NewCourseTeacherRepository constructs the repository.
func NewCourseTeacherRepository(db *sqlx.DB) *CourseTeacherRepository {
	return &CourseTeacherRepository{db: db}
}

// ListForGeneration returns the assignments of the given department semesters
// with the course attributes the generator reads.
func (r *CourseTeacherRepository) ListForGeneration(ctx context.Context, departmentID int64, semesterIDs []int64) ([]models.CourseTeacherDetail, error) {
	query := courseTeacherDetailSelect + `
WHERE s.department_id = $1 AND ct.semester_id = ANY($2)
ORDER BY ct.semester_id ASC, ct.id ASC`
	var assignments []models.CourseTeacherDetail
	if err := r.db.SelectContext(ctx, &assignments, query, departmentID, pq.Array(semesterIDs)); err != nil {
		return nil, fmt.Errorf("list course teachers for generation: %w", err)
	}
	return assignments, nil
}

// ListBySemester returns every assignment of a semester.
func (r *CourseTeacherRepository) ListBySemester(ctx context.Context, semesterID int64) ([]models.CourseTeacherDetail, error) {
	query := courseTeacherDetailSelect + `
WHERE ct.semester_id = $1
ORDER BY c.code ASC`
	var assignments []models.CourseTeacherDetail
	if err := r.db.SelectContext(ctx, &assignments, query, semesterID); err != nil {
		return nil, fmt.Errorf("list course teachers by semester: %w", err)
	}
	return assignments, nil
}

// Upsert assigns a teacher to a course for a semester, replacing any previous teacher.
func (r *CourseTeacherRepository) Upsert(ctx context.Context, assignment *models.CourseTeacher) error {
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO course_teachers (semester_id, course_id, teacher_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (semester_id, course_id) DO UPDATE
SET teacher_id = EXCLUDED.teacher_id,
    updated_at = EXCLUDED.updated_at
RETURNING id, created_at`
	row := r.db.QueryRowxContext(ctx, query, assignment.SemesterID, assignment.CourseID, assignment.TeacherID, assignment.CreatedAt, assignment.UpdatedAt)
	if err := row.Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return fmt.Errorf("upsert course teacher: %w", err)
	}
	return nil
}
