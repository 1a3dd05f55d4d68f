package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/routine-api/internal/models"
)

const scheduleEntryColumns = `id, semester_id, department_id, day_of_week, start_time, end_time, course_id, teacher_id, room_id, lab_id, is_break, break_name, is_cancelled, created_at, updated_at`

const insertScheduleEntry = `INSERT INTO schedule_entries (semester_id, department_id, day_of_week, start_time, end_time, course_id, teacher_id, room_id, lab_id, is_break, break_name, is_cancelled, created_at, updated_at)
VALUES (:semester_id, :department_id, :day_of_week, :start_time, :end_time, :course_id, :teacher_id, :room_id, :lab_id, :is_break, :break_name, :is_cancelled, :created_at, :updated_at)
RETURNING id`

const scheduleEntryDetailSelect = `
SELECT se.id, se.semester_id, se.department_id, se.day_of_week, se.start_time, se.end_time, se.course_id, se.teacher_id,
       se.room_id, se.lab_id, se.is_break, se.break_name, se.is_cancelled, se.created_at, se.updated_at,
       c.code AS course_code, c.name AS course_name, u.name AS teacher_name, r.name AS room_name, l.name AS lab_name,
       s.name AS semester_name
FROM schedule_entries se
JOIN semesters s ON s.id = se.semester_id
LEFT JOIN courses c ON c.id = se.course_id
LEFT JOIN users u ON u.id = se.teacher_id
LEFT JOIN rooms r ON r.id = se.room_id
LEFT JOIN labs l ON l.id = se.lab_id`

const scheduleEntryOrder = `
ORDER BY CASE se.day_of_week
    WHEN 'SUNDAY' THEN 0 WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3
    WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 ELSE 6 END ASC, se.start_time ASC, se.id ASC`

var projectionFilters = map[models.ProjectionKind]string{
	models.ProjectionDepartment: "se.department_id = $1",
	models.ProjectionSemester:   "se.semester_id = $1",
	models.ProjectionTeacher:    "se.teacher_id = $1",
	models.ProjectionRoom:       "se.room_id = $1",
	models.ProjectionLab:        "se.lab_id = $1",
	models.ProjectionCourse:     "se.course_id = $1",
}

// ScheduleEntryRepository persists committed routine entries.
type ScheduleEntryRepository struct {
	db *sqlx.DB
}

// NewScheduleEntryRepository creates a new schedule entry repository.
func NewScheduleEntryRepository(db *sqlx.DB) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{db: db}
}

// FindByID loads a schedule entry by id.
func (r *ScheduleEntryRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleEntryColumns + ` FROM schedule_entries WHERE id = $1`
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find schedule entry: %w", err)
	}
	return &entry, nil
}

// FindConflicts returns committed entries occupying (day, start) in any department.
func (r *ScheduleEntryRepository) FindConflicts(ctx context.Context, day models.DayOfWeek, start string) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleEntryColumns + ` FROM schedule_entries WHERE day_of_week = $1 AND start_time = $2 ORDER BY id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, day, start); err != nil {
		return nil, fmt.Errorf("find schedule entry conflicts: %w", err)
	}
	return entries, nil
}

// ListBaseline returns committed entries outside the regenerated semesters that
// share the department or one of the given teachers.
func (r *ScheduleEntryRepository) ListBaseline(ctx context.Context, departmentID int64, semesterIDs, teacherIDs []int64) ([]models.ScheduleEntry, error) {
	query := `SELECT ` + scheduleEntryColumns + ` FROM schedule_entries
WHERE NOT (department_id = $1 AND semester_id = ANY($2))
  AND (department_id = $1 OR teacher_id = ANY($3))
ORDER BY id ASC`
	var entries []models.ScheduleEntry
	if err := r.db.SelectContext(ctx, &entries, query, departmentID, pq.Array(semesterIDs), pq.Array(teacherIDs)); err != nil {
		return nil, fmt.Errorf("list baseline schedule entries: %w", err)
	}
	return entries, nil
}

// Create stores a single schedule entry.
func (r *ScheduleEntryRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	stmt, err := r.db.PrepareNamedContext(ctx, insertScheduleEntry)
	if err != nil {
		return fmt.Errorf("prepare create schedule entry: %w", err)
	}
	defer stmt.Close()

	stampEntry(entry, time.Now().UTC())
	if err := stmt.QueryRowxContext(ctx, entry).Scan(&entry.ID); err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	return nil
}

// ReplaceScope deletes every entry of the given department semesters and
// inserts entries in their place within one transaction. On any error the
// previous routine is left untouched.
func (r *ScheduleEntryRepository) ReplaceScope(ctx context.Context, departmentID int64, semesterIDs []int64, entries []models.ScheduleEntry) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace schedule entries: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM schedule_entries WHERE department_id = $1 AND semester_id = ANY($2)`, departmentID, pq.Array(semesterIDs)); err != nil {
		return fmt.Errorf("delete scoped schedule entries: %w", err)
	}

	if len(entries) > 0 {
		var stmt *sqlx.NamedStmt
		stmt, err = tx.PrepareNamedContext(ctx, insertScheduleEntry)
		if err != nil {
			return fmt.Errorf("prepare insert schedule entries: %w", err)
		}
		defer stmt.Close()

		now := time.Now().UTC()
		for i := range entries {
			entry := &entries[i]
			entry.ID = 0
			stampEntry(entry, now)
			if err = stmt.QueryRowxContext(ctx, entry).Scan(&entry.ID); err != nil {
				return fmt.Errorf("insert schedule entry: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit replace schedule entries: %w", err)
	}
	return nil
}

// Delete removes a schedule entry by id.
func (r *ScheduleEntryRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return requireAffected(result, "delete schedule entry")
}

// SetCancelled flips the cancellation flag of an entry.
func (r *ScheduleEntryRepository) SetCancelled(ctx context.Context, id int64, cancelled bool) error {
	result, err := r.db.ExecContext(ctx, `UPDATE schedule_entries SET is_cancelled = $2, updated_at = $3 WHERE id = $1`, id, cancelled, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update schedule entry cancellation: %w", err)
	}
	return requireAffected(result, "update schedule entry cancellation")
}

// ListProjection returns entries with display names for one read view.
func (r *ScheduleEntryRepository) ListProjection(ctx context.Context, kind models.ProjectionKind, id int64) ([]models.ScheduleEntryDetail, error) {
	filter, ok := projectionFilters[kind]
	if !ok {
		return nil, fmt.Errorf("unsupported projection %q", kind)
	}
	query := scheduleEntryDetailSelect + "\nWHERE " + filter + scheduleEntryOrder
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, id); err != nil {
		return nil, fmt.Errorf("list %s schedule entries: %w", kind, err)
	}
	return entries, nil
}

// ListForStudent returns a semester's breaks plus classes of courses the student is enrolled in.
func (r *ScheduleEntryRepository) ListForStudent(ctx context.Context, semesterID, studentID int64) ([]models.ScheduleEntryDetail, error) {
	query := scheduleEntryDetailSelect + `
WHERE se.semester_id = $1
  AND (se.is_break OR se.course_id IN (SELECT course_id FROM enrollments WHERE student_id = $2))` + scheduleEntryOrder
	var entries []models.ScheduleEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, semesterID, studentID); err != nil {
		return nil, fmt.Errorf("list student schedule entries: %w", err)
	}
	return entries, nil
}

func stampEntry(entry *models.ScheduleEntry, now time.Time) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
}

func requireAffected(result sql.Result, op string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
