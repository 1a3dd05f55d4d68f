package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/routine-api/internal/models"
)

const semesterColumns = `id, department_id, name, session, is_active`

// SemesterRepository reads department semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs the repository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// FindByID loads a semester by id.
func (r *SemesterRepository) FindByID(ctx context.Context, id int64) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE id = $1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find semester: %w", err)
	}
	return &semester, nil
}

// FindBySessionDepartment resolves the semester a student cohort belongs to.
func (r *SemesterRepository) FindBySessionDepartment(ctx context.Context, session string, departmentID int64) (*models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE session = $1 AND department_id = $2 ORDER BY is_active DESC, id DESC LIMIT 1`
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, session, departmentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find semester by session: %w", err)
	}
	return &semester, nil
}

// ListByIDs returns the semesters with the given ids.
func (r *SemesterRepository) ListByIDs(ctx context.Context, ids []int64) ([]models.Semester, error) {
	query := `SELECT ` + semesterColumns + ` FROM semesters WHERE id = ANY($1) ORDER BY id ASC`
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list semesters: %w", err)
	}
	return semesters, nil
}
