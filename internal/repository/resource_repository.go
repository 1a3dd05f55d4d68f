package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/routine-api/internal/models"
)

// ResourceRepository reads department rooms, labs and courses.
type ResourceRepository struct {
	db *sqlx.DB
}

// NewResourceRepository constructs the repository.
func NewResourceRepository(db *sqlx.DB) *ResourceRepository {
	return &ResourceRepository{db: db}
}

// ListRooms returns a department's rooms in a stable order.
func (r *ResourceRepository) ListRooms(ctx context.Context, departmentID int64) ([]models.Room, error) {
	const query = `SELECT id, department_id, name, capacity, status FROM rooms WHERE department_id = $1 ORDER BY id ASC`
	var rooms []models.Room
	if err := r.db.SelectContext(ctx, &rooms, query, departmentID); err != nil {
		return nil, fmt.Errorf("list rooms: %w", err)
	}
	return rooms, nil
}

// ListLabs returns a department's labs in a stable order.
func (r *ResourceRepository) ListLabs(ctx context.Context, departmentID int64) ([]models.Lab, error) {
	const query = `SELECT id, department_id, name, capacity, status FROM labs WHERE department_id = $1 ORDER BY id ASC`
	var labs []models.Lab
	if err := r.db.SelectContext(ctx, &labs, query, departmentID); err != nil {
		return nil, fmt.Errorf("list labs: %w", err)
	}
	return labs, nil
}

// FindCourse loads a course by id.
func (r *ResourceRepository) FindCourse(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, department_id, code, name, credits, type, is_major FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find course: %w", err)
	}
	return &course, nil
}
