package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/routine-api/internal/models"
)

func TestResourceRepositoryListRoomsAndLabs(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	columns := []string{"id", "department_id", "name", "capacity", "status"}
	mock.ExpectQuery(regexp.QuoteMeta("FROM rooms WHERE department_id = $1 ORDER BY id ASC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(int64(7), int64(1), "Room 301", 60, "AVAILABLE").
			AddRow(int64(8), int64(1), "Room 302", 40, "UNAVAILABLE"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM labs WHERE department_id = $1 ORDER BY id ASC")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(columns).AddRow(int64(2), int64(1), "Networking Lab", 30, "AVAILABLE"))

	rooms, err := repo.ListRooms(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, models.ResourceUnavailable, rooms[1].Status)

	labs, err := repo.ListLabs(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, labs, 1)
	assert.Equal(t, "Networking Lab", labs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResourceRepositoryFindCourse(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResourceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM courses WHERE id = $1")).
		WithArgs(int64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "department_id", "code", "name", "credits", "type", "is_major"}).
			AddRow(int64(10), int64(1), "CSE-102", "Algorithms Lab", 1.5, "LAB", true))

	course, err := repo.FindCourse(context.Background(), 10)
	require.NoError(t, err)
	assert.True(t, course.Type.NeedsLab())
	assert.NoError(t, mock.ExpectationsWereMet())
}
