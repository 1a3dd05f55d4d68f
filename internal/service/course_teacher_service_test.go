package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type courseTeacherStoreFake struct {
	bySemester map[int64]map[int64]models.CourseTeacher
	nextID     int64
}

func (f *courseTeacherStoreFake) ListBySemester(ctx context.Context, semesterID int64) ([]models.CourseTeacherDetail, error) {
	var out []models.CourseTeacherDetail
	for _, assignment := range f.bySemester[semesterID] {
		out = append(out, models.CourseTeacherDetail{CourseTeacher: assignment})
	}
	return out, nil
}

func (f *courseTeacherStoreFake) Upsert(ctx context.Context, assignment *models.CourseTeacher) error {
	if f.bySemester == nil {
		f.bySemester = make(map[int64]map[int64]models.CourseTeacher)
	}
	courses, ok := f.bySemester[assignment.SemesterID]
	if !ok {
		courses = make(map[int64]models.CourseTeacher)
		f.bySemester[assignment.SemesterID] = courses
	}
	if existing, ok := courses[assignment.CourseID]; ok {
		assignment.ID = existing.ID
	} else {
		f.nextID++
		assignment.ID = f.nextID
	}
	courses[assignment.CourseID] = *assignment
	return nil
}

func newCourseTeacherFixture() (*CourseTeacherService, *courseTeacherStoreFake, *invalidatorSpy) {
	store := &courseTeacherStoreFake{}
	cache := &invalidatorSpy{}
	semesters := semesterFinderStub{byID: map[int64]models.Semester{
		10: {ID: 10, DepartmentID: 1},
		20: {ID: 20, DepartmentID: 2},
	}}
	courses := courseStub{
		100: {ID: 100, DepartmentID: 1, Type: models.CourseTypeTheory},
		300: {ID: 300, DepartmentID: 2, Type: models.CourseTypeTheory},
	}
	users := userStub{
		7:  {ID: 7, Role: models.RoleTeacher},
		8:  {ID: 8, Role: models.RoleTeacher},
		30: {ID: 30, Role: models.RoleStudent},
	}
	return NewCourseTeacherService(store, semesters, courses, users, cache, nil, zap.NewNop()), store, cache
}

func TestCourseTeacherServiceAssignReplacesTeacher(t *testing.T) {
	svc, store, cache := newCourseTeacherFixture()
	ctx := context.Background()

	first, err := svc.Assign(ctx, departmentAdmin(1), 10, dto.AssignCourseTeacherRequest{CourseID: 100, TeacherID: 7})
	require.NoError(t, err)
	second, err := svc.Assign(ctx, departmentAdmin(1), 10, dto.AssignCourseTeacherRequest{CourseID: 100, TeacherID: 8})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	items, err := svc.List(ctx, departmentAdmin(1), 10)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(8), items[0].TeacherID)
	assert.Len(t, store.bySemester[10], 1)
	assert.Len(t, cache.patterns, 2)
}

func TestCourseTeacherServiceAssignValidation(t *testing.T) {
	svc, _, _ := newCourseTeacherFixture()
	ctx := context.Background()

	_, err := svc.Assign(ctx, departmentAdmin(2), 10, dto.AssignCourseTeacherRequest{CourseID: 100, TeacherID: 7})
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)

	_, err = svc.Assign(ctx, departmentAdmin(1), 10, dto.AssignCourseTeacherRequest{CourseID: 300, TeacherID: 7})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Assign(ctx, departmentAdmin(1), 10, dto.AssignCourseTeacherRequest{CourseID: 100, TeacherID: 30})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Assign(ctx, departmentAdmin(1), 99, dto.AssignCourseTeacherRequest{CourseID: 100, TeacherID: 7})
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.Assign(ctx, departmentAdmin(1), 10, dto.AssignCourseTeacherRequest{CourseID: 100})
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	items, err := svc.List(ctx, departmentAdmin(1), 10)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}
