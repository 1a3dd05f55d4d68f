package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type courseTeacherStore interface {
	ListBySemester(ctx context.Context, semesterID int64) ([]models.CourseTeacherDetail, error)
	Upsert(ctx context.Context, assignment *models.CourseTeacher) error
}

type semesterByID interface {
	FindByID(ctx context.Context, id int64) (*models.Semester, error)
}

// CourseTeacherService maintains which teacher takes each course of a semester.
type CourseTeacherService struct {
	assignments courseTeacherStore
	semesters   semesterByID
	courses     courseReader
	users       userReader
	cache       cacheInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseTeacherService creates a service instance.
func NewCourseTeacherService(
	assignments courseTeacherStore,
	semesters semesterByID,
	courses courseReader,
	users userReader,
	cache cacheInvalidator,
	validate *validator.Validate,
	logger *zap.Logger,
) *CourseTeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseTeacherService{
		assignments: assignments,
		semesters:   semesters,
		courses:     courses,
		users:       users,
		cache:       cache,
		validator:   validate,
		logger:      logger,
	}
}

// List returns the assignments of a semester.
func (s *CourseTeacherService) List(ctx context.Context, actor *models.JWTClaims, semesterID int64) ([]models.CourseTeacherDetail, error) {
	if _, err := s.managedSemester(ctx, actor, semesterID); err != nil {
		return nil, err
	}
	items, err := s.assignments.ListBySemester(ctx, semesterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list course teachers")
	}
	if items == nil {
		items = []models.CourseTeacherDetail{}
	}
	return items, nil
}

// Assign sets the teacher of a course for a semester, replacing any previous one.
func (s *CourseTeacherService) Assign(ctx context.Context, actor *models.JWTClaims, semesterID int64, req dto.AssignCourseTeacherRequest) (*models.CourseTeacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	semester, err := s.managedSemester(ctx, actor, semesterID)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.FindCourse(ctx, req.CourseID)
	if err != nil {
		return nil, notFoundOr(err, "course not found", "failed to load course")
	}
	if course.DepartmentID != semester.DepartmentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "course does not belong to the semester's department")
	}
	teacher, err := s.users.FindByID(ctx, req.TeacherID)
	if err != nil {
		return nil, notFoundOr(err, "teacher not found", "failed to load teacher")
	}
	if teacher.Role != models.RoleTeacher {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not a teacher")
	}

	assignment := &models.CourseTeacher{SemesterID: semesterID, CourseID: req.CourseID, TeacherID: req.TeacherID}
	if err := s.assignments.Upsert(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to assign course teacher")
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, routineCachePattern); err != nil {
			s.logger.Debug("failed to invalidate routine cache", zap.Error(err))
		}
	}
	s.logger.Info("course teacher assigned",
		zap.Int64("semester_id", semesterID),
		zap.Int64("course_id", req.CourseID),
		zap.Int64("teacher_id", req.TeacherID),
	)
	return assignment, nil
}

func (s *CourseTeacherService) managedSemester(ctx context.Context, actor *models.JWTClaims, semesterID int64) (*models.Semester, error) {
	semester, err := s.semesters.FindByID(ctx, semesterID)
	if err != nil {
		return nil, notFoundOr(err, "semester not found", "failed to load semester")
	}
	if !actor.CanManageDepartment(semester.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this department's courses")
	}
	return semester, nil
}
