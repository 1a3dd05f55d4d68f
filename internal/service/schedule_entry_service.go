package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/scheduler"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
	"github.com/noah-isme/routine-api/pkg/export"
)

type scheduleEntryStore interface {
	FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error)
	FindConflicts(ctx context.Context, day models.DayOfWeek, start string) ([]models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id int64) error
	SetCancelled(ctx context.Context, id int64, cancelled bool) error
	ListProjection(ctx context.Context, kind models.ProjectionKind, id int64) ([]models.ScheduleEntryDetail, error)
	ListForStudent(ctx context.Context, semesterID, studentID int64) ([]models.ScheduleEntryDetail, error)
}

type courseReader interface {
	FindCourse(ctx context.Context, id int64) (*models.Course, error)
}

type semesterFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Semester, error)
	FindBySessionDepartment(ctx context.Context, session string, departmentID int64) (*models.Semester, error)
}

type userReader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

type routineCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

var exportHeaders = []string{"Day", "Start", "End", "Semester", "Course", "Teacher", "Location", "Status"}

// ScheduleEntryService manages committed routine entries one at a time and
// serves the read views.
type ScheduleEntryService struct {
	entries   scheduleEntryStore
	courses   courseReader
	semesters semesterFinder
	users     userReader
	cache     routineCache
	metrics   *MetricsService
	renderers map[string]export.Renderer
	validator *validator.Validate
	logger    *zap.Logger
}

// NewScheduleEntryService wires entry dependencies. cache may be nil.
func NewScheduleEntryService(
	entries scheduleEntryStore,
	courses courseReader,
	semesters semesterFinder,
	users userReader,
	cache routineCache,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *ScheduleEntryService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	csvRenderer := export.NewCSVExporter()
	pdfRenderer := export.NewPDFExporter()
	return &ScheduleEntryService{
		entries:   entries,
		courses:   courses,
		semesters: semesters,
		users:     users,
		cache:     cache,
		metrics:   metrics,
		renderers: map[string]export.Renderer{
			csvRenderer.Extension(): csvRenderer,
			pdfRenderer.Extension(): pdfRenderer,
		},
		validator: validate,
		logger:    logger,
	}
}

// AddManual validates and stores one entry. A collision with a committed
// entry at the same day and start returns SCHEDULE_CONFLICT naming the first
// clashing resource in the order semester, teacher, room, lab.
func (s *ScheduleEntryService) AddManual(ctx context.Context, actor *models.JWTClaims, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule entry payload")
	}
	if !actor.CanManageDepartment(req.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this department's routine")
	}

	entry := req.ToModel(req.DepartmentID)
	if err := scheduler.NormalizeEntry(&entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}

	semester, err := s.semesters.FindByID(ctx, entry.SemesterID)
	if err != nil {
		return nil, notFoundOr(err, "semester not found", "failed to load semester")
	}
	if semester.DepartmentID != entry.DepartmentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "semester does not belong to the department")
	}
	if !entry.IsBreak {
		course, err := s.courses.FindCourse(ctx, *entry.CourseID)
		if err != nil {
			return nil, notFoundOr(err, "course not found", "failed to load course")
		}
		if course.DepartmentID != entry.DepartmentID {
			return nil, appErrors.Clone(appErrors.ErrValidation, "course does not belong to the department")
		}
		if err := scheduler.CheckLocation(entry, course.Type); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
		}
	}

	existing, err := s.entries.FindConflicts(ctx, entry.DayOfWeek, entry.StartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check schedule conflicts")
	}
	if conflict := scheduler.CanPlace(entry, entry.DayOfWeek, entry.StartTime, existing); conflict != nil {
		s.metrics.RecordConflict(conflict.Dimension)
		return nil, newConflictError(conflict)
	}

	if err := s.entries.Create(ctx, &entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	s.invalidate(ctx)
	return &entry, nil
}

// Delete removes a committed entry.
func (s *ScheduleEntryService) Delete(ctx context.Context, actor *models.JWTClaims, id int64) error {
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, "schedule entry not found", "failed to load schedule entry")
	}
	if !actor.CanManageDepartment(entry.DepartmentID) {
		return appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this department's routine")
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return notFoundOr(err, "schedule entry not found", "failed to delete schedule entry")
	}
	s.invalidate(ctx)
	return nil
}

// ToggleCancellation sets the cancellation flag. The entry's own teacher and
// the department's admins may change it.
func (s *ScheduleEntryService) ToggleCancellation(ctx context.Context, actor *models.JWTClaims, id int64, req dto.ToggleCancellationRequest) (*models.ScheduleEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid cancellation payload")
	}
	entry, err := s.entries.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "schedule entry not found", "failed to load schedule entry")
	}
	ownsEntry := actor != nil && actor.Role == models.RoleTeacher && entry.TeacherID != nil && *entry.TeacherID == actor.UserID
	if !ownsEntry && !actor.CanManageDepartment(entry.DepartmentID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assigned teacher or a department admin can cancel this class")
	}
	if entry.IsBreak {
		return nil, appErrors.Clone(appErrors.ErrValidation, "breaks cannot be cancelled")
	}

	if err := s.entries.SetCancelled(ctx, id, *req.IsCancelled); err != nil {
		return nil, notFoundOr(err, "schedule entry not found", "failed to update schedule entry")
	}
	entry.IsCancelled = *req.IsCancelled
	s.invalidate(ctx)
	return entry, nil
}

// Read returns one read projection of the committed routine.
func (s *ScheduleEntryService) Read(ctx context.Context, kind models.ProjectionKind, id int64) (*dto.RoutineView, error) {
	if id <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s id", kind))
	}

	key := routineCacheKey(kind, id)
	var cached dto.RoutineView
	if s.cache != nil {
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Debug("routine cache read failed", zap.String("key", key), zap.Error(err))
		}
		if hit {
			return &cached, nil
		}
	}

	var (
		entries []models.ScheduleEntryDetail
		err     error
	)
	if kind == models.ProjectionStudent {
		entries, err = s.readForStudent(ctx, id)
	} else {
		entries, err = s.entries.ListProjection(ctx, kind, id)
		if err != nil {
			err = appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load routine")
		}
	}
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.ScheduleEntryDetail{}
	}

	view := &dto.RoutineView{Kind: kind, ID: id, Entries: entries}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, view, 0); err != nil {
			s.logger.Debug("routine cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return view, nil
}

// readForStudent resolves the student's semester from (session, department)
// and returns its breaks plus the classes of enrolled courses.
func (s *ScheduleEntryService) readForStudent(ctx context.Context, studentID int64) ([]models.ScheduleEntryDetail, error) {
	user, err := s.users.FindByID(ctx, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student not found", "failed to load student")
	}
	if user.Role != models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrValidation, "user is not a student")
	}
	if user.Session == nil || !models.ValidSession(*user.Session) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student session is missing or malformed")
	}
	if user.DepartmentID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student has no department")
	}

	semester, err := s.semesters.FindBySessionDepartment(ctx, *user.Session, *user.DepartmentID)
	if err != nil {
		return nil, notFoundOr(err, "no semester found for the student's session", "failed to resolve student semester")
	}
	entries, err := s.entries.ListForStudent(ctx, semester.ID, user.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student routine")
	}
	return entries, nil
}

// Export renders a department or semester routine as CSV or PDF.
func (s *ScheduleEntryService) Export(ctx context.Context, actor *models.JWTClaims, query dto.RoutineExportQuery) (string, string, []byte, error) {
	if err := s.validator.Struct(query); err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export query")
	}
	format := strings.ToLower(query.Format)
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return "", "", nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	kind, id := models.ProjectionDepartment, query.DepartmentID
	subtitle := fmt.Sprintf("Department %d", query.DepartmentID)
	if query.SemesterID > 0 {
		semester, err := s.semesters.FindByID(ctx, query.SemesterID)
		if err != nil {
			return "", "", nil, notFoundOr(err, "semester not found", "failed to load semester")
		}
		if semester.DepartmentID != query.DepartmentID {
			return "", "", nil, appErrors.Clone(appErrors.ErrValidation, "semester does not belong to the department")
		}
		kind, id = models.ProjectionSemester, semester.ID
		subtitle = fmt.Sprintf("%s (%s)", semester.Name, semester.Session)
	}

	view, err := s.Read(ctx, kind, id)
	if err != nil {
		return "", "", nil, err
	}
	body, err := renderer.Render(routineDataset(subtitle, view.Entries))
	if err != nil {
		return "", "", nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render routine")
	}

	s.logger.Info("routine exported",
		zap.Int64("actor_id", actorID(actor)),
		zap.String("kind", string(kind)),
		zap.Int64("id", id),
		zap.String("format", format),
		zap.Int("entries", len(view.Entries)),
	)
	filename := fmt.Sprintf("routine-%s-%d.%s", kind, id, renderer.Extension())
	return filename, renderer.ContentType(), body, nil
}

func (s *ScheduleEntryService) invalidate(ctx context.Context) {
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, routineCachePattern); err != nil {
			s.logger.Debug("failed to invalidate routine cache", zap.Error(err))
		}
	}
}

func routineDataset(subtitle string, entries []models.ScheduleEntryDetail) export.Dataset {
	rows := make([]map[string]string, 0, len(entries))
	for _, entry := range entries {
		course := deref(entry.CourseCode)
		if name := deref(entry.CourseName); name != "" {
			course = strings.TrimSpace(course + " " + name)
		}
		location := deref(entry.RoomName)
		if location == "" {
			location = deref(entry.LabName)
		}
		status := "Scheduled"
		switch {
		case entry.IsBreak:
			course = deref(entry.BreakName)
			status = "Break"
		case entry.IsCancelled:
			status = "Cancelled"
		}
		rows = append(rows, map[string]string{
			"Day":      string(entry.DayOfWeek),
			"Start":    entry.StartTime,
			"End":      entry.EndTime,
			"Semester": deref(entry.SemesterName),
			"Course":   course,
			"Teacher":  deref(entry.TeacherName),
			"Location": location,
			"Status":   status,
		})
	}
	return export.Dataset{Title: "Class Routine", Subtitle: subtitle, Headers: exportHeaders, Rows: rows}
}

func notFoundOr(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func actorID(actor *models.JWTClaims) int64 {
	if actor == nil {
		return 0
	}
	return actor.UserID
}
