package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/internal/scheduler"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
)

type routineAssignmentReader interface {
	ListForGeneration(ctx context.Context, departmentID int64, semesterIDs []int64) ([]models.CourseTeacherDetail, error)
}

type routineResourceReader interface {
	ListRooms(ctx context.Context, departmentID int64) ([]models.Room, error)
	ListLabs(ctx context.Context, departmentID int64) ([]models.Lab, error)
	FindCourse(ctx context.Context, id int64) (*models.Course, error)
}

type routineSemesterReader interface {
	ListByIDs(ctx context.Context, ids []int64) ([]models.Semester, error)
}

type routineEntryWriter interface {
	ListBaseline(ctx context.Context, departmentID int64, semesterIDs, teacherIDs []int64) ([]models.ScheduleEntry, error)
	ReplaceScope(ctx context.Context, departmentID int64, semesterIDs []int64, entries []models.ScheduleEntry) error
}

type cacheInvalidator interface {
	Invalidate(ctx context.Context, pattern string) error
}

// RoutineServiceConfig governs preview handling.
type RoutineServiceConfig struct {
	PreviewTTL time.Duration
	// Seed fixes the generator order for every run when non-zero.
	Seed int64
}

// RoutineService generates routine previews, edits them and commits them.
type RoutineService struct {
	assignments routineAssignmentReader
	resources   routineResourceReader
	semesters   routineSemesterReader
	entries     routineEntryWriter
	previews    PreviewStore
	cache       cacheInvalidator
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
	cfg         RoutineServiceConfig
	now         func() time.Time
}

// NewRoutineService wires routine dependencies.
func NewRoutineService(
	assignments routineAssignmentReader,
	resources routineResourceReader,
	semesters routineSemesterReader,
	entries routineEntryWriter,
	previews PreviewStore,
	cache cacheInvalidator,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg RoutineServiceConfig,
) *RoutineService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if previews == nil {
		previews = NewMemoryPreviewStore()
	}
	if cfg.PreviewTTL <= 0 {
		cfg.PreviewTTL = 30 * time.Minute
	}
	return &RoutineService{
		assignments: assignments,
		resources:   resources,
		semesters:   semesters,
		entries:     entries,
		previews:    previews,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
		cfg:         cfg,
		now:         time.Now,
	}
}

// GeneratePreview runs the generator for the department semesters and stores
// the result as an editable preview. Nothing is written to the database.
func (s *RoutineService) GeneratePreview(ctx context.Context, actor *models.JWTClaims, req dto.GeneratePreviewRequest) (*dto.PreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid preview payload")
	}
	scope, semesters, err := s.resolveScope(ctx, actor, req.DepartmentID, req.SemesterIDs)
	if err != nil {
		return nil, err
	}

	assignments, err := s.assignments.ListForGeneration(ctx, scope.DepartmentID, scope.SemesterIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course assignments")
	}
	rooms, err := s.resources.ListRooms(ctx, scope.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load rooms")
	}
	labs, err := s.resources.ListLabs(ctx, scope.DepartmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load labs")
	}
	baseline, err := s.entries.ListBaseline(ctx, scope.DepartmentID, scope.SemesterIDs, teacherIDs(assignments))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed routine")
	}

	rng, seeded := s.rngFor(req.Seed)
	started := s.now()
	result, err := scheduler.Generate(scheduler.Input{
		DepartmentID: scope.DepartmentID,
		Assignments:  assignments,
		Rooms:        rooms,
		Labs:         labs,
		Baseline:     baseline,
	}, rng)
	elapsed := s.now().Sub(started)
	if err != nil {
		mapped := mapGenerationError(err)
		s.metrics.ObserveGeneration(appErrors.FromError(mapped).Code, 0, 0, elapsed)
		return nil, mapped
	}
	s.metrics.ObserveGeneration("ok", len(result.Entries), len(result.Unassigned), elapsed)

	semesterNames := make(map[int64]string, len(semesters))
	for _, semester := range semesters {
		semesterNames[semester.ID] = semester.Name
	}

	preview := dto.PreviewResponse{
		PreviewID:         uuid.NewString(),
		DepartmentID:      scope.DepartmentID,
		SemesterIDs:       scope.SemesterIDs,
		ProposedEntries:   make([]models.PreviewEntry, 0, len(result.Entries)),
		UnassignedCourses: make([]dto.UnassignedCourse, 0, len(result.Unassigned)),
		ExpiresAt:         s.now().Add(s.cfg.PreviewTTL).UTC(),
	}
	for _, entry := range result.Entries {
		if name, ok := semesterNames[entry.SemesterID]; ok {
			entry.SemesterName = &name
		}
		preview.ProposedEntries = append(preview.ProposedEntries, models.PreviewEntry{Key: uuid.NewString(), ScheduleEntryDetail: entry})
	}
	for _, course := range result.Unassigned {
		preview.UnassignedCourses = append(preview.UnassignedCourses, dto.UnassignedCourse{CourseID: course.CourseID, Code: course.Code, Name: course.Name})
	}

	if err := s.previews.Save(ctx, preview); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preview")
	}

	s.logger.Info("routine preview generated",
		zap.String("preview_id", preview.PreviewID),
		zap.Int64("department_id", scope.DepartmentID),
		zap.Int64s("semester_ids", scope.SemesterIDs),
		zap.Int("instances", result.Instances),
		zap.Int("placed", len(result.Entries)),
		zap.Int("unassigned_courses", len(result.Unassigned)),
		zap.Int("baseline_entries", len(baseline)),
		zap.Bool("seeded", seeded),
		zap.Duration("elapsed", elapsed),
	)
	return &preview, nil
}

// GetPreview returns a stored preview.
func (s *RoutineService) GetPreview(ctx context.Context, actor *models.JWTClaims, previewID string) (*dto.PreviewResponse, error) {
	preview, err := s.loadPreview(ctx, actor, previewID)
	if err != nil {
		return nil, err
	}
	return &preview, nil
}

// MovePreviewEntry drags one preview entry to a new cell. A blocked target
// returns a SCHEDULE_CONFLICT error and leaves the preview unchanged.
func (s *RoutineService) MovePreviewEntry(ctx context.Context, actor *models.JWTClaims, previewID, key string, req dto.MovePreviewEntryRequest) (*dto.PreviewResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid move payload")
	}
	preview, err := s.loadPreview(ctx, actor, previewID)
	if err != nil {
		return nil, err
	}

	day, _ := models.ParseDayOfWeek(req.DayOfWeek)
	conflict, err := scheduler.MoveEntry(preview.ProposedEntries, key, day, req.StartTime)
	switch {
	case errors.Is(err, scheduler.ErrEntryNotFound):
		return nil, appErrors.Clone(appErrors.ErrNotFound, "preview entry not found")
	case errors.Is(err, scheduler.ErrInvalidSlot):
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid slot %s %s", req.DayOfWeek, req.StartTime))
	case err != nil:
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to move preview entry")
	}
	if conflict != nil {
		return nil, s.conflictError(conflict)
	}
	moved, _ := findPreviewEntry(preview.ProposedEntries, key)
	scope := models.RoutineScope{DepartmentID: preview.DepartmentID, SemesterIDs: preview.SemesterIDs}
	if err := s.checkBaseline(ctx, scope, []models.ScheduleEntry{moved.ScheduleEntry}); err != nil {
		return nil, err
	}

	if err := s.previews.Save(ctx, preview); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store preview")
	}
	return &preview, nil
}

// Commit atomically replaces the routine of the department semesters with
// the entries of a stored preview or with the supplied entries.
func (s *RoutineService) Commit(ctx context.Context, actor *models.JWTClaims, req dto.CommitRoutineRequest) (*dto.CommitRoutineResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid commit payload")
	}
	scope, _, err := s.resolveScope(ctx, actor, req.DepartmentID, req.SemesterIDs)
	if err != nil {
		return nil, err
	}

	var entries []models.ScheduleEntry
	if req.PreviewID != "" {
		preview, err := s.loadPreview(ctx, actor, req.PreviewID)
		if err != nil {
			return nil, err
		}
		if preview.DepartmentID != scope.DepartmentID || !sameIDs(preview.SemesterIDs, scope.SemesterIDs) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "preview was generated for a different department or semester set")
		}
		for _, entry := range preview.ProposedEntries {
			entries = append(entries, entry.ScheduleEntry)
		}
	} else {
		for _, input := range req.Entries {
			entries = append(entries, input.ToModel(scope.DepartmentID))
		}
	}

	for i := range entries {
		entries[i].ID = 0
		entries[i].DepartmentID = scope.DepartmentID
		if err := scheduler.NormalizeEntry(&entries[i]); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("entry %d: %v", i, err))
		}
		if !scope.Contains(entries[i].SemesterID) {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("entry %d: semester %d is outside the routine scope", i, entries[i].SemesterID))
		}
	}
	if err := s.checkLocations(ctx, scope.DepartmentID, entries); err != nil {
		return nil, err
	}
	if _, conflict := scheduler.FindInternalConflict(entries); conflict != nil {
		s.metrics.RecordCommit("conflict")
		return nil, s.conflictError(conflict)
	}
	if err := s.checkBaseline(ctx, scope, entries); err != nil {
		if appErrors.FromError(err).Code == appErrors.ErrScheduleConflict.Code {
			s.metrics.RecordCommit("conflict")
		}
		return nil, err
	}

	if err := s.entries.ReplaceScope(ctx, scope.DepartmentID, scope.SemesterIDs, entries); err != nil {
		s.metrics.RecordCommit("failed")
		s.logger.Error("routine commit failed", zap.Int64("department_id", scope.DepartmentID), zap.Int64s("semester_ids", scope.SemesterIDs), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrSaveFailed.Code, appErrors.ErrSaveFailed.Status, "failed to save routine, the previous routine is unchanged")
	}
	s.metrics.RecordCommit("ok")

	if req.PreviewID != "" {
		if err := s.previews.Delete(ctx, req.PreviewID); err != nil {
			s.logger.Warn("failed to drop committed preview", zap.String("preview_id", req.PreviewID), zap.Error(err))
		}
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, routineCachePattern); err != nil {
			s.logger.Debug("failed to invalidate routine cache", zap.Error(err))
		}
	}

	s.logger.Info("routine committed",
		zap.Int64("department_id", scope.DepartmentID),
		zap.Int64s("semester_ids", scope.SemesterIDs),
		zap.Int("entries", len(entries)),
	)
	return &dto.CommitRoutineResponse{SavedCount: len(entries)}, nil
}

func (s *RoutineService) resolveScope(ctx context.Context, actor *models.JWTClaims, departmentID int64, semesterIDs []int64) (models.RoutineScope, []models.Semester, error) {
	if !actor.CanManageDepartment(departmentID) {
		return models.RoutineScope{}, nil, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this department's routine")
	}

	ids := uniqueIDs(semesterIDs)
	semesters, err := s.semesters.ListByIDs(ctx, ids)
	if err != nil {
		return models.RoutineScope{}, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semesters")
	}
	found := make(map[int64]models.Semester, len(semesters))
	for _, semester := range semesters {
		found[semester.ID] = semester
	}
	for _, id := range ids {
		semester, ok := found[id]
		if !ok {
			return models.RoutineScope{}, nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("semester %d not found", id))
		}
		if semester.DepartmentID != departmentID {
			return models.RoutineScope{}, nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("semester %d does not belong to department %d", id, departmentID))
		}
	}
	return models.RoutineScope{DepartmentID: departmentID, SemesterIDs: ids}, semesters, nil
}

// checkLocations loads the course of every class and verifies it belongs to
// the department and sits in a room or lab matching its type.
func (s *RoutineService) checkLocations(ctx context.Context, departmentID int64, entries []models.ScheduleEntry) error {
	courses := make(map[int64]*models.Course)
	for i, entry := range entries {
		if entry.IsBreak {
			continue
		}
		course, ok := courses[*entry.CourseID]
		if !ok {
			found, err := s.resources.FindCourse(ctx, *entry.CourseID)
			if err != nil {
				return notFoundOr(err, fmt.Sprintf("entry %d: course %d not found", i, *entry.CourseID), "failed to load course")
			}
			course = found
			courses[course.ID] = course
		}
		if course.DepartmentID != departmentID {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("entry %d: course %d does not belong to department %d", i, course.ID, departmentID))
		}
		if err := scheduler.CheckLocation(entry, course.Type); err != nil {
			return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fmt.Sprintf("entry %d: %v", i, err))
		}
	}
	return nil
}

// checkBaseline rejects entries that collide with committed entries the
// scope does not replace: other semesters of the department and other
// departments' classes of the same teachers.
func (s *RoutineService) checkBaseline(ctx context.Context, scope models.RoutineScope, entries []models.ScheduleEntry) error {
	if len(entries) == 0 {
		return nil
	}
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.TeacherID != nil {
			ids = append(ids, *entry.TeacherID)
		}
	}
	baseline, err := s.entries.ListBaseline(ctx, scope.DepartmentID, scope.SemesterIDs, uniqueIDs(ids))
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load committed routine")
	}
	for _, entry := range entries {
		if conflict := scheduler.CanPlace(entry, entry.DayOfWeek, entry.StartTime, baseline); conflict != nil {
			return s.conflictError(conflict)
		}
	}
	return nil
}

func (s *RoutineService) loadPreview(ctx context.Context, actor *models.JWTClaims, previewID string) (dto.PreviewResponse, error) {
	preview, ok, err := s.previews.Get(ctx, previewID)
	if err != nil {
		return dto.PreviewResponse{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load preview")
	}
	if !ok {
		return dto.PreviewResponse{}, appErrors.Clone(appErrors.ErrNotFound, "preview not found or expired")
	}
	if !actor.CanManageDepartment(preview.DepartmentID) {
		return dto.PreviewResponse{}, appErrors.Clone(appErrors.ErrForbidden, "not allowed to manage this department's routine")
	}
	return preview, nil
}

func (s *RoutineService) rngFor(seed *int64) (*rand.Rand, bool) {
	switch {
	case seed != nil:
		return rand.New(rand.NewSource(*seed)), true
	case s.cfg.Seed != 0:
		return rand.New(rand.NewSource(s.cfg.Seed)), true
	default:
		return nil, false
	}
}

func (s *RoutineService) conflictError(conflict *models.ScheduleConflict) error {
	s.metrics.RecordConflict(conflict.Dimension)
	return newConflictError(conflict)
}

func newConflictError(conflict *models.ScheduleConflict) error {
	message := scheduler.ConflictMessage(conflict)
	err := appErrors.Wrap(&models.ScheduleConflictError{Message: message, Conflict: *conflict}, appErrors.ErrScheduleConflict.Code, appErrors.ErrScheduleConflict.Status, message)
	err.Details = conflict
	return err
}

func mapGenerationError(err error) error {
	switch {
	case errors.Is(err, scheduler.ErrNoAssignments):
		return appErrors.Wrap(err, appErrors.ErrNoAssignments.Code, appErrors.ErrNoAssignments.Status, appErrors.ErrNoAssignments.Message)
	case errors.Is(err, scheduler.ErrNoResources):
		return appErrors.Wrap(err, appErrors.ErrNoResources.Code, appErrors.ErrNoResources.Status, appErrors.ErrNoResources.Message)
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate routine")
	}
}

func findPreviewEntry(entries []models.PreviewEntry, key string) (models.PreviewEntry, bool) {
	for _, entry := range entries {
		if entry.Key == key {
			return entry, true
		}
	}
	return models.PreviewEntry{}, false
}

func teacherIDs(assignments []models.CourseTeacherDetail) []int64 {
	ids := make([]int64, 0, len(assignments))
	for _, assignment := range assignments {
		if assignment.IsMajor {
			ids = append(ids, assignment.TeacherID)
		}
	}
	return uniqueIDs(ids)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func sameIDs(a, b []int64) bool {
	a, b = uniqueIDs(a), uniqueIDs(b)
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
