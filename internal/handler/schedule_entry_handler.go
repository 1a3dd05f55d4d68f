package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	appErrors "github.com/noah-isme/routine-api/pkg/errors"
	"github.com/noah-isme/routine-api/pkg/response"
)

type scheduleEntryManager interface {
	AddManual(ctx context.Context, actor *models.JWTClaims, req dto.CreateScheduleEntryRequest) (*models.ScheduleEntry, error)
	Delete(ctx context.Context, actor *models.JWTClaims, id int64) error
	ToggleCancellation(ctx context.Context, actor *models.JWTClaims, id int64, req dto.ToggleCancellationRequest) (*models.ScheduleEntry, error)
	Read(ctx context.Context, kind models.ProjectionKind, id int64) (*dto.RoutineView, error)
	Export(ctx context.Context, actor *models.JWTClaims, query dto.RoutineExportQuery) (string, string, []byte, error)
}

// projectionRoutes maps URL segments to read projections.
var projectionRoutes = map[string]models.ProjectionKind{
	"departments": models.ProjectionDepartment,
	"semesters":   models.ProjectionSemester,
	"teachers":    models.ProjectionTeacher,
	"rooms":       models.ProjectionRoom,
	"labs":        models.ProjectionLab,
	"courses":     models.ProjectionCourse,
	"students":    models.ProjectionStudent,
}

// ProjectionSegments lists the URL segments served by Read.
func ProjectionSegments() []string {
	return []string{"departments", "semesters", "teachers", "rooms", "labs", "courses", "students"}
}

// ScheduleEntryHandler exposes single-entry edits and routine reads.
type ScheduleEntryHandler struct {
	service scheduleEntryManager
}

// NewScheduleEntryHandler constructs the handler.
func NewScheduleEntryHandler(svc scheduleEntryManager) *ScheduleEntryHandler {
	return &ScheduleEntryHandler{service: svc}
}

// Create godoc
// @Summary Add a class or break to the committed routine
// @Tags Schedule Entries
// @Accept json
// @Produce json
// @Param payload body dto.CreateScheduleEntryRequest true "Entry payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /schedule-entries [post]
func (h *ScheduleEntryHandler) Create(c *gin.Context) {
	var req dto.CreateScheduleEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid schedule entry payload"))
		return
	}
	entry, err := h.service.AddManual(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Delete godoc
// @Summary Delete a committed entry
// @Tags Schedule Entries
// @Param id path int true "Entry ID"
// @Success 204
// @Router /schedule-entries/{id} [delete]
func (h *ScheduleEntryHandler) Delete(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	if err := h.service.Delete(c.Request.Context(), claimsFromContext(c), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ToggleCancellation godoc
// @Summary Cancel or restore a class
// @Tags Schedule Entries
// @Accept json
// @Produce json
// @Param id path int true "Entry ID"
// @Param payload body dto.ToggleCancellationRequest true "Cancellation flag"
// @Success 200 {object} response.Envelope
// @Router /schedule-entries/{id}/cancellation [patch]
func (h *ScheduleEntryHandler) ToggleCancellation(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.ToggleCancellationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid cancellation payload"))
		return
	}
	entry, err := h.service.ToggleCancellation(c.Request.Context(), claimsFromContext(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

// Read godoc
// @Summary Read the committed routine of one department, semester, teacher, room, lab, course or student
// @Tags Routines
// @Produce json
// @Param kind path string true "Projection" Enums(departments, semesters, teachers, rooms, labs, courses, students)
// @Param id path int true "Owner ID"
// @Success 200 {object} response.Envelope
// @Router /routines/{kind}/{id} [get]
func (h *ScheduleEntryHandler) Read(c *gin.Context) {
	kind, ok := projectionRoutes[c.Param("kind")]
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "unknown routine view"))
		return
	}
	id, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	view, err := h.service.Read(c.Request.Context(), kind, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, map[string]interface{}{"total": len(view.Entries)})
}

// Export godoc
// @Summary Download a department or semester routine
// @Tags Routines
// @Produce text/csv
// @Produce application/pdf
// @Param departmentId query int true "Department ID"
// @Param semesterId query int false "Semester ID"
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Router /routines/export [get]
func (h *ScheduleEntryHandler) Export(c *gin.Context) {
	var query dto.RoutineExportQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, bindError(err, "invalid export query"))
		return
	}
	filename, contentType, body, err := h.service.Export(c.Request.Context(), claimsFromContext(c), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, filename, contentType, body)
}
