package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/pkg/response"
)

type routineManager interface {
	GeneratePreview(ctx context.Context, actor *models.JWTClaims, req dto.GeneratePreviewRequest) (*dto.PreviewResponse, error)
	GetPreview(ctx context.Context, actor *models.JWTClaims, previewID string) (*dto.PreviewResponse, error)
	MovePreviewEntry(ctx context.Context, actor *models.JWTClaims, previewID, key string, req dto.MovePreviewEntryRequest) (*dto.PreviewResponse, error)
	Commit(ctx context.Context, actor *models.JWTClaims, req dto.CommitRoutineRequest) (*dto.CommitRoutineResponse, error)
}

// RoutineHandler exposes routine generation, preview editing and commit.
type RoutineHandler struct {
	service routineManager
}

// NewRoutineHandler constructs the handler.
func NewRoutineHandler(svc routineManager) *RoutineHandler {
	return &RoutineHandler{service: svc}
}

// GeneratePreview godoc
// @Summary Generate a routine preview
// @Description Runs the first-fit generator for the department semesters. The result is stored as an editable preview and nothing is written to the routine.
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePreviewRequest true "Generation scope"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /routines/preview [post]
func (h *RoutineHandler) GeneratePreview(c *gin.Context) {
	var req dto.GeneratePreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid preview payload"))
		return
	}
	preview, err := h.service.GeneratePreview(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview, map[string]interface{}{
		"proposed":   len(preview.ProposedEntries),
		"unassigned": len(preview.UnassignedCourses),
	})
}

// GetPreview godoc
// @Summary Get a stored routine preview
// @Tags Routines
// @Produce json
// @Param id path string true "Preview ID"
// @Success 200 {object} response.Envelope
// @Router /routines/previews/{id} [get]
func (h *RoutineHandler) GetPreview(c *gin.Context) {
	preview, err := h.service.GetPreview(c.Request.Context(), claimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview)
}

// MoveEntry godoc
// @Summary Move a preview entry to another slot
// @Tags Routines
// @Accept json
// @Produce json
// @Param id path string true "Preview ID"
// @Param key path string true "Preview entry key"
// @Param payload body dto.MovePreviewEntryRequest true "Target slot"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /routines/previews/{id}/entries/{key} [patch]
func (h *RoutineHandler) MoveEntry(c *gin.Context) {
	var req dto.MovePreviewEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid move payload"))
		return
	}
	preview, err := h.service.MovePreviewEntry(c.Request.Context(), claimsFromContext(c), c.Param("id"), c.Param("key"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, preview)
}

// Commit godoc
// @Summary Commit a routine
// @Description Atomically replaces the routine of the department semesters with a stored preview or the supplied entries.
// @Tags Routines
// @Accept json
// @Produce json
// @Param payload body dto.CommitRoutineRequest true "Commit payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /routines/commit [post]
func (h *RoutineHandler) Commit(c *gin.Context) {
	var req dto.CommitRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid commit payload"))
		return
	}
	result, err := h.service.Commit(c.Request.Context(), claimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
