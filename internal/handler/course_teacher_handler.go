package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/routine-api/internal/dto"
	"github.com/noah-isme/routine-api/internal/models"
	"github.com/noah-isme/routine-api/pkg/response"
)

type courseTeacherManager interface {
	List(ctx context.Context, actor *models.JWTClaims, semesterID int64) ([]models.CourseTeacherDetail, error)
	Assign(ctx context.Context, actor *models.JWTClaims, semesterID int64, req dto.AssignCourseTeacherRequest) (*models.CourseTeacher, error)
}

// CourseTeacherHandler manages semester course assignments.
type CourseTeacherHandler struct {
	service courseTeacherManager
}

// NewCourseTeacherHandler constructs the handler.
func NewCourseTeacherHandler(svc courseTeacherManager) *CourseTeacherHandler {
	return &CourseTeacherHandler{service: svc}
}

// List godoc
// @Summary List course teachers of a semester
// @Tags Course Teachers
// @Produce json
// @Param id path int true "Semester ID"
// @Success 200 {object} response.Envelope
// @Router /semesters/{id}/course-teachers [get]
func (h *CourseTeacherHandler) List(c *gin.Context) {
	semesterID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.service.List(c.Request.Context(), claimsFromContext(c), semesterID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items)
}

// Assign godoc
// @Summary Assign or replace the teacher of a semester course
// @Tags Course Teachers
// @Accept json
// @Produce json
// @Param id path int true "Semester ID"
// @Param payload body dto.AssignCourseTeacherRequest true "Assignment"
// @Success 200 {object} response.Envelope
// @Router /semesters/{id}/course-teachers [put]
func (h *CourseTeacherHandler) Assign(c *gin.Context) {
	semesterID, err := idParam(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req dto.AssignCourseTeacherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, bindError(err, "invalid assignment payload"))
		return
	}
	assignment, err := h.service.Assign(c.Request.Context(), claimsFromContext(c), semesterID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignment)
}
