package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PlanHandler exposes training plan CRUD.
type PlanHandler struct {
	planService service.PlanService
}

func NewPlanHandler(planService service.PlanService) *PlanHandler {
	return &PlanHandler{planService: planService}
}

// --- DTOs ---

type CreatePlanRequest struct {
	TraineeID   string     `json:"traineeId" binding:"required"`
	TrainerID   string     `json:"trainerId,omitempty"` // Honored for admin callers only
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

type UpdatePlanRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

type PlanResponse struct {
	ID          string     `json:"id"`
	TrainerID   string     `json:"trainerId"`
	TraineeID   string     `json:"traineeId"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// --- Handler Methods ---

// CreatePlan godoc
// @Summary Create a training plan for a trainee
// @Tags Plans
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param plan body CreatePlanRequest true "Plan details"
// @Success 201 {object} PlanResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Trainees cannot create plans"
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /plans [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	traineeID, err := primitive.ObjectIDFromHex(req.TraineeID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid trainee ID format.")
		return
	}
	var trainerID primitive.ObjectID
	if req.TrainerID != "" {
		trainerID, err = primitive.ObjectIDFromHex(req.TrainerID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
			return
		}
	}

	plan, err := h.planService.CreatePlan(c.Request.Context(), principal, service.PlanCreateInput{
		TraineeID:   traineeID,
		TrainerID:   trainerID,
		Title:       req.Title,
		Description: req.Description,
		From:        req.From,
		To:          req.To,
	})
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapPlanToResponse(plan))
}

// GetPlanByID returns one plan if the caller may see it.
func (h *PlanHandler) GetPlanByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.planService.GetPlanByID(c.Request.Context(), principal, planID)
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// ListPlans returns the plans visible to the caller.
func (h *PlanHandler) ListPlans(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	plans, err := h.planService.ListPlans(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve plans.")
		return
	}

	c.JSON(http.StatusOK, MapPlansToResponse(plans))
}

// UpdatePlan modifies a plan's content fields.
func (h *PlanHandler) UpdatePlan(c *gin.Context) {
	var req UpdatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	plan, err := h.planService.UpdatePlan(c.Request.Context(), principal, planID, service.PlanUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		From:        req.From,
		To:          req.To,
	})
	if err != nil {
		respondPlanError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapPlanToResponse(plan))
}

// DeletePlan removes a plan.
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	planID, err := primitive.ObjectIDFromHex(c.Param("planId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), principal, planID); err != nil {
		respondPlanError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// respondPlanError maps plan service errors to HTTP status codes. The
// forbidden/not-found split mirrors the service's masking rules exactly.
func respondPlanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlanRoleForbidden):
		abortWithError(c, http.StatusForbidden, err.Error())
	case errors.Is(err, service.ErrPlanNotFound), errors.Is(err, service.ErrTraineeNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process plan request.")
	}
}

// MapPlanToResponse converts a domain Plan to its DTO.
func MapPlanToResponse(plan *domain.Plan) PlanResponse {
	if plan == nil {
		return PlanResponse{}
	}
	return PlanResponse{
		ID:          plan.ID.Hex(),
		TrainerID:   plan.TrainerID.Hex(),
		TraineeID:   plan.TraineeID.Hex(),
		Title:       plan.Title,
		Description: plan.Description,
		From:        plan.From,
		To:          plan.To,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

// MapPlansToResponse converts a slice of plans to DTOs.
func MapPlansToResponse(plans []domain.Plan) []PlanResponse {
	responses := make([]PlanResponse, len(plans))
	for i := range plans {
		responses[i] = MapPlanToResponse(&plans[i])
	}
	return responses
}
