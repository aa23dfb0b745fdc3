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

// ActivityHandler exposes exercise (activity) CRUD.
type ActivityHandler struct {
	activityService service.ActivityService
}

func NewActivityHandler(activityService service.ActivityService) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// --- DTOs ---

type CreateActivityRequest struct {
	PlanID      string              `json:"planId,omitempty"` // Empty means a catalog activity
	Name        string              `json:"name" binding:"required"`
	Type        domain.ActivityType `json:"type" binding:"required,oneof=CARDIO STRENGTH FLEXIBILITY BALANCE"`
	Description string              `json:"description,omitempty"`
	Weight      *float64            `json:"weight,omitempty"`
	Reps        *int                `json:"reps,omitempty"`
	Sets        *int                `json:"sets,omitempty"`
	Duration    *int                `json:"duration,omitempty"`
}

type UpdateActivityRequest struct {
	Name        *string              `json:"name,omitempty"`
	Type        *domain.ActivityType `json:"type,omitempty" binding:"omitempty,oneof=CARDIO STRENGTH FLEXIBILITY BALANCE"`
	Description *string              `json:"description,omitempty"`
	Weight      *float64             `json:"weight,omitempty"`
	Reps        *int                 `json:"reps,omitempty"`
	Sets        *int                 `json:"sets,omitempty"`
	Duration    *int                 `json:"duration,omitempty"`
}

type ActivityResponse struct {
	ID          string              `json:"id"`
	PlanID      *string             `json:"planId,omitempty"`
	Name        string              `json:"name"`
	Type        domain.ActivityType `json:"type"`
	Description string              `json:"description,omitempty"`
	Weight      *float64            `json:"weight,omitempty"`
	Reps        *int                `json:"reps,omitempty"`
	Sets        *int                `json:"sets,omitempty"`
	Duration    *int                `json:"duration,omitempty"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// --- Handler Methods ---

// CreateActivity creates an activity on a plan or in the catalog.
func (h *ActivityHandler) CreateActivity(c *gin.Context) {
	var req CreateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	var planID *primitive.ObjectID
	if req.PlanID != "" {
		id, err := primitive.ObjectIDFromHex(req.PlanID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
			return
		}
		planID = &id
	}

	activity, err := h.activityService.CreateActivity(c.Request.Context(), principal, service.ActivityCreateInput{
		PlanID:      planID,
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Weight:      req.Weight,
		Reps:        req.Reps,
		Sets:        req.Sets,
		Duration:    req.Duration,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapActivityToResponse(activity))
}

// GetActivityByID returns one activity if the caller may see it.
func (h *ActivityHandler) GetActivityByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	activityID, err := primitive.ObjectIDFromHex(c.Param("activityId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid activity ID format.")
		return
	}

	activity, err := h.activityService.GetActivityByID(c.Request.Context(), principal, activityID)
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapActivityToResponse(activity))
}

// ListActivities returns the activities visible to the caller. An optional
// ?planId= query narrows the listing to one plan.
func (h *ActivityHandler) ListActivities(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	var planID *primitive.ObjectID
	if raw := c.Query("planId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
			return
		}
		planID = &id
	}

	activities, err := h.activityService.ListActivities(c.Request.Context(), principal, planID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve activities.")
		return
	}

	c.JSON(http.StatusOK, MapActivitiesToResponse(activities))
}

// UpdateActivity modifies an activity's content fields.
func (h *ActivityHandler) UpdateActivity(c *gin.Context) {
	var req UpdateActivityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	activityID, err := primitive.ObjectIDFromHex(c.Param("activityId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid activity ID format.")
		return
	}

	activity, err := h.activityService.UpdateActivity(c.Request.Context(), principal, activityID, service.ActivityUpdateInput{
		Name:        req.Name,
		Type:        req.Type,
		Description: req.Description,
		Weight:      req.Weight,
		Reps:        req.Reps,
		Sets:        req.Sets,
		Duration:    req.Duration,
	})
	if err != nil {
		respondActivityError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapActivityToResponse(activity))
}

// DeleteActivity removes an activity.
func (h *ActivityHandler) DeleteActivity(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	activityID, err := primitive.ObjectIDFromHex(c.Param("activityId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid activity ID format.")
		return
	}

	if err := h.activityService.DeleteActivity(c.Request.Context(), principal, activityID); err != nil {
		respondActivityError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondActivityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrActivityNotFound), errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process activity request.")
	}
}

// MapActivityToResponse converts a domain Activity to its DTO.
func MapActivityToResponse(activity *domain.Activity) ActivityResponse {
	if activity == nil {
		return ActivityResponse{}
	}
	resp := ActivityResponse{
		ID:          activity.ID.Hex(),
		Name:        activity.Name,
		Type:        activity.Type,
		Description: activity.Description,
		Weight:      activity.Weight,
		Reps:        activity.Reps,
		Sets:        activity.Sets,
		Duration:    activity.Duration,
		CreatedAt:   activity.CreatedAt,
		UpdatedAt:   activity.UpdatedAt,
	}
	if activity.PlanID != nil {
		planIDHex := activity.PlanID.Hex()
		resp.PlanID = &planIDHex
	}
	return resp
}

// MapActivitiesToResponse converts a slice of activities to DTOs.
func MapActivitiesToResponse(activities []domain.Activity) []ActivityResponse {
	responses := make([]ActivityResponse, len(activities))
	for i := range activities {
		responses[i] = MapActivityToResponse(&activities[i])
	}
	return responses
}
