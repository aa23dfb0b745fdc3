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

// TrainHandler exposes scheduled train session CRUD.
type TrainHandler struct {
	trainService service.TrainService
}

func NewTrainHandler(trainService service.TrainService) *TrainHandler {
	return &TrainHandler{trainService: trainService}
}

// --- DTOs ---

type CreateTrainRequest struct {
	PlanID  string         `json:"planId" binding:"required"`
	WeekDay domain.WeekDay `json:"weekDay" binding:"required,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	From    time.Time      `json:"from" binding:"required"`
	To      time.Time      `json:"to" binding:"required"`
}

type UpdateTrainRequest struct {
	WeekDay *domain.WeekDay `json:"weekDay,omitempty" binding:"omitempty,oneof=MONDAY TUESDAY WEDNESDAY THURSDAY FRIDAY SATURDAY SUNDAY"`
	From    *time.Time      `json:"from,omitempty"`
	To      *time.Time      `json:"to,omitempty"`
}

type TrainResponse struct {
	ID        string         `json:"id"`
	PlanID    string         `json:"planId"`
	WeekDay   domain.WeekDay `json:"weekDay"`
	From      time.Time      `json:"from"`
	To        time.Time      `json:"to"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// --- Handler Methods ---

// CreateTrain schedules a session on a plan.
func (h *TrainHandler) CreateTrain(c *gin.Context) {
	var req CreateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid plan ID format.")
		return
	}

	train, err := h.trainService.CreateTrain(c.Request.Context(), principal, service.TrainCreateInput{
		PlanID:  planID,
		WeekDay: req.WeekDay,
		From:    req.From,
		To:      req.To,
	})
	if err != nil {
		respondTrainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapTrainToResponse(train))
}

// GetTrainByID returns one session if the caller may see it.
func (h *TrainHandler) GetTrainByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	trainID, err := primitive.ObjectIDFromHex(c.Param("trainId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid train ID format.")
		return
	}

	train, err := h.trainService.GetTrainByID(c.Request.Context(), principal, trainID)
	if err != nil {
		respondTrainError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapTrainToResponse(train))
}

// ListTrains returns the sessions visible to the caller. An optional
// ?planId= query narrows the listing to one plan.
func (h *TrainHandler) ListTrains(c *gin.Context) {
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

	trains, err := h.trainService.ListTrains(c.Request.Context(), principal, planID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve train sessions.")
		return
	}

	c.JSON(http.StatusOK, MapTrainsToResponse(trains))
}

// UpdateTrain modifies a session's schedule fields.
func (h *TrainHandler) UpdateTrain(c *gin.Context) {
	var req UpdateTrainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	trainID, err := primitive.ObjectIDFromHex(c.Param("trainId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid train ID format.")
		return
	}

	train, err := h.trainService.UpdateTrain(c.Request.Context(), principal, trainID, service.TrainUpdateInput{
		WeekDay: req.WeekDay,
		From:    req.From,
		To:      req.To,
	})
	if err != nil {
		respondTrainError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapTrainToResponse(train))
}

// DeleteTrain removes a session.
func (h *TrainHandler) DeleteTrain(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	trainID, err := primitive.ObjectIDFromHex(c.Param("trainId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid train ID format.")
		return
	}

	if err := h.trainService.DeleteTrain(c.Request.Context(), principal, trainID); err != nil {
		respondTrainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondTrainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrTrainNotFound), errors.Is(err, service.ErrPlanNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process train request.")
	}
}

// MapTrainToResponse converts a domain Train to its DTO.
func MapTrainToResponse(train *domain.Train) TrainResponse {
	if train == nil {
		return TrainResponse{}
	}
	return TrainResponse{
		ID:        train.ID.Hex(),
		PlanID:    train.PlanID.Hex(),
		WeekDay:   train.WeekDay,
		From:      train.From,
		To:        train.To,
		CreatedAt: train.CreatedAt,
		UpdatedAt: train.UpdatedAt,
	}
}

// MapTrainsToResponse converts a slice of sessions to DTOs.
func MapTrainsToResponse(trains []domain.Train) []TrainResponse {
	responses := make([]TrainResponse, len(trains))
	for i := range trains {
		responses[i] = MapTrainToResponse(&trains[i])
	}
	return responses
}
