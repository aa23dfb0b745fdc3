package api

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyPartHandler exposes per-body-part measurement CRUD.
type BodyPartHandler struct {
	bodyPartService service.BodyPartService
}

func NewBodyPartHandler(bodyPartService service.BodyPartService) *BodyPartHandler {
	return &BodyPartHandler{bodyPartService: bodyPartService}
}

// --- DTOs ---

type CreateBodyPartRequest struct {
	ReportID string   `json:"reportId" binding:"required"`
	Name     string   `json:"name" binding:"required"`
	BodyFat  *float64 `json:"bodyFat,omitempty"`
}

type UpdateBodyPartRequest struct {
	Name    *string  `json:"name,omitempty"`
	BodyFat *float64 `json:"bodyFat,omitempty"`
}

type BodyPartResponse struct {
	ID       string   `json:"id"`
	ReportID string   `json:"reportId"`
	Name     string   `json:"name"`
	BodyFat  *float64 `json:"bodyFat,omitempty"`
}

// --- Handler Methods ---

// CreateBodyPart adds a measurement to an existing report.
func (h *BodyPartHandler) CreateBodyPart(c *gin.Context) {
	var req CreateBodyPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(req.ReportID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	part, err := h.bodyPartService.CreateBodyPart(c.Request.Context(), principal, service.BodyPartCreateInput{
		ReportID: reportID,
		Name:     req.Name,
		BodyFat:  req.BodyFat,
	})
	if err != nil {
		respondBodyPartError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapBodyPartToResponse(part))
}

// GetBodyPartByID returns one measurement if the caller may see it.
func (h *BodyPartHandler) GetBodyPartByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	bodyPartID, err := primitive.ObjectIDFromHex(c.Param("bodyPartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid body part ID format.")
		return
	}

	part, err := h.bodyPartService.GetBodyPartByID(c.Request.Context(), principal, bodyPartID)
	if err != nil {
		respondBodyPartError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapBodyPartToResponse(part))
}

// ListBodyParts returns the measurements visible to the caller. An optional
// ?reportId= query narrows the listing to one report.
func (h *BodyPartHandler) ListBodyParts(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	var reportID *primitive.ObjectID
	if raw := c.Query("reportId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
			return
		}
		reportID = &id
	}

	parts, err := h.bodyPartService.ListBodyParts(c.Request.Context(), principal, reportID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve body part measurements.")
		return
	}

	c.JSON(http.StatusOK, MapBodyPartsToResponse(parts))
}

// UpdateBodyPart modifies a measurement.
func (h *BodyPartHandler) UpdateBodyPart(c *gin.Context) {
	var req UpdateBodyPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	bodyPartID, err := primitive.ObjectIDFromHex(c.Param("bodyPartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid body part ID format.")
		return
	}

	part, err := h.bodyPartService.UpdateBodyPart(c.Request.Context(), principal, bodyPartID, service.BodyPartUpdateInput{
		Name:    req.Name,
		BodyFat: req.BodyFat,
	})
	if err != nil {
		respondBodyPartError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapBodyPartToResponse(part))
}

// DeleteBodyPart removes a measurement.
func (h *BodyPartHandler) DeleteBodyPart(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	bodyPartID, err := primitive.ObjectIDFromHex(c.Param("bodyPartId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid body part ID format.")
		return
	}

	if err := h.bodyPartService.DeleteBodyPart(c.Request.Context(), principal, bodyPartID); err != nil {
		respondBodyPartError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondBodyPartError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrBodyPartNotFound), errors.Is(err, service.ErrReportNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process body part request.")
	}
}

// MapBodyPartToResponse converts a domain BodyPart to its DTO.
func MapBodyPartToResponse(part *domain.BodyPart) BodyPartResponse {
	if part == nil {
		return BodyPartResponse{}
	}
	return BodyPartResponse{
		ID:       part.ID.Hex(),
		ReportID: part.ReportID.Hex(),
		Name:     part.Name,
		BodyFat:  part.BodyFat,
	}
}

// MapBodyPartsToResponse converts a slice of measurements to DTOs.
func MapBodyPartsToResponse(parts []domain.BodyPart) []BodyPartResponse {
	responses := make([]BodyPartResponse, len(parts))
	for i := range parts {
		responses[i] = MapBodyPartToResponse(&parts[i])
	}
	return responses
}
