package api

import (
	"alcyxob/coaching-platform/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileHandler exposes profile management and the trainer/trainee roster.
type ProfileHandler struct {
	profileService service.ProfileService
}

func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// --- DTOs ---

type AddTraineeRequest struct {
	TraineeEmail string `json:"traineeEmail" binding:"required,email"`
}

type UpdateProfileRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty" binding:"omitempty,email"`
}

// --- Handler Methods ---

// AddTraineeByEmail godoc
// @Summary Add a trainee to the trainer's roster by email
// @Description Associates an existing trainee with the authenticated trainer.
// @Tags Profiles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param traineeRequest body AddTraineeRequest true "Trainee's email"
// @Success 200 {object} ProfileResponse "Trainee successfully associated"
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 403 {object} gin.H "Trainee already coached by another trainer, or profile is not a trainee"
// @Failure 404 {object} gin.H "Trainee not found"
// @Router /trainer/trainees [post]
func (h *ProfileHandler) AddTraineeByEmail(c *gin.Context) {
	var req AddTraineeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	trainee, err := h.profileService.AddTraineeByEmail(c.Request.Context(), principal, req.TraineeEmail)
	if err != nil {
		if errors.Is(err, service.ErrTraineeNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else if errors.Is(err, service.ErrProfileNotTrainee) || errors.Is(err, service.ErrTraineeAlreadyAssigned) {
			abortWithError(c, http.StatusForbidden, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to add trainee.")
		}
		return
	}

	c.JSON(http.StatusOK, MapProfileToResponse(trainee))
}

// GetMyTrainees returns the trainees assigned to the authenticated trainer.
func (h *ProfileHandler) GetMyTrainees(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	trainees, err := h.profileService.GetMyTrainees(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve trainees.")
		return
	}

	c.JSON(http.StatusOK, MapProfilesToResponse(trainees))
}

// ListProfiles returns the profiles visible to the caller.
func (h *ProfileHandler) ListProfiles(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	profiles, err := h.profileService.ListProfiles(c.Request.Context(), principal)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profiles.")
		return
	}

	c.JSON(http.StatusOK, MapProfilesToResponse(profiles))
}

// GetProfileByID returns one profile if the caller may see it.
func (h *ProfileHandler) GetProfileByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	profileID, err := primitive.ObjectIDFromHex(c.Param("profileId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile ID format.")
		return
	}

	profile, err := h.profileService.GetProfileByID(c.Request.Context(), principal, profileID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to retrieve profile.")
		}
		return
	}

	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// UpdateProfile changes a profile's name or email.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	profileID, err := primitive.ObjectIDFromHex(c.Param("profileId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile ID format.")
		return
	}

	profile, err := h.profileService.UpdateProfile(c.Request.Context(), principal, profileID, service.ProfileUpdateInput{
		Name:  req.Name,
		Email: req.Email,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		}
		return
	}

	c.JSON(http.StatusOK, MapProfileToResponse(profile))
}

// DeleteProfile removes a profile (admin or self only).
func (h *ProfileHandler) DeleteProfile(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	profileID, err := primitive.ObjectIDFromHex(c.Param("profileId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile ID format.")
		return
	}

	if err := h.profileService.DeleteProfile(c.Request.Context(), principal, profileID); err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to delete profile.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
