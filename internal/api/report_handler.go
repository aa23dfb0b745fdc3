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

// ReportHandler exposes assessment reports and their photo attachments.
type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// --- DTOs ---

type BodyPartPayload struct {
	Name    string   `json:"name" binding:"required"`
	BodyFat *float64 `json:"bodyFat,omitempty"`
}

type CreateReportRequest struct {
	ProfileID string            `json:"profileId" binding:"required"`
	PlanID    string            `json:"planId,omitempty"`
	Content   string            `json:"content,omitempty"`
	IMC       *float64          `json:"imc,omitempty"`
	BodyFat   *float64          `json:"bodyFat,omitempty"`
	Weight    *float64          `json:"weight,omitempty"`
	Height    *float64          `json:"height,omitempty"`
	BodyParts []BodyPartPayload `json:"bodyParts,omitempty"`
}

type UpdateReportRequest struct {
	Content *string  `json:"content,omitempty"`
	IMC     *float64 `json:"imc,omitempty"`
	BodyFat *float64 `json:"bodyFat,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
	Height  *float64 `json:"height,omitempty"`
}

type ReportResponse struct {
	ID        string    `json:"id"`
	ProfileID string    `json:"profileId"`
	CreatedBy *string   `json:"createdBy,omitempty"`
	PlanID    *string   `json:"planId,omitempty"`
	Content   string    `json:"content,omitempty"`
	IMC       *float64  `json:"imc,omitempty"`
	BodyFat   *float64  `json:"bodyFat,omitempty"`
	Weight    *float64  `json:"weight,omitempty"`
	Height    *float64  `json:"height,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type RequestUploadURLRequest struct {
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
}

type UploadURLResponse struct {
	UploadURL string `json:"uploadUrl"`
	ObjectKey string `json:"objectKey"`
}

type ConfirmAttachmentRequest struct {
	ObjectKey   string `json:"objectKey" binding:"required"`
	FileName    string `json:"fileName" binding:"required"`
	ContentType string `json:"contentType" binding:"required"`
	Size        int64  `json:"size" binding:"required,min=1"`
}

type AttachmentResponse struct {
	ID          string    `json:"id"`
	ReportID    string    `json:"reportId"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploadedAt"`
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// CreateReport records an assessment with its initial measurements.
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	profileID, err := primitive.ObjectIDFromHex(req.ProfileID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid profile ID format.")
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

	parts := make([]service.BodyPartInput, len(req.BodyParts))
	for i, p := range req.BodyParts {
		parts[i] = service.BodyPartInput{Name: p.Name, BodyFat: p.BodyFat}
	}

	report, err := h.reportService.CreateReport(c.Request.Context(), principal, service.ReportCreateInput{
		ProfileID: profileID,
		PlanID:    planID,
		Content:   req.Content,
		IMC:       req.IMC,
		BodyFat:   req.BodyFat,
		Weight:    req.Weight,
		Height:    req.Height,
		BodyParts: parts,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapReportToResponse(report))
}

// GetReportByID returns one report if the caller may see it.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	report, err := h.reportService.GetReportByID(c.Request.Context(), principal, reportID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapReportToResponse(report))
}

// ListReports returns the reports visible to the caller. An optional
// ?profileId= query narrows the listing to one assessed trainee.
func (h *ReportHandler) ListReports(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	var profileID *primitive.ObjectID
	if raw := c.Query("profileId"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid profile ID format.")
			return
		}
		profileID = &id
	}

	reports, err := h.reportService.ListReports(c.Request.Context(), principal, profileID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to retrieve reports.")
		return
	}

	c.JSON(http.StatusOK, MapReportsToResponse(reports))
}

// UpdateReport modifies a report's assessment fields.
func (h *ReportHandler) UpdateReport(c *gin.Context) {
	var req UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), principal, reportID, service.ReportUpdateInput{
		Content: req.Content,
		IMC:     req.IMC,
		BodyFat: req.BodyFat,
		Weight:  req.Weight,
		Height:  req.Height,
	})
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, MapReportToResponse(report))
}

// DeleteReport removes a report, its measurements and its attachments.
func (h *ReportHandler) DeleteReport(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), principal, reportID); err != nil {
		respondReportError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// --- Attachment Methods ---

// RequestAttachmentUploadURL returns a presigned PUT URL for a report photo.
func (h *ReportHandler) RequestAttachmentUploadURL(c *gin.Context) {
	var req RequestUploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	uploadURL, objectKey, err := h.reportService.RequestAttachmentUploadURL(c.Request.Context(), principal, reportID, req.FileName, req.ContentType)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAttachmentType) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadURLResponse{UploadURL: uploadURL, ObjectKey: objectKey})
}

// ConfirmAttachment persists attachment metadata after the S3 upload finished.
func (h *ReportHandler) ConfirmAttachment(c *gin.Context) {
	var req ConfirmAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	attachment, err := h.reportService.ConfirmAttachment(c.Request.Context(), principal, reportID, req.ObjectKey, req.FileName, req.ContentType, req.Size)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusCreated, MapAttachmentToResponse(attachment))
}

// ListAttachments returns attachment metadata for a report.
func (h *ReportHandler) ListAttachments(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	reportID, err := primitive.ObjectIDFromHex(c.Param("reportId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid report ID format.")
		return
	}

	attachments, err := h.reportService.ListAttachments(c.Request.Context(), principal, reportID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	responses := make([]AttachmentResponse, len(attachments))
	for i := range attachments {
		responses[i] = MapAttachmentToResponse(&attachments[i])
	}
	c.JSON(http.StatusOK, responses)
}

// GetAttachmentDownloadURL returns a presigned GET URL for one attachment.
func (h *ReportHandler) GetAttachmentDownloadURL(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	attachmentID, err := primitive.ObjectIDFromHex(c.Param("attachmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid attachment ID format.")
		return
	}

	downloadURL, err := h.reportService.GetAttachmentDownloadURL(c.Request.Context(), principal, attachmentID)
	if err != nil {
		respondReportError(c, err)
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: downloadURL})
}

// DeleteAttachment removes an attachment and its S3 object.
func (h *ReportHandler) DeleteAttachment(c *gin.Context) {
	principal, err := getPrincipalFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify caller from token.")
		return
	}

	attachmentID, err := primitive.ObjectIDFromHex(c.Param("attachmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid attachment ID format.")
		return
	}

	if err := h.reportService.DeleteAttachment(c.Request.Context(), principal, attachmentID); err != nil {
		respondReportError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func respondReportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrAttachmentNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, "Failed to process report request.")
	}
}

// MapReportToResponse converts a domain Report to its DTO.
func MapReportToResponse(report *domain.Report) ReportResponse {
	if report == nil {
		return ReportResponse{}
	}
	resp := ReportResponse{
		ID:        report.ID.Hex(),
		ProfileID: report.ProfileID.Hex(),
		Content:   report.Content,
		IMC:       report.IMC,
		BodyFat:   report.BodyFat,
		Weight:    report.Weight,
		Height:    report.Height,
		CreatedAt: report.CreatedAt,
	}
	if report.CreatedBy != nil {
		createdByHex := report.CreatedBy.Hex()
		resp.CreatedBy = &createdByHex
	}
	if report.PlanID != nil {
		planIDHex := report.PlanID.Hex()
		resp.PlanID = &planIDHex
	}
	return resp
}

// MapReportsToResponse converts a slice of reports to DTOs.
func MapReportsToResponse(reports []domain.Report) []ReportResponse {
	responses := make([]ReportResponse, len(reports))
	for i := range reports {
		responses[i] = MapReportToResponse(&reports[i])
	}
	return responses
}

// MapAttachmentToResponse converts a domain Attachment to its DTO. The S3
// object key stays server-side.
func MapAttachmentToResponse(attachment *domain.Attachment) AttachmentResponse {
	if attachment == nil {
		return AttachmentResponse{}
	}
	return AttachmentResponse{
		ID:          attachment.ID.Hex(),
		ReportID:    attachment.ReportID.Hex(),
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		Size:        attachment.Size,
		UploadedAt:  attachment.UploadedAt,
	}
}
