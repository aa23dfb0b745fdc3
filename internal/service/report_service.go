package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"alcyxob/coaching-platform/internal/storage"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrReportNotFound        = errors.New("report not found")
	ErrAttachmentNotFound    = errors.New("attachment not found")
	ErrInvalidAttachmentType = errors.New("report attachments must be images")
)

// ReportService handles physical-assessment reports, their measurements and
// photo attachments. Ownership always resolves through the assessed profile's
// trainer link, never through the report author. Every denial is not-found.
type ReportService interface {
	CreateReport(ctx context.Context, principal domain.Principal, input ReportCreateInput) (*domain.Report, error)
	GetReportByID(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) (*domain.Report, error)
	ListReports(ctx context.Context, principal domain.Principal, profileID *primitive.ObjectID) ([]domain.Report, error)
	UpdateReport(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, input ReportUpdateInput) (*domain.Report, error)
	DeleteReport(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) error

	// Attachment flow: request an upload URL, upload directly to S3, then
	// confirm to persist the metadata. Downloads go through presigned GET URLs.
	RequestAttachmentUploadURL(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, fileName, contentType string) (uploadURL, objectKey string, err error)
	ConfirmAttachment(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Attachment, error)
	ListAttachments(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) ([]domain.Attachment, error)
	GetAttachmentDownloadURL(ctx context.Context, principal domain.Principal, attachmentID primitive.ObjectID) (string, error)
	DeleteAttachment(ctx context.Context, principal domain.Principal, attachmentID primitive.ObjectID) error
}

// ReportCreateInput carries the report fields plus its initial measurements.
// The measurements are written atomically with the report.
type ReportCreateInput struct {
	ProfileID primitive.ObjectID
	PlanID    *primitive.ObjectID
	Content   string
	IMC       *float64
	BodyFat   *float64
	Weight    *float64
	Height    *float64
	BodyParts []BodyPartInput
}

// BodyPartInput is one measurement row submitted with a report.
type BodyPartInput struct {
	Name    string
	BodyFat *float64
}

// ReportUpdateInput carries the mutable report fields. Nil means "leave as
// is". The assessed profile and author links cannot be changed.
type ReportUpdateInput struct {
	Content *string
	IMC     *float64
	BodyFat *float64
	Weight  *float64
	Height  *float64
}

type reportService struct {
	reportRepo     repository.ReportRepository
	profileRepo    repository.ProfileRepository
	attachmentRepo repository.AttachmentRepository
	fileStorage    storage.FileStorage
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	reportRepo repository.ReportRepository,
	profileRepo repository.ProfileRepository,
	attachmentRepo repository.AttachmentRepository,
	fileStorage storage.FileStorage,
) ReportService {
	return &reportService{
		reportRepo:     reportRepo,
		profileRepo:    profileRepo,
		attachmentRepo: attachmentRepo,
		fileStorage:    fileStorage,
	}
}

// CreateReport records an assessment for a trainee. Only the managing trainer
// (or an admin) may create one; trainees get the same masked profile-not-found
// a trainer gets for a trainee they don't coach.
func (s *reportService) CreateReport(ctx context.Context, principal domain.Principal, input ReportCreateInput) (*domain.Report, error) {
	if input.ProfileID == primitive.NilObjectID {
		return nil, errors.New("report profileId is required")
	}

	if principal.Role == domain.RoleTrainee {
		return nil, ErrProfileNotFound
	}
	if principal.Role == domain.RoleTrainer {
		managed, err := s.profileRepo.IsManagedByTrainer(ctx, input.ProfileID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !managed {
			return nil, ErrProfileNotFound
		}
	}

	report := &domain.Report{
		ProfileID: input.ProfileID,
		PlanID:    input.PlanID,
		Content:   input.Content,
		IMC:       input.IMC,
		BodyFat:   input.BodyFat,
		Weight:    input.Weight,
		Height:    input.Height,
	}
	if principal.Role == domain.RoleTrainer {
		report.CreatedBy = &principal.ID
	}

	parts := make([]domain.BodyPart, 0, len(input.BodyParts))
	for _, p := range input.BodyParts {
		if p.Name == "" {
			return nil, errors.New("body part name cannot be empty")
		}
		parts = append(parts, domain.BodyPart{
			Name:    p.Name,
			BodyFat: p.BodyFat,
		})
	}

	reportID, err := s.reportRepo.CreateWithBodyParts(ctx, report, parts)
	if err != nil {
		return nil, err
	}
	report.ID = reportID
	return report, nil
}

// GetReportByID retrieves a report if the caller may see it. Trainees can
// read reports about themselves, trainers those of their trainees.
func (s *reportService) GetReportByID(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) (*domain.Report, error) {
	return s.fetchReadable(ctx, principal, reportID)
}

// ListReports returns the reports visible to the caller, optionally narrowed
// to one assessed profile. An unauthorized profile filter yields an empty
// slice rather than an error.
func (s *reportService) ListReports(ctx context.Context, principal domain.Principal, profileID *primitive.ObjectID) ([]domain.Report, error) {
	if profileID == nil {
		switch principal.Role {
		case domain.RoleAdmin:
			return s.reportRepo.GetAll(ctx)
		case domain.RoleTrainer:
			return s.reportRepo.GetByTrainerID(ctx, principal.ID)
		default:
			return s.reportRepo.GetByProfileID(ctx, principal.ID)
		}
	}

	switch principal.Role {
	case domain.RoleAdmin:
	case domain.RoleTrainer:
		managed, err := s.profileRepo.IsManagedByTrainer(ctx, *profileID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !managed {
			return []domain.Report{}, nil
		}
	default:
		if *profileID != principal.ID {
			return []domain.Report{}, nil
		}
	}
	return s.reportRepo.GetByProfileID(ctx, *profileID)
}

// UpdateReport modifies a report's assessment fields. Write access is
// trainer-of-the-assessed-profile or admin; the assessed trainee can read
// their report but never change it.
func (s *reportService) UpdateReport(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, input ReportUpdateInput) (*domain.Report, error) {
	report, err := s.fetchWritable(ctx, principal, reportID)
	if err != nil {
		return nil, err
	}

	if input.Content != nil {
		report.Content = *input.Content
	}
	if input.IMC != nil {
		report.IMC = input.IMC
	}
	if input.BodyFat != nil {
		report.BodyFat = input.BodyFat
	}
	if input.Weight != nil {
		report.Weight = input.Weight
	}
	if input.Height != nil {
		report.Height = input.Height
	}

	if err := s.reportRepo.Update(ctx, report); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return report, nil
}

// DeleteReport removes a report together with its measurements.
func (s *reportService) DeleteReport(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) error {
	if _, err := s.fetchWritable(ctx, principal, reportID); err != nil {
		return err
	}

	// Best effort on the S3 side: metadata rows go away with the report,
	// orphaned objects are cleaned up separately.
	attachments, err := s.attachmentRepo.GetByReportID(ctx, reportID)
	if err == nil {
		for _, a := range attachments {
			_ = s.fileStorage.DeleteObject(ctx, a.S3ObjectKey)
			_ = s.attachmentRepo.Delete(ctx, a.ID)
		}
	}

	err = s.reportRepo.Delete(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrReportNotFound
		}
		return err
	}
	return nil
}

// --- Attachments ---

// RequestAttachmentUploadURL authorizes the upload (write-level access) and
// returns a presigned PUT URL plus the object key the client must confirm.
func (s *reportService) RequestAttachmentUploadURL(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, fileName, contentType string) (string, string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", "", ErrInvalidAttachmentType
	}
	if _, err := s.fetchWritable(ctx, principal, reportID); err != nil {
		return "", "", err
	}

	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("reports/%s/%s%s", reportID.Hex(), uuid.NewString(), ext)

	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", "", err
	}
	return uploadURL, objectKey, nil
}

// ConfirmAttachment persists metadata after the client finished the S3 upload.
func (s *reportService) ConfirmAttachment(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID, objectKey, fileName, contentType string, size int64) (*domain.Attachment, error) {
	if objectKey == "" {
		return nil, errors.New("attachment objectKey cannot be empty")
	}
	if !strings.HasPrefix(objectKey, "reports/"+reportID.Hex()+"/") {
		return nil, errors.New("attachment objectKey does not belong to this report")
	}
	if _, err := s.fetchWritable(ctx, principal, reportID); err != nil {
		return nil, err
	}

	attachment := &domain.Attachment{
		ReportID:    reportID,
		S3ObjectKey: objectKey,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
	}

	attachmentID, err := s.attachmentRepo.Create(ctx, attachment)
	if err != nil {
		return nil, err
	}
	attachment.ID = attachmentID
	return attachment, nil
}

// ListAttachments returns attachment metadata for a report the caller can read.
func (s *reportService) ListAttachments(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) ([]domain.Attachment, error) {
	if _, err := s.fetchReadable(ctx, principal, reportID); err != nil {
		return nil, err
	}
	return s.attachmentRepo.GetByReportID(ctx, reportID)
}

// GetAttachmentDownloadURL returns a presigned GET URL for an attachment on a
// report the caller can read. The assessed trainee may download their photos.
func (s *reportService) GetAttachmentDownloadURL(ctx context.Context, principal domain.Principal, attachmentID primitive.ObjectID) (string, error) {
	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrAttachmentNotFound
		}
		return "", err
	}
	if _, err := s.fetchReadable(ctx, principal, attachment.ReportID); err != nil {
		return "", ErrAttachmentNotFound
	}

	return s.fileStorage.GeneratePresignedDownloadURL(ctx, attachment.S3ObjectKey, storage.DefaultPresignedURLExpiry)
}

// DeleteAttachment removes the S3 object and its metadata. Write-level access.
func (s *reportService) DeleteAttachment(ctx context.Context, principal domain.Principal, attachmentID primitive.ObjectID) error {
	attachment, err := s.attachmentRepo.GetByID(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	if _, err := s.fetchWritable(ctx, principal, attachment.ReportID); err != nil {
		return ErrAttachmentNotFound
	}

	if err := s.fileStorage.DeleteObject(ctx, attachment.S3ObjectKey); err != nil {
		return err
	}

	err = s.attachmentRepo.Delete(ctx, attachmentID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAttachmentNotFound
		}
		return err
	}
	return nil
}

// fetchReadable loads a report and applies the read rule: admin, the managing
// trainer of the assessed profile, or the assessed trainee themself.
func (s *reportService) fetchReadable(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	switch principal.Role {
	case domain.RoleAdmin:
		return report, nil
	case domain.RoleTrainer:
		owned, err := s.reportRepo.IsOwnedByTrainer(ctx, reportID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrReportNotFound
		}
		return report, nil
	default:
		if report.ProfileID != principal.ID {
			return nil, ErrReportNotFound
		}
		return report, nil
	}
}

// fetchWritable is the mutate-level check: admin or managing trainer. The
// assessed trainee is excluded, their denial masked as not-found.
func (s *reportService) fetchWritable(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) (*domain.Report, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}

	switch principal.Role {
	case domain.RoleAdmin:
		return report, nil
	case domain.RoleTrainer:
		owned, err := s.reportRepo.IsOwnedByTrainer(ctx, reportID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrReportNotFound
		}
		return report, nil
	default:
		return nil, ErrReportNotFound
	}
}
