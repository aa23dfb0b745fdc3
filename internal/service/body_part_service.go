package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrBodyPartNotFound = errors.New("body part measurement not found")
)

// BodyPartService handles per-body-part measurements hanging off reports.
// Access resolves through a two-hop walk (measurement -> report -> profile);
// anyone with access to the measurement may also mutate it.
type BodyPartService interface {
	CreateBodyPart(ctx context.Context, principal domain.Principal, input BodyPartCreateInput) (*domain.BodyPart, error)
	GetBodyPartByID(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID) (*domain.BodyPart, error)
	ListBodyParts(ctx context.Context, principal domain.Principal, reportID *primitive.ObjectID) ([]domain.BodyPart, error)
	UpdateBodyPart(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID, input BodyPartUpdateInput) (*domain.BodyPart, error)
	DeleteBodyPart(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID) error
}

// BodyPartCreateInput carries the fields a caller may set on creation.
type BodyPartCreateInput struct {
	ReportID primitive.ObjectID
	Name     string
	BodyFat  *float64
}

// BodyPartUpdateInput carries the mutable fields. Nil means "leave as is".
// The report link cannot be changed through update.
type BodyPartUpdateInput struct {
	Name    *string
	BodyFat *float64
}

type bodyPartService struct {
	bodyPartRepo repository.BodyPartRepository
	reportRepo   repository.ReportRepository
}

// NewBodyPartService creates a new instance of bodyPartService.
func NewBodyPartService(bodyPartRepo repository.BodyPartRepository, reportRepo repository.ReportRepository) BodyPartService {
	return &bodyPartService{
		bodyPartRepo: bodyPartRepo,
		reportRepo:   reportRepo,
	}
}

// CreateBodyPart adds a measurement to an existing report. Only the managing
// trainer (or an admin) may add rows; everyone else sees report-not-found.
func (s *bodyPartService) CreateBodyPart(ctx context.Context, principal domain.Principal, input BodyPartCreateInput) (*domain.BodyPart, error) {
	if input.ReportID == primitive.NilObjectID || input.Name == "" {
		return nil, errors.New("body part reportId and name are required")
	}

	switch principal.Role {
	case domain.RoleAdmin:
	case domain.RoleTrainer:
		owned, err := s.reportRepo.IsOwnedByTrainer(ctx, input.ReportID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !owned {
			return nil, ErrReportNotFound
		}
	default:
		return nil, ErrReportNotFound
	}

	part := &domain.BodyPart{
		ReportID: input.ReportID,
		Name:     input.Name,
		BodyFat:  input.BodyFat,
	}

	partID, err := s.bodyPartRepo.Create(ctx, part)
	if err != nil {
		return nil, err
	}
	part.ID = partID
	return part, nil
}

// GetBodyPartByID retrieves a measurement if the caller may see it.
func (s *bodyPartService) GetBodyPartByID(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID) (*domain.BodyPart, error) {
	return s.fetchAccessible(ctx, principal, bodyPartID)
}

// ListBodyParts returns the measurements visible to the caller, optionally
// narrowed to one report. An unauthorized report filter yields an empty slice.
func (s *bodyPartService) ListBodyParts(ctx context.Context, principal domain.Principal, reportID *primitive.ObjectID) ([]domain.BodyPart, error) {
	if reportID == nil {
		switch principal.Role {
		case domain.RoleAdmin:
			return s.bodyPartRepo.GetAll(ctx)
		case domain.RoleTrainer:
			return s.bodyPartRepo.GetByTrainerID(ctx, principal.ID)
		default:
			return s.bodyPartRepo.GetByTraineeID(ctx, principal.ID)
		}
	}

	ok, err := s.reportVisible(ctx, principal, *reportID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.BodyPart{}, nil
	}
	return s.bodyPartRepo.GetByReportID(ctx, *reportID)
}

// UpdateBodyPart modifies a measurement. Anyone who can see the row can
// change it, the assessed trainee included.
func (s *bodyPartService) UpdateBodyPart(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID, input BodyPartUpdateInput) (*domain.BodyPart, error) {
	part, err := s.fetchAccessible(ctx, principal, bodyPartID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.New("body part name cannot be empty")
		}
		part.Name = *input.Name
	}
	if input.BodyFat != nil {
		part.BodyFat = input.BodyFat
	}

	if err := s.bodyPartRepo.Update(ctx, part); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}
	return part, nil
}

// DeleteBodyPart removes a measurement, same access rule as UpdateBodyPart.
func (s *bodyPartService) DeleteBodyPart(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID) error {
	if _, err := s.fetchAccessible(ctx, principal, bodyPartID); err != nil {
		return err
	}

	err := s.bodyPartRepo.Delete(ctx, bodyPartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBodyPartNotFound
		}
		return err
	}
	return nil
}

// fetchAccessible loads a measurement and applies the two-hop access check.
func (s *bodyPartService) fetchAccessible(ctx context.Context, principal domain.Principal, bodyPartID primitive.ObjectID) (*domain.BodyPart, error) {
	part, err := s.bodyPartRepo.GetByID(ctx, bodyPartID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBodyPartNotFound
		}
		return nil, err
	}

	if principal.Role == domain.RoleAdmin {
		return part, nil
	}

	ok, err := s.bodyPartRepo.HasAccess(ctx, bodyPartID, principal.ID, principal.Role)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrBodyPartNotFound
	}
	return part, nil
}

// reportVisible reports whether the principal can read the given report.
func (s *bodyPartService) reportVisible(ctx context.Context, principal domain.Principal, reportID primitive.ObjectID) (bool, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleTrainer:
		return s.reportRepo.IsOwnedByTrainer(ctx, reportID, principal.ID)
	default:
		report, err := s.reportRepo.GetByID(ctx, reportID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return false, nil
			}
			return false, err
		}
		return report.ProfileID == principal.ID, nil
	}
}
