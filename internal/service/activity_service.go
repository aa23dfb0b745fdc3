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
	ErrActivityNotFound = errors.New("activity not found")
)

// ActivityService handles exercises (activities) attached to plans.
// Trainees cannot create activities, but they can modify and delete
// activities belonging to their own plans. All denials surface as not-found.
type ActivityService interface {
	CreateActivity(ctx context.Context, principal domain.Principal, input ActivityCreateInput) (*domain.Activity, error)
	GetActivityByID(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) (*domain.Activity, error)
	ListActivities(ctx context.Context, principal domain.Principal, planID *primitive.ObjectID) ([]domain.Activity, error)
	UpdateActivity(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID, input ActivityUpdateInput) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) error
}

// ActivityCreateInput carries the fields a caller may set on creation.
// PlanID may be nil: a catalog activity not yet attached to any plan.
type ActivityCreateInput struct {
	PlanID      *primitive.ObjectID
	Name        string
	Type        domain.ActivityType
	Description string
	Weight      *float64
	Reps        *int
	Sets        *int
	Duration    *int
}

// ActivityUpdateInput carries the mutable activity fields. Nil means
// "leave as is". The plan link cannot be changed through update.
type ActivityUpdateInput struct {
	Name        *string
	Type        *domain.ActivityType
	Description *string
	Weight      *float64
	Reps        *int
	Sets        *int
	Duration    *int
}

type activityService struct {
	activityRepo repository.ActivityRepository
	planRepo     repository.PlanRepository
}

// NewActivityService creates a new instance of activityService.
func NewActivityService(activityRepo repository.ActivityRepository, planRepo repository.PlanRepository) ActivityService {
	return &activityService{
		activityRepo: activityRepo,
		planRepo:     planRepo,
	}
}

// CreateActivity attaches a new activity to a plan (or to the catalog when
// PlanID is nil). Trainees cannot create activities at all; the denial is
// reported as a missing plan so the plan's existence stays hidden.
func (s *activityService) CreateActivity(ctx context.Context, principal domain.Principal, input ActivityCreateInput) (*domain.Activity, error) {
	if input.Name == "" || input.Type == "" {
		return nil, errors.New("activity name and type are required")
	}

	if principal.Role == domain.RoleTrainee {
		return nil, ErrPlanNotFound
	}

	if input.PlanID != nil && principal.Role == domain.RoleTrainer {
		ok, err := s.planRepo.IsAccessibleByTrainer(ctx, *input.PlanID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPlanNotFound
		}
	}

	activity := &domain.Activity{
		PlanID:      input.PlanID,
		Name:        input.Name,
		Type:        input.Type,
		Description: input.Description,
		Weight:      input.Weight,
		Reps:        input.Reps,
		Sets:        input.Sets,
		Duration:    input.Duration,
	}

	activityID, err := s.activityRepo.Create(ctx, activity)
	if err != nil {
		return nil, err
	}
	activity.ID = activityID
	return activity, nil
}

// GetActivityByID retrieves an activity if the caller may see it.
func (s *activityService) GetActivityByID(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) (*domain.Activity, error) {
	return s.fetchAccessible(ctx, principal, activityID)
}

// ListActivities returns the activities visible to the caller, optionally
// narrowed to one plan. An unauthorized plan filter yields an empty slice,
// never an error: a denied listing looks exactly like an empty one.
func (s *activityService) ListActivities(ctx context.Context, principal domain.Principal, planID *primitive.ObjectID) ([]domain.Activity, error) {
	if planID == nil {
		switch principal.Role {
		case domain.RoleAdmin:
			return s.activityRepo.GetAll(ctx)
		case domain.RoleTrainer:
			return s.activityRepo.GetByTrainerID(ctx, principal.ID)
		default:
			return s.activityRepo.GetByTraineeID(ctx, principal.ID)
		}
	}

	ok, err := s.planVisible(ctx, principal, *planID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Activity{}, nil
	}
	return s.activityRepo.GetByPlanID(ctx, *planID)
}

// UpdateActivity modifies an activity's content fields.
func (s *activityService) UpdateActivity(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID, input ActivityUpdateInput) (*domain.Activity, error) {
	activity, err := s.fetchForWrite(ctx, principal, activityID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, errors.New("activity name cannot be empty")
		}
		activity.Name = *input.Name
	}
	if input.Type != nil {
		activity.Type = *input.Type
	}
	if input.Description != nil {
		activity.Description = *input.Description
	}
	if input.Weight != nil {
		activity.Weight = input.Weight
	}
	if input.Reps != nil {
		activity.Reps = input.Reps
	}
	if input.Sets != nil {
		activity.Sets = input.Sets
	}
	if input.Duration != nil {
		activity.Duration = input.Duration
	}

	if err := s.activityRepo.Update(ctx, activity); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}
	return activity, nil
}

// DeleteActivity removes an activity, same write rules as UpdateActivity.
func (s *activityService) DeleteActivity(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) error {
	if _, err := s.fetchForWrite(ctx, principal, activityID); err != nil {
		return err
	}

	err := s.activityRepo.Delete(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrActivityNotFound
		}
		return err
	}
	return nil
}

// fetchAccessible loads an activity and applies the read rule. Catalog
// activities (no plan link) are visible to trainers and admins only.
func (s *activityService) fetchAccessible(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) (*domain.Activity, error) {
	activity, err := s.activityRepo.GetByID(ctx, activityID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrActivityNotFound
		}
		return nil, err
	}

	if principal.Role == domain.RoleAdmin {
		return activity, nil
	}

	if activity.PlanID == nil {
		if principal.Role == domain.RoleTrainer {
			return activity, nil
		}
		return nil, ErrActivityNotFound
	}

	ok, err := s.planVisible(ctx, principal, *activity.PlanID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrActivityNotFound
	}
	return activity, nil
}

// fetchForWrite is the mutate-level check. It matches fetchAccessible today:
// a trainee may edit activities of their own plans even though they cannot
// create them.
func (s *activityService) fetchForWrite(ctx context.Context, principal domain.Principal, activityID primitive.ObjectID) (*domain.Activity, error) {
	return s.fetchAccessible(ctx, principal, activityID)
}

// planVisible reports whether the principal can see the given plan.
func (s *activityService) planVisible(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (bool, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleTrainer:
		return s.planRepo.IsAccessibleByTrainer(ctx, planID, principal.ID)
	default:
		return s.planRepo.IsOwnedByTrainee(ctx, planID, principal.ID)
	}
}
