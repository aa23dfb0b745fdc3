package service

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrPlanNotFound      = errors.New("plan not found")
	ErrPlanRoleForbidden = errors.New("trainees cannot manage plans")
)

// PlanService handles training plans and the authorization rules around them.
// Plans are the only entity family where a denial can surface as a role error
// rather than not-found: trainees get an explicit forbidden on writes, while
// ownership failures for trainers stay masked as not-found.
type PlanService interface {
	CreatePlan(ctx context.Context, principal domain.Principal, input PlanCreateInput) (*domain.Plan, error)
	GetPlanByID(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (*domain.Plan, error)
	ListPlans(ctx context.Context, principal domain.Principal) ([]domain.Plan, error)
	UpdatePlan(ctx context.Context, principal domain.Principal, planID primitive.ObjectID, input PlanUpdateInput) (*domain.Plan, error)
	DeletePlan(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) error
}

// PlanCreateInput carries the fields a caller may set on creation.
// TrainerID is honored for admin callers only; for trainers the engine
// forces ownership to the caller regardless of what was submitted.
type PlanCreateInput struct {
	TraineeID   primitive.ObjectID
	TrainerID   primitive.ObjectID
	Title       string
	Description string
	From        *time.Time
	To          *time.Time
}

// PlanUpdateInput carries the mutable plan fields. Nil means "leave as is".
// Ownership links (TrainerID, TraineeID) are deliberately absent: they cannot
// be reassigned through update.
type PlanUpdateInput struct {
	Title       *string
	Description *string
	From        *time.Time
	To          *time.Time
}

type planService struct {
	planRepo    repository.PlanRepository
	profileRepo repository.ProfileRepository
}

// NewPlanService creates a new instance of planService.
func NewPlanService(planRepo repository.PlanRepository, profileRepo repository.ProfileRepository) PlanService {
	return &planService{
		planRepo:    planRepo,
		profileRepo: profileRepo,
	}
}

// CreatePlan creates a plan for a trainee. The role gate runs before any
// lookup, so a trainee caller always sees forbidden, never not-found.
func (s *planService) CreatePlan(ctx context.Context, principal domain.Principal, input PlanCreateInput) (*domain.Plan, error) {
	if principal.Role == domain.RoleTrainee {
		return nil, ErrPlanRoleForbidden
	}
	if input.Title == "" {
		return nil, errors.New("plan title cannot be empty")
	}
	if input.TraineeID == primitive.NilObjectID {
		return nil, errors.New("plan traineeId is required")
	}

	trainerID := input.TrainerID
	if principal.Role == domain.RoleTrainer {
		// Ownership is forced to the caller, and the trainee must actually
		// be coached by them. An unmanaged trainee looks like a missing one.
		trainerID = principal.ID
		managed, err := s.profileRepo.IsManagedByTrainer(ctx, input.TraineeID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !managed {
			return nil, ErrTraineeNotFound
		}
	} else if trainerID == primitive.NilObjectID {
		return nil, errors.New("plan trainerId is required")
	}

	plan := &domain.Plan{
		TrainerID:   trainerID,
		TraineeID:   input.TraineeID,
		Title:       input.Title,
		Description: input.Description,
		From:        input.From,
		To:          input.To,
	}

	planID, err := s.planRepo.Create(ctx, plan)
	if err != nil {
		return nil, err
	}
	plan.ID = planID
	return plan, nil
}

// GetPlanByID retrieves a plan if the caller may see it. Trainers see plans
// they created, trainees see plans assigned to them, admins see everything.
// Denied reads are indistinguishable from missing plans.
func (s *planService) GetPlanByID(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	switch {
	case principal.Role == domain.RoleAdmin:
	case principal.Role == domain.RoleTrainer && plan.TrainerID == principal.ID:
	case principal.Role == domain.RoleTrainee && plan.TraineeID == principal.ID:
	default:
		return nil, ErrPlanNotFound
	}
	return plan, nil
}

// ListPlans returns the plans visible to the caller. The scoping happens in
// the query itself, so there is nothing to post-filter.
func (s *planService) ListPlans(ctx context.Context, principal domain.Principal) ([]domain.Plan, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return s.planRepo.GetAll(ctx)
	case domain.RoleTrainer:
		return s.planRepo.GetByTrainerID(ctx, principal.ID)
	default:
		return s.planRepo.GetByTraineeID(ctx, principal.ID)
	}
}

// UpdatePlan modifies a plan's content fields. Existence is checked before
// the role gate, matching the write rules: a missing plan reports not-found
// even to a trainee, an existing one reports forbidden.
func (s *planService) UpdatePlan(ctx context.Context, principal domain.Principal, planID primitive.ObjectID, input PlanUpdateInput) (*domain.Plan, error) {
	plan, err := s.fetchForWrite(ctx, principal, planID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, errors.New("plan title cannot be empty")
		}
		plan.Title = *input.Title
	}
	if input.Description != nil {
		plan.Description = *input.Description
	}
	if input.From != nil {
		plan.From = input.From
	}
	if input.To != nil {
		plan.To = input.To
	}

	if err := s.planRepo.Update(ctx, plan); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

// DeletePlan removes a plan, same write rules as UpdatePlan.
func (s *planService) DeletePlan(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) error {
	if _, err := s.fetchForWrite(ctx, principal, planID); err != nil {
		return err
	}

	err := s.planRepo.Delete(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrPlanNotFound
		}
		return err
	}
	return nil
}

// fetchForWrite loads a plan and authorizes a mutation on it. Order matters:
// not-found is reported before the trainee role gate, so probing a missing id
// never reveals the caller's capability.
func (s *planService) fetchForWrite(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (*domain.Plan, error) {
	plan, err := s.planRepo.GetByID(ctx, planID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	switch principal.Role {
	case domain.RoleAdmin:
		return plan, nil
	case domain.RoleTrainer:
		if plan.TrainerID != principal.ID {
			return nil, ErrPlanNotFound
		}
		return plan, nil
	default:
		return nil, ErrPlanRoleForbidden
	}
}
