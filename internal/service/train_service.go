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
	ErrTrainNotFound = errors.New("train session not found")
)

// TrainService handles scheduled train sessions. Unlike activities, trainees
// are strictly read-only here: they can see sessions of their own plans but
// every write attempt resolves to not-found.
type TrainService interface {
	CreateTrain(ctx context.Context, principal domain.Principal, input TrainCreateInput) (*domain.Train, error)
	GetTrainByID(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) (*domain.Train, error)
	ListTrains(ctx context.Context, principal domain.Principal, planID *primitive.ObjectID) ([]domain.Train, error)
	UpdateTrain(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID, input TrainUpdateInput) (*domain.Train, error)
	DeleteTrain(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) error
}

// TrainCreateInput carries the fields a caller may set on creation.
type TrainCreateInput struct {
	PlanID  primitive.ObjectID
	WeekDay domain.WeekDay
	From    time.Time
	To      time.Time
}

// TrainUpdateInput carries the mutable fields. Nil means "leave as is".
// The plan link cannot be changed through update.
type TrainUpdateInput struct {
	WeekDay *domain.WeekDay
	From    *time.Time
	To      *time.Time
}

type trainService struct {
	trainRepo repository.TrainRepository
	planRepo  repository.PlanRepository
}

// NewTrainService creates a new instance of trainService.
func NewTrainService(trainRepo repository.TrainRepository, planRepo repository.PlanRepository) TrainService {
	return &trainService{
		trainRepo: trainRepo,
		planRepo:  planRepo,
	}
}

// CreateTrain schedules a session on a plan. Trainees are denied with the
// same masked plan-not-found a trainer gets for a plan they don't own.
func (s *trainService) CreateTrain(ctx context.Context, principal domain.Principal, input TrainCreateInput) (*domain.Train, error) {
	if input.PlanID == primitive.NilObjectID || input.WeekDay == "" {
		return nil, errors.New("train planId and weekDay are required")
	}

	if principal.Role == domain.RoleTrainee {
		return nil, ErrPlanNotFound
	}
	if principal.Role == domain.RoleTrainer {
		ok, err := s.planRepo.IsAccessibleByTrainer(ctx, input.PlanID, principal.ID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrPlanNotFound
		}
	}

	train := &domain.Train{
		PlanID:  input.PlanID,
		WeekDay: input.WeekDay,
		From:    input.From,
		To:      input.To,
	}

	trainID, err := s.trainRepo.Create(ctx, train)
	if err != nil {
		return nil, err
	}
	train.ID = trainID
	return train, nil
}

// GetTrainByID retrieves a session if the caller may see it.
func (s *trainService) GetTrainByID(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) (*domain.Train, error) {
	return s.fetchAccessible(ctx, principal, trainID)
}

// ListTrains returns the sessions visible to the caller, optionally narrowed
// to one plan. An unauthorized plan filter yields an empty slice.
func (s *trainService) ListTrains(ctx context.Context, principal domain.Principal, planID *primitive.ObjectID) ([]domain.Train, error) {
	if planID == nil {
		switch principal.Role {
		case domain.RoleAdmin:
			return s.trainRepo.GetAll(ctx)
		case domain.RoleTrainer:
			return s.trainRepo.GetByTrainerID(ctx, principal.ID)
		default:
			return s.trainRepo.GetByTraineeID(ctx, principal.ID)
		}
	}

	ok, err := s.planVisible(ctx, principal, *planID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []domain.Train{}, nil
	}
	return s.trainRepo.GetByPlanID(ctx, *planID)
}

// UpdateTrain modifies a session's schedule fields.
func (s *trainService) UpdateTrain(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID, input TrainUpdateInput) (*domain.Train, error) {
	train, err := s.fetchForWrite(ctx, principal, trainID)
	if err != nil {
		return nil, err
	}

	if input.WeekDay != nil {
		if *input.WeekDay == "" {
			return nil, errors.New("train weekDay cannot be empty")
		}
		train.WeekDay = *input.WeekDay
	}
	if input.From != nil {
		train.From = *input.From
	}
	if input.To != nil {
		train.To = *input.To
	}

	if err := s.trainRepo.Update(ctx, train); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}
	return train, nil
}

// DeleteTrain removes a session, same write rules as UpdateTrain.
func (s *trainService) DeleteTrain(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) error {
	if _, err := s.fetchForWrite(ctx, principal, trainID); err != nil {
		return err
	}

	err := s.trainRepo.Delete(ctx, trainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTrainNotFound
		}
		return err
	}
	return nil
}

// fetchAccessible loads a session and applies the read rule.
func (s *trainService) fetchAccessible(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) (*domain.Train, error) {
	train, err := s.trainRepo.GetByID(ctx, trainID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTrainNotFound
		}
		return nil, err
	}

	ok, err := s.planVisible(ctx, principal, train.PlanID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrTrainNotFound
	}
	return train, nil
}

// fetchForWrite is the mutate-level check: trainers and admins only.
// Trainees get the same not-found a session outside their plans would give.
func (s *trainService) fetchForWrite(ctx context.Context, principal domain.Principal, trainID primitive.ObjectID) (*domain.Train, error) {
	if principal.Role == domain.RoleTrainee {
		return nil, ErrTrainNotFound
	}
	return s.fetchAccessible(ctx, principal, trainID)
}

// planVisible reports whether the principal can see the given plan.
func (s *trainService) planVisible(ctx context.Context, principal domain.Principal, planID primitive.ObjectID) (bool, error) {
	switch principal.Role {
	case domain.RoleAdmin:
		return true, nil
	case domain.RoleTrainer:
		return s.planRepo.IsAccessibleByTrainer(ctx, planID, principal.ID)
	default:
		return s.planRepo.IsOwnedByTrainee(ctx, planID, principal.ID)
	}
}
