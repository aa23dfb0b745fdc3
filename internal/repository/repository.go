package repository

import (
	"alcyxob/coaching-platform/internal/domain" // Import our defined domain models
	"context"                                   // Standard for request-scoped deadlines, cancellation signals, etc.

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// ProfileRepository defines the interface for interacting with profile data.
type ProfileRepository interface {
	Create(ctx context.Context, profile *domain.Profile) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.Profile, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Profile, error)
	GetAll(ctx context.Context) ([]domain.Profile, error)
	GetTraineesByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Profile, error)
	SetTrainerForTrainee(ctx context.Context, traineeID, trainerID primitive.ObjectID) error
	Update(ctx context.Context, profile *domain.Profile) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// IsManagedByTrainer reports whether the trainee profile exists and its
	// trainerId matches. A missing profile resolves to false, never an error.
	IsManagedByTrainer(ctx context.Context, traineeID, trainerID primitive.ObjectID) (bool, error)
}

// PlanRepository defines the interface for interacting with plan data.
type PlanRepository interface {
	Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error)
	GetAll(ctx context.Context) ([]domain.Plan, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Plan, error)
	Update(ctx context.Context, plan *domain.Plan) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// IsOwnedByTrainee reports whether the plan exists and belongs to the trainee.
	IsOwnedByTrainee(ctx context.Context, planID, traineeID primitive.ObjectID) (bool, error)
	// IsAccessibleByTrainer reports whether the plan exists and was created by the trainer.
	IsAccessibleByTrainer(ctx context.Context, planID, trainerID primitive.ObjectID) (bool, error)
}

// ActivityRepository defines the interface for interacting with activity data.
type ActivityRepository interface {
	Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error)
	GetAll(ctx context.Context) ([]domain.Activity, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Activity, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Activity, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Activity, error)
	Update(ctx context.Context, activity *domain.Activity) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// TrainRepository defines the interface for interacting with train session data.
type TrainRepository interface {
	Create(ctx context.Context, train *domain.Train) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Train, error)
	GetAll(ctx context.Context) ([]domain.Train, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Train, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Train, error)
	GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Train, error)
	Update(ctx context.Context, train *domain.Train) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ReportRepository defines the interface for interacting with report data.
type ReportRepository interface {
	Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error)
	// CreateWithBodyParts creates the report and its measurements in one
	// multi-document transaction so a failed step never leaves a partial graph.
	CreateWithBodyParts(ctx context.Context, report *domain.Report, parts []domain.BodyPart) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error)
	GetAll(ctx context.Context) ([]domain.Report, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Report, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Report, error)
	GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Report, error)
	Update(ctx context.Context, report *domain.Report) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// IsOwnedByTrainer resolves Report -> Profile -> TrainerID and reports
	// whether the chain ends at the given trainer. Missing links resolve to false.
	IsOwnedByTrainer(ctx context.Context, reportID, trainerID primitive.ObjectID) (bool, error)
}

// BodyPartRepository defines the interface for interacting with body part measurements.
type BodyPartRepository interface {
	Create(ctx context.Context, part *domain.BodyPart) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BodyPart, error)
	GetAll(ctx context.Context) ([]domain.BodyPart, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.BodyPart, error)
	GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.BodyPart, error)
	GetByReportID(ctx context.Context, reportID primitive.ObjectID) ([]domain.BodyPart, error)
	Update(ctx context.Context, part *domain.BodyPart) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// HasAccess walks BodyPart -> Report -> Profile and compares against the
	// profile's trainerId (trainer callers) or the profile's own id (trainee
	// callers). Any missing hop resolves to false, never an error.
	HasAccess(ctx context.Context, bodyPartID, userID primitive.ObjectID, role domain.Role) (bool, error)
}

// AttachmentRepository defines the interface for interacting with report photo metadata.
type AttachmentRepository interface {
	Create(ctx context.Context, attachment *domain.Attachment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Attachment, error)
	GetByReportID(ctx context.Context, reportID primitive.ObjectID) ([]domain.Attachment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}
