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
	ErrProfileNotFound        = errors.New("profile not found")
	ErrTraineeNotFound        = errors.New("trainee not found with the provided email")
	ErrProfileNotTrainee      = errors.New("profile found but is not a trainee")
	ErrTraineeAlreadyAssigned = errors.New("trainee is already assigned to another trainer")
)

// ProfileService handles profile management and the trainer/trainee link.
type ProfileService interface {
	AddTraineeByEmail(ctx context.Context, principal domain.Principal, traineeEmail string) (*domain.Profile, error)
	GetMyTrainees(ctx context.Context, principal domain.Principal) ([]domain.Profile, error)
	ListProfiles(ctx context.Context, principal domain.Principal) ([]domain.Profile, error)
	GetProfileByID(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID, input ProfileUpdateInput) (*domain.Profile, error)
	DeleteProfile(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID) error
}

// ProfileUpdateInput carries the mutable profile fields. Nil means "leave as is".
type ProfileUpdateInput struct {
	Name  *string
	Email *string
}

type profileService struct {
	profileRepo repository.ProfileRepository
}

// NewProfileService creates a new instance of profileService.
func NewProfileService(profileRepo repository.ProfileRepository) ProfileService {
	return &profileService{profileRepo: profileRepo}
}

// AddTraineeByEmail finds a trainee by email and assigns them to the calling
// trainer. Assigning a trainee who already has this trainer is a no-op.
func (s *profileService) AddTraineeByEmail(ctx context.Context, principal domain.Principal, traineeEmail string) (*domain.Profile, error) {
	if principal.Role != domain.RoleTrainer {
		return nil, ErrTraineeNotFound
	}
	if traineeEmail == "" {
		return nil, errors.New("trainee email cannot be empty")
	}

	trainee, err := s.profileRepo.GetByEmail(ctx, traineeEmail)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}

	if !trainee.IsTrainee() {
		return nil, ErrProfileNotTrainee
	}

	if trainee.TrainerID != nil {
		if *trainee.TrainerID == principal.ID {
			trainee.PasswordHash = ""
			return trainee, nil // Already assigned to this trainer
		}
		return nil, ErrTraineeAlreadyAssigned
	}

	if err := s.profileRepo.SetTrainerForTrainee(ctx, trainee.ID, principal.ID); err != nil {
		return nil, err
	}

	trainee.TrainerID = &principal.ID
	trainee.PasswordHash = ""
	return trainee, nil
}

// GetMyTrainees returns the trainees assigned to the calling trainer.
func (s *profileService) GetMyTrainees(ctx context.Context, principal domain.Principal) ([]domain.Profile, error) {
	if principal.Role != domain.RoleTrainer {
		return []domain.Profile{}, nil
	}
	trainees, err := s.profileRepo.GetTraineesByTrainerID(ctx, principal.ID)
	if err != nil {
		return nil, err
	}
	for i := range trainees {
		trainees[i].PasswordHash = ""
	}
	return trainees, nil
}

// ListProfiles returns the profiles visible to the caller: admins see all,
// trainers see their trainees, trainees see only themselves.
func (s *profileService) ListProfiles(ctx context.Context, principal domain.Principal) ([]domain.Profile, error) {
	var profiles []domain.Profile
	var err error

	switch principal.Role {
	case domain.RoleAdmin:
		profiles, err = s.profileRepo.GetAll(ctx)
	case domain.RoleTrainer:
		profiles, err = s.profileRepo.GetTraineesByTrainerID(ctx, principal.ID)
	default:
		var self *domain.Profile
		self, err = s.profileRepo.GetByID(ctx, principal.ID)
		if err == nil {
			profiles = []domain.Profile{*self}
		}
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return []domain.Profile{}, nil
		}
		return nil, err
	}

	for i := range profiles {
		profiles[i].PasswordHash = ""
	}
	return profiles, nil
}

// GetProfileByID retrieves a single profile. Visible to admins, to the
// profile owner, and to the trainer managing the profile. Everything else
// resolves to not found.
func (s *profileService) GetProfileByID(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.fetchAccessible(ctx, principal, profileID)
	if err != nil {
		return nil, err
	}
	profile.PasswordHash = ""
	return profile, nil
}

// UpdateProfile changes name/email. Same visibility rule as GetProfileByID.
func (s *profileService) UpdateProfile(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID, input ProfileUpdateInput) (*domain.Profile, error) {
	profile, err := s.fetchAccessible(ctx, principal, profileID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		profile.Name = *input.Name
	}
	if input.Email != nil {
		profile.Email = *input.Email
	}

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	profile.PasswordHash = ""
	return profile, nil
}

// DeleteProfile removes a profile. Only admins and the owner may delete;
// trainers cannot delete their trainees.
func (s *profileService) DeleteProfile(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID) error {
	if principal.Role != domain.RoleAdmin && principal.ID != profileID {
		return ErrProfileNotFound
	}

	err := s.profileRepo.Delete(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrProfileNotFound
		}
		return err
	}
	return nil
}

// fetchAccessible loads the profile and applies the visibility rule. Denials
// surface as ErrProfileNotFound so callers cannot probe for existence.
func (s *profileService) fetchAccessible(ctx context.Context, principal domain.Principal, profileID primitive.ObjectID) (*domain.Profile, error) {
	profile, err := s.profileRepo.GetByID(ctx, profileID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	switch {
	case principal.Role == domain.RoleAdmin:
	case principal.ID == profileID:
	case principal.Role == domain.RoleTrainer && profile.TrainerID != nil && *profile.TrainerID == principal.ID:
	default:
		return nil, ErrProfileNotFound
	}
	return profile, nil
}
