package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleTrainee Role = "trainee"
	RoleTrainer Role = "trainer"
	RoleAdmin   Role = "admin"
)

// Profile represents a user in the system (Trainee, Trainer or Admin).
type Profile struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`

	// --- Trainee-specific ---
	// Stores the ObjectID of the Trainer coaching this Trainee.
	// Pointer because an unassigned trainee has no trainer yet.
	// Meaningless (and ignored) for trainers and admins.
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
}

// Helper methods (Optional but can be useful)
func (p *Profile) IsTrainer() bool {
	return p.Role == RoleTrainer
}

func (p *Profile) IsTrainee() bool {
	return p.Role == RoleTrainee
}

func (p *Profile) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Principal is the authenticated caller as extracted from the JWT by the
// auth middleware. It is passed explicitly into every service method and
// never modified by the engine.
type Principal struct {
	ID    primitive.ObjectID
	Role  Role
	Email string
	Name  string
}
