package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Plan represents a training plan a trainer builds for one of their trainees.
type Plan struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TrainerID   primitive.ObjectID `bson:"trainerId" json:"trainerId"` // Who created the plan
	TraineeID   primitive.ObjectID `bson:"traineeId" json:"traineeId"` // Who the plan is for
	Title       string             `bson:"title" json:"title"`         // e.g., "Phase 1: Hypertrophy"
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	From        *time.Time         `bson:"from,omitempty" json:"from,omitempty"` // Optional start date
	To          *time.Time         `bson:"to,omitempty" json:"to,omitempty"`     // Optional end date
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
