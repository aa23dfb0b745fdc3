package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a physical-assessment report a trainer records for a trainee.
// Ownership for authorization purposes always resolves through the assessed
// Profile's TrainerID, not through CreatedBy.
type Report struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProfileID primitive.ObjectID  `bson:"profileId" json:"profileId"`                   // The trainee being assessed
	CreatedBy *primitive.ObjectID `bson:"createdBy,omitempty" json:"createdBy,omitempty"` // Authoring trainer, if any
	PlanID    *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`     // Optional link to a plan
	Content   string              `bson:"content,omitempty" json:"content,omitempty"`
	IMC       *float64            `bson:"imc,omitempty" json:"imc,omitempty"`
	BodyFat   *float64            `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
	Weight    *float64            `bson:"weight,omitempty" json:"weight,omitempty"`
	Height    *float64            `bson:"height,omitempty" json:"height,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}
