package domain

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BodyPart is a per-body-part measurement attached to a Report.
// Ownership is two hops away: BodyPart -> Report -> Profile -> TrainerID.
type BodyPart struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReportID primitive.ObjectID `bson:"reportId" json:"reportId"`
	Name     string             `bson:"name" json:"name"` // e.g., "Left arm", "Waist"
	BodyFat  *float64           `bson:"bodyFat,omitempty" json:"bodyFat,omitempty"`
}
