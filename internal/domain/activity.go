package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType classifies an activity.
type ActivityType string

const (
	ActivityCardio      ActivityType = "CARDIO"
	ActivityStrength    ActivityType = "STRENGTH"
	ActivityFlexibility ActivityType = "FLEXIBILITY"
	ActivityBalance     ActivityType = "BALANCE"
)

// Activity is a single exercise/activity inside a Plan.
// PlanID is a pointer: legacy "catalog" activities exist without a plan,
// in which case ownership cannot be resolved through the plan chain and
// only trainers/admins may mutate them.
type Activity struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PlanID      *primitive.ObjectID `bson:"planId,omitempty" json:"planId,omitempty"`
	Name        string              `bson:"name" json:"name"`
	Type        ActivityType        `bson:"activityType" json:"activityType"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Weight      *float64            `bson:"weight,omitempty" json:"weight,omitempty"`     // kg
	Reps        *int                `bson:"reps,omitempty" json:"reps,omitempty"`
	Sets        *int                `bson:"sets,omitempty" json:"sets,omitempty"`
	Duration    *int                `bson:"duration,omitempty" json:"duration,omitempty"` // minutes
	CreatedAt   time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time           `bson:"updatedAt" json:"updatedAt"`
}
