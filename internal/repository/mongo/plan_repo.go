package mongo

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const planCollectionName = "plans"

// mongoPlanRepository implements repository.PlanRepository
type mongoPlanRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanRepository creates a new Plan repository backed by MongoDB.
func NewMongoPlanRepository(db *mongo.Database) repository.PlanRepository {
	return &mongoPlanRepository{
		collection: db.Collection(planCollectionName),
	}
}

// Create inserts a new plan.
func (r *mongoPlanRepository) Create(ctx context.Context, plan *domain.Plan) (primitive.ObjectID, error) {
	if plan.TraineeID == primitive.NilObjectID || plan.TrainerID == primitive.NilObjectID || plan.Title == "" {
		return primitive.NilObjectID, errors.New("plan requires traineeId, trainerId, and title")
	}
	plan.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plan)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan by its ID.
func (r *mongoPlanRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plan, error) {
	var plan domain.Plan
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&plan)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// GetAll retrieves every plan. Admin listing only.
func (r *mongoPlanRepository) GetAll(ctx context.Context) ([]domain.Plan, error) {
	return r.findPlans(ctx, bson.M{})
}

// GetByTrainerID retrieves all plans created by a specific trainer.
func (r *mongoPlanRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Plan, error) {
	return r.findPlans(ctx, bson.M{"trainerId": trainerID})
}

// GetByTraineeID retrieves all plans assigned to a specific trainee.
func (r *mongoPlanRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Plan, error) {
	return r.findPlans(ctx, bson.M{"traineeId": traineeID})
}

func (r *mongoPlanRepository) findPlans(ctx context.Context, filter bson.M) ([]domain.Plan, error) {
	var plans []domain.Plan
	// Sort by creation date, newest first
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &plans); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	// Return empty slice if no plans found (not an error)
	if plans == nil {
		plans = []domain.Plan{}
	}
	return plans, nil
}

// Update modifies an existing plan.
// TrainerID and TraineeID are deliberately not part of the update document:
// a plan is never reassigned through a simple update.
func (r *mongoPlanRepository) Update(ctx context.Context, plan *domain.Plan) error {
	if plan.ID == primitive.NilObjectID {
		return errors.New("plan ID is required for update")
	}

	filter := bson.M{"_id": plan.ID}
	updateDoc := bson.M{
		"$set": bson.M{
			"title":       plan.Title,
			"description": plan.Description,
			"from":        plan.From,
			"to":          plan.To,
			"updatedAt":   time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	// ModifiedCount could be 0 if data was the same, which is not an error.
	return nil
}

// Delete removes a plan by id. Ownership is checked in the service layer
// before this is called.
func (r *mongoPlanRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// IsOwnedByTrainee reports whether the plan exists and its traineeId matches.
func (r *mongoPlanRepository) IsOwnedByTrainee(ctx context.Context, planID, traineeID primitive.ObjectID) (bool, error) {
	return r.exists(ctx, bson.M{"_id": planID, "traineeId": traineeID})
}

// IsAccessibleByTrainer reports whether the plan exists and its trainerId matches.
func (r *mongoPlanRepository) IsAccessibleByTrainer(ctx context.Context, planID, trainerID primitive.ObjectID) (bool, error) {
	return r.exists(ctx, bson.M{"_id": planID, "trainerId": trainerID})
}

func (r *mongoPlanRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := r.collection.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Absence of evidence of ownership is the same as absence of the record.
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// EnsurePlanIndexes creates necessary indexes. Call during startup.
func EnsurePlanIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Compound index for the main query pattern: plans for a trainee by a trainer
			Keys:    bson.D{{Key: "trainerId", Value: 1}, {Key: "traineeId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "traineeId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
