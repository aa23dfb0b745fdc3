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

const activityCollectionName = "activities"

// mongoActivityRepository implements repository.ActivityRepository.
// It also holds the plans collection: trainer/trainee scoped listings resolve
// through the owning plan (two-step $in query instead of a join).
type mongoActivityRepository struct {
	collection *mongo.Collection
	plans      *mongo.Collection
}

// NewMongoActivityRepository creates a new Activity repository backed by MongoDB.
func NewMongoActivityRepository(db *mongo.Database) repository.ActivityRepository {
	return &mongoActivityRepository{
		collection: db.Collection(activityCollectionName),
		plans:      db.Collection(planCollectionName),
	}
}

// Create inserts a new activity. PlanID may be nil for legacy catalog activities.
func (r *mongoActivityRepository) Create(ctx context.Context, activity *domain.Activity) (primitive.ObjectID, error) {
	if activity.Name == "" || activity.Type == "" {
		return primitive.NilObjectID, errors.New("activity name and type are required")
	}

	activity.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	activity.CreatedAt = now
	activity.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, activity)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted activity ID")
	}
	return insertedID, nil
}

// GetByID retrieves an activity by its ID.
func (r *mongoActivityRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Activity, error) {
	var activity domain.Activity
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&activity)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &activity, nil
}

// GetAll retrieves every activity. Admin listing only.
func (r *mongoActivityRepository) GetAll(ctx context.Context) ([]domain.Activity, error) {
	return r.findActivities(ctx, bson.M{})
}

// GetByTrainerID retrieves activities belonging to plans created by the trainer.
func (r *mongoActivityRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Activity, error) {
	planIDs, err := idsFor(ctx, r.plans, bson.M{"trainerId": trainerID})
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []domain.Activity{}, nil
	}
	return r.findActivities(ctx, bson.M{"planId": bson.M{"$in": planIDs}})
}

// GetByTraineeID retrieves activities belonging to the trainee's own plans.
func (r *mongoActivityRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Activity, error) {
	planIDs, err := idsFor(ctx, r.plans, bson.M{"traineeId": traineeID})
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []domain.Activity{}, nil
	}
	return r.findActivities(ctx, bson.M{"planId": bson.M{"$in": planIDs}})
}

// GetByPlanID retrieves all activities attached to a specific plan.
func (r *mongoActivityRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Activity, error) {
	return r.findActivities(ctx, bson.M{"planId": planID})
}

func (r *mongoActivityRepository) findActivities(ctx context.Context, filter bson.M) ([]domain.Activity, error) {
	var activities []domain.Activity
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &activities); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, nil
}

// Update modifies an existing activity. The PlanID link is not changed here;
// moving an activity between plans is not a supported operation.
func (r *mongoActivityRepository) Update(ctx context.Context, activity *domain.Activity) error {
	if activity.ID == primitive.NilObjectID {
		return errors.New("activity ID is required for update")
	}
	if activity.Name == "" {
		return errors.New("activity name cannot be empty")
	}

	filter := bson.M{"_id": activity.ID}
	update := bson.M{
		"$set": bson.M{
			"name":         activity.Name,
			"activityType": activity.Type,
			"description":  activity.Description,
			"weight":       activity.Weight,
			"reps":         activity.Reps,
			"sets":         activity.Sets,
			"duration":     activity.Duration,
			"updatedAt":    time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes an activity by id.
func (r *mongoActivityRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureActivityIndexes creates necessary indexes for the activities collection.
func EnsureActivityIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// Index for finding activities within a specific plan
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetSparse(true), // Sparse: catalog activities have no planId
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
