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

const trainCollectionName = "trains"

// mongoTrainRepository implements repository.TrainRepository.
// Like the activity repository it resolves trainer/trainee scoped listings
// through the plans collection.
type mongoTrainRepository struct {
	collection *mongo.Collection
	plans      *mongo.Collection
}

// NewMongoTrainRepository creates a new Train repository backed by MongoDB.
func NewMongoTrainRepository(db *mongo.Database) repository.TrainRepository {
	return &mongoTrainRepository{
		collection: db.Collection(trainCollectionName),
		plans:      db.Collection(planCollectionName),
	}
}

// Create inserts a new train session.
func (r *mongoTrainRepository) Create(ctx context.Context, train *domain.Train) (primitive.ObjectID, error) {
	if train.PlanID == primitive.NilObjectID || train.WeekDay == "" {
		return primitive.NilObjectID, errors.New("train requires planId and weekDay")
	}

	train.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	train.CreatedAt = now
	train.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, train)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted train ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single train session by its ID.
func (r *mongoTrainRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Train, error) {
	var train domain.Train
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&train)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &train, nil
}

// GetAll retrieves every train session. Admin listing only.
func (r *mongoTrainRepository) GetAll(ctx context.Context) ([]domain.Train, error) {
	return r.findTrains(ctx, bson.M{})
}

// GetByTrainerID retrieves train sessions of plans created by the trainer.
func (r *mongoTrainRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Train, error) {
	planIDs, err := idsFor(ctx, r.plans, bson.M{"trainerId": trainerID})
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []domain.Train{}, nil
	}
	return r.findTrains(ctx, bson.M{"planId": bson.M{"$in": planIDs}})
}

// GetByTraineeID retrieves train sessions of the trainee's own plans.
func (r *mongoTrainRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Train, error) {
	planIDs, err := idsFor(ctx, r.plans, bson.M{"traineeId": traineeID})
	if err != nil {
		return nil, err
	}
	if len(planIDs) == 0 {
		return []domain.Train{}, nil
	}
	return r.findTrains(ctx, bson.M{"planId": bson.M{"$in": planIDs}})
}

// GetByPlanID retrieves all train sessions attached to a specific plan.
func (r *mongoTrainRepository) GetByPlanID(ctx context.Context, planID primitive.ObjectID) ([]domain.Train, error) {
	return r.findTrains(ctx, bson.M{"planId": planID})
}

func (r *mongoTrainRepository) findTrains(ctx context.Context, filter bson.M) ([]domain.Train, error) {
	var trains []domain.Train
	findOptions := options.Find().SetSort(bson.D{{Key: "weekDay", Value: 1}, {Key: "from", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &trains); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if trains == nil {
		trains = []domain.Train{}
	}
	return trains, nil
}

// Update modifies an existing train session. PlanID is not changed here.
func (r *mongoTrainRepository) Update(ctx context.Context, train *domain.Train) error {
	if train.ID == primitive.NilObjectID {
		return errors.New("train ID is required for update")
	}

	filter := bson.M{"_id": train.ID}
	update := bson.M{
		"$set": bson.M{
			"weekDay":   train.WeekDay,
			"from":      train.From,
			"to":        train.To,
			"updatedAt": time.Now().UTC(),
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

// Delete removes a train session by id.
func (r *mongoTrainRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureTrainIndexes creates necessary indexes. Call during startup.
func EnsureTrainIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "planId", Value: 1}, {Key: "weekDay", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
