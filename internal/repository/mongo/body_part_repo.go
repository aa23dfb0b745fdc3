package mongo

import (
	"alcyxob/coaching-platform/internal/domain"
	"alcyxob/coaching-platform/internal/repository"
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const bodyPartCollectionName = "body_parts"

// mongoBodyPartRepository implements repository.BodyPartRepository.
// Ownership here is two hops away (BodyPart -> Report -> Profile), so the
// repository also reads the reports and profiles collections.
type mongoBodyPartRepository struct {
	collection *mongo.Collection
	reports    *mongo.Collection
	profiles   *mongo.Collection
}

// NewMongoBodyPartRepository creates a new BodyPart repository backed by MongoDB.
func NewMongoBodyPartRepository(db *mongo.Database) repository.BodyPartRepository {
	return &mongoBodyPartRepository{
		collection: db.Collection(bodyPartCollectionName),
		reports:    db.Collection(reportCollectionName),
		profiles:   db.Collection(profileCollectionName),
	}
}

// Create inserts a new body part measurement.
func (r *mongoBodyPartRepository) Create(ctx context.Context, part *domain.BodyPart) (primitive.ObjectID, error) {
	if part.ReportID == primitive.NilObjectID || part.Name == "" {
		return primitive.NilObjectID, errors.New("body part requires reportId and name")
	}

	part.ID = primitive.NewObjectID()
	result, err := r.collection.InsertOne(ctx, part)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted body part ID")
	}
	return insertedID, nil
}

// GetByID retrieves a body part measurement by its ID.
func (r *mongoBodyPartRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.BodyPart, error) {
	var part domain.BodyPart
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&part)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &part, nil
}

// GetAll retrieves every body part measurement. Admin listing only.
func (r *mongoBodyPartRepository) GetAll(ctx context.Context) ([]domain.BodyPart, error) {
	return r.findBodyParts(ctx, bson.M{})
}

// GetByTrainerID retrieves measurements from reports of the trainer's trainees.
// Three-step walk: trainer -> profiles -> reports -> body parts.
func (r *mongoBodyPartRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.BodyPart, error) {
	profileIDs, err := idsFor(ctx, r.profiles, bson.M{"trainerId": trainerID})
	if err != nil {
		return nil, err
	}
	if len(profileIDs) == 0 {
		return []domain.BodyPart{}, nil
	}
	reportIDs, err := idsFor(ctx, r.reports, bson.M{"profileId": bson.M{"$in": profileIDs}})
	if err != nil {
		return nil, err
	}
	if len(reportIDs) == 0 {
		return []domain.BodyPart{}, nil
	}
	return r.findBodyParts(ctx, bson.M{"reportId": bson.M{"$in": reportIDs}})
}

// GetByTraineeID retrieves measurements from the trainee's own reports.
func (r *mongoBodyPartRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.BodyPart, error) {
	reportIDs, err := idsFor(ctx, r.reports, bson.M{"profileId": traineeID})
	if err != nil {
		return nil, err
	}
	if len(reportIDs) == 0 {
		return []domain.BodyPart{}, nil
	}
	return r.findBodyParts(ctx, bson.M{"reportId": bson.M{"$in": reportIDs}})
}

// GetByReportID retrieves all measurements attached to a specific report.
func (r *mongoBodyPartRepository) GetByReportID(ctx context.Context, reportID primitive.ObjectID) ([]domain.BodyPart, error) {
	return r.findBodyParts(ctx, bson.M{"reportId": reportID})
}

func (r *mongoBodyPartRepository) findBodyParts(ctx context.Context, filter bson.M) ([]domain.BodyPart, error) {
	var parts []domain.BodyPart
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &parts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if parts == nil {
		parts = []domain.BodyPart{}
	}
	return parts, nil
}

// Update modifies an existing body part measurement. ReportID is immutable.
func (r *mongoBodyPartRepository) Update(ctx context.Context, part *domain.BodyPart) error {
	if part.ID == primitive.NilObjectID {
		return errors.New("body part ID is required for update")
	}
	if part.Name == "" {
		return errors.New("body part name cannot be empty")
	}

	filter := bson.M{"_id": part.ID}
	update := bson.M{
		"$set": bson.M{
			"name":    part.Name,
			"bodyFat": part.BodyFat,
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

// Delete removes a body part measurement by id.
func (r *mongoBodyPartRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HasAccess walks BodyPart -> Report -> Profile and compares against the
// profile's trainerId for trainer callers or the profile's own id for trainee
// callers. Any missing hop resolves to false, never an error.
func (r *mongoBodyPartRepository) HasAccess(ctx context.Context, bodyPartID, userID primitive.ObjectID, role domain.Role) (bool, error) {
	var part struct {
		ReportID primitive.ObjectID `bson:"reportId"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": bodyPartID},
		options.FindOne().SetProjection(bson.M{"reportId": 1})).Decode(&part)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	var report struct {
		ProfileID primitive.ObjectID `bson:"profileId"`
	}
	err = r.reports.FindOne(ctx, bson.M{"_id": part.ReportID},
		options.FindOne().SetProjection(bson.M{"profileId": 1})).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	if role == domain.RoleTrainee {
		// The assessed trainee themself.
		return report.ProfileID == userID, nil
	}

	err = r.profiles.FindOne(ctx, bson.M{"_id": report.ProfileID, "trainerId": userID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// idsFor returns the _ids of all documents matching the filter.
func idsFor(ctx context.Context, collection *mongo.Collection, filter bson.M) ([]primitive.ObjectID, error) {
	cursor, err := collection.Find(ctx, filter, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err = cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	ids := make([]primitive.ObjectID, len(docs))
	for i, d := range docs {
		ids[i] = d.ID
	}
	return ids, nil
}

// EnsureBodyPartIndexes creates necessary indexes for the body parts collection.
func EnsureBodyPartIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "reportId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
