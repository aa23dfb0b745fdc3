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

const reportCollectionName = "reports"

// mongoReportRepository implements repository.ReportRepository.
// The profiles collection is needed for the trainer ownership chain
// (Report -> Profile -> trainerId) and trainer-scoped listings.
type mongoReportRepository struct {
	collection *mongo.Collection
	bodyParts  *mongo.Collection
	profiles   *mongo.Collection
}

// NewMongoReportRepository creates a new Report repository backed by MongoDB.
func NewMongoReportRepository(db *mongo.Database) repository.ReportRepository {
	return &mongoReportRepository{
		collection: db.Collection(reportCollectionName),
		bodyParts:  db.Collection(bodyPartCollectionName),
		profiles:   db.Collection(profileCollectionName),
	}
}

// Create inserts a new report.
func (r *mongoReportRepository) Create(ctx context.Context, report *domain.Report) (primitive.ObjectID, error) {
	if report.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("report requires profileId")
	}

	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, report)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted report ID")
	}
	return insertedID, nil
}

// CreateWithBodyParts inserts a report together with its per-body-part
// measurements inside a single multi-document transaction. Either everything
// is written or nothing is; a failed measurement insert never leaves an
// orphaned report behind.
func (r *mongoReportRepository) CreateWithBodyParts(ctx context.Context, report *domain.Report, parts []domain.BodyPart) (primitive.ObjectID, error) {
	if report.ProfileID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("report requires profileId")
	}

	report.ID = primitive.NewObjectID()
	report.CreatedAt = time.Now().UTC()

	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return primitive.NilObjectID, err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		if _, err := r.collection.InsertOne(sc, report); err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, nil
		}
		docs := make([]interface{}, len(parts))
		for i := range parts {
			parts[i].ID = primitive.NewObjectID()
			parts[i].ReportID = report.ID
			docs[i] = parts[i]
		}
		if _, err := r.bodyParts.InsertMany(sc, docs); err != nil {
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return report.ID, nil
}

// GetByID retrieves a report by its ID.
func (r *mongoReportRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Report, error) {
	var report domain.Report
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &report, nil
}

// GetAll retrieves every report. Admin listing only.
func (r *mongoReportRepository) GetAll(ctx context.Context) ([]domain.Report, error) {
	return r.findReports(ctx, bson.M{})
}

// GetByTrainerID retrieves reports whose assessed profile is coached by the trainer.
func (r *mongoReportRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Report, error) {
	profileIDs, err := r.profileIDsForTrainer(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if len(profileIDs) == 0 {
		return []domain.Report{}, nil
	}
	return r.findReports(ctx, bson.M{"profileId": bson.M{"$in": profileIDs}})
}

// GetByTraineeID retrieves the trainee's own reports.
func (r *mongoReportRepository) GetByTraineeID(ctx context.Context, traineeID primitive.ObjectID) ([]domain.Report, error) {
	return r.findReports(ctx, bson.M{"profileId": traineeID})
}

// GetByProfileID retrieves all reports assessing a specific profile.
func (r *mongoReportRepository) GetByProfileID(ctx context.Context, profileID primitive.ObjectID) ([]domain.Report, error) {
	return r.findReports(ctx, bson.M{"profileId": profileID})
}

func (r *mongoReportRepository) findReports(ctx context.Context, filter bson.M) ([]domain.Report, error) {
	var reports []domain.Report
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &reports); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	return reports, nil
}

// Update modifies an existing report. ProfileID and CreatedBy are immutable:
// a report is never re-anchored to a different trainee.
func (r *mongoReportRepository) Update(ctx context.Context, report *domain.Report) error {
	if report.ID == primitive.NilObjectID {
		return errors.New("report ID is required for update")
	}

	filter := bson.M{"_id": report.ID}
	update := bson.M{
		"$set": bson.M{
			"content": report.Content,
			"imc":     report.IMC,
			"bodyFat": report.BodyFat,
			"weight":  report.Weight,
			"height":  report.Height,
			"planId":  report.PlanID,
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

// Delete removes a report and its body part measurements in one transaction.
func (r *mongoReportRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		result, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return nil, err
		}
		if result.DeletedCount == 0 {
			return nil, repository.ErrNotFound
		}
		if _, err := r.bodyParts.DeleteMany(sc, bson.M{"reportId": id}); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return err
}

// IsOwnedByTrainer resolves Report -> Profile -> trainerId. Any missing hop
// resolves to false, never an error.
func (r *mongoReportRepository) IsOwnedByTrainer(ctx context.Context, reportID, trainerID primitive.ObjectID) (bool, error) {
	var report struct {
		ProfileID primitive.ObjectID `bson:"profileId"`
	}
	err := r.collection.FindOne(ctx, bson.M{"_id": reportID},
		options.FindOne().SetProjection(bson.M{"profileId": 1})).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}

	err = r.profiles.FindOne(ctx, bson.M{"_id": report.ProfileID, "trainerId": trainerID},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *mongoReportRepository) profileIDsForTrainer(ctx context.Context, trainerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := r.profiles.Find(ctx, bson.M{"trainerId": trainerID},
		options.Find().SetProjection(bson.M{"_id": 1}))
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

// EnsureReportIndexes creates necessary indexes. Call during startup.
func EnsureReportIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "profileId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "planId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// log.Printf("WARN: Failed to create indexes for collection %s: %v", collection.Name(), err)
	}
}
