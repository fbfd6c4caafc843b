package mongo

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const loggedExerciseCollectionName = "logged_exercises"

// mongoLoggedExerciseRepository implements repository.LoggedExerciseRepository
type mongoLoggedExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoLoggedExerciseRepository creates a new logged exercise repository backed by MongoDB.
func NewMongoLoggedExerciseRepository(db *mongo.Database) repository.LoggedExerciseRepository {
	return &mongoLoggedExerciseRepository{
		collection: db.Collection(loggedExerciseCollectionName),
	}
}

// Create inserts a new logged exercise.
func (r *mongoLoggedExerciseRepository) Create(ctx context.Context, logged *domain.LoggedExercise) (primitive.ObjectID, error) {
	if logged.UserID == primitive.NilObjectID || logged.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("logged exercise requires userId and exerciseId")
	}

	logged.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, logged)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByUserAndExercise returns the user's full log for one exercise.
func (r *mongoLoggedExerciseRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.LoggedExercise, error) {
	filter := bson.M{"userId": userID, "exerciseId": exerciseID}
	return r.find(ctx, filter)
}

// ListByUser returns the user's log, newest first, narrowed by filter.
func (r *mongoLoggedExerciseRepository) ListByUser(ctx context.Context, userID primitive.ObjectID, filter repository.LoggedExerciseFilter) ([]domain.LoggedExercise, error) {
	query := bson.M{"userId": userID}
	if filter.ExerciseID != nil {
		query["exerciseId"] = *filter.ExerciseID
	}
	dateRange := bson.M{}
	if filter.From != nil {
		dateRange["$gte"] = *filter.From
	}
	if filter.To != nil {
		dateRange["$lt"] = *filter.To
	}
	if len(dateRange) > 0 {
		query["dateLogged"] = dateRange
	}
	return r.find(ctx, query, options.Find().SetSort(bson.D{{Key: "dateLogged", Value: -1}}))
}

func (r *mongoLoggedExerciseRepository) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]domain.LoggedExercise, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logged := []domain.LoggedExercise{}
	if err = cursor.All(ctx, &logged); err != nil {
		return nil, err
	}
	return logged, nil
}

// EnsureLoggedExerciseIndexes creates necessary indexes for the logged exercises collection.
func EnsureLoggedExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// History lookups by the exercise recommender
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dateLogged", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
