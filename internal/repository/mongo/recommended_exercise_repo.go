package mongo

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/repository"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const recommendedExerciseCollectionName = "recommended_exercises"

// mongoRecommendedExerciseRepository implements repository.RecommendedExerciseRepository
type mongoRecommendedExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoRecommendedExerciseRepository creates a new recommended exercise repository backed by MongoDB.
func NewMongoRecommendedExerciseRepository(db *mongo.Database) repository.RecommendedExerciseRepository {
	return &mongoRecommendedExerciseRepository{
		collection: db.Collection(recommendedExerciseCollectionName),
	}
}

// Create inserts a generated recommendation.
func (r *mongoRecommendedExerciseRepository) Create(ctx context.Context, rec *domain.RecommendedExercise) (primitive.ObjectID, error) {
	if rec.UserID == primitive.NilObjectID || rec.ExerciseID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("recommended exercise requires userId and exerciseId")
	}

	rec.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, rec)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetByID retrieves a recommendation by its ID.
func (r *mongoRecommendedExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.RecommendedExercise, error) {
	var rec domain.RecommendedExercise
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// GetByUserAndExercise returns every recommendation made to the user for one exercise.
func (r *mongoRecommendedExerciseRepository) GetByUserAndExercise(ctx context.Context, userID, exerciseID primitive.ObjectID) ([]domain.RecommendedExercise, error) {
	filter := bson.M{"userId": userID, "exerciseId": exerciseID}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	recs := []domain.RecommendedExercise{}
	if err = cursor.All(ctx, &recs); err != nil {
		return nil, err
	}
	return recs, nil
}

// SetGoodRecommendation records feedback. The filter includes userId so a user can only rate
// their own recommendations; a mismatch reports ErrNotFound.
func (r *mongoRecommendedExerciseRepository) SetGoodRecommendation(ctx context.Context, id, userID primitive.ObjectID, good bool) error {
	filter := bson.M{"_id": id, "userId": userID}
	update := bson.M{"$set": bson.M{"goodRecommendation": good}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("%w: %v", repository.ErrUpdateFailed, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRecommendedExerciseIndexes creates necessary indexes for the recommended exercises collection.
func EnsureRecommendedExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
