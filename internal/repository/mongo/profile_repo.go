package mongo

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	profileCollectionName = "profiles"
	moodCollectionName    = "moods"
)

// mongoProfileRepository implements repository.ProfileRepository. One document per user, keyed
// by the user id.
type mongoProfileRepository struct {
	collection *mongo.Collection
}

// NewMongoProfileRepository creates a new profile repository backed by MongoDB.
func NewMongoProfileRepository(db *mongo.Database) repository.ProfileRepository {
	return &mongoProfileRepository{
		collection: db.Collection(profileCollectionName),
	}
}

// Upsert creates or replaces the user's profile.
func (r *mongoProfileRepository) Upsert(ctx context.Context, profile *domain.UserProfile) error {
	if profile.UserID == primitive.NilObjectID {
		return errors.New("profile requires userId")
	}
	profile.UpdatedAt = time.Now().UTC()

	filter := bson.M{"_id": profile.UserID}
	_, err := r.collection.ReplaceOne(ctx, filter, profile, options.Replace().SetUpsert(true))
	return err
}

// GetByUserID returns the user's profile or ErrNotFound.
func (r *mongoProfileRepository) GetByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.UserProfile, error) {
	var profile domain.UserProfile
	err := r.collection.FindOne(ctx, bson.M{"_id": userID}).Decode(&profile)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// mongoMoodRepository implements repository.MoodRepository.
type mongoMoodRepository struct {
	collection *mongo.Collection
}

// NewMongoMoodRepository creates a new mood repository backed by MongoDB.
func NewMongoMoodRepository(db *mongo.Database) repository.MoodRepository {
	return &mongoMoodRepository{
		collection: db.Collection(moodCollectionName),
	}
}

// Create inserts a mood sample.
func (r *mongoMoodRepository) Create(ctx context.Context, mood *domain.MoodSample) (primitive.ObjectID, error) {
	if mood.UserID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("mood requires userId")
	}
	mood.ID = primitive.NewObjectID()

	result, err := r.collection.InsertOne(ctx, mood)
	if err != nil {
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// GetLatest returns the most recently recorded mood sample or ErrNotFound.
func (r *mongoMoodRepository) GetLatest(ctx context.Context, userID primitive.ObjectID) (*domain.MoodSample, error) {
	var mood domain.MoodSample
	findOptions := options.FindOne().SetSort(bson.D{{Key: "recordedAt", Value: -1}})

	err := r.collection.FindOne(ctx, bson.M{"userId": userID}, findOptions).Decode(&mood)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &mood, nil
}

// EnsureMoodIndexes creates necessary indexes for the moods collection.
func EnsureMoodIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "recordedAt", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
