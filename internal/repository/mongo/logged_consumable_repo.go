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

const loggedConsumableCollectionName = "logged_consumables"

// mongoLoggedConsumableRepository implements repository.LoggedConsumableRepository
type mongoLoggedConsumableRepository struct {
	collection *mongo.Collection
}

// NewMongoLoggedConsumableRepository creates a new logged consumable repository backed by MongoDB.
func NewMongoLoggedConsumableRepository(db *mongo.Database) repository.LoggedConsumableRepository {
	return &mongoLoggedConsumableRepository{
		collection: db.Collection(loggedConsumableCollectionName),
	}
}

// Create inserts a new logged consumable.
func (r *mongoLoggedConsumableRepository) Create(ctx context.Context, logged *domain.LoggedConsumable) (primitive.ObjectID, error) {
	if logged.UserID == primitive.NilObjectID || logged.ConsumableName == "" {
		return primitive.NilObjectID, errors.New("logged consumable requires userId and consumable")
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

// ListByUserBetween returns the user's logs with from <= dateLogged < to, oldest first.
func (r *mongoLoggedConsumableRepository) ListByUserBetween(ctx context.Context, userID primitive.ObjectID, from, to time.Time) ([]domain.LoggedConsumable, error) {
	filter := bson.M{
		"userId":     userID,
		"dateLogged": bson.M{"$gte": from, "$lt": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "dateLogged", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logged := []domain.LoggedConsumable{}
	if err = cursor.All(ctx, &logged); err != nil {
		return nil, err
	}
	return logged, nil
}

// EnsureLoggedConsumableIndexes creates necessary indexes for the logged consumables collection.
func EnsureLoggedConsumableIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "dateLogged", Value: -1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
