package mongo

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/logging"
	"fitfocus/fitness-api/internal/repository"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const exerciseCollectionName = "exercises"

// mongoExerciseRepository implements repository.ExerciseRepository
type mongoExerciseRepository struct {
	collection *mongo.Collection
}

// NewMongoExerciseRepository creates a new Exercise repository backed by MongoDB.
func NewMongoExerciseRepository(db *mongo.Database) repository.ExerciseRepository {
	return &mongoExerciseRepository{
		collection: db.Collection(exerciseCollectionName),
	}
}

// Create inserts a new exercise into the catalog.
func (r *mongoExerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	if exercise.Name == "" {
		return primitive.NilObjectID, errors.New("exercise name is required")
	}

	exercise.ID = primitive.NewObjectID()
	exercise.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, exercise)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

// Upsert inserts or replaces the exercise matching exercise.Name. The id of an existing row is kept.
func (r *mongoExerciseRepository) Upsert(ctx context.Context, exercise *domain.Exercise) error {
	if exercise.Name == "" {
		return errors.New("exercise name is required")
	}

	filter := bson.M{"name": exercise.Name}
	update := bson.M{
		"$set": bson.M{
			"category":         exercise.Category,
			"bodyArea":         exercise.BodyArea,
			"equipmentNeeded":  exercise.EquipmentNeeded,
			"targetMuscle":     exercise.TargetMuscle,
			"secondaryMuscle1": exercise.SecondaryMuscle1,
			"secondaryMuscle2": exercise.SecondaryMuscle2,
		},
		"$setOnInsert": bson.M{
			"createdAt": time.Now().UTC(),
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

// GetByID retrieves an exercise by its ID.
func (r *mongoExerciseRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

// GetByName retrieves an exercise by its unique name.
func (r *mongoExerciseRepository) GetByName(ctx context.Context, name string) (*domain.Exercise, error) {
	return r.findOne(ctx, bson.M{"name": name})
}

func (r *mongoExerciseRepository) findOne(ctx context.Context, filter bson.M) (*domain.Exercise, error) {
	var exercise domain.Exercise
	err := r.collection.FindOne(ctx, filter).Decode(&exercise)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &exercise, nil
}

// List returns catalog entries matching filter, sorted by name.
func (r *mongoExerciseRepository) List(ctx context.Context, filter repository.ExerciseFilter) ([]domain.Exercise, error) {
	query := bson.M{}
	if filter.NameContains != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.NameContains), Options: "i"}
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.BodyArea != "" {
		query["bodyArea"] = filter.BodyArea
	}
	if filter.EquipmentNeeded != nil {
		query["equipmentNeeded"] = *filter.EquipmentNeeded
	}
	if filter.TargetMuscle != "" {
		query["targetMuscle"] = filter.TargetMuscle
	}
	if filter.SecondaryMuscle != "" {
		query["$or"] = bson.A{
			bson.M{"secondaryMuscle1": filter.SecondaryMuscle},
			bson.M{"secondaryMuscle2": filter.SecondaryMuscle},
		}
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(int64(filter.Limit))
	}
	if filter.Offset > 0 {
		findOptions.SetSkip(int64(filter.Offset))
	}

	cursor, err := r.collection.Find(ctx, query, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	exercises := []domain.Exercise{}
	if err = cursor.All(ctx, &exercises); err != nil {
		return nil, err
	}
	return exercises, nil
}

// ListIDs returns every primary key of the catalog.
func (r *mongoExerciseRepository) ListIDs(ctx context.Context) ([]primitive.ObjectID, error) {
	findOptions := options.Find().SetProjection(bson.M{"_id": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.ID)
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// Count returns the catalog size.
func (r *mongoExerciseRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// EnsureExerciseIndexes creates necessary indexes for the exercises collection.
func EnsureExerciseIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}, {Key: "bodyArea", Value: 1}},
			Options: options.Index(),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		logging.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
