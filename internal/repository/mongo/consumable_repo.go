package mongo

import (
	"context"
	"errors"
	"fitfocus/fitness-api/internal/domain"
	"fitfocus/fitness-api/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const consumableCollectionName = "consumables"

// mongoConsumableRepository implements repository.ConsumableRepository.
// The consumable name is the document _id.
type mongoConsumableRepository struct {
	collection *mongo.Collection
}

// NewMongoConsumableRepository creates a new consumable catalog backed by MongoDB.
func NewMongoConsumableRepository(db *mongo.Database) repository.ConsumableRepository {
	return &mongoConsumableRepository{
		collection: db.Collection(consumableCollectionName),
	}
}

// Upsert inserts or replaces the catalog entry with the same name.
func (r *mongoConsumableRepository) Upsert(ctx context.Context, consumable *domain.Consumable) error {
	if consumable.Name == "" {
		return errors.New("consumable name is required")
	}
	consumable.UpdatedAt = time.Now().UTC()

	_, err := r.collection.ReplaceOne(ctx, consumableNameFilter(consumable.Name), consumable, options.Replace().SetUpsert(true))
	return err
}

// GetByName finds the entry whose name matches exactly. Names are case-sensitive keys, so
// "Apple" and "apple" are separate entries.
func (r *mongoConsumableRepository) GetByName(ctx context.Context, name string) (*domain.Consumable, error) {
	var consumable domain.Consumable
	err := r.collection.FindOne(ctx, consumableNameFilter(name)).Decode(&consumable)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &consumable, nil
}

func consumableNameFilter(name string) bson.M {
	return bson.M{"_id": name}
}

// Count returns the catalog size.
func (r *mongoConsumableRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

// Sample streams the catalog and keeps the rows for which keep returns true, up to limit rows.
func (r *mongoConsumableRepository) Sample(ctx context.Context, limit int, keep func() bool) ([]domain.Consumable, error) {
	sample := []domain.Consumable{}
	if limit <= 0 {
		return sample, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		if !keep() {
			continue
		}
		var c domain.Consumable
		if err := cursor.Decode(&c); err != nil {
			return nil, err
		}
		sample = append(sample, c)
		if len(sample) >= limit {
			break
		}
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return sample, nil
}
