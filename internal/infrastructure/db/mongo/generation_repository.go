package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imezy/imezy-api/internal/core/domain"
)

const generationCollection = "generations"

// MongoGenerationRepository persists write-once usage records.
type MongoGenerationRepository struct {
	coll *mongo.Collection
}

func NewGenerationRepository(db *mongo.Database) *MongoGenerationRepository {
	return &MongoGenerationRepository{coll: db.Collection(generationCollection)}
}

type mongoGeneration struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Email      string             `bson:"email"`
	Kind       string             `bson:"kind"`
	ImageCount int                `bson:"image_count"`
	CreatedAt  int64              `bson:"created_at"`
}

func (r *MongoGenerationRepository) Insert(ctx context.Context, rec *domain.GenerationRecord) error {
	doc := mongoGeneration{
		Email:      rec.Email,
		Kind:       string(rec.Kind),
		ImageCount: rec.ImageCount,
		CreatedAt:  rec.CreatedAt.Unix(),
	}
	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return fmt.Errorf("insert generation record: %w", err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

func (r *MongoGenerationRepository) ListByEmail(ctx context.Context, email string) ([]domain.GenerationRecord, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"email": email},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}),
	)
	if err != nil {
		return nil, fmt.Errorf("list generation records: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.GenerationRecord
	for cur.Next(ctx) {
		var mg mongoGeneration
		if err := cur.Decode(&mg); err != nil {
			return nil, fmt.Errorf("decode generation record: %w", err)
		}
		out = append(out, domain.GenerationRecord{
			ID:         mg.ID.Hex(),
			Email:      mg.Email,
			Kind:       domain.GenerationKind(mg.Kind),
			ImageCount: mg.ImageCount,
			CreatedAt:  unixToTime(mg.CreatedAt),
		})
	}
	return out, cur.Err()
}
