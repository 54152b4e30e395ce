package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imezy/imezy-api/internal/core/domain"
)

// MongoCreditRepository implements the ledger on a single document per user.
// All mutations are expressed as atomic single-document updates, so the
// balance guard cannot race with the increment.
type MongoCreditRepository struct {
	coll *mongo.Collection
}

func NewCreditRepository(db *mongo.Database) *MongoCreditRepository {
	return &MongoCreditRepository{coll: db.Collection(creditCollection)}
}

func (r *MongoCreditRepository) Balance(ctx context.Context, email string) (int64, error) {
	var mc mongoCredit
	if err := r.coll.FindOne(ctx, bson.M{"email": email}).Decode(&mc); err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, domain.ErrCreditNotFound
		}
		return 0, fmt.Errorf("read balance: %w", err)
	}
	return mc.Balance, nil
}

// Adjust applies balance += delta in one FindOneAndUpdate. For negative
// deltas the filter requires balance >= -delta, so an overdraw simply
// matches nothing — the check and the write are the same operation.
func (r *MongoCreditRepository) Adjust(ctx context.Context, email string, delta int64) (int64, error) {
	filter := bson.M{"email": email}
	if delta < 0 {
		filter["balance"] = bson.M{"$gte": -delta}
	}

	var mc mongoCredit
	err := r.coll.FindOneAndUpdate(ctx,
		filter,
		bson.M{"$inc": bson.M{"balance": delta}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err == nil {
		return mc.Balance, nil
	}
	if err != mongo.ErrNoDocuments {
		return 0, fmt.Errorf("adjust balance: %w", err)
	}

	// No match: either the row is missing or the guard rejected the debit.
	n, cntErr := r.coll.CountDocuments(ctx, bson.M{"email": email})
	if cntErr != nil {
		return 0, fmt.Errorf("adjust balance: %w", cntErr)
	}
	if n == 0 {
		return 0, domain.ErrCreditNotFound
	}
	return 0, domain.ErrInsufficientCredits
}

// Refill adds the row's own increment_step to the balance, atomically, via
// an aggregation-pipeline update.
func (r *MongoCreditRepository) Refill(ctx context.Context, email string) (int64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"balance": bson.M{"$add": bson.A{"$balance", "$increment_step"}},
		}}},
	}

	var mc mongoCredit
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"email": email},
		pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&mc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return 0, domain.ErrCreditNotFound
		}
		return 0, fmt.Errorf("refill balance: %w", err)
	}
	return mc.Balance, nil
}

func (r *MongoCreditRepository) List(ctx context.Context) ([]domain.Credit, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list credits: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.Credit
	for cur.Next(ctx) {
		var mc mongoCredit
		if err := cur.Decode(&mc); err != nil {
			return nil, fmt.Errorf("decode credit: %w", err)
		}
		out = append(out, domain.Credit{
			Email:         mc.Email,
			Balance:       mc.Balance,
			IncrementStep: mc.IncrementStep,
		})
	}
	return out, cur.Err()
}
