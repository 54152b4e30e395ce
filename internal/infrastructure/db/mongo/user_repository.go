package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/imezy/imezy-api/internal/core/domain"
)

const (
	userCollection   = "users"
	creditCollection = "credits"
)

// MongoUserRepository persists user identity records and the paired credit
// rows. Email and username carry unique indexes; the credit collection is
// keyed by email with its own unique index.
type MongoUserRepository struct {
	users   *mongo.Collection
	credits *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{
		users:   db.Collection(userCollection),
		credits: db.Collection(creditCollection),
	}
}

// EnsureIndexes creates the uniqueness indexes the directory invariants rely
// on. Called once at startup.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	_, err := r.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = r.credits.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "email", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("create credit index: %w", err)
	}
	return nil
}

type mongoUser struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	Username     string             `bson:"username"`
	PasswordHash string             `bson:"password_hash"`
	IsActive     bool               `bson:"is_active"`
	IsAdmin      bool               `bson:"is_admin"`
	CreatedAt    int64              `bson:"created_at"`
	LastLogin    int64              `bson:"last_login,omitempty"`
}

type mongoCredit struct {
	Email         string `bson:"email"`
	Balance       int64  `bson:"balance"`
	IncrementStep int64  `bson:"increment_step"`
}

// CreateWithCredit inserts the user, then the credit row. A uniqueness
// violation on the user insert is translated to the matching duplicate
// error. If the credit insert fails after the user committed, the
// half-created user is deleted (best effort) and ErrStorageCommit returned —
// signup stays atomic from the caller's point of view.
func (r *MongoUserRepository) CreateWithCredit(ctx context.Context, user *domain.User, credit *domain.Credit) (*domain.User, error) {
	doc := mongoUser{
		Email:        user.Email,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		IsActive:     user.IsActive,
		IsAdmin:      user.IsAdmin,
		CreatedAt:    user.CreatedAt.Unix(),
	}

	if _, err := r.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, r.classifyDuplicate(ctx, user.Email)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	creditDoc := mongoCredit{
		Email:         credit.Email,
		Balance:       credit.Balance,
		IncrementStep: credit.IncrementStep,
	}
	if _, err := r.credits.InsertOne(ctx, creditDoc); err != nil {
		// Compensate: remove the half-created user rather than leave an
		// account with no ledger row.
		_, _ = r.users.DeleteOne(ctx, bson.M{"email": user.Email})
		return nil, fmt.Errorf("%w: insert credit: %v", domain.ErrStorageCommit, err)
	}

	return r.FindByEmail(ctx, user.Email)
}

// classifyDuplicate decides which uniqueness constraint a racing insert hit.
func (r *MongoUserRepository) classifyDuplicate(ctx context.Context, email string) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"email": email})
	if err == nil && n > 0 {
		return domain.ErrDuplicateEmail
	}
	return domain.ErrDuplicateUsername
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var mu mongoUser
	if err := r.users.FindOne(ctx, filter).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *MongoUserRepository) List(ctx context.Context) ([]domain.User, error) {
	cur, err := r.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	var out []domain.User
	for cur.Next(ctx) {
		var mu mongoUser
		if err := cur.Decode(&mu); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		out = append(out, *mu.toDomain())
	}
	return out, cur.Err()
}

// UpdateEmail re-keys both the user record and the credit row. If the credit
// update fails the email change is reverted so the two stay consistent.
func (r *MongoUserRepository) UpdateEmail(ctx context.Context, id, email string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	var prev mongoUser
	err = r.users.FindOneAndUpdate(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"email": email}},
	).Decode(&prev)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update email: %w", err)
	}

	if _, err := r.credits.UpdateOne(ctx,
		bson.M{"email": prev.Email},
		bson.M{"$set": bson.M{"email": email}},
	); err != nil {
		_, _ = r.users.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"email": prev.Email}})
		return fmt.Errorf("%w: re-key credit row: %v", domain.ErrStorageCommit, err)
	}
	return nil
}

func (r *MongoUserRepository) UpdateUsername(ctx context.Context, id, username string) error {
	err := r.updateByID(ctx, id, bson.M{"$set": bson.M{"username": username}})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrDuplicateUsername
	}
	return err
}

func (r *MongoUserRepository) UpdatePasswordHash(ctx context.Context, id, hash string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"password_hash": hash}})
}

func (r *MongoUserRepository) SetAdmin(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"is_admin": true}})
}

func (r *MongoUserRepository) SetLastLogin(ctx context.Context, email string, at time.Time) error {
	_, err := r.users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"last_login": at.Unix()}},
	)
	return err
}

func (r *MongoUserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	res, err := r.users.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// Delete removes the user and cascades to the paired credit row.
func (r *MongoUserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}

	var mu mongoUser
	if err := r.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&mu); err != nil {
		if err == mongo.ErrNoDocuments {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("find user: %w", err)
	}

	if _, err := r.credits.DeleteOne(ctx, bson.M{"email": mu.Email}); err != nil {
		return fmt.Errorf("delete credit row: %w", err)
	}
	if _, err := r.users.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	return nil
}

func (mu *mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:           mu.ID.Hex(),
		Email:        mu.Email,
		Username:     mu.Username,
		PasswordHash: mu.PasswordHash,
		IsActive:     mu.IsActive,
		IsAdmin:      mu.IsAdmin,
		CreatedAt:    unixToTime(mu.CreatedAt),
		LastLogin:    unixToTime(mu.LastLogin),
	}
}

func unixToTime(ts int64) time.Time {
	if ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
