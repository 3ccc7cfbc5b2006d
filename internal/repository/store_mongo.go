package repository

import (
	"context"
	"errors"
	"time"

	"github.com/farellandr/echallan/internal/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection     = "users"
	otpsCollection      = "otps"
	addressesCollection = "addresses"
	challansCollection  = "challans"
	photosCollection    = "challanPhotos"
	paymentsCollection  = "payments"
)

type MongoStore struct {
	db *mongo.Database
}

func NewMongoStore(db *mongo.Database) *MongoStore {
	return &MongoStore{db: db}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.db.Client().Disconnect(ctx)
}

func (s *MongoStore) collection(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts *options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []T
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// setOne applies update to the single document matching filter and reports
// ErrNotFound when nothing matched.
func setOne(ctx context.Context, coll *mongo.Collection, filter, update bson.M) error {
	result, err := coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) UpsertUser(ctx context.Context, user *models.User) error {
	now := user.UpdatedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	createdAt := user.CreatedAt
	if createdAt.IsZero() {
		createdAt = now
	}

	update := bson.M{
		"$set": bson.M{
			"name":      user.Name,
			"email":     user.Email,
			"phone":     user.Phone,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"createdAt": createdAt,
			"isAdmin":   user.IsAdmin,
		},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := s.collection(usersCollection).UpdateOne(ctx, bson.M{"_id": user.UID}, update, opts); err != nil {
		return err
	}

	stored, err := s.GetUser(ctx, user.UID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *MongoStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	return findOne[models.User](ctx, s.collection(usersCollection), bson.M{"_id": uid})
}

func (s *MongoStore) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	return findOne[models.User](ctx, s.collection(usersCollection), bson.M{"phone": phone})
}

func (s *MongoStore) UpdateUser(ctx context.Context, user *models.User) error {
	err := setOne(ctx, s.collection(usersCollection), bson.M{"_id": user.UID}, bson.M{"$set": bson.M{
		"name":      user.Name,
		"email":     user.Email,
		"phone":     user.Phone,
		"updatedAt": user.UpdatedAt,
	}})
	if err != nil {
		return err
	}

	stored, err := s.GetUser(ctx, user.UID)
	if err != nil {
		return err
	}
	*user = *stored
	return nil
}

func (s *MongoStore) SaveOTP(ctx context.Context, otp *models.OTP) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection(otpsCollection).ReplaceOne(ctx, bson.M{"_id": otp.Phone}, otp, opts)
	return err
}

func (s *MongoStore) GetOTP(ctx context.Context, phone string) (*models.OTP, error) {
	return findOne[models.OTP](ctx, s.collection(otpsCollection), bson.M{"_id": phone})
}

func (s *MongoStore) IncrementOTPAttempts(ctx context.Context, phone string) error {
	return setOne(ctx, s.collection(otpsCollection), bson.M{"_id": phone}, bson.M{"$inc": bson.M{"attempts": 1}})
}

func (s *MongoStore) DeleteOTP(ctx context.Context, phone string) error {
	_, err := s.collection(otpsCollection).DeleteOne(ctx, bson.M{"_id": phone})
	return err
}

func (s *MongoStore) CreateAddress(ctx context.Context, address *models.Address) error {
	if address.ID == "" {
		address.ID = uuid.New().String()
	}
	_, err := s.collection(addressesCollection).InsertOne(ctx, address)
	return err
}

func (s *MongoStore) GetAddress(ctx context.Context, id string) (*models.Address, error) {
	return findOne[models.Address](ctx, s.collection(addressesCollection), bson.M{"_id": id})
}

func (s *MongoStore) ListAddresses(ctx context.Context, userID string) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findAll[models.Address](ctx, s.collection(addressesCollection), bson.M{"userId": userID}, opts)
}
