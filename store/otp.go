package store

import (
	"context"
	"time"

	"RoomLink/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OTPStore persists one-time codes. Records are purged by a 600 second TTL
// index on createdAt; only the most recent record per email matters.
type OTPStore interface {
	Create(ctx context.Context, otp *models.OTP) error
	FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error)
	DeleteForEmail(ctx context.Context, email string) error
}

type MongoOTPStore struct {
	collection *mongo.Collection
}

func NewMongoOTPStore(collection *mongo.Collection) *MongoOTPStore {
	return &MongoOTPStore{collection: collection}
}

func (s *MongoOTPStore) Create(ctx context.Context, otp *models.OTP) error {
	if otp.ID.IsZero() {
		otp.ID = primitive.NewObjectID()
	}
	if otp.CreatedAt.IsZero() {
		otp.CreatedAt = time.Now()
	}
	_, err := s.collection.InsertOne(ctx, otp)
	return err
}

func (s *MongoOTPStore) FindLatestByEmail(ctx context.Context, email string) (*models.OTP, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var otp models.OTP
	err := s.collection.FindOne(ctx, bson.M{"email": email}, opts).Decode(&otp)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &otp, nil
}

func (s *MongoOTPStore) DeleteForEmail(ctx context.Context, email string) error {
	_, err := s.collection.DeleteMany(ctx, bson.M{"email": email})
	return err
}
