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

// UserSearch carries the filter and paging parameters for user listings.
type UserSearch struct {
	UserType string
	City     string
	Search   string
	Page     int
	Limit    int
}

type UserStore interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Search(ctx context.Context, q UserSearch) ([]models.User, int64, error)
	Update(ctx context.Context, u *models.User) error
	AddSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error)
	RemoveSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error)
	PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error
	PushNotificationToSavers(ctx context.Context, propertyID primitive.ObjectID, n models.Notification) error
	MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error
}

type MongoUserStore struct {
	collection *mongo.Collection
}

func NewMongoUserStore(collection *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{collection: collection}
}

func (s *MongoUserStore) Create(ctx context.Context, u *models.User) error {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.SavedProperties == nil {
		u.SavedProperties = []primitive.ObjectID{}
	}
	_, err := s.collection.InsertOne(ctx, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	return err
}

func (s *MongoUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := s.collection.FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *MongoUserStore) Search(ctx context.Context, q UserSearch) ([]models.User, int64, error) {
	filter := bson.M{}
	if q.UserType != "" {
		filter["userType"] = q.UserType
	}
	if q.City != "" {
		filter["preferences.locations"] = bson.M{"$regex": q.City, "$options": "i"}
	}
	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"name": bson.M{"$regex": q.Search, "$options": "i"}},
			{"bio": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}

	total, err := s.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	page, limit := normalizePage(q.Page, q.Limit)
	opts := options.Find().
		SetSkip(int64((page - 1) * limit)).
		SetLimit(int64(limit)).
		SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := s.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (s *MongoUserStore) Update(ctx context.Context, u *models.User) error {
	u.UpdatedAt = time.Now()
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": u.ID}, u)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) AddSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$addToSet": bson.M{"savedProperties": propertyID},
			"$set":      bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUserStore) RemoveSavedProperty(ctx context.Context, userID, propertyID primitive.ObjectID) (bool, error) {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{
			"$pull": bson.M{"savedProperties": propertyID},
			"$set":  bson.M{"updatedAt": time.Now()},
		})
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 0 {
		return false, ErrNotFound
	}
	return res.ModifiedCount > 0, nil
}

func (s *MongoUserStore) PushNotification(ctx context.Context, userID primitive.ObjectID, n models.Notification) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID},
		bson.M{"$push": bson.M{"notifications": n}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoUserStore) PushNotificationToSavers(ctx context.Context, propertyID primitive.ObjectID, n models.Notification) error {
	_, err := s.collection.UpdateMany(ctx,
		bson.M{"savedProperties": propertyID},
		bson.M{"$push": bson.M{"notifications": n}})
	return err
}

func (s *MongoUserStore) MarkNotificationRead(ctx context.Context, userID, notificationID primitive.ObjectID) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": userID, "notifications._id": notificationID},
		bson.M{"$set": bson.M{"notifications.$.read": true}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// MaxPageSize caps the page size a single query may request.
const MaxPageSize = 100

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}
