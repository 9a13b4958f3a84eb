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

// PropertySearch carries the filter and paging parameters for listings.
type PropertySearch struct {
	City         string
	PropertyType string
	ListingType  string
	Status       string
	Search       string
	PriceMin     float64
	PriceMax     float64
	Bedrooms     int
	Page         int
	Limit        int
}

type PropertyStore interface {
	Create(ctx context.Context, p *models.Property) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error)
	Search(ctx context.Context, q PropertySearch) ([]models.Property, int64, error)
	Update(ctx context.Context, p *models.Property) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	AdjustSaves(ctx context.Context, id primitive.ObjectID, delta int64) error
}

type MongoPropertyStore struct {
	collection *mongo.Collection
}

func NewMongoPropertyStore(collection *mongo.Collection) *MongoPropertyStore {
	return &MongoPropertyStore{collection: collection}
}

func (s *MongoPropertyStore) Create(ctx context.Context, p *models.Property) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := s.collection.InsertOne(ctx, p)
	return err
}

func (s *MongoPropertyStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Property, error) {
	var p models.Property
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoPropertyStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Property, error) {
	if len(ids) == 0 {
		return []models.Property{}, nil
	}
	cursor, err := s.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, err
	}
	return properties, nil
}

func (s *MongoPropertyStore) Search(ctx context.Context, q PropertySearch) ([]models.Property, int64, error) {
	filter := bson.M{}
	if q.City != "" {
		filter["address.city"] = bson.M{"$regex": q.City, "$options": "i"}
	}
	if q.PropertyType != "" {
		filter["propertyType"] = q.PropertyType
	}
	if q.ListingType != "" {
		filter["listingType"] = q.ListingType
	}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.Search != "" {
		filter["$or"] = []bson.M{
			{"title": bson.M{"$regex": q.Search, "$options": "i"}},
			{"description": bson.M{"$regex": q.Search, "$options": "i"}},
		}
	}
	if q.PriceMin > 0 {
		filter["price.amount"] = bson.M{"$gte": q.PriceMin}
	}
	if q.PriceMax > 0 {
		if existing, ok := filter["price.amount"].(bson.M); ok {
			existing["$lte"] = q.PriceMax
		} else {
			filter["price.amount"] = bson.M{"$lte": q.PriceMax}
		}
	}
	if q.Bedrooms > 0 {
		filter["features.bedrooms"] = q.Bedrooms
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

	var properties []models.Property
	if err := cursor.All(ctx, &properties); err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}

func (s *MongoPropertyStore) Update(ctx context.Context, p *models.Property) error {
	p.UpdatedAt = time.Now()
	res, err := s.collection.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPropertyStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoPropertyStore) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

func (s *MongoPropertyStore) AdjustSaves(ctx context.Context, id primitive.ObjectID, delta int64) error {
	_, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"saves": delta}})
	return err
}
