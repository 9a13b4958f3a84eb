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

type ConversationStore interface {
	// CreateOrGet returns the existing conversation for the participant pair
	// and property, or creates one. The bool reports whether it was created.
	CreateOrGet(ctx context.Context, participants []primitive.ObjectID, propertyID *primitive.ObjectID) (*models.Conversation, bool, error)
	ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error)
	MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
	// TouchLastMessage records the latest message reference and bumps the
	// unread count of every participant except the sender.
	TouchLastMessage(ctx context.Context, id, senderID, messageID primitive.ObjectID) error
}

type MongoConversationStore struct {
	collection *mongo.Collection
}

func NewMongoConversationStore(collection *mongo.Collection) *MongoConversationStore {
	return &MongoConversationStore{collection: collection}
}

func (s *MongoConversationStore) CreateOrGet(ctx context.Context, participants []primitive.ObjectID, propertyID *primitive.ObjectID) (*models.Conversation, bool, error) {
	filter := bson.M{
		"participants": bson.M{"$all": participants, "$size": len(participants)},
	}
	if propertyID != nil {
		filter["propertyId"] = *propertyID
	} else {
		filter["propertyId"] = bson.M{"$exists": false}
	}

	var existing models.Conversation
	err := s.collection.FindOne(ctx, filter).Decode(&existing)
	if err == nil {
		return &existing, false, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, false, err
	}

	now := time.Now()
	unread := make(map[string]int64, len(participants))
	for _, p := range participants {
		unread[p.Hex()] = 0
	}
	conversation := models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: participants,
		PropertyID:   propertyID,
		UnreadCounts: unread,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.collection.InsertOne(ctx, conversation); err != nil {
		return nil, false, err
	}
	return &conversation, true, nil
}

func (s *MongoConversationStore) ListForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updatedAt", Value: -1}})
	cursor, err := s.collection.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err := cursor.All(ctx, &conversations); err != nil {
		return nil, err
	}
	return conversations, nil
}

func (s *MongoConversationStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Conversation, error) {
	var c models.Conversation
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *MongoConversationStore) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := s.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"unreadCounts." + userID.Hex(): int64(0),
			"updatedAt":                    time.Now(),
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoConversationStore) TouchLastMessage(ctx context.Context, id, senderID, messageID primitive.ObjectID) error {
	conversation, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	inc := bson.M{}
	for _, p := range conversation.Participants {
		if p != senderID {
			inc["unreadCounts."+p.Hex()] = 1
		}
	}
	update := bson.M{
		"$set": bson.M{
			"lastMessageId": messageID,
			"updatedAt":     time.Now(),
		},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}

	res, err := s.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
