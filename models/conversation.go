package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation tracks the metadata of a thread between two users, optionally
// anchored to a property listing. UnreadCounts is keyed by participant hex id.
type Conversation struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Participants  []primitive.ObjectID `bson:"participants" json:"participants"`
	PropertyID    *primitive.ObjectID  `bson:"propertyId,omitempty" json:"propertyId,omitempty"`
	LastMessageID *primitive.ObjectID  `bson:"lastMessageId,omitempty" json:"lastMessageId,omitempty"`
	UnreadCounts  map[string]int64     `bson:"unreadCounts" json:"unreadCounts"`
	IsActive      bool                 `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// HasParticipant reports whether the given user is part of the conversation.
func (c *Conversation) HasParticipant(id primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == id {
			return true
		}
	}
	return false
}
