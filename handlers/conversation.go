package handlers

import (
	"log"
	"net/http"
	"time"

	"RoomLink/models"
	"RoomLink/store"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ConversationController struct {
	conversations store.ConversationStore
	users         store.UserStore
}

func NewConversationController(conversations store.ConversationStore, users store.UserStore) *ConversationController {
	return &ConversationController{conversations: conversations, users: users}
}

type createConversationRequest struct {
	ParticipantID string `json:"participantId"`
	PropertyID    string `json:"propertyId"`
}

type recordMessageRequest struct {
	MessageID string `json:"messageId"`
}

// CreateConversation starts (or returns) the thread between the caller and
// another user, optionally anchored to a property.
func (cc *ConversationController) CreateConversation(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}

	participantID, err := primitive.ObjectIDFromHex(req.ParticipantID)
	if err != nil || participantID == user.ID {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"A valid participantId is required"}})
	}

	if _, err := cc.users.FindByID(ctx, participantID); err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "User not found"})
		}
		log.Printf("find participant: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	var propertyID *primitive.ObjectID
	if req.PropertyID != "" {
		id, err := primitive.ObjectIDFromHex(req.PropertyID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid propertyId"}})
		}
		propertyID = &id
	}

	conversation, created, err := cc.conversations.CreateOrGet(ctx, []primitive.ObjectID{user.ID, participantID}, propertyID)
	if err != nil {
		log.Printf("create conversation: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, conversation)
}

func (cc *ConversationController) ListConversations(c echo.Context) error {
	user := currentUser(c)

	conversations, err := cc.conversations.ListForUser(c.Request().Context(), user.ID)
	if err != nil {
		log.Printf("list conversations: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if conversations == nil {
		conversations = []models.Conversation{}
	}

	return c.JSON(http.StatusOK, echo.Map{"conversations": conversations})
}

func (cc *ConversationController) GetConversation(c echo.Context) error {
	user := currentUser(c)

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	conversation, err := cc.conversations.FindByID(c.Request().Context(), id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
		}
		log.Printf("find conversation: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	// Non-participants get the same 404 as a missing thread.
	if !conversation.HasParticipant(user.ID) {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	return c.JSON(http.StatusOK, conversation)
}

func (cc *ConversationController) MarkConversationRead(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	conversation, err := cc.conversations.FindByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
		}
		log.Printf("find conversation: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if !conversation.HasParticipant(user.ID) {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	if err := cc.conversations.MarkRead(ctx, id, user.ID); err != nil {
		log.Printf("mark conversation read: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Conversation marked as read"})
}

// RecordMessage stores the latest message reference on the thread, bumps the
// other participants' unread counts and drops them a message notification.
func (cc *ConversationController) RecordMessage(c echo.Context) error {
	user := currentUser(c)
	ctx := c.Request().Context()

	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	var req recordMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"Invalid request body"}})
	}
	messageID, err := primitive.ObjectIDFromHex(req.MessageID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"errors": []string{"A valid messageId is required"}})
	}

	conversation, err := cc.conversations.FindByID(ctx, id)
	if err != nil {
		if err == store.ErrNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
		}
		log.Printf("find conversation: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}
	if !conversation.HasParticipant(user.ID) {
		return c.JSON(http.StatusNotFound, echo.Map{"msg": "Conversation not found"})
	}

	if err := cc.conversations.TouchLastMessage(ctx, id, user.ID, messageID); err != nil {
		log.Printf("touch last message: %v", err)
		return c.String(http.StatusInternalServerError, "Internal Server Error")
	}

	notification := models.Notification{
		ID:        primitive.NewObjectID(),
		Type:      models.NotificationTypeMessage,
		Content:   "New message from " + user.Name,
		RelatedID: &conversation.ID,
		CreatedAt: time.Now(),
	}
	for _, participant := range conversation.Participants {
		if participant == user.ID {
			continue
		}
		if err := cc.users.PushNotification(ctx, participant, notification); err != nil {
			log.Printf("notify participant: %v", err)
		}
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Message recorded"})
}
