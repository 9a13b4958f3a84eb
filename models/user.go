package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	UserTypeRoomSeeker     = "room_seeker"
	UserTypeRoommateSeeker = "roommate_seeker"
	UserTypeRoomProvider   = "room_provider"
	UserTypePropertyOwner  = "property_owner"
)

const (
	NotificationTypeMessage        = "message"
	NotificationTypePropertyUpdate = "property_update"
	NotificationTypeSystem         = "system"
)

// Preferences holds a user's roommate/room search criteria. Carried as an
// embedded document so it travels with the user everywhere.
type Preferences struct {
	Locations      []string   `bson:"locations,omitempty" json:"locations,omitempty"`
	BudgetMin      float64    `bson:"budgetMin,omitempty" json:"budgetMin,omitempty"`
	BudgetMax      float64    `bson:"budgetMax,omitempty" json:"budgetMax,omitempty"`
	MoveInDate     *time.Time `bson:"moveInDate,omitempty" json:"moveInDate,omitempty"`
	DurationMonths int        `bson:"durationMonths,omitempty" json:"durationMonths,omitempty"`
	RoomType       string     `bson:"roomType,omitempty" json:"roomType,omitempty"`
	Amenities      []string   `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Gender         string     `bson:"gender,omitempty" json:"gender,omitempty"`
	AgeMin         int        `bson:"ageMin,omitempty" json:"ageMin,omitempty"`
	AgeMax         int        `bson:"ageMax,omitempty" json:"ageMax,omitempty"`
	Lifestyle      []string   `bson:"lifestyle,omitempty" json:"lifestyle,omitempty"`
}

type Notification struct {
	ID        primitive.ObjectID  `bson:"_id" json:"id"`
	Type      string              `bson:"type" json:"type"`
	Content   string              `bson:"content" json:"content"`
	RelatedID *primitive.ObjectID `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	Read      bool                `bson:"read" json:"read"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
}

type User struct {
	ID              primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Email           string               `json:"email" bson:"email"`
	Password        string               `json:"password,omitempty" bson:"password,omitempty"`
	Name            string               `json:"name" bson:"name"`
	UserType        string               `json:"userType" bson:"userType"`
	Provider        string               `json:"provider,omitempty" bson:"provider,omitempty"`
	ProviderID      string               `json:"providerId,omitempty" bson:"providerId,omitempty"`
	Phone           string               `json:"phone,omitempty" bson:"phone,omitempty"`
	Bio             string               `json:"bio,omitempty" bson:"bio,omitempty"`
	Avatar          string               `json:"avatar,omitempty" bson:"avatar,omitempty"`
	Preferences     Preferences          `json:"preferences" bson:"preferences"`
	SavedProperties []primitive.ObjectID `json:"savedProperties" bson:"savedProperties"`
	Notifications   []Notification       `json:"notifications,omitempty" bson:"notifications"`
	IsActive        bool                 `json:"isActive" bson:"isActive"`
	CreatedAt       time.Time            `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time            `json:"updatedAt" bson:"updatedAt"`
}

// Redact strips fields that must never leave the server. The public view
// additionally hides notifications.
func (u *User) Redact(public bool) {
	u.Password = ""
	if public {
		u.Notifications = nil
	}
}

func IsValidUserType(t string) bool {
	switch t {
	case UserTypeRoomSeeker, UserTypeRoommateSeeker, UserTypeRoomProvider, UserTypePropertyOwner:
		return true
	}
	return false
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"userType"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}
