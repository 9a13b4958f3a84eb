package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPWindow is how long a one-time code stays valid. The store enforces it
// with a TTL index, but TTL deletion lags, so validation re-checks CreatedAt.
const OTPWindow = 600 * time.Second

type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"otp" json:"otp"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Expired reports whether the code has outlived the validity window at the
// given instant.
func (o *OTP) Expired(now time.Time) bool {
	return now.Sub(o.CreatedAt) > OTPWindow
}
