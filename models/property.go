package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	PropertyStatusActive   = "active"
	PropertyStatusInactive = "inactive"
	PropertyStatusRented   = "rented"
)

type Address struct {
	Street    string   `bson:"street,omitempty" json:"street,omitempty"`
	City      string   `bson:"city" json:"city"`
	State     string   `bson:"state,omitempty" json:"state,omitempty"`
	ZipCode   string   `bson:"zipCode,omitempty" json:"zipCode,omitempty"`
	Country   string   `bson:"country,omitempty" json:"country,omitempty"`
	Latitude  *float64 `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude *float64 `bson:"longitude,omitempty" json:"longitude,omitempty"`
}

type Price struct {
	Amount    float64 `bson:"amount" json:"amount"`
	Brokerage float64 `bson:"brokerage,omitempty" json:"brokerage,omitempty"`
}

type Availability struct {
	From time.Time  `bson:"from" json:"from"`
	To   *time.Time `bson:"to,omitempty" json:"to,omitempty"`
}

type Features struct {
	Bedrooms  int      `bson:"bedrooms" json:"bedrooms"`
	Bathrooms int      `bson:"bathrooms" json:"bathrooms"`
	AreaSqFt  float64  `bson:"areaSqFt,omitempty" json:"areaSqFt,omitempty"`
	Furnished string   `bson:"furnished,omitempty" json:"furnished,omitempty"`
	Amenities []string `bson:"amenities,omitempty" json:"amenities,omitempty"`
	Utilities []string `bson:"utilities,omitempty" json:"utilities,omitempty"`
}

type Image struct {
	URL     string `bson:"url" json:"url"`
	Caption string `bson:"caption,omitempty" json:"caption,omitempty"`
}

type Occupant struct {
	Gender     string `bson:"gender,omitempty" json:"gender,omitempty"`
	Age        int    `bson:"age,omitempty" json:"age,omitempty"`
	Occupation string `bson:"occupation,omitempty" json:"occupation,omitempty"`
}

type Occupancy struct {
	Count     int        `bson:"count" json:"count"`
	Occupants []Occupant `bson:"occupants,omitempty" json:"occupants,omitempty"`
}

// SeekerPreferences describes who the current occupants are looking for.
type SeekerPreferences struct {
	Gender         string   `bson:"gender,omitempty" json:"gender,omitempty"`
	AgeMin         int      `bson:"ageMin,omitempty" json:"ageMin,omitempty"`
	AgeMax         int      `bson:"ageMax,omitempty" json:"ageMax,omitempty"`
	Occupations    []string `bson:"occupations,omitempty" json:"occupations,omitempty"`
	SmokingAllowed bool     `bson:"smokingAllowed" json:"smokingAllowed"`
	PetsAllowed    bool     `bson:"petsAllowed" json:"petsAllowed"`
}

type Property struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID      primitive.ObjectID `bson:"ownerId" json:"ownerId"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	PropertyType string             `bson:"propertyType" json:"propertyType"`
	ListingType  string             `bson:"listingType" json:"listingType"`
	Address      Address            `bson:"address" json:"address"`
	Price        Price              `bson:"price" json:"price"`
	Availability Availability       `bson:"availability" json:"availability"`
	Features     Features           `bson:"features" json:"features"`
	Images       []Image            `bson:"images,omitempty" json:"images,omitempty"`
	Occupancy    Occupancy          `bson:"occupancy" json:"occupancy"`
	SeekerPrefs  SeekerPreferences  `bson:"seekerPrefs" json:"seekerPrefs"`
	Status       string             `bson:"status" json:"status"`
	Views        int64              `bson:"views" json:"views"`
	Saves        int64              `bson:"saves" json:"saves"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func IsValidPropertyStatus(s string) bool {
	switch s {
	case PropertyStatusActive, PropertyStatusInactive, PropertyStatusRented:
		return true
	}
	return false
}
