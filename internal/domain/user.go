package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// User represents a user record. Name and last name are stored normalized
// like product names; the email is lower-cased on write and unique across
// the collection.
type User struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	LastName   string             `json:"lastName" bson:"lastName"`
	Email      string             `json:"email" bson:"email"`
	VersionKey int                `json:"versionKey" bson:"versionKey"`
}
