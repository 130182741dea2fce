package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Product represents a product record. Names are stored normalized
// (capitalized first letter, remainder lower-cased) and are unique across
// the collection, enforced by a unique index.
type Product struct {
	ID         primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name       string             `json:"name" bson:"name"`
	VersionKey int                `json:"versionKey" bson:"versionKey"`
}
