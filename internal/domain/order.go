package domain

import "go.mongodb.org/mongo-driver/bson/primitive"

// Order references products and users by id. The references are non-owning:
// deleting a referenced product or user does not touch the orders that
// reference it.
type Order struct {
	ID         primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Products   []primitive.ObjectID `json:"products" bson:"products"`
	Users      []primitive.ObjectID `json:"users" bson:"users"`
	Date       string               `json:"date" bson:"date"`
	VersionKey int                  `json:"versionKey" bson:"versionKey"`
}

// PopulatedOrder is the read shape of an order: the reference arrays are
// expanded to the full referenced records. Ids whose record no longer exists
// are omitted from the expansion.
type PopulatedOrder struct {
	ID         primitive.ObjectID `json:"id"`
	Products   []*Product         `json:"products"`
	Users      []*User            `json:"users"`
	Date       string             `json:"date"`
	VersionKey int                `json:"versionKey"`
}

// OrderFilter narrows an order listing. Zero-valued members impose no
// constraint; set members combine with AND semantics.
type OrderFilter struct {
	Date    string
	Product primitive.ObjectID
	User    primitive.ObjectID
}
