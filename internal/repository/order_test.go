package repository

import (
	"testing"

	"github.com/kahvecikaan/order-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildOrderQuery(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	testCases := []struct {
		name   string
		filter domain.OrderFilter
		query  bson.M
	}{
		{"Empty filter", domain.OrderFilter{}, bson.M{}},
		{"Date only", domain.OrderFilter{Date: "2024-01-17"}, bson.M{"date": "2024-01-17"}},
		{"Product only", domain.OrderFilter{Product: productID}, bson.M{"products": productID}},
		{"All combined", domain.OrderFilter{Date: "2024-01-17", Product: productID, User: userID},
			bson.M{"date": "2024-01-17", "products": productID, "users": userID}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.query, buildOrderQuery(tc.filter))
		})
	}
}

func TestAssemblePopulated(t *testing.T) {
	first := &domain.Product{ID: primitive.NewObjectID(), Name: "Shoe"}
	second := &domain.Product{ID: primitive.NewObjectID(), Name: "Hat"}
	user := &domain.User{ID: primitive.NewObjectID(), Name: "Jo", LastName: "Doe", Email: "jo@x.com"}
	deletedID := primitive.NewObjectID()

	products := map[primitive.ObjectID]*domain.Product{first.ID: first, second.ID: second}
	users := map[primitive.ObjectID]*domain.User{user.ID: user}

	order := &domain.Order{
		ID:       primitive.NewObjectID(),
		Products: []primitive.ObjectID{second.ID, first.ID},
		Users:    []primitive.ObjectID{user.ID},
		Date:     "2024-01-17",
	}

	populated := assemblePopulated(order, products, users)

	assert.Equal(t, order.ID, populated.ID)
	assert.Equal(t, "2024-01-17", populated.Date)
	// Array order is preserved, not the fetch order.
	assert.Equal(t, []*domain.Product{second, first}, populated.Products)
	assert.Equal(t, []*domain.User{user}, populated.Users)

	t.Run("Missing reference is omitted", func(t *testing.T) {
		order.Products = []primitive.ObjectID{first.ID, deletedID, second.ID}
		populated := assemblePopulated(order, products, users)
		assert.Equal(t, []*domain.Product{first, second}, populated.Products)
	})
}
