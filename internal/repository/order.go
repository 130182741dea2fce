package repository

import (
	"context"
	"errors"

	"github.com/kahvecikaan/order-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// OrderRepository persists orders and performs the reference-expansion join:
// every read path returns the populated shape.
type OrderRepository interface {
	Find(ctx context.Context, filter domain.OrderFilter) ([]*domain.PopulatedOrder, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error)
	Create(ctx context.Context, order *domain.Order) (*domain.PopulatedOrder, error)
	Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.PopulatedOrder, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error)
}

type mongoOrderRepository struct {
	orders   *mongo.Collection
	products *mongo.Collection
	users    *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{
		orders:   db.Collection(orderCollection),
		products: db.Collection(productCollection),
		users:    db.Collection(userCollection),
	}
}

// buildOrderQuery translates a filter into the store query. Set members
// combine with AND semantics; array members match by containment.
func buildOrderQuery(filter domain.OrderFilter) bson.M {
	query := bson.M{}
	if filter.Date != "" {
		query["date"] = filter.Date
	}
	if !filter.Product.IsZero() {
		query["products"] = filter.Product
	}
	if !filter.User.IsZero() {
		query["users"] = filter.User
	}
	return query
}

func (r *mongoOrderRepository) Find(ctx context.Context, filter domain.OrderFilter) ([]*domain.PopulatedOrder, error) {
	cursor, err := r.orders.Find(ctx, buildOrderQuery(filter))
	if err != nil {
		return nil, err
	}

	orders := []*domain.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return r.populate(ctx, orders)
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error) {
	var order domain.Order
	err := r.orders.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, &order)
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *domain.Order) (*domain.PopulatedOrder, error) {
	order.ID = primitive.NewObjectID()
	if _, err := r.orders.InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return r.populateOne(ctx, order)
}

func (r *mongoOrderRepository) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.PopulatedOrder, error) {
	if len(fields) == 0 {
		return r.GetByID(ctx, id)
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order domain.Order
	err := r.orders.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": fields}, opts).Decode(&order)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.populateOne(ctx, &order)
}

// Delete reads the populated snapshot first so the response can reflect the
// deleted state, then removes the record. A failed remove surfaces as an
// error rather than a false success.
func (r *mongoOrderRepository) Delete(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error) {
	snapshot, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := r.orders.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func (r *mongoOrderRepository) populateOne(ctx context.Context, order *domain.Order) (*domain.PopulatedOrder, error) {
	populated, err := r.populate(ctx, []*domain.Order{order})
	if err != nil {
		return nil, err
	}
	return populated[0], nil
}

// populate expands the reference arrays of a batch of orders. The referenced
// records are fetched once per collection with an $in query, then stitched
// back in array order.
func (r *mongoOrderRepository) populate(ctx context.Context, orders []*domain.Order) ([]*domain.PopulatedOrder, error) {
	productIDs := []primitive.ObjectID{}
	userIDs := []primitive.ObjectID{}
	for _, order := range orders {
		productIDs = append(productIDs, order.Products...)
		userIDs = append(userIDs, order.Users...)
	}

	products, err := r.fetchProducts(ctx, productIDs)
	if err != nil {
		return nil, err
	}
	users, err := r.fetchUsers(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	populated := make([]*domain.PopulatedOrder, 0, len(orders))
	for _, order := range orders {
		populated = append(populated, assemblePopulated(order, products, users))
	}
	return populated, nil
}

func (r *mongoOrderRepository) fetchProducts(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Product, error) {
	byID := map[primitive.ObjectID]*domain.Product{}
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := r.products.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	records := []*domain.Product{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		byID[record.ID] = record
	}
	return byID, nil
}

func (r *mongoOrderRepository) fetchUsers(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	byID := map[primitive.ObjectID]*domain.User{}
	if len(ids) == 0 {
		return byID, nil
	}

	cursor, err := r.users.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	records := []*domain.User{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, err
	}
	for _, record := range records {
		byID[record.ID] = record
	}
	return byID, nil
}

// assemblePopulated expands one order using the fetched records, preserving
// array order. Ids with no matching record are omitted, which is what a
// reader sees when a referenced record was deleted after the order was
// written.
func assemblePopulated(
	order *domain.Order,
	products map[primitive.ObjectID]*domain.Product,
	users map[primitive.ObjectID]*domain.User,
) *domain.PopulatedOrder {
	populated := &domain.PopulatedOrder{
		ID:         order.ID,
		Products:   make([]*domain.Product, 0, len(order.Products)),
		Users:      make([]*domain.User, 0, len(order.Users)),
		Date:       order.Date,
		VersionKey: order.VersionKey,
	}
	for _, id := range order.Products {
		if product, ok := products[id]; ok {
			populated.Products = append(populated.Products, product)
		}
	}
	for _, id := range order.Users {
		if user, ok := users[id]; ok {
			populated.Users = append(populated.Users, user)
		}
	}
	return populated
}
