package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/order-api/internal/domain"
	"github.com/kahvecikaan/order-api/internal/events"
	websocketTransport "github.com/kahvecikaan/order-api/internal/transport/websocket"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stand-ins for the Mongo repositories, mirroring their contracts:
// post-operation records are returned, uniqueness violations surface as
// domain.ErrDuplicateKey, absent records as the per-entity not-found error.

type fakeProductRepo struct {
	items       []*domain.Product
	existsCalls int
}

func (r *fakeProductRepo) GetAll(ctx context.Context) ([]*domain.Product, error) {
	return append([]*domain.Product{}, r.items...), nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	for _, p := range r.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	for _, p := range r.items {
		if p.Name == product.Name {
			return nil, domain.ErrDuplicateKey
		}
	}
	product.ID = primitive.NewObjectID()
	r.items = append(r.items, product)
	return product, nil
}

func (r *fakeProductRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.Product, error) {
	product, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name, ok := fields["name"].(string); ok {
		for _, p := range r.items {
			if p.ID != id && p.Name == name {
				return nil, domain.ErrDuplicateKey
			}
		}
		product.Name = name
	}
	return product, nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	for i, p := range r.items {
		if p.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return p, nil
		}
	}
	return nil, domain.ErrProductNotFound
}

func (r *fakeProductRepo) ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	r.existsCalls++
	for _, p := range r.items {
		if p.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeUserRepo struct {
	items       []*domain.User
	existsCalls int
}

func (r *fakeUserRepo) GetAll(ctx context.Context) ([]*domain.User, error) {
	return append([]*domain.User{}, r.items...), nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range r.items {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	for _, u := range r.items {
		if u.Email == user.Email {
			return nil, domain.ErrDuplicateKey
		}
	}
	user.ID = primitive.NewObjectID()
	r.items = append(r.items, user)
	return user, nil
}

func (r *fakeUserRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if email, ok := fields["email"].(string); ok {
		for _, u := range r.items {
			if u.ID != id && u.Email == email {
				return nil, domain.ErrDuplicateKey
			}
		}
		user.Email = email
	}
	if name, ok := fields["name"].(string); ok {
		user.Name = name
	}
	if lastName, ok := fields["lastName"].(string); ok {
		user.LastName = lastName
	}
	return user, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for i, u := range r.items {
		if u.ID == id {
			r.items = append(r.items[:i], r.items[i+1:]...)
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error) {
	r.existsCalls++
	for _, u := range r.items {
		if u.ID == id {
			return true, nil
		}
	}
	return false, nil
}

type fakeOrderRepo struct {
	items    []*domain.Order
	products *fakeProductRepo
	users    *fakeUserRepo
}

func (r *fakeOrderRepo) populate(order *domain.Order) *domain.PopulatedOrder {
	populated := &domain.PopulatedOrder{
		ID:         order.ID,
		Products:   []*domain.Product{},
		Users:      []*domain.User{},
		Date:       order.Date,
		VersionKey: order.VersionKey,
	}
	for _, id := range order.Products {
		if p, err := r.products.GetByID(context.Background(), id); err == nil {
			populated.Products = append(populated.Products, p)
		}
	}
	for _, id := range order.Users {
		if u, err := r.users.GetByID(context.Background(), id); err == nil {
			populated.Users = append(populated.Users, u)
		}
	}
	return populated
}

func (r *fakeOrderRepo) Find(ctx context.Context, filter domain.OrderFilter) ([]*domain.PopulatedOrder, error) {
	matched := []*domain.PopulatedOrder{}
	for _, order := range r.items {
		if filter.Date != "" && order.Date != filter.Date {
			continue
		}
		if !filter.Product.IsZero() && !containsID(order.Products, filter.Product) {
			continue
		}
		if !filter.User.IsZero() && !containsID(order.Users, filter.User) {
			continue
		}
		matched = append(matched, r.populate(order))
	}
	return matched, nil
}

func (r *fakeOrderRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error) {
	for _, order := range r.items {
		if order.ID == id {
			return r.populate(order), nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) Create(ctx context.Context, order *domain.Order) (*domain.PopulatedOrder, error) {
	order.ID = primitive.NewObjectID()
	r.items = append(r.items, order)
	return r.populate(order), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, id primitive.ObjectID, fields bson.M) (*domain.PopulatedOrder, error) {
	for _, order := range r.items {
		if order.ID != id {
			continue
		}
		if products, ok := fields["products"].([]primitive.ObjectID); ok {
			order.Products = products
		}
		if users, ok := fields["users"].([]primitive.ObjectID); ok {
			order.Users = users
		}
		if date, ok := fields["date"].(string); ok {
			order.Date = date
		}
		return r.populate(order), nil
	}
	return nil, domain.ErrOrderNotFound
}

func (r *fakeOrderRepo) Delete(ctx context.Context, id primitive.ObjectID) (*domain.PopulatedOrder, error) {
	for i, order := range r.items {
		if order.ID == id {
			snapshot := r.populate(order)
			r.items = append(r.items[:i], r.items[i+1:]...)
			return snapshot, nil
		}
	}
	return nil, domain.ErrOrderNotFound
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

// newTestRouter wires the full routing stack over the fakes so tests exercise
// path matching and middleware exactly as production does.
func newTestRouter(pr *fakeProductRepo, ur *fakeUserRepo, or *fakeOrderRepo) http.Handler {
	router, _ := newTestRouterWithBus(pr, ur, or)
	return router
}

// newTestRouterWithBus additionally exposes the event bus so tests can assert
// on the change feed.
func newTestRouterWithBus(pr *fakeProductRepo, ur *fakeUserRepo, or *fakeOrderRepo) (http.Handler, *events.Bus[any]) {
	logger := hclog.NewNullLogger()
	validation := domain.NewValidation()
	bus := events.NewBus[any]()

	ph := NewProductHandler(pr, validation, bus, logger)
	uh := NewUserHandler(ur, validation, bus, logger)
	oh := NewOrderHandler(or, pr, ur, validation, bus, logger)
	wsh := websocketTransport.NewHandler(logger, bus)

	return NewRouter(ph, uh, oh, wsh, logger), bus
}

// nextEvent drains one event from the subscription without blocking; handlers
// publish synchronously, so anything emitted during a request is already
// buffered by the time the response is recorded.
func nextEvent(ch chan any) (any, bool) {
	select {
	case event := <-ch:
		return event, true
	default:
		return nil, false
	}
}

func doRequest(t *testing.T, router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
