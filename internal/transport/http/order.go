package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/order-api/internal/domain"
	"github.com/kahvecikaan/order-api/internal/events"
	"github.com/kahvecikaan/order-api/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	orderInvalidIDFormat  = "Invalid format for the order's ID: %s."
	orderNotFoundFormat   = "Cannot find any order with this id : %s"
	orderEmptyListMessage = "There isn't any order."

	productMissingFormat = "Product's ID %s doesn't exists."
	userMissingFormat    = "User's ID %s doesn't exists."

	invalidDateQueryMessage    = "Invalid date in query. Date must be in the format YYYY-MM-DD."
	invalidProductQueryMessage = "Invalid product ID in query."
	invalidUserQueryMessage    = "Invalid user ID in query."
)

// existsChecker is the existence probe both entity repositories provide.
type existsChecker interface {
	ExistsByID(ctx context.Context, id primitive.ObjectID) (bool, error)
}

type OrderHandler struct {
	repo       repository.OrderRepository
	products   repository.ProductRepository
	users      repository.UserRepository
	validation *domain.Validation
	bus        *events.Bus[any]
	logger     hclog.Logger
}

func NewOrderHandler(
	repo repository.OrderRepository,
	products repository.ProductRepository,
	users repository.UserRepository,
	validation *domain.Validation,
	bus *events.Bus[any],
	logger hclog.Logger,
) *OrderHandler {
	return &OrderHandler{
		repo:       repo,
		products:   products,
		users:      users,
		validation: validation,
		bus:        bus,
		logger:     logger,
	}
}

// CreateOrder handles POST /orders. Every referenced product id is probed
// before any user id; the first missing id short-circuits the rest.
func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.OrderCreateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	productIDs := stringSlice(payload["products"])
	userIDs := stringSlice(payload["users"])

	if ok := h.checkReferences(r.Context(), w, productIDs, userIDs); !ok {
		return
	}

	order := &domain.Order{
		Products: toObjectIDs(productIDs),
		Users:    toObjectIDs(userIDs),
		Date:     domain.DefaultOrderDate(),
	}
	if date, ok := payload["date"].(string); ok {
		order.Date = date
	}

	created, err := h.repo.Create(r.Context(), order)
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return
	}

	h.bus.Publish(events.OrderCreated{OrderID: created.ID.Hex()})
	respondJSON(w, http.StatusCreated, created)
}

// UpdateOrder handles PUT /orders/{id}. Only the supplied fields are
// validated, existence-checked and written.
func (h *OrderHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(orderInvalidIDFormat, id))
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.OrderUpdateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	var productIDs, userIDs []string
	if _, present := payload["products"]; present {
		productIDs = stringSlice(payload["products"])
	}
	if _, present := payload["users"]; present {
		userIDs = stringSlice(payload["users"])
	}
	if ok := h.checkReferences(r.Context(), w, productIDs, userIDs); !ok {
		return
	}

	fields := bson.M{}
	if productIDs != nil {
		fields["products"] = toObjectIDs(productIDs)
	}
	if userIDs != nil {
		fields["users"] = toObjectIDs(userIDs)
	}
	if date, ok := payload["date"].(string); ok {
		fields["date"] = date
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	updated, err := h.repo.Update(r.Context(), oid, fields)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(orderNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	h.bus.Publish(events.OrderUpdated{OrderID: updated.ID.Hex()})
	respondJSON(w, http.StatusOK, updated)
}

// DeleteOrder handles DELETE /orders/{id}. The response carries the populated
// snapshot of the order as it was at deletion time.
func (h *OrderHandler) DeleteOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(orderInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	deleted, err := h.repo.Delete(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(orderNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	h.bus.Publish(events.OrderDeleted{OrderID: deleted.ID.Hex()})
	respondJSON(w, http.StatusOK, deleted)
}

// GetOrder handles GET /orders/{id}
func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(orderInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	order, err := h.repo.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrOrderNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(orderNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

// GetOrders handles GET /orders with the optional date, product and user
// query filters. Unlike the product and user listings, zero matches here is
// a 404.
func (h *OrderHandler) GetOrders(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := domain.OrderFilter{}

	if date := query.Get("date"); date != "" {
		if !domain.IsValidDate(date) {
			respondError(w, http.StatusBadRequest, invalidDateQueryMessage)
			return
		}
		filter.Date = date
	}
	if product := query.Get("product"); product != "" {
		if !h.validation.IsValidID(product) {
			respondError(w, http.StatusBadRequest, invalidProductQueryMessage)
			return
		}
		filter.Product, _ = primitive.ObjectIDFromHex(product)
	}
	if user := query.Get("user"); user != "" {
		if !h.validation.IsValidID(user) {
			respondError(w, http.StatusBadRequest, invalidUserQueryMessage)
			return
		}
		filter.User, _ = primitive.ObjectIDFromHex(user)
	}

	orders, err := h.repo.Find(r.Context(), filter)
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return
	}
	if len(orders) == 0 {
		respondError(w, http.StatusNotFound, orderEmptyListMessage)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

// checkReferences probes the referenced product ids, then the user ids, in
// array order. It writes the 400 response and reports false on the first id
// with no matching record; later ids are not checked.
func (h *OrderHandler) checkReferences(ctx context.Context, w http.ResponseWriter, productIDs, userIDs []string) bool {
	missing, err := firstMissingID(ctx, h.products, productIDs)
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return false
	}
	if missing != "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(productMissingFormat, missing))
		return false
	}

	missing, err = firstMissingID(ctx, h.users, userIDs)
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return false
	}
	if missing != "" {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(userMissingFormat, missing))
		return false
	}
	return true
}

// firstMissingID issues one existence probe per id, sequentially, and returns
// the first id with no matching record. The id is echoed back exactly as the
// client supplied it.
func firstMissingID(ctx context.Context, store existsChecker, ids []string) (string, error) {
	for _, raw := range ids {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			return raw, nil
		}
		exists, err := store.ExistsByID(ctx, id)
		if err != nil {
			return "", err
		}
		if !exists {
			return raw, nil
		}
	}
	return "", nil
}

func stringSlice(raw any) []string {
	items, _ := raw.([]any)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		oid, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			continue
		}
		out = append(out, oid)
	}
	return out
}
