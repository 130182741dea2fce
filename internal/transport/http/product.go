package http

import (
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
	productConflictMessage  = "This product has already been inserted."
	productInvalidIDFormat  = "Invalid format for the product's ID: %s."
	productNotFoundFormat   = "Cannot find any product with this id : %s"
	productEmptyListMessage = "There isn't any product."
)

type ProductHandler struct {
	repo       repository.ProductRepository
	validation *domain.Validation
	bus        *events.Bus[any]
	logger     hclog.Logger
}

func NewProductHandler(
	repo repository.ProductRepository,
	validation *domain.Validation,
	bus *events.Bus[any],
	logger hclog.Logger,
) *ProductHandler {
	return &ProductHandler{
		repo:       repo,
		validation: validation,
		bus:        bus,
		logger:     logger,
	}
}

// CreateProduct handles POST /products
func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.ProductCreateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	product := &domain.Product{Name: domain.CapitalizeFirst(payload["name"].(string))}
	created, err := h.repo.Create(r.Context(), product)
	if err != nil {
		respondStoreError(w, h.logger, err, productConflictMessage)
		return
	}

	h.bus.Publish(events.ProductCreated{ProductID: created.ID.Hex()})
	respondJSON(w, http.StatusCreated, created)
}

// UpdateProduct handles PUT /products/{id}
func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(productInvalidIDFormat, id))
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.ProductUpdateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	fields := bson.M{}
	if name, ok := payload["name"].(string); ok {
		fields["name"] = domain.CapitalizeFirst(name)
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	updated, err := h.repo.Update(r.Context(), oid, fields)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(productNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, productConflictMessage)
		return
	}

	h.bus.Publish(events.ProductUpdated{ProductID: updated.ID.Hex()})
	respondJSON(w, http.StatusOK, updated)
}

// DeleteProduct handles DELETE /products/{id}
func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(productInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	deleted, err := h.repo.Delete(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(productNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	h.bus.Publish(events.ProductDeleted{ProductID: deleted.ID.Hex()})
	respondJSON(w, http.StatusOK, deleted)
}

// GetProduct handles GET /products/{id}
func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(productInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	product, err := h.repo.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrProductNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(productNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	respondJSON(w, http.StatusOK, product)
}

// GetProducts handles GET /products. An empty collection is a 200 with an
// empty list; the nil branch below is kept from the legacy behavior and is
// not reachable through the store adapter, which always returns a slice.
func (h *ProductHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.repo.GetAll(r.Context())
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return
	}
	if products == nil {
		respondEmptyList(w, productEmptyListMessage)
		return
	}
	respondJSON(w, http.StatusOK, products)
}
