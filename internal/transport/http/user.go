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
	userConflictMessage  = "This email is already registered. Please retry."
	userInvalidIDFormat  = "Invalid format for the user's ID: %s."
	userNotFoundFormat   = "Cannot find any user with this id : %s"
	userEmptyListMessage = "There isn't any user."
)

type UserHandler struct {
	repo       repository.UserRepository
	validation *domain.Validation
	bus        *events.Bus[any]
	logger     hclog.Logger
}

func NewUserHandler(
	repo repository.UserRepository,
	validation *domain.Validation,
	bus *events.Bus[any],
	logger hclog.Logger,
) *UserHandler {
	return &UserHandler{
		repo:       repo,
		validation: validation,
		bus:        bus,
		logger:     logger,
	}
}

// CreateUser handles POST /users
func (h *UserHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.UserCreateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	user := &domain.User{
		Name:     domain.CapitalizeFirst(payload["name"].(string)),
		LastName: domain.CapitalizeFirst(payload["lastName"].(string)),
		Email:    domain.NormalizeEmail(payload["email"].(string)),
	}
	created, err := h.repo.Create(r.Context(), user)
	if err != nil {
		respondStoreError(w, h.logger, err, userConflictMessage)
		return
	}

	h.bus.Publish(events.UserCreated{UserID: created.ID.Hex()})
	respondJSON(w, http.StatusCreated, created)
}

// UpdateUser handles PUT /users/{id}. Only the supplied fields are validated
// and written.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(userInvalidIDFormat, id))
		return
	}
	payload, err := decodeBody(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload.")
		return
	}
	if violation := h.validation.ValidateBody(domain.UserUpdateRules, payload); violation != nil {
		respondError(w, http.StatusBadRequest, violation.Message)
		return
	}

	fields := bson.M{}
	if name, ok := payload["name"].(string); ok {
		fields["name"] = domain.CapitalizeFirst(name)
	}
	if lastName, ok := payload["lastName"].(string); ok {
		fields["lastName"] = domain.CapitalizeFirst(lastName)
	}
	if email, ok := payload["email"].(string); ok {
		fields["email"] = domain.NormalizeEmail(email)
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	updated, err := h.repo.Update(r.Context(), oid, fields)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(userNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, userConflictMessage)
		return
	}

	h.bus.Publish(events.UserUpdated{UserID: updated.ID.Hex()})
	respondJSON(w, http.StatusOK, updated)
}

// DeleteUser handles DELETE /users/{id}
func (h *UserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(userInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	deleted, err := h.repo.Delete(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(userNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	h.bus.Publish(events.UserDeleted{UserID: deleted.ID.Hex()})
	respondJSON(w, http.StatusOK, deleted)
}

// GetUser handles GET /users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if !h.validation.IsValidID(id) {
		respondError(w, http.StatusBadRequest, fmt.Sprintf(userInvalidIDFormat, id))
		return
	}

	oid, _ := primitive.ObjectIDFromHex(id)
	user, err := h.repo.GetByID(r.Context(), oid)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			respondError(w, http.StatusNotFound, fmt.Sprintf(userNotFoundFormat, id))
			return
		}
		respondStoreError(w, h.logger, err, "")
		return
	}

	respondJSON(w, http.StatusOK, user)
}

// GetUsers handles GET /users. Same contract as the product listing: empty
// is a 200, the nil branch is legacy.
func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.repo.GetAll(r.Context())
	if err != nil {
		respondStoreError(w, h.logger, err, "")
		return
	}
	if users == nil {
		respondEmptyList(w, userEmptyListMessage)
		return
	}
	respondJSON(w, http.StatusOK, users)
}
