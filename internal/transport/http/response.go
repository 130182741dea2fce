package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/order-api/internal/domain"
)

// errorEnvelope is the uniform error payload.
type errorEnvelope struct {
	ErrorMessage string `json:"errorMessage"`
}

// emptyListEnvelope is the legacy payload for the nil-result case on
// product/user listings. Note the different key.
type emptyListEnvelope struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorEnvelope{ErrorMessage: message})
}

func respondEmptyList(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusNotFound, emptyListEnvelope{Message: message})
}

// respondStoreError classifies a persistence failure: duplicate-key conflicts
// map to 409 with the fixed per-entity message, everything else is a 500 with
// the underlying error text passed through. conflictMessage may be empty for
// entities without unique fields.
func respondStoreError(w http.ResponseWriter, logger hclog.Logger, err error, conflictMessage string) {
	if conflictMessage != "" && errors.Is(err, domain.ErrDuplicateKey) {
		respondError(w, http.StatusConflict, conflictMessage)
		return
	}
	logger.Error("Store operation failed", "error", err)
	respondError(w, http.StatusInternalServerError, err.Error())
}

// decodeBody reads the JSON request body into a field map so the validators
// can see exactly which fields the client supplied. An absent body counts as
// an empty payload; required-field checks then produce the error message.
func decodeBody(r *http.Request) (map[string]any, error) {
	payload := map[string]any{}
	err := json.NewDecoder(r.Body).Decode(&payload)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return payload, nil
}
