package http

import (
	"net/http"

	"github.com/go-openapi/runtime/middleware"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/hashicorp/go-hclog"
	orderapi "github.com/kahvecikaan/order-api"
	websocketTransport "github.com/kahvecikaan/order-api/internal/transport/websocket"
)

func NewRouter(
	ph *ProductHandler,
	uh *UserHandler,
	oh *OrderHandler,
	wsh *websocketTransport.Handler,
	logger hclog.Logger,
) http.Handler {
	router := mux.NewRouter()

	mw := NewMiddleware(logger)
	router.Use(mw.Logging)
	router.Use(mw.SecureHeaders)

	router.HandleFunc("/products", ph.CreateProduct).Methods("POST")
	router.HandleFunc("/products", ph.GetProducts).Methods("GET")
	router.HandleFunc("/products/{id}", ph.GetProduct).Methods("GET")
	router.HandleFunc("/products/{id}", ph.UpdateProduct).Methods("PUT")
	router.HandleFunc("/products/{id}", ph.DeleteProduct).Methods("DELETE")

	router.HandleFunc("/users", uh.CreateUser).Methods("POST")
	router.HandleFunc("/users", uh.GetUsers).Methods("GET")
	router.HandleFunc("/users/{id}", uh.GetUser).Methods("GET")
	router.HandleFunc("/users/{id}", uh.UpdateUser).Methods("PUT")
	router.HandleFunc("/users/{id}", uh.DeleteUser).Methods("DELETE")

	router.HandleFunc("/orders", oh.CreateOrder).Methods("POST")
	router.HandleFunc("/orders", oh.GetOrders).Methods("GET")
	router.HandleFunc("/orders/{id}", oh.GetOrder).Methods("GET")
	router.HandleFunc("/orders/{id}", oh.UpdateOrder).Methods("PUT")
	router.HandleFunc("/orders/{id}", oh.DeleteOrder).Methods("DELETE")

	router.HandleFunc("/ws", wsh.HandleWebSocket).Methods("GET")

	// Serve the OpenAPI document and the Redoc UI on top of it. The yaml is
	// embedded at build time so the routes work outside the source tree.
	router.HandleFunc("/swagger.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		w.Write(orderapi.SwaggerYAML)
	}).Methods("GET")

	swaggerOpts := middleware.RedocOpts{SpecURL: "/swagger.yaml"}
	router.Handle("/docs", middleware.Redoc(swaggerOpts, nil)).Methods("GET")

	recovery := handlers.RecoveryHandler(
		handlers.RecoveryLogger(logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})),
	)
	return recovery(router)
}
