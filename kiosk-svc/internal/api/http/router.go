package httpapi

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter mounts the session API, the live snapshot socket and, when
// frontendDir is set, the static kiosk frontend.
func NewRouter(handler *Handler, hub *SnapshotHub, frontendDir string) http.Handler {
	r := mux.NewRouter()
	handler.RegisterRoutes(r)
	if hub != nil {
		r.HandleFunc("/ws/session", hub.ServeWS).Methods("GET")
	}
	if frontendDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(frontendDir)))
	}

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	}).Handler(r)
}

func NewServer(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
}
