package handler

import (
	"net/http"

	"github.com/BinaryNexusLab/real-estate/internal/config"
	"github.com/BinaryNexusLab/real-estate/internal/middleware"
	"github.com/gorilla/mux"
)

// Router wires every endpoint. Client and property routes need a bearer
// token; registration, login and share links are public.
func (h *Handler) Router(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(h.log))
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})

	// Public routes
	r.HandleFunc("/register", h.Register).Methods("POST")
	r.HandleFunc("/login", h.Login).Methods("POST")
	r.HandleFunc("/shared/{token}", h.Shared).Methods("GET")

	// Protected routes
	authRouter := r.PathPrefix("/").Subrouter()
	authRouter.Use(middleware.AuthMiddleware(cfg))

	authRouter.HandleFunc("/clients", h.ListClients).Methods("GET")
	authRouter.HandleFunc("/clients", h.CreateClient).Methods("POST")
	authRouter.HandleFunc("/clients/{id}", h.GetClient).Methods("GET")
	authRouter.HandleFunc("/clients/{id}", h.UpdateClient).Methods("PUT")
	authRouter.HandleFunc("/clients/{id}", h.DeleteClient).Methods("DELETE")
	authRouter.HandleFunc("/clients/{id}/search", h.SearchForClient).Methods("GET")

	const listing = "/clients/{id}/properties/{propertyId}"
	authRouter.HandleFunc(listing, h.AnalyzeForClient).Methods("GET")
	authRouter.HandleFunc(listing+"/projection", h.ProjectionForClient).Methods("GET")
	authRouter.HandleFunc(listing+"/report", h.Report).Methods("GET")
	authRouter.HandleFunc(listing+"/report/email", h.EmailReport).Methods("POST")
	authRouter.HandleFunc(listing+"/share", h.Share).Methods("POST")

	authRouter.HandleFunc("/properties", h.ListProperties).Methods("GET")
	authRouter.HandleFunc("/properties/exceptional", h.Exceptional).Methods("GET")
	authRouter.HandleFunc("/properties/{id}", h.GetProperty).Methods("GET")
	authRouter.HandleFunc("/market-rate", h.MarketRate).Methods("GET")

	return r
}
