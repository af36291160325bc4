package api

import (
	"journey-route-service/internal/api/handlers"
	"journey-route-service/internal/ports"
	"journey-route-service/internal/services"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

type RouterDeps struct {
	Sessions *services.SessionRegistry
	// Repo is optional; stored journeys answer 503 without it.
	Repo    ports.JourneyRepository
	Metrics http.Handler
}

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
func NewRouter(deps RouterDeps) http.Handler {
	router := httprouter.New()

	routeHandler := &handlers.RouteHandler{Sessions: deps.Sessions}
	journeyHandler := &handlers.JourneyHandler{Sessions: deps.Sessions, Repo: deps.Repo}

	router.HandlerFunc(http.MethodGet, "/health", handlers.Health)
	router.HandlerFunc(http.MethodPost, "/routes", routeHandler.Resolve)
	router.HandlerFunc(http.MethodGet, "/journeys/:id/route", journeyHandler.Route)
	if deps.Metrics != nil {
		router.Handler(http.MethodGet, "/metrics", deps.Metrics)
	}

	router.MethodNotAllowed = http.HandlerFunc(handlers.MethodNotAllowed)
	router.NotFound = http.HandlerFunc(handlers.NotFound)

	return requestIDMiddleware(loggingMiddleware(router))
}
