// Package api exposes the estimation workflows over a small JSON HTTP
// surface. It contains no algorithmic logic; every computation is delegated
// to the app service and the engines.
package api

import (
	"log/slog"

	"godiv/app"
	"godiv/ports"

	"github.com/gin-gonic/gin"
)

// Server wires the HTTP handlers to the diversity service and an optional
// fit store.
type Server struct {
	service *app.DiversityService
	store   ports.FitStore // nil disables persistence endpoints
	log     *slog.Logger
}

// NewServer creates a server. store may be nil.
func NewServer(service *app.DiversityService, store ports.FitStore, log *slog.Logger) *Server {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Server{service: service, store: store, log: log}
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	api := r.Group("/api")
	{
		api.POST("/rarefy", s.handleRarefy)
		api.POST("/fit/ssm", s.handleFitSSM)
		api.POST("/fit/sdm", s.handleFitSDM)
		api.POST("/analyze", s.handleAnalyze)
		if s.store != nil {
			api.GET("/reports", s.handleListReports)
			api.GET("/reports/:id", s.handleGetReport)
		}
	}
	return r
}
