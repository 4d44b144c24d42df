package server

import (
	"github.com/nfrund/denote/internal/middleware"
)

// RegisterRoutes sets up the registry API and the profile pages.
func (s *Server) RegisterRoutes() {
	rateLimiter := middleware.RateLimiter(s.Cfg.GetRateLimit())

	s.E.GET("/", s.handler.Usage)
	s.E.POST("/", s.handler.Claim, rateLimiter)
	s.E.DELETE("/", s.handler.Remove, rateLimiter)

	s.E.GET("/:name", s.handler.Page)
	s.E.GET("/:name/*", s.handler.Page)
}
