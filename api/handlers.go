package api

import (
	"github.com/gofiber/fiber/v2"
)

// ErrorResponse is the JSON error body returned by every endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatsResponse describes the indexed corpus.
type StatsResponse struct {
	// Chunks is the number of embedded chunks in the collection.
	Chunks int `json:"chunks"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleStats returns statistics about the indexed corpus.
func (s *Server) handleStats(c *fiber.Ctx) error {
	if s.config.Index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "index is not configured",
		})
	}

	count, err := s.config.Index.Count(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "failed to count chunks",
		})
	}

	return c.JSON(StatsResponse{Chunks: count})
}
