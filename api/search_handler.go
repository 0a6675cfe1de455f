package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apisearch "github.com/lecternhq/lectern/api/search"
)

// handleSearchEndpoint handles GET /v1/search requests.
// Query parameters:
//   - query (required): the search query text
//   - top_k (optional): number of chunks to retrieve
//   - top_sources (optional): number of distinct sources to report
func (s *Server) handleSearchEndpoint(c *fiber.Ctx) error {
	// Verify search is configured
	if s.config.Index == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "search is not configured: index is required",
		})
	}

	query := c.Query("query")
	if query == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "query parameter is required",
		})
	}

	topK := s.config.TopK
	if topKStr := c.Query("top_k"); topKStr != "" {
		parsed, err := strconv.Atoi(topKStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_k must be a positive integer",
			})
		}
		topK = parsed
	}

	topSources := s.config.TopSources
	if topSourcesStr := c.Query("top_sources"); topSourcesStr != "" {
		parsed, err := strconv.Atoi(topSourcesStr)
		if err != nil || parsed <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "top_sources must be a positive integer",
			})
		}
		topSources = parsed
	}

	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	output, err := apisearch.Search(
		c.Context(),
		query,
		topK,
		topSources,
		s.config.Index,
		logger,
	)
	if err != nil {
		logger.Error("search failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(output)
}
