package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	apisearch "github.com/lecternhq/lectern/api/search"
)

// handleAskEndpoint handles POST /v1/ask requests. The JSON body is an
// api/search.AskInput; top_k, top_sources, and model fall back to the
// server's configured defaults when omitted.
func (s *Server) handleAskEndpoint(c *fiber.Ctx) error {
	if s.config.Index == nil || s.config.Chatter == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error: "ask is not configured: index and chat client are required",
		})
	}

	var input apisearch.AskInput
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	if input.Question == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "question is required",
		})
	}

	topK := input.TopK
	if topK <= 0 {
		topK = s.config.TopK
	}

	topSources := input.TopSources
	if topSources <= 0 {
		topSources = s.config.TopSources
	}

	model := input.Model
	if model == "" {
		model = s.config.ChatModel
	}

	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	output, err := apisearch.Ask(
		c.Context(),
		input.Question,
		topK,
		topSources,
		model,
		s.config.Index,
		s.config.Chatter,
		logger,
	)
	if err != nil {
		logger.Error("ask failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: err.Error(),
		})
	}

	return c.JSON(output)
}
