package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/skillforge/skillforge-api/internal/service"
	"github.com/skillforge/skillforge-api/internal/utils"
)

// ChallengeHandler exposes the challenge catalogue endpoints.
type ChallengeHandler struct {
	service service.ChallengeService
	logger  zerolog.Logger
}

// NewChallengeHandler constructs the handler.
func NewChallengeHandler(service service.ChallengeService, logger zerolog.Logger) *ChallengeHandler {
	return &ChallengeHandler{
		service: service,
		logger:  logger.With().Str("component", "challenge_handler").Logger(),
	}
}

// Register wires the handler endpoints into the router group.
func (h *ChallengeHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *ChallengeHandler) list(c *fiber.Ctx) error {
	response, err := h.service.List(c.Context(), c.Query("category"))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list challenges")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "challenges retrieved", response)
}

func (h *ChallengeHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid challenge id")
	}

	response, err := h.service.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrChallengeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, err.Error())
		}
		h.logger.Error().Err(err).Msg("failed to get challenge")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "challenge retrieved", response)
}
