package api

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) GetTimeline(c *fiber.Ctx) error {
	view, err := handler.timeline.BuildView(c.UserContext(), callerIdentity(c), time.Now().In(handler.location))
	if err != nil {
		handler.logger.Printf("build timeline failed user=%d: %v", currentUser(c).ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to build timeline")
	}
	return c.JSON(view)
}
