package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func (handler *Handler) GetSupplements(c *fiber.Ctx) error {
	supplements, err := handler.repos.Supplements.List(c.UserContext())
	if err != nil {
		handler.logger.Printf("list supplements failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load supplements")
	}
	return c.JSON(fiber.Map{"supplements": supplements})
}

func (handler *Handler) GetSupplement(c *fiber.Ctx) error {
	supplementID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid supplement id")
	}

	supplement, err := handler.repos.Supplements.FindByID(c.UserContext(), supplementID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusNotFound, "supplement not found")
		}
		handler.logger.Printf("find supplement failed id=%d: %v", supplementID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load supplement")
	}
	return c.JSON(supplement)
}
