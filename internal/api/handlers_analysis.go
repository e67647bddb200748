package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/witherow/biostack/internal/services"
)

type previewInput struct {
	Items []previewItem `json:"items"`
}

type previewItem struct {
	SupplementID uint    `json:"supplement_id"`
	Dosage       float64 `json:"dosage"`
	Unit         string  `json:"unit"`
}

// PreviewAnalysis evaluates a hypothetical supplement set without logging
// anything. Fewer than two items is a valid request with an empty result.
func (handler *Handler) PreviewAnalysis(c *fiber.Ctx) error {
	var input previewInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}

	inputs := make([]services.DosageInput, 0, len(input.Items))
	for _, item := range input.Items {
		if item.SupplementID == 0 {
			return apiError(c, fiber.StatusBadRequest, "supplement_id required")
		}
		if item.Dosage < 0 {
			return apiError(c, fiber.StatusBadRequest, "dosage must not be negative")
		}
		inputs = append(inputs, services.DosageInput{
			SupplementID: item.SupplementID,
			Dosage:       item.Dosage,
			Unit:         item.Unit,
		})
	}

	outcome, err := handler.analysis.Preview(c.UserContext(), callerIdentity(c), inputs)
	if err != nil {
		handler.logger.Printf("preview analysis failed: %v", err)
		return apiError(c, fiber.StatusInternalServerError, "failed to evaluate set")
	}
	return c.JSON(outcome)
}
