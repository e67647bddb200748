package api

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/witherow/biostack/internal/models"
)

type createLogInput struct {
	SupplementID uint    `json:"supplement_id"`
	Dosage       float64 `json:"dosage"`
	Unit         string  `json:"unit"`
	LoggedAt     string  `json:"logged_at"`
}

var knownUnits = map[string]bool{
	models.UnitMilligram: true,
	models.UnitMicrogram: true,
	models.UnitIU:        true,
	models.UnitGram:      true,
}

func (handler *Handler) GetLogs(c *fiber.Ctx) error {
	user := currentUser(c)

	// Defaults to the current day; from/to accept YYYY-MM-DD and select the
	// half-open range [from, to+1d).
	now := time.Now().In(handler.location)
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, handler.location)
	to := from.AddDate(0, 0, 1)
	if raw := strings.TrimSpace(c.Query("from")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid from, expected YYYY-MM-DD")
		}
		from = parsed
		to = from.AddDate(0, 0, 1)
	}
	if raw := strings.TrimSpace(c.Query("to")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, handler.location)
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid to, expected YYYY-MM-DD")
		}
		to = parsed.AddDate(0, 0, 1)
	}
	if !to.After(from) {
		return apiError(c, fiber.StatusBadRequest, "to must not precede from")
	}

	entries, err := handler.repos.LogEntries.ListByUserRange(c.UserContext(), user.ID, from, to)
	if err != nil {
		handler.logger.Printf("list logs failed user=%d: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to load logs")
	}
	return c.JSON(fiber.Map{"logs": entries})
}

// CreateLog persists the entry first, then evaluates it. A failed local
// evaluation never rolls the entry back; the response carries
// analysis_error instead of warnings so the client can retry the check.
func (handler *Handler) CreateLog(c *fiber.Ctx) error {
	user := currentUser(c)

	var input createLogInput
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, "invalid input")
	}
	if input.SupplementID == 0 {
		return apiError(c, fiber.StatusBadRequest, "supplement_id required")
	}
	if input.Dosage <= 0 {
		return apiError(c, fiber.StatusBadRequest, "dosage must be positive")
	}
	unit := strings.ToLower(strings.TrimSpace(input.Unit))
	if unit == "" {
		unit = models.UnitMilligram
	}
	if !knownUnits[unit] {
		return apiError(c, fiber.StatusBadRequest, "unknown unit")
	}

	loggedAt := time.Now().In(handler.location)
	if strings.TrimSpace(input.LoggedAt) != "" {
		parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(input.LoggedAt))
		if err != nil {
			return apiError(c, fiber.StatusBadRequest, "invalid logged_at, expected RFC3339")
		}
		loggedAt = parsed.In(handler.location)
	}

	if _, err := handler.repos.Supplements.FindByID(c.UserContext(), input.SupplementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apiError(c, fiber.StatusBadRequest, "unknown supplement")
		}
		handler.logger.Printf("find supplement failed id=%d: %v", input.SupplementID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create log")
	}

	entry := models.LogEntry{
		UserID:       user.ID,
		SupplementID: input.SupplementID,
		Dosage:       input.Dosage,
		Unit:         unit,
		LoggedAt:     loggedAt,
	}
	if err := handler.repos.LogEntries.Create(c.UserContext(), &entry); err != nil {
		handler.logger.Printf("create log failed user=%d: %v", user.ID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to create log")
	}

	result, err := handler.analysis.CheckNewLog(c.UserContext(), callerIdentity(c), entry)
	if err != nil {
		handler.logger.Printf("analysis failed user=%d log=%d: %v", user.ID, entry.ID, err)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"entry":          entry,
			"analysis_error": "analysis unavailable",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"entry":    entry,
		"analysis": result,
	})
}

func (handler *Handler) DeleteLog(c *fiber.Ctx) error {
	user := currentUser(c)
	entryID, ok := parseIDParam(c, "id")
	if !ok {
		return apiError(c, fiber.StatusBadRequest, "invalid log id")
	}

	_, found, err := handler.repos.LogEntries.FindByIDForUser(c.UserContext(), entryID, user.ID)
	if err != nil {
		handler.logger.Printf("find log failed user=%d log=%d: %v", user.ID, entryID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete log")
	}
	if !found {
		return apiError(c, fiber.StatusNotFound, "log not found")
	}

	if err := handler.repos.LogEntries.DeleteByIDForUser(c.UserContext(), entryID, user.ID); err != nil {
		handler.logger.Printf("delete log failed user=%d log=%d: %v", user.ID, entryID, err)
		return apiError(c, fiber.StatusInternalServerError, "failed to delete log")
	}
	return c.JSON(fiber.Map{"ok": true})
}
