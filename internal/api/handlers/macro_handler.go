package handlers

import (
	"SimpleMacro-Backend/domain"
	"SimpleMacro-Backend/internal/api/presenters"
	"SimpleMacro-Backend/pkg/macro"
	"context"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	MacroHandler interface {
		AddEntry(c *fiber.Ctx) error
		UpdateEntry(c *fiber.Ctx) error
		DeleteEntry(c *fiber.Ctx) error
		GetEntries(c *fiber.Ctx) error
		GetDailySummary(c *fiber.Ctx) error
		GetRangeSummary(c *fiber.Ctx) error
		GetRecentEntries(c *fiber.Ctx) error
		WatchDailySummary(c *fiber.Ctx) error
		WatchEntries(c *fiber.Ctx) error
		WatchRangeSummary(c *fiber.Ctx) error
		WatchRecentEntries(c *fiber.Ctx) error
	}

	macroHandler struct {
		macroService macro.MacroService
		validator    *validator.Validate
	}
)

func NewMacroHandler(macroService macro.MacroService, validator *validator.Validate) MacroHandler {
	return &macroHandler{
		macroService: macroService,
		validator:    validator,
	}
}

func (h *macroHandler) AddEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	req := new(domain.AddEntryRequest)

	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddEntry, err)
	}

	res, err := h.macroService.AddEntry(c.Context(), userID, *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedAddEntry, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusCreated, domain.MessageSuccessAddEntry)
}

func (h *macroHandler) UpdateEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateEntry, domain.ErrEntryNotFound)
	}

	req := new(domain.UpdateEntryRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateEntry, err)
	}

	res, err := h.macroService.UpdateEntry(c.Context(), userID, uint(entryID), *req)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedUpdateEntry, err)
	}

	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessUpdateEntry)
}

func (h *macroHandler) DeleteEntry(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	entryID, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteEntry, domain.ErrEntryNotFound)
	}

	if err := h.macroService.DeleteEntry(c.Context(), userID, uint(entryID)); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedDeleteEntry, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessDeleteEntry)
}

func (h *macroHandler) GetEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	date := c.Query("date", time.Now().Format("2006-01-02"))

	entries, err := h.macroService.GetEntriesForDate(c.Context(), userID, date)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEntries, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"date":    date,
		"entries": entries,
	}, fiber.StatusOK, domain.MessageSuccessGetEntries)
}

func (h *macroHandler) GetDailySummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	date := c.Query("date", time.Now().Format("2006-01-02"))

	summary, err := h.macroService.GetDailySummary(c.Context(), userID, date)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDailySummary, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, domain.MessageSuccessGetDailySummary)
}

func (h *macroHandler) GetRangeSummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	startDate := c.Query("start")
	endDate := c.Query("end")

	summary, err := h.macroService.GetRangeSummary(c.Context(), userID, startDate, endDate)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRangeSummary, err)
	}

	return presenters.SuccessResponse(c, summary, fiber.StatusOK, domain.MessageSuccessGetRangeSummary)
}

func (h *macroHandler) GetRecentEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(macro.DefaultRecentLimit)))
	if err != nil || limit < 1 {
		limit = macro.DefaultRecentLimit
	}

	entries, err := h.macroService.GetRecentEntries(c.Context(), userID, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecent, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{"entries": entries}, fiber.StatusOK, domain.MessageSuccessGetRecent)
}

// WatchDailySummary streams the live daily summary as server-sent events.
func (h *macroHandler) WatchDailySummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	date := c.Query("date", time.Now().Format("2006-01-02"))

	ctx, cancel := context.WithCancel(context.Background())
	summaries, err := h.macroService.WatchDailySummary(ctx, userID, date)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetDailySummary, err)
	}

	return streamEvents(c, cancel, summaries)
}

// WatchEntries streams the live entry list for one date.
func (h *macroHandler) WatchEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	date := c.Query("date", time.Now().Format("2006-01-02"))

	ctx, cancel := context.WithCancel(context.Background())
	entries, err := h.macroService.WatchEntriesForDate(ctx, userID, date)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetEntries, err)
	}

	return streamEvents(c, cancel, entries)
}

// WatchRangeSummary streams the live per-day summaries for a date range.
func (h *macroHandler) WatchRangeSummary(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)
	startDate := c.Query("start")
	endDate := c.Query("end")

	ctx, cancel := context.WithCancel(context.Background())
	summaries, err := h.macroService.WatchRangeSummary(ctx, userID, startDate, endDate)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRangeSummary, err)
	}

	return streamEvents(c, cancel, summaries)
}

// WatchRecentEntries streams the live most-recently-logged entries.
func (h *macroHandler) WatchRecentEntries(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(uint)

	limit, err := strconv.Atoi(c.Query("limit", strconv.Itoa(macro.DefaultRecentLimit)))
	if err != nil || limit < 1 {
		limit = macro.DefaultRecentLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	entries, err := h.macroService.WatchRecentEntries(ctx, userID, limit)
	if err != nil {
		cancel()
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetRecent, err)
	}

	return streamEvents(c, cancel, entries)
}
