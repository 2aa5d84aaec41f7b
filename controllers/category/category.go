package category

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"transport-requests/errs"
	"transport-requests/logger"
	"transport-requests/middleware"
	"transport-requests/services/categorysuggest"
	"transport-requests/store"
	"transport-requests/types"
	categoryTypes "transport-requests/types/category"
)

// CategoryController serves the cargo category catalog
type CategoryController struct {
	Store      *store.CategoryStore
	Suggestion *categorysuggest.Service
	Logger     *logger.AsyncLogger
}

// NewCategoryController creates a new category controller
func NewCategoryController(categoryStore *store.CategoryStore, suggestion *categorysuggest.Service, asyncLogger *logger.AsyncLogger) *CategoryController {
	return &CategoryController{
		Store:      categoryStore,
		Suggestion: suggestion,
		Logger:     asyncLogger,
	}
}

func (cc *CategoryController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	var callerID *uint
	if id, ok := middleware.CallerID(c); ok {
		callerID = &id
	}
	cc.Logger.Log(types.LogEntry{
		Method:     c.Method(),
		Path:       c.OriginalURL(),
		CallerID:   callerID,
		CallerRole: middleware.CallerRole(c),
		StatusCode: c.Response().StatusCode(),
		LatencyMs:  time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	})
}

func (cc *CategoryController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	cc.logAPIRequest(c, start)
	return result
}

// Index lists all seeded categories
func (cc *CategoryController) Index(c *fiber.Ctx) error {
	start := time.Now()

	categories, err := cc.Store.FindAll()
	if err != nil {
		logger.Error("Failed to list categories", err)
		return cc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
		})
	}

	return cc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Categories retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    categories,
	})
}

// Show returns one category by id
func (cc *CategoryController) Show(c *fiber.Ctx) error {
	start := time.Now()

	id := c.Params("id")
	cat, found, err := cc.Store.FindByID(id)
	if err != nil {
		logger.Error("Failed to load category", err)
		return cc.sendResponseWithLog(c, start, fiber.StatusInternalServerError, types.ApiResponse{
			Message: "Internal server error",
			Status:  fiber.StatusInternalServerError,
		})
	}
	if !found {
		return cc.sendResponseWithLog(c, start, fiber.StatusNotFound, types.ApiResponse{
			Message: "Category not found",
			Status:  fiber.StatusNotFound,
		})
	}

	return cc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Category retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    cat,
	})
}

// Suggest classifies a free-text cargo description against the catalog
func (cc *CategoryController) Suggest(c *fiber.Ctx) error {
	start := time.Now()

	var req categoryTypes.SuggestionRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return cc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return cc.sendResponseWithLog(c, start, errs.HTTPStatus(err), types.ApiResponse{
			Message: err.Error(),
			Status:  errs.HTTPStatus(err),
			Errors:  errs.ValidationDetails(err),
		})
	}

	if !cc.Suggestion.Enabled() {
		return cc.sendResponseWithLog(c, start, fiber.StatusServiceUnavailable, types.ApiResponse{
			Message: "Category suggestion is not configured",
			Status:  fiber.StatusServiceUnavailable,
		})
	}

	suggestion, err := cc.Suggestion.Suggest(c.UserContext(), req.Description)
	if err != nil {
		logger.Error("Category suggestion failed", err)
		return cc.sendResponseWithLog(c, start, fiber.StatusBadGateway, types.ApiResponse{
			Message: "Category suggestion failed",
			Status:  fiber.StatusBadGateway,
		})
	}

	return cc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Category suggestion generated successfully",
		Status:  fiber.StatusOK,
		Data:    suggestion,
	})
}
