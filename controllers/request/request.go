package request

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"transport-requests/errs"
	"transport-requests/logger"
	"transport-requests/middleware"
	requestModel "transport-requests/models/request"
	"transport-requests/services/authz"
	requestService "transport-requests/services/request"
	statsService "transport-requests/services/stats"
	"transport-requests/types"
	requestTypes "transport-requests/types/request"
)

// RequestController handles the transport request HTTP surface
type RequestController struct {
	Service *requestService.Service
	Stats   *statsService.Service
	Logger  *logger.AsyncLogger
}

// NewRequestController creates a new request controller
func NewRequestController(service *requestService.Service, stats *statsService.Service, asyncLogger *logger.AsyncLogger) *RequestController {
	return &RequestController{
		Service: service,
		Stats:   stats,
		Logger:  asyncLogger,
	}
}

// Helper function to log API requests and responses
func (rc *RequestController) logAPIRequest(c *fiber.Ctx, start time.Time) {
	var callerID *uint
	if id, ok := middleware.CallerID(c); ok {
		callerID = &id
	}
	rc.Logger.Log(types.LogEntry{
		Method:     c.Method(),
		Path:       c.OriginalURL(),
		CallerID:   callerID,
		CallerRole: middleware.CallerRole(c),
		StatusCode: c.Response().StatusCode(),
		LatencyMs:  time.Since(start).Milliseconds(),
		CreatedAt:  time.Now(),
	})
}

// Helper function to send response and log in one call
func (rc *RequestController) sendResponseWithLog(c *fiber.Ctx, start time.Time, status int, response types.ApiResponse) error {
	result := c.Status(status).JSON(response)
	rc.logAPIRequest(c, start)
	return result
}

// Helper function to translate service errors into the response envelope
func (rc *RequestController) sendErrorWithLog(c *fiber.Ctx, start time.Time, err error) error {
	status := errs.HTTPStatus(err)
	response := types.ApiResponse{
		Message: err.Error(),
		Status:  status,
	}
	if violations := errs.ValidationDetails(err); violations != nil {
		response.Errors = violations
	}
	if status == fiber.StatusInternalServerError {
		logger.Error("Request handling failed", err)
		response.Message = "Internal server error"
	}
	return rc.sendResponseWithLog(c, start, status, response)
}

func parseIDParam(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// Store creates a new transport request owned by the caller
func (rc *RequestController) Store(c *fiber.Ctx) error {
	start := time.Now()

	var req requestTypes.CreateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	created, err := rc.Service.Create(req, callerID)
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusCreated, types.ApiResponse{
		Message: "Transport request created successfully",
		Status:  fiber.StatusCreated,
		Data:    created,
	})
}

// Index lists requests. Admins see everything, clients see their own, and the
// status and mission_id query filters are open to providers and admins.
func (rc *RequestController) Index(c *fiber.Ctx) error {
	start := time.Now()

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}
	role := middleware.CallerRole(c)

	var (
		requests []requestModel.TransportRequest
		err      error
	)
	switch {
	case c.Query("status") != "":
		requests, err = rc.Service.ListByStatus(role, requestModel.ValidationStatus(c.Query("status")))
	case c.Query("mission_id") != "":
		missionID, parseErr := strconv.ParseUint(c.Query("mission_id"), 10, 32)
		if parseErr != nil {
			return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
				Message: "mission_id must be a positive integer",
				Status:  fiber.StatusBadRequest,
			})
		}
		requests, err = rc.Service.ListByMission(role, uint(missionID))
	case authz.CanListAll(role):
		requests, err = rc.Service.ListAll(role)
	default:
		requests, err = rc.Service.ListByClient(callerID)
	}
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Transport requests retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    requests,
	})
}

// StatsDashboard returns the admin pipeline overview
func (rc *RequestController) StatsDashboard(c *fiber.Ctx) error {
	start := time.Now()

	if !authz.CanViewStats(middleware.CallerRole(c)) {
		return rc.sendResponseWithLog(c, start, fiber.StatusForbidden, types.ApiResponse{
			Message: "Only admins may view request statistics",
			Status:  fiber.StatusForbidden,
		})
	}

	dashboard, err := rc.Stats.Snapshot()
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Request statistics retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    dashboard,
	})
}

// Show returns a single request when the caller may see it
func (rc *RequestController) Show(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	req, err := rc.Service.GetByID(id, callerID, middleware.CallerRole(c))
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Transport request retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    req,
	})
}

// Validate confirms the request on behalf of its owner
func (rc *RequestController) Validate(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	req, err := rc.Service.Validate(id, callerID)
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Transport request validated successfully",
		Status:  fiber.StatusOK,
		Data:    req,
	})
}

// Cancel moves the request to ANNULEE
func (rc *RequestController) Cancel(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	req, err := rc.Service.Cancel(id, callerID, middleware.CallerRole(c))
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Transport request cancelled successfully",
		Status:  fiber.StatusOK,
		Data:    req,
	})
}

// Associate links the request to a dispatch mission
func (rc *RequestController) Associate(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req requestTypes.AssociationRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}

	updated, err := rc.Service.Associate(id, req)
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Transport request associated successfully",
		Status:  fiber.StatusOK,
		Data:    updated,
	})
}

// UpdatePaymentStatus applies the payment service webhook. The payment
// service authenticates at the network level, not with user tokens.
func (rc *RequestController) UpdatePaymentStatus(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	var req requestTypes.PaymentStatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request body",
			Status:  fiber.StatusBadRequest,
		})
	}
	if err := req.Validate(); err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	updated, err := rc.Service.UpdatePaymentStatus(id, req.NewStatus)
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Payment status updated successfully",
		Status:  fiber.StatusOK,
		Data:    updated,
	})
}

// OwnerProfile returns the request owner's profile from the user service
func (rc *RequestController) OwnerProfile(c *fiber.Ctx) error {
	start := time.Now()

	id, ok := parseIDParam(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusBadRequest, types.ApiResponse{
			Message: "Invalid request id",
			Status:  fiber.StatusBadRequest,
		})
	}

	callerID, ok := middleware.CallerID(c)
	if !ok {
		return rc.sendResponseWithLog(c, start, fiber.StatusUnauthorized, types.ApiResponse{
			Message: "Invalid user claims",
			Status:  fiber.StatusUnauthorized,
		})
	}

	profile, err := rc.Service.FetchOwnerProfile(id, callerID, middleware.CallerRole(c), middleware.BearerToken(c))
	if err != nil {
		return rc.sendErrorWithLog(c, start, err)
	}

	return rc.sendResponseWithLog(c, start, fiber.StatusOK, types.ApiResponse{
		Message: "Owner profile retrieved successfully",
		Status:  fiber.StatusOK,
		Data:    profile,
	})
}
