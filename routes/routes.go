package routes

import (
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"transport-requests/constants"
	categoryController "transport-requests/controllers/category"
	requestController "transport-requests/controllers/request"
	serverController "transport-requests/controllers/server"
	"transport-requests/httpServices/matching"
	"transport-requests/httpServices/payments"
	"transport-requests/httpServices/pricing"
	"transport-requests/httpServices/routing"
	"transport-requests/httpServices/userprofile"
	"transport-requests/logger"
	"transport-requests/middleware"
	"transport-requests/services/categorysuggest"
	requestService "transport-requests/services/request"
	statsService "transport-requests/services/stats"
	"transport-requests/store"
)

// peerTimeout reads the shared outbound timeout for peer service calls.
func peerTimeout() time.Duration {
	seconds, err := strconv.Atoi(os.Getenv("PEER_TIMEOUT_SECONDS"))
	if err != nil || seconds <= 0 {
		seconds = 5
	}
	return time.Duration(seconds) * time.Second
}

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	timeout := peerTimeout()
	routingClient := routing.NewClient(os.Getenv("ROUTING_SERVICE_URL"), timeout)
	pricingClient := pricing.NewClient(os.Getenv("PRICING_SERVICE_URL"), timeout)
	matchingClient := matching.NewClient(os.Getenv("MATCHING_SERVICE_URL"), timeout)
	paymentsClient := payments.NewClient(os.Getenv("PAYMENTS_SERVICE_URL"), timeout)
	profileClient := userprofile.NewClient(os.Getenv("USER_SERVICE_URL"), timeout)

	requestStore := store.NewRequestStore(db)
	categoryStore := store.NewCategoryStore(db)

	requestSvc := requestService.NewService(
		requestStore,
		categoryStore,
		routingClient,
		pricingClient,
		matchingClient,
		paymentsClient,
		profileClient,
	)
	statsSvc := statsService.NewService(requestStore)
	suggestionSvc := categorysuggest.NewService(categoryStore)

	asyncLogger := logger.NewAsyncLogger(db)
	requestCtrl := requestController.NewRequestController(requestSvc, statsSvc, asyncLogger)
	categoryCtrl := categoryController.NewCategoryController(categoryStore, suggestionSvc, asyncLogger)
	serverCtrl := serverController.NewServerController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	app.Get("/health", serverCtrl.Health)

	api := app.Group("/api/v1")

	/*=============================================================================
	| Transport Request Routes
	===============================================================================*/
	requests := api.Group("/requests")

	// The payment service calls back without a user token.
	requests.Put("/:id/paiement", requestCtrl.UpdatePaymentStatus)

	requests.Use(middleware.RequireAuth())
	requests.Post("/", requestCtrl.Store)
	requests.Get("/", requestCtrl.Index)
	requests.Get("/stats", requestCtrl.StatsDashboard)
	requests.Get("/:id", requestCtrl.Show)
	requests.Put("/:id/validation", requestCtrl.Validate)
	requests.Put("/:id/cancellation", requestCtrl.Cancel)
	requests.Put("/:id/association", middleware.RequireRoles(
		constants.RoleAdmin,
		constants.RolePrestataire,
	), requestCtrl.Associate)
	requests.Get("/:id/owner-profile", requestCtrl.OwnerProfile)

	/*=============================================================================
	| Category Routes
	===============================================================================*/
	categories := api.Group("/categories").Use(middleware.RequireAuth())
	categories.Get("/", categoryCtrl.Index)
	categories.Post("/suggestion", categoryCtrl.Suggest)
	categories.Get("/:id", categoryCtrl.Show)
}
