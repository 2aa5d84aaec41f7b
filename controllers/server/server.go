package server

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"transport-requests/types"
)

// ServerController exposes operational endpoints
type ServerController struct {
	DB *gorm.DB
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{DB: db}
}

// Health reports process and database liveness
func (sc *ServerController) Health(c *fiber.Ctx) error {
	dbStatus := "up"
	sqlDB, err := sc.DB.DB()
	if err != nil || sqlDB.Ping() != nil {
		dbStatus = "down"
	}

	status := fiber.StatusOK
	if dbStatus == "down" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(types.ApiResponse{
		Message: "Health check",
		Status:  status,
		Data: fiber.Map{
			"database":  dbStatus,
			"timestamp": time.Now().UTC(),
		},
	})
}
