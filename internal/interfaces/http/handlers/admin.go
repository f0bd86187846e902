// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"context"
	"net/http"

	"github.com/estim-games/estim-api/internal/infrastructure/database/postgres"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Seeder loads sample data and reports on tables
type Seeder interface {
	SeedGames(ctx context.Context) (int, error)
	GetTableInfo() ([]postgres.TableInfo, error)
}

// AdminHandler handles admin-only maintenance endpoints
type AdminHandler struct {
	seeder Seeder
	logger logrus.FieldLogger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(seeder Seeder, logger logrus.FieldLogger) *AdminHandler {
	return &AdminHandler{
		seeder: seeder,
		logger: logger,
	}
}

// SeedData handles POST /admin/seed-data
func (h *AdminHandler) SeedData(c *gin.Context) {
	created, err := h.seeder.SeedGames(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to seed games")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to seed data",
		})
		return
	}

	message := "Sample games created successfully"
	if created == 0 {
		message = "Games already exist, nothing seeded"
	}

	c.JSON(http.StatusOK, gin.H{
		"message": message,
		"data":    gin.H{"games_created": created},
	})
}

// Tables handles GET /admin/tables
func (h *AdminHandler) Tables(c *gin.Context) {
	tables, err := h.seeder.GetTableInfo()
	if err != nil {
		h.logger.WithError(err).Error("Failed to read table info")
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to read table info",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Tables retrieved successfully",
		"data":    tables,
	})
}
