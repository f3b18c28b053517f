package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantpoints/plant-points/internal/adapters/handler/http/middleware"
	"github.com/plantpoints/plant-points/internal/core/domain"
	"github.com/plantpoints/plant-points/internal/core/services"
)

type ProgressHandler struct {
	svc *services.ProgressService
}

func NewProgressHandler(svc *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		svc: svc,
	}
}

type logPlantRequest struct {
	PlantID      string `json:"plant_id" binding:"required"`
	PointsEarned int    `json:"points_earned"`
}

func (h *ProgressHandler) RegisterRoutes(router *gin.RouterGroup) {
	progress := router.Group("/progress")
	{
		progress.GET("", h.Get)
		progress.GET("/daily", h.Daily)
		progress.POST("/plants", h.LogPlant)
		progress.DELETE("/plants/:plantId", h.RemovePlant)
	}
}

func (h *ProgressHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	progress, err := h.svc.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, progress)
}

func (h *ProgressHandler) Daily(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	days, err := h.svc.Daily(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"days": days})
}

func (h *ProgressHandler) LogPlant(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req logPlantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.svc.Log(c.Request.Context(), userID, req.PlantID, req.PointsEarned)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPlantNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "plant not found"})
		case errors.Is(err, domain.ErrNotAuthenticated):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.Status(http.StatusCreated)
}

// RemovePlant drops every occurrence of the plant this week. Removing a plant
// that was never logged is a no-op, so this always answers 204 unless the
// store itself fails.
func (h *ProgressHandler) RemovePlant(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	plantID := c.Param("plantId")

	if err := h.svc.Remove(c.Request.Context(), userID, plantID); err != nil {
		if errors.Is(err, domain.ErrNotAuthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}
