package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantpoints/plant-points/internal/core/services"
)

type PlantHandler struct {
	svc *services.PlantService
}

func NewPlantHandler(svc *services.PlantService) *PlantHandler {
	return &PlantHandler{
		svc: svc,
	}
}

func (h *PlantHandler) RegisterRoutes(router *gin.RouterGroup) {
	plants := router.Group("/plants")
	{
		plants.GET("", h.List)
		plants.GET("/grouped", h.Grouped)
	}
}

func (h *PlantHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *PlantHandler) Grouped(c *gin.Context) {
	grouped, err := h.svc.GroupedByCategory(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, grouped)
}
