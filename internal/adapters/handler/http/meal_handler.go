package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/plantpoints/plant-points/internal/adapters/handler/http/middleware"
	"github.com/plantpoints/plant-points/internal/core/domain"
	"github.com/plantpoints/plant-points/internal/core/services"
)

type MealHandler struct {
	svc      *services.MealService
	progress *services.ProgressService
}

func NewMealHandler(svc *services.MealService, progress *services.ProgressService) *MealHandler {
	return &MealHandler{
		svc:      svc,
		progress: progress,
	}
}

type mealRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	Emoji       string   `json:"emoji"`
	PlantIDs    []string `json:"plant_ids"`
}

func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup) {
	meals := router.Group("/meals")
	{
		meals.GET("", h.List)
		meals.POST("", h.Create)
		meals.PUT("/:id", h.Update)
		meals.DELETE("/:id", h.Delete)
		meals.POST("/:id/log", h.Log)
	}
}

func (h *MealHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	list, err := h.svc.ListByUserID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, list)
}

func (h *MealHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.CreateMealInput{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
		PlantIDs:    req.PlantIDs,
	}

	meal, err := h.svc.Create(c.Request.Context(), input)
	if err != nil {
		if isMealValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrPlantNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plant in meal"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, meal)
}

func (h *MealHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	var req mealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateMealInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Emoji:       req.Emoji,
		PlantIDs:    req.PlantIDs,
	}

	meal, err := h.svc.Update(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		if isMealValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, domain.ErrPlantNotFound) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown plant in meal"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, meal)
}

func (h *MealHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

// Log records every plant of the meal as eaten now.
func (h *MealHandler) Log(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "user context missing"})
		return
	}

	logged, err := h.progress.LogMeal(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrMealNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "meal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"logged_plants": logged})
}

func isMealValidationError(err error) bool {
	return errors.Is(err, domain.ErrMealNameEmpty) ||
		errors.Is(err, domain.ErrMealNameTooLong) ||
		errors.Is(err, domain.ErrMealDescTooLong)
}
