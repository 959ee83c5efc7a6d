package controllers

import (
	"net/http"
	"strconv"

	"github.com/maous26/lvmeal-sub008/services"

	"github.com/gin-gonic/gin"
)

type FoodController struct {
	ciqual  *services.CiqualService
	off     *services.OFFService
	recipes *services.RecipeService
}

func NewFoodController(ciqual *services.CiqualService, off *services.OFFService, recipes *services.RecipeService) *FoodController {
	return &FoodController{ciqual: ciqual, off: off, recipes: recipes}
}

func limitParam(c *gin.Context) int {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	return limit
}

// SearchFoods looks generic foods up in the nutrition table.
func (fc *FoodController) SearchFoods(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter required"})
		return
	}

	foods, err := fc.ciqual.LookupFood(c.Request.Context(), query, limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, foods)
}

// SearchProducts searches packaged products on Open Food Facts.
func (fc *FoodController) SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q parameter required"})
		return
	}

	products, err := fc.off.SearchProducts(c.Request.Context(), query, limitParam(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// Barcode resolves a scanned product.
func (fc *FoodController) Barcode(c *gin.Context) {
	product, err := fc.off.LookupBarcode(c.Request.Context(), c.Param("code"))
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

// SearchRecipes browses the recipe catalog.
func (fc *FoodController) SearchRecipes(c *gin.Context) {
	recipes, err := fc.recipes.SearchRecipes(c.Request.Context(), c.Query("q"), c.Query("meal_type"), limitParam(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, recipes)
}
