package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"street-bites-go/models"
)

var maxMenuItemPrice = decimal.NewFromInt(10000)

type CreateMenuItemRequest struct {
	Name            string          `json:"name" binding:"required,max=100"`
	Description     string          `json:"description" binding:"required,max=500"`
	Price           decimal.Decimal `json:"price"`
	CategoryID      uint            `json:"category_id" binding:"required"`
	Image           string          `json:"image"`
	PreparationTime int             `json:"preparation_time" binding:"omitempty,min=1,max=120"`
	Allergens       []string        `json:"allergens"`
}

type UpdateMenuItemRequest struct {
	Name            *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description     *string          `json:"description" binding:"omitempty,min=1,max=500"`
	Price           *decimal.Decimal `json:"price"`
	CategoryID      *uint            `json:"category_id"`
	Image           *string          `json:"image"`
	PreparationTime *int             `json:"preparation_time" binding:"omitempty,min=1,max=120"`
	Allergens       *[]string        `json:"allergens"`
	IsAvailable     *bool            `json:"is_available"`
	IsPopular       *bool            `json:"is_popular"`
}

func validPrice(price decimal.Decimal) bool {
	return !price.IsNegative() && price.LessThanOrEqual(maxMenuItemPrice)
}

func validImageURL(raw string) bool {
	if raw == "" {
		return true
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func normalizeAllergens(allergens []string) []string {
	out := make([]string, 0, len(allergens))
	for _, a := range allergens {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// ListMenuItemsHandler returns menu items, popular first (public).
// Supports ?category=, ?available=true and ?popular=true filters.
func ListMenuItemsHandler(c *gin.Context) {
	query := DB.Preload("Category")

	if category := c.Query("category"); category != "" {
		query = query.Where("category_id = ?", category)
	}
	if c.Query("available") == "true" {
		query = query.Where("is_available = ?", true)
	}
	if c.Query("popular") == "true" {
		query = query.Where("is_popular = ?", true)
	}

	var items []models.MenuItem
	if err := query.Order("is_popular DESC, name ASC").Find(&items).Error; err != nil {
		respondServerError(c, "Failed to list menu items", err)
		return
	}

	if items == nil {
		items = []models.MenuItem{}
	}
	respondData(c, http.StatusOK, items)
}

// ListMenuItemsByCategoryHandler returns a category's available items (public).
func ListMenuItemsByCategoryHandler(c *gin.Context) {
	var items []models.MenuItem
	err := DB.Preload("Category").
		Where("category_id = ? AND is_available = ?", c.Param("id"), true).
		Order("is_popular DESC, name ASC").
		Find(&items).Error
	if err != nil {
		respondServerError(c, "Failed to list menu items", err)
		return
	}

	if items == nil {
		items = []models.MenuItem{}
	}
	respondData(c, http.StatusOK, items)
}

// CreateMenuItemHandler adds a new dish to the menu (admin).
func CreateMenuItemHandler(c *gin.Context) {
	var req CreateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !validPrice(req.Price) {
		respondError(c, http.StatusBadRequest, "Price must be between 0 and 10000")
		return
	}
	if !validImageURL(req.Image) {
		respondError(c, http.StatusBadRequest, "Image URL must be valid")
		return
	}

	var category models.MenuCategory
	if err := DB.First(&category, req.CategoryID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusBadRequest, "Category not found")
			return
		}
		respondServerError(c, "Failed to load category", err)
		return
	}

	item := models.MenuItem{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		CategoryID:      category.ID,
		ImageURL:        req.Image,
		IsAvailable:     true,
		PreparationTime: req.PreparationTime,
		Allergens:       normalizeAllergens(req.Allergens),
	}
	if err := DB.Create(&item).Error; err != nil {
		respondServerError(c, "Failed to create menu item", err)
		return
	}
	item.Category = &category

	respondMessage(c, http.StatusCreated, "Menu item created successfully", item)
}

// UpdateMenuItemHandler applies a partial update to a menu item (admin).
func UpdateMenuItemHandler(c *gin.Context) {
	var req UpdateMenuItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var item models.MenuItem
	if err := DB.First(&item, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Menu item not found")
			return
		}
		respondServerError(c, "Failed to load menu item", err)
		return
	}

	changed := false
	if req.Name != nil {
		item.Name = *req.Name
		changed = true
	}
	if req.Description != nil {
		item.Description = *req.Description
		changed = true
	}
	if req.Price != nil {
		if !validPrice(*req.Price) {
			respondError(c, http.StatusBadRequest, "Price must be between 0 and 10000")
			return
		}
		item.Price = *req.Price
		changed = true
	}
	if req.CategoryID != nil {
		var category models.MenuCategory
		if err := DB.First(&category, *req.CategoryID).Error; err != nil {
			respondError(c, http.StatusBadRequest, "Category not found")
			return
		}
		item.CategoryID = *req.CategoryID
		changed = true
	}
	if req.Image != nil {
		if !validImageURL(*req.Image) {
			respondError(c, http.StatusBadRequest, "Image URL must be valid")
			return
		}
		item.ImageURL = *req.Image
		changed = true
	}
	if req.PreparationTime != nil {
		item.PreparationTime = *req.PreparationTime
		changed = true
	}
	if req.IsAvailable != nil {
		item.IsAvailable = *req.IsAvailable
		changed = true
	}
	if req.IsPopular != nil {
		item.IsPopular = *req.IsPopular
		changed = true
	}
	if req.Allergens != nil {
		item.Allergens = normalizeAllergens(*req.Allergens)
		changed = true
	}
	if !changed {
		respondError(c, http.StatusBadRequest, "No update fields provided")
		return
	}

	if err := DB.Save(&item).Error; err != nil {
		respondServerError(c, "Failed to update menu item", err)
		return
	}

	if err := DB.Preload("Category").First(&item, item.ID).Error; err != nil {
		respondServerError(c, "Failed to reload menu item", err)
		return
	}
	respondMessage(c, http.StatusOK, "Menu item updated successfully", item)
}

// DeleteMenuItemHandler removes a dish from the menu (admin). Existing orders
// keep their snapshotted copies of the item's name and price.
func DeleteMenuItemHandler(c *gin.Context) {
	var item models.MenuItem
	if err := DB.First(&item, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Menu item not found")
			return
		}
		respondServerError(c, "Failed to load menu item", err)
		return
	}

	if err := DB.Delete(&item).Error; err != nil {
		respondServerError(c, "Failed to delete menu item", err)
		return
	}

	respondMessage(c, http.StatusOK, "Menu item deleted successfully", nil)
}
