package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"street-bites-go/models"
)

type CreateCategoryRequest struct {
	Name         string `json:"name" binding:"required,max=50"`
	Description  string `json:"description" binding:"max=200"`
	DisplayOrder int    `json:"display_order" binding:"gte=0"`
}

type UpdateCategoryRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1,max=50"`
	Description  *string `json:"description" binding:"omitempty,max=200"`
	DisplayOrder *int    `json:"display_order" binding:"omitempty,gte=0"`
	IsActive     *bool   `json:"is_active"`
}

// ListCategoriesHandler returns the active categories in display order (public).
func ListCategoriesHandler(c *gin.Context) {
	var categories []models.MenuCategory
	err := DB.Where("is_active = ?", true).
		Order("display_order ASC, name ASC").
		Find(&categories).Error
	if err != nil {
		respondServerError(c, "Failed to list categories", err)
		return
	}

	if categories == nil {
		categories = []models.MenuCategory{}
	}
	respondData(c, http.StatusOK, categories)
}

// CreateCategoryHandler adds a new menu category (admin).
func CreateCategoryHandler(c *gin.Context) {
	var req CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	category := models.MenuCategory{
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsActive:     true,
	}
	if err := DB.Create(&category).Error; err != nil {
		respondServerError(c, "Failed to create category", err)
		return
	}

	respondMessage(c, http.StatusCreated, "Category created successfully", category)
}

// UpdateCategoryHandler applies a partial update to a category (admin).
func UpdateCategoryHandler(c *gin.Context) {
	var req UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var category models.MenuCategory
	if err := DB.First(&category, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		respondServerError(c, "Failed to load category", err)
		return
	}

	// Build map for updates to handle partial updates correctly with pointers
	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.DisplayOrder != nil {
		updates["display_order"] = *req.DisplayOrder
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}
	if len(updates) == 0 {
		respondError(c, http.StatusBadRequest, "No update fields provided")
		return
	}

	if err := DB.Model(&category).Updates(updates).Error; err != nil {
		respondServerError(c, "Failed to update category", err)
		return
	}

	respondMessage(c, http.StatusOK, "Category updated successfully", category)
}

// DeleteCategoryHandler removes a category that has no menu items (admin).
func DeleteCategoryHandler(c *gin.Context) {
	var category models.MenuCategory
	if err := DB.First(&category, c.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, "Category not found")
			return
		}
		respondServerError(c, "Failed to load category", err)
		return
	}

	var itemCount int64
	if err := DB.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&itemCount).Error; err != nil {
		respondServerError(c, "Failed to count category items", err)
		return
	}
	if itemCount > 0 {
		respondError(c, http.StatusBadRequest, "Cannot delete a category that has menu items. Remove the items first.")
		return
	}

	if err := DB.Delete(&category).Error; err != nil {
		respondServerError(c, "Failed to delete category", err)
		return
	}

	respondMessage(c, http.StatusOK, "Category deleted successfully", nil)
}
