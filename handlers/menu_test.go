package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"street-bites-go/models"
)

func TestCategoryLifecycle(t *testing.T) {
	router, db := setupTestRouter(t)
	token := adminToken(t, db)

	// Creation requires auth.
	rec := doJSON(router, http.MethodPost, "/api/menu/categories", "", gin.H{"name": "Burgers"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPost, "/api/menu/categories", token, gin.H{
		"name":          "Burgers",
		"description":   "Grilled over charcoal",
		"display_order": 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Inactive categories stay out of the public listing.
	inactive := models.MenuCategory{Name: "Retired", IsActive: false}
	if err := db.Create(&inactive).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}

	rec = doJSON(router, http.MethodGet, "/api/menu/categories", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	categories := body["data"].([]interface{})
	if len(categories) != 1 {
		t.Fatalf("Expected 1 active category, got %d", len(categories))
	}

	// A category holding items cannot be deleted.
	var created models.MenuCategory
	if err := db.Where("name = ?", "Burgers").First(&created).Error; err != nil {
		t.Fatalf("Failed to load category: %v", err)
	}
	item := seedItemInCategory(t, db, created.ID)

	rec = doJSON(router, http.MethodDelete, "/api/menu/categories/1", token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 while items exist, got %d", rec.Code)
	}

	if err := db.Delete(&item).Error; err != nil {
		t.Fatalf("Failed to remove item: %v", err)
	}
	rec = doJSON(router, http.MethodDelete, "/api/menu/categories/1", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 after items removed, got %d: %s", rec.Code, rec.Body.String())
	}
}

func seedItemInCategory(t *testing.T, db *gorm.DB, categoryID uint) models.MenuItem {
	t.Helper()
	item := models.MenuItem{
		Name: "Classic Burger", Description: "Cheddar and pickles",
		CategoryID: categoryID, IsAvailable: true,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed menu item: %v", err)
	}
	return item
}

func TestMenuItemFilters(t *testing.T) {
	router, db := setupTestRouter(t)

	category := models.MenuCategory{Name: "Tacos", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	items := []models.MenuItem{
		{Name: "Al Pastor", Description: "Pork", CategoryID: category.ID, IsAvailable: true, IsPopular: true},
		{Name: "Baja Fish", Description: "Fish", CategoryID: category.ID, IsAvailable: true},
		{Name: "Birria", Description: "Beef", CategoryID: category.ID, IsAvailable: false},
	}
	for i := range items {
		if err := db.Create(&items[i]).Error; err != nil {
			t.Fatalf("Failed to seed item: %v", err)
		}
	}

	rec := doJSON(router, http.MethodGet, "/api/menu/items?available=true", "", nil)
	body := decodeBody(t, rec)
	if got := len(body["data"].([]interface{})); got != 2 {
		t.Errorf("Expected 2 available items, got %d", got)
	}

	rec = doJSON(router, http.MethodGet, "/api/menu/items?popular=true", "", nil)
	body = decodeBody(t, rec)
	if got := len(body["data"].([]interface{})); got != 1 {
		t.Errorf("Expected 1 popular item, got %d", got)
	}

	// The per-category listing hides unavailable dishes.
	rec = doJSON(router, http.MethodGet, "/api/menu/items/category/1", "", nil)
	body = decodeBody(t, rec)
	if got := len(body["data"].([]interface{})); got != 2 {
		t.Errorf("Expected 2 items in the category listing, got %d", got)
	}
}
