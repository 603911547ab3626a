package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"street-bites-go/config"
	"street-bites-go/models"
	"street-bites-go/services"
	"street-bites-go/utils"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	err = db.AutoMigrate(
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Location{},
		&models.ScheduleSlot{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	cfg := &config.Config{
		AppEnv:             "test",
		BcryptCost:         bcrypt.MinCost,
		OrderNumberPrefix:  "SB",
		DefaultPrepMinutes: 15,
	}
	orders := services.NewOrderService(db, cfg.OrderNumberPrefix, cfg.DefaultPrepMinutes)
	return SetupRouter(cfg, db, orders), db
}

func seedBurger(t *testing.T, db *gorm.DB) models.MenuItem {
	t.Helper()

	category := models.MenuCategory{Name: "Street Food", IsActive: true}
	if err := db.Create(&category).Error; err != nil {
		t.Fatalf("Failed to seed category: %v", err)
	}
	item := models.MenuItem{
		Name: "Smash Burger", Description: "Double patty",
		Price: decimal.NewFromInt(50), CategoryID: category.ID,
		IsAvailable: true, PreparationTime: 10,
	}
	if err := db.Create(&item).Error; err != nil {
		t.Fatalf("Failed to seed menu item: %v", err)
	}
	return item
}

func adminToken(t *testing.T, db *gorm.DB) string {
	t.Helper()

	user := models.User{Username: "truckboss", Email: "boss@streetbites.se"}
	if err := user.HashPassword("hunter22", bcrypt.MinCost); err != nil {
		t.Fatalf("Failed to hash password: %v", err)
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to seed user: %v", err)
	}

	token, err := utils.GenerateToken(user.ID, user.Email)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	return token
}

func doJSON(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return body
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	item := seedBurger(t, db)

	rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
		"customer_name": "Alva Karlsson",
		"phone":         "+46 70 123 45 67",
		"items":         []gin.H{{"menu_item_id": item.ID, "quantity": 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != true {
		t.Errorf("Expected success true, got %v", body["success"])
	}
	data, ok := body["data"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected data object, got %v", body["data"])
	}
	if data["order_number"] != "SB0001" {
		t.Errorf("Expected order number SB0001, got %v", data["order_number"])
	}
	if data["status"] != "pending" {
		t.Errorf("Expected status pending, got %v", data["status"])
	}
	if data["estimated_ready_time"] == nil {
		t.Error("Expected an estimated ready time")
	}
}

func TestPlaceOrderEndpointValidation(t *testing.T) {
	router, db := setupTestRouter(t)
	item := seedBurger(t, db)

	rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
		"customer_name": "Alva Karlsson",
		"phone":         "nope",
		"items":         []gin.H{{"menu_item_id": item.ID, "quantity": 2}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
	errs, ok := body["errors"].([]interface{})
	if !ok || len(errs) == 0 {
		t.Errorf("Expected a non-empty errors list, got %v", body["errors"])
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Errorf("Expected no orders persisted, got %d", count)
	}
}

func TestPlaceOrderEndpointUnknownItem(t *testing.T) {
	router, db := setupTestRouter(t)
	seedBurger(t, db)

	rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
		"customer_name": "Alva Karlsson",
		"phone":         "0701234567",
		"items":         []gin.H{{"menu_item_id": 9999, "quantity": 1}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
}

func TestGetOrderByNumberEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	item := seedBurger(t, db)

	rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
		"customer_name": "Alva Karlsson",
		"phone":         "0701234567",
		"items":         []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	// Lowercase lookup must resolve the same order.
	rec = doJSON(router, http.MethodGet, "/api/orders/sb0001", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodGet, "/api/orders/SB9999", "", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["success"] != false {
		t.Errorf("Expected success false, got %v", body["success"])
	}
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	item := seedBurger(t, db)
	token := adminToken(t, db)

	rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
		"customer_name": "Alva Karlsson",
		"phone":         "0701234567",
		"items":         []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var order models.Order
	if err := db.Where("order_number = ?", "SB0001").First(&order).Error; err != nil {
		t.Fatalf("Failed to load created order: %v", err)
	}

	// No token, no update.
	rec = doJSON(router, http.MethodPut, "/api/orders/1/status", "", gin.H{"status": "ready"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without token, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPut, "/api/orders/1/status", token, gin.H{"status": "ready"})
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(router, http.MethodGet, "/api/orders/SB0001", "", nil)
	body := decodeBody(t, rec)
	data := body["data"].(map[string]interface{})
	if data["status"] != "ready" {
		t.Errorf("Expected refetched status ready, got %v", data["status"])
	}

	rec = doJSON(router, http.MethodPut, "/api/orders/1/status", token, gin.H{"status": "burnt"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for invalid status, got %d", rec.Code)
	}

	rec = doJSON(router, http.MethodPut, "/api/orders/1/status", token, gin.H{
		"status":               "ready",
		"estimated_ready_time": "yesterday-ish",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400 for invalid date, got %d", rec.Code)
	}
}

func TestListOrdersEndpoint(t *testing.T) {
	router, db := setupTestRouter(t)
	item := seedBurger(t, db)
	token := adminToken(t, db)

	for i := 0; i < 3; i++ {
		rec := doJSON(router, http.MethodPost, "/api/orders", "", gin.H{
			"customer_name": "Alva Karlsson",
			"phone":         "0701234567",
			"items":         []gin.H{{"menu_item_id": item.ID, "quantity": 1}},
		})
		if rec.Code != http.StatusCreated {
			t.Fatalf("Order %d: expected 201, got %d", i+1, rec.Code)
		}
	}

	rec := doJSON(router, http.MethodGet, "/api/orders?status=pending&page=1&limit=2", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data := body["data"].([]interface{})
	if len(data) != 2 {
		t.Errorf("Expected 2 orders on the page, got %d", len(data))
	}
	pagination := body["pagination"].(map[string]interface{})
	if pagination["total"] != float64(3) {
		t.Errorf("Expected total 3, got %v", pagination["total"])
	}
	if pagination["pages"] != float64(2) {
		t.Errorf("Expected 2 pages, got %v", pagination["pages"])
	}
	if pagination["current"] != float64(1) {
		t.Errorf("Expected current page 1, got %v", pagination["current"])
	}
}

func TestListOrdersEndpointClampsLimit(t *testing.T) {
	router, db := setupTestRouter(t)
	token := adminToken(t, db)

	for i := 0; i < 110; i++ {
		order := models.Order{
			OrderNumber:  fmt.Sprintf("SB%04d", i+1),
			CustomerName: "Alva Karlsson",
			Phone:        "0701234567",
			TotalAmount:  decimal.NewFromInt(50),
			Status:       models.OrderStatusPending,
		}
		if err := db.Create(&order).Error; err != nil {
			t.Fatalf("Failed to seed order %d: %v", i+1, err)
		}
	}

	rec := doJSON(router, http.MethodGet, "/api/orders?limit=500", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	data := body["data"].([]interface{})
	if len(data) != 100 {
		t.Errorf("Expected page capped at 100 orders, got %d", len(data))
	}
	pagination := body["pagination"].(map[string]interface{})
	if pagination["pages"] != float64(2) {
		t.Errorf("Expected 2 pages at the capped page size, got %v", pagination["pages"])
	}
	if pagination["total"] != float64(110) {
		t.Errorf("Expected total 110, got %v", pagination["total"])
	}
}
