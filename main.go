package main

import (
	"log"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"street-bites-go/config"
	"street-bites-go/handlers"
	"street-bites-go/messaging"
	"street-bites-go/models"
	"street-bites-go/services"
)

func main() {
	cfg := config.Load()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	/* DATABASE SETUP STARTS */

	db, err := openDatabase(cfg.DatabaseURI)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	migrateErr := db.AutoMigrate(
		&models.User{},
		&models.MenuCategory{},
		&models.MenuItem{},
		&models.Location{},
		&models.ScheduleSlot{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderCounter{},
	)
	if migrateErr != nil {
		log.Fatalf("Failed to migrate database: %v", migrateErr)
	}

	// The order-number sequence must exist before the first submission.
	counter := models.OrderCounter{Name: "orders"}
	if err := db.Where(&counter).FirstOrCreate(&counter).Error; err != nil {
		log.Fatalf("Failed to seed order counter: %v", err)
	}
	/* DATABASE SETUP ENDS */

	orders := services.NewOrderService(db, cfg.OrderNumberPrefix, cfg.DefaultPrepMinutes)

	if cfg.RabbitMQURL != "" {
		publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
		if err != nil {
			log.Printf("Warning: RabbitMQ unavailable, order events disabled: %v", err)
		} else {
			defer publisher.Close()
			orders.SetEventPublisher(publisher)
			log.Println("Connected to RabbitMQ, publishing order events")
		}
	}

	router := handlers.SetupRouter(cfg, db, orders)

	port := ":" + cfg.Port
	log.Printf("Street Bites API listening on port %s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}

// openDatabase picks the gorm driver from the URI: postgres URLs go to the
// postgres driver, anything else is treated as a sqlite file path.
func openDatabase(uri string) (*gorm.DB, error) {
	if strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://") {
		return gorm.Open(postgres.Open(uri), &gorm.Config{})
	}
	return gorm.Open(sqlite.Open(uri), &gorm.Config{})
}
