package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MenuItem is a dish on the food-truck menu. Price and name are copied onto
// orders at purchase time, so editing an item never rewrites order history.
type MenuItem struct {
	gorm.Model
	Name        string          `json:"name" gorm:"not null"`
	Description string          `json:"description" gorm:"not null"`
	Price       decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	CategoryID  uint            `json:"category_id" gorm:"not null;index"`
	Category    *MenuCategory   `json:"category,omitempty"`
	ImageURL    string          `json:"image,omitempty"`
	IsAvailable bool            `json:"is_available" gorm:"index"`
	IsPopular   bool            `json:"is_popular" gorm:"index"`
	Allergens   []string        `json:"allergens" gorm:"serializer:json"`
	// PreparationTime is minutes per unit; 0 means unset and the default
	// preparation time applies when estimating order ready times.
	PreparationTime int `json:"preparation_time"`
}
