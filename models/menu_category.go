package models

import (
	"gorm.io/gorm"
)

// MenuCategory groups menu items (Burgers, Tacos, Drinks, ...).
type MenuCategory struct {
	gorm.Model
	Name         string `json:"name" gorm:"not null"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"display_order" gorm:"index"`
	IsActive     bool   `json:"is_active" gorm:"index"`
}
