package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ValidStatus reports whether s is one of the five known statuses.
func ValidStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusReady,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is a customer take-away order. Items, prices and the total are frozen
// at creation; only the status, the ready-time estimate and contact details
// change afterwards.
type Order struct {
	gorm.Model
	OrderNumber         string          `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerName        string          `json:"customer_name" gorm:"not null;index"`
	Phone               string          `json:"phone" gorm:"not null"`
	Email               string          `json:"email,omitempty"`
	Items               []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	TotalAmount         decimal.Decimal `json:"total_amount" gorm:"type:decimal(10,2);not null"`
	Status              OrderStatus     `json:"status" gorm:"not null;index"`
	EstimatedReadyTime  *time.Time      `json:"estimated_ready_time,omitempty"`
	SpecialInstructions string          `json:"special_instructions,omitempty"`
}

// OrderItem is one line of an order. Name and Price are snapshots of the menu
// item at the moment the order was placed.
type OrderItem struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	OrderID    uint            `json:"order_id" gorm:"not null;index"`
	MenuItemID uint            `json:"menu_item_id" gorm:"not null"`
	Name       string          `json:"name" gorm:"not null"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
}

// TotalItems sums the quantities across all lines.
func (o *Order) TotalItems() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// OrderCounter backs order-number generation. A single row holds the last
// issued sequence value and is bumped under a row lock in the same
// transaction that inserts the order, so concurrent submissions cannot be
// handed the same number.
type OrderCounter struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"uniqueIndex;not null"`
	Value int64  `gorm:"not null;default:0"`
}
