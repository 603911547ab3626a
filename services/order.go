package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"street-bites-go/models"
)

const (
	orderCounterName = "orders"

	maxLineQuantity         = 20
	maxCustomerNameLen      = 100
	maxSpecialInstructLen   = 500
	defaultListLimit        = 20
	maxListLimit            = 100
	fallbackPrepTimeMinutes = 15
)

var (
	phonePattern = regexp.MustCompile(`^\+?[0-9\s()-]{8,15}$`)
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,})+$`)
)

// EventPublisher receives order lifecycle notifications. Publishing is
// best-effort; implementations must not fail the order flow.
type EventPublisher interface {
	OrderCreated(order *models.Order)
	OrderStatusChanged(order *models.Order, previous models.OrderStatus)
}

// OrderService owns order intake, status transitions and order queries.
type OrderService struct {
	db          *gorm.DB
	prefix      string
	defaultPrep int
	events      EventPublisher

	// now is swappable so tests can pin the clock.
	now func() time.Time
}

// NewOrderService wires the service to its database. prefix is the
// human-facing order-number prefix (e.g. "SB"); defaultPrepMinutes is used
// for menu items without their own preparation time.
func NewOrderService(db *gorm.DB, prefix string, defaultPrepMinutes int) *OrderService {
	if defaultPrepMinutes <= 0 {
		defaultPrepMinutes = fallbackPrepTimeMinutes
	}
	return &OrderService{
		db:          db,
		prefix:      prefix,
		defaultPrep: defaultPrepMinutes,
		now:         time.Now,
	}
}

// SetEventPublisher attaches an optional publisher for order lifecycle events.
func (s *OrderService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// OrderLineInput is one requested (menu item, quantity) pairing.
type OrderLineInput struct {
	MenuItemID uint `json:"menu_item_id"`
	Quantity   int  `json:"quantity"`
}

// PlaceOrderInput is everything a customer submits for a new order.
type PlaceOrderInput struct {
	CustomerName        string           `json:"customer_name"`
	Phone               string           `json:"phone"`
	Email               string           `json:"email"`
	Items               []OrderLineInput `json:"items"`
	SpecialInstructions string           `json:"special_instructions"`
}

func validatePlaceOrder(input *PlaceOrderInput) []FieldError {
	var fields []FieldError

	name := strings.TrimSpace(input.CustomerName)
	if name == "" || len(name) > maxCustomerNameLen {
		fields = append(fields, FieldError{"customer_name", "Customer name is required (max 100 characters)"})
	}
	if !phonePattern.MatchString(strings.TrimSpace(input.Phone)) {
		fields = append(fields, FieldError{"phone", "Invalid phone number"})
	}
	if email := strings.TrimSpace(input.Email); email != "" && !emailPattern.MatchString(email) {
		fields = append(fields, FieldError{"email", "Invalid email address"})
	}
	if len(input.Items) == 0 {
		fields = append(fields, FieldError{"items", "At least one item is required"})
	}
	for i, line := range input.Items {
		if line.MenuItemID == 0 {
			fields = append(fields, FieldError{fmt.Sprintf("items[%d].menu_item_id", i), "Invalid menu item id"})
		}
		if line.Quantity < 1 || line.Quantity > maxLineQuantity {
			fields = append(fields, FieldError{fmt.Sprintf("items[%d].quantity", i), "Quantity must be between 1 and 20"})
		}
	}
	if len(input.SpecialInstructions) > maxSpecialInstructLen {
		fields = append(fields, FieldError{"special_instructions", "Special instructions max 500 characters"})
	}
	return fields
}

// PlaceOrder validates the cart against the live menu, snapshots item names
// and prices onto the order, computes the total and the estimated ready time,
// assigns the next order number and persists everything in one transaction.
// Nothing is persisted if any step fails.
func (s *OrderService) PlaceOrder(ctx context.Context, input *PlaceOrderInput) (*models.Order, error) {
	if fields := validatePlaceOrder(input); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	total := decimal.Zero
	maxPrepMinutes := 0
	items := make([]models.OrderItem, 0, len(input.Items))

	for _, line := range input.Items {
		var menuItem models.MenuItem
		if err := s.db.WithContext(ctx).First(&menuItem, line.MenuItemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("menu item %d: %w", line.MenuItemID, ErrItemNotFound)
			}
			return nil, fmt.Errorf("looking up menu item %d: %w", line.MenuItemID, err)
		}
		if !menuItem.IsAvailable {
			return nil, fmt.Errorf("menu item %q: %w", menuItem.Name, ErrItemUnavailable)
		}

		// Snapshot name and price so later menu edits never rewrite history.
		items = append(items, models.OrderItem{
			MenuItemID: menuItem.ID,
			Name:       menuItem.Name,
			Quantity:   line.Quantity,
			Price:      menuItem.Price,
		})
		total = total.Add(menuItem.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))

		prep := menuItem.PreparationTime
		if prep <= 0 {
			prep = s.defaultPrep
		}
		// The slowest single-item batch is the bottleneck: lines cook in
		// parallel, units within a line cook sequentially.
		if batch := line.Quantity * prep; batch > maxPrepMinutes {
			maxPrepMinutes = batch
		}
	}

	readyTime := s.now().Add(time.Duration(maxPrepMinutes) * time.Minute)
	order := &models.Order{
		CustomerName:        strings.TrimSpace(input.CustomerName),
		Phone:               strings.TrimSpace(input.Phone),
		Email:               strings.ToLower(strings.TrimSpace(input.Email)),
		Items:               items,
		TotalAmount:         total,
		Status:              models.OrderStatusPending,
		EstimatedReadyTime:  &readyTime,
		SpecialInstructions: strings.TrimSpace(input.SpecialInstructions),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		number, err := nextOrderNumber(tx, s.prefix)
		if err != nil {
			return err
		}
		order.OrderNumber = number
		return tx.Create(order).Error
	})
	if err != nil {
		return nil, fmt.Errorf("creating order: %w", err)
	}

	if s.events != nil {
		s.events.OrderCreated(order)
	}
	return order, nil
}

// nextOrderNumber bumps the dedicated counter row and formats the new value.
// The atomic UPDATE takes a row lock held until the surrounding transaction
// commits, so two concurrent submissions cannot receive the same number.
func nextOrderNumber(tx *gorm.DB, prefix string) (string, error) {
	counter := models.OrderCounter{Name: orderCounterName}
	if err := tx.Where(&counter).FirstOrCreate(&counter).Error; err != nil {
		return "", fmt.Errorf("loading order counter: %w", err)
	}
	if err := tx.Model(&models.OrderCounter{}).
		Where("name = ?", orderCounterName).
		Update("value", gorm.Expr("value + ?", 1)).Error; err != nil {
		return "", fmt.Errorf("incrementing order counter: %w", err)
	}
	if err := tx.Where("name = ?", orderCounterName).First(&counter).Error; err != nil {
		return "", fmt.Errorf("reading order counter: %w", err)
	}
	return fmt.Sprintf("%s%04d", prefix, counter.Value), nil
}

// UpdateStatus moves an order to a new fulfillment status, optionally
// replacing the ready-time estimate, and returns the updated order with its
// items loaded. Any of the five statuses may follow any other.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID uint, status models.OrderStatus, readyTime *time.Time) (*models.Order, error) {
	if !models.ValidStatus(status) {
		return nil, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("looking up order %d: %w", orderID, err)
	}
	previous := order.Status

	updates := map[string]interface{}{"status": status}
	if readyTime != nil {
		updates["estimated_ready_time"] = *readyTime
	}
	if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("updating order %d: %w", orderID, err)
	}

	updated, err := s.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if s.events != nil && previous != updated.Status {
		s.events.OrderStatusChanged(updated, previous)
	}
	return updated, nil
}

// ContactUpdateInput carries optional contact-detail corrections. Nil fields
// are left untouched; order lines, totals and the number are immutable.
type ContactUpdateInput struct {
	CustomerName        *string `json:"customer_name"`
	Phone               *string `json:"phone"`
	Email               *string `json:"email"`
	SpecialInstructions *string `json:"special_instructions"`
}

// UpdateContact applies contact-detail corrections to an existing order.
func (s *OrderService) UpdateContact(ctx context.Context, orderID uint, input *ContactUpdateInput) (*models.Order, error) {
	var fields []FieldError
	updates := map[string]interface{}{}

	if input.CustomerName != nil {
		name := strings.TrimSpace(*input.CustomerName)
		if name == "" || len(name) > maxCustomerNameLen {
			fields = append(fields, FieldError{"customer_name", "Customer name is required (max 100 characters)"})
		} else {
			updates["customer_name"] = name
		}
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if !phonePattern.MatchString(phone) {
			fields = append(fields, FieldError{"phone", "Invalid phone number"})
		} else {
			updates["phone"] = phone
		}
	}
	if input.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*input.Email))
		if email != "" && !emailPattern.MatchString(email) {
			fields = append(fields, FieldError{"email", "Invalid email address"})
		} else {
			updates["email"] = email
		}
	}
	if input.SpecialInstructions != nil {
		instructions := strings.TrimSpace(*input.SpecialInstructions)
		if len(instructions) > maxSpecialInstructLen {
			fields = append(fields, FieldError{"special_instructions", "Special instructions max 500 characters"})
		} else {
			updates["special_instructions"] = instructions
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("looking up order %d: %w", orderID, err)
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&order).Updates(updates).Error; err != nil {
			return nil, fmt.Errorf("updating order %d: %w", orderID, err)
		}
	}
	return s.GetByID(ctx, orderID)
}

// GetByNumber fetches an order by its human-facing number. Lookup is
// case-insensitive: numbers are stored and compared in uppercase.
func (s *OrderService) GetByNumber(ctx context.Context, number string) (*models.Order, error) {
	number = strings.ToUpper(strings.TrimSpace(number))

	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("order_number = ?", number).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("looking up order %s: %w", number, err)
	}
	return &order, nil
}

// GetByID fetches an order by internal id with its items loaded.
func (s *OrderService) GetByID(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&order, orderID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("looking up order %d: %w", orderID, err)
	}
	return &order, nil
}

// List returns a page of orders, newest first, optionally filtered by status.
// page is 1-indexed; limit defaults to 20 and is capped at 100. Also returned
// are the total matching record count and the limit actually applied, so
// callers compute pagination from the real page size.
func (s *OrderService) List(ctx context.Context, status models.OrderStatus, page, limit int) ([]models.Order, int64, int, error) {
	if status != "" && !models.ValidStatus(status) {
		return nil, 0, 0, fmt.Errorf("status %q: %w", status, ErrInvalidStatus)
	}
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	query := s.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, 0, fmt.Errorf("counting orders: %w", err)
	}

	var orders []models.Order
	err := query.Preload("Items").
		Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, 0, fmt.Errorf("listing orders: %w", err)
	}
	return orders, total, limit, nil
}

// Delete permanently removes an order and its lines. This is a destructive
// admin override, never part of the normal lifecycle.
func (s *OrderService) Delete(ctx context.Context, orderID uint) error {
	var order models.Order
	if err := s.db.WithContext(ctx).First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOrderNotFound
		}
		return fmt.Errorf("looking up order %d: %w", orderID, err)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return fmt.Errorf("deleting order items: %w", err)
		}
		if err := tx.Unscoped().Delete(&order).Error; err != nil {
			return fmt.Errorf("deleting order: %w", err)
		}
		return nil
	})
}
