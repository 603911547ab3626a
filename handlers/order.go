package handlers

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"street-bites-go/models"
	"street-bites-go/services"
)

type UpdateOrderStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	EstimatedReadyTime string `json:"estimated_ready_time"`
}

func parseOrderID(c *gin.Context, param string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Invalid order ID")
		return 0, false
	}
	return uint(id), true
}

// orderError translates service failures into envelope responses.
func orderError(c *gin.Context, logContext string, err error) {
	if fields, ok := services.AsValidation(err); ok {
		respondValidationErrors(c, fields.Fields)
		return
	}
	switch {
	case errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrItemUnavailable),
		errors.Is(err, services.ErrInvalidStatus):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "Order not found")
	default:
		respondServerError(c, logContext, err)
	}
}

// PlaceOrderHandler accepts a new customer order (public).
func PlaceOrderHandler(c *gin.Context) {
	var input services.PlaceOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	order, err := Orders.PlaceOrder(c.Request.Context(), &input)
	if err != nil {
		orderError(c, "Failed to create order", err)
		return
	}

	respondMessage(c, http.StatusCreated, "Order created successfully", gin.H{
		"order_number":         order.OrderNumber,
		"total_amount":         order.TotalAmount,
		"estimated_ready_time": order.EstimatedReadyTime,
		"status":               order.Status,
	})
}

// GetOrderByNumberHandler lets a customer track an order (public).
// The lookup is case-insensitive.
func GetOrderByNumberHandler(c *gin.Context) {
	order, err := Orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		orderError(c, "Failed to load order", err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// ListOrdersHandler returns a page of orders for the admin console.
// Supports ?status=, ?page= and ?limit=.
func ListOrdersHandler(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	status := models.OrderStatus(c.Query("status"))

	orders, total, limit, err := Orders.List(c.Request.Context(), status, page, limit)
	if err != nil {
		orderError(c, "Failed to list orders", err)
		return
	}

	if page < 1 {
		page = 1
	}
	if orders == nil {
		orders = []models.Order{}
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
		"pagination": gin.H{
			"current": page,
			"pages":   int(math.Ceil(float64(total) / float64(limit))),
			"total":   total,
		},
	})
}

// GetOrderHandler fetches an order by internal id (admin).
func GetOrderHandler(c *gin.Context) {
	id, ok := parseOrderID(c, "id")
	if !ok {
		return
	}

	order, err := Orders.GetByID(c.Request.Context(), id)
	if err != nil {
		orderError(c, "Failed to load order", err)
		return
	}
	respondData(c, http.StatusOK, order)
}

// UpdateOrderStatusHandler moves an order through the fulfillment states (admin).
func UpdateOrderStatusHandler(c *gin.Context) {
	id, ok := parseOrderID(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	var readyTime *time.Time
	if req.EstimatedReadyTime != "" {
		parsed, err := time.Parse(time.RFC3339, req.EstimatedReadyTime)
		if err != nil {
			respondValidationErrors(c, []services.FieldError{
				{Field: "estimated_ready_time", Message: "Invalid date"},
			})
			return
		}
		readyTime = &parsed
	}

	order, err := Orders.UpdateStatus(c.Request.Context(), id, models.OrderStatus(req.Status), readyTime)
	if err != nil {
		orderError(c, "Failed to update order status", err)
		return
	}

	respondMessage(c, http.StatusOK, "Order status updated successfully", order)
}

// UpdateOrderHandler corrects contact details on an order (admin). Lines,
// totals and the order number are immutable.
func UpdateOrderHandler(c *gin.Context) {
	id, ok := parseOrderID(c, "id")
	if !ok {
		return
	}

	var input services.ContactUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	order, err := Orders.UpdateContact(c.Request.Context(), id, &input)
	if err != nil {
		orderError(c, "Failed to update order", err)
		return
	}

	respondMessage(c, http.StatusOK, "Order updated successfully", order)
}

// DeleteOrderHandler permanently removes an order (admin).
func DeleteOrderHandler(c *gin.Context) {
	id, ok := parseOrderID(c, "id")
	if !ok {
		return
	}

	if err := Orders.Delete(c.Request.Context(), id); err != nil {
		orderError(c, "Failed to delete order", err)
		return
	}

	respondMessage(c, http.StatusOK, "Order deleted successfully", nil)
}
