package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"

	"street-bites-go/models"
)

const (
	ordersExchange = "orders_events"

	routingKeyCreated       = "order.created"
	routingKeyStatusChanged = "order.status_changed"

	publishTimeout = 5 * time.Second
)

// Publisher broadcasts order lifecycle events to a RabbitMQ topic exchange
// for kitchen displays and notification consumers. Publishing is best-effort:
// failures are logged, never surfaced to the order flow.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

// NewPublisher connects to RabbitMQ and declares the orders exchange.
func NewPublisher(url string) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		ordersExchange, // name
		"topic",        // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring %s exchange: %w", ordersExchange, err)
	}

	return &Publisher{conn: conn, channel: channel}, nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}

// OrderEvent is the wire payload for order lifecycle notifications.
type OrderEvent struct {
	OrderNumber        string          `json:"order_number"`
	CustomerName       string          `json:"customer_name"`
	Status             string          `json:"status"`
	PreviousStatus     string          `json:"previous_status,omitempty"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
	TotalItems         int             `json:"total_items"`
	EstimatedReadyTime *time.Time      `json:"estimated_ready_time,omitempty"`
}

// OrderCreated publishes an order.created event.
func (p *Publisher) OrderCreated(order *models.Order) {
	p.publish(routingKeyCreated, eventFrom(order, ""))
}

// OrderStatusChanged publishes an order.status_changed event.
func (p *Publisher) OrderStatusChanged(order *models.Order, previous models.OrderStatus) {
	p.publish(routingKeyStatusChanged, eventFrom(order, previous))
}

func eventFrom(order *models.Order, previous models.OrderStatus) OrderEvent {
	return OrderEvent{
		OrderNumber:        order.OrderNumber,
		CustomerName:       order.CustomerName,
		Status:             string(order.Status),
		PreviousStatus:     string(previous),
		TotalAmount:        order.TotalAmount,
		TotalItems:         order.TotalItems(),
		EstimatedReadyTime: order.EstimatedReadyTime,
	}
}

func (p *Publisher) publish(routingKey string, event OrderEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to marshal %s event for order %s: %v", routingKey, event.OrderNumber, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(
		ctx,
		ordersExchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp091.Publishing{
			DeliveryMode:  amqp091.Persistent,
			ContentType:   "application/json",
			Body:          body,
			MessageId:     uuid.NewString(),
			CorrelationId: event.OrderNumber,
			Timestamp:     time.Now().UTC(),
		},
	)
	if err != nil {
		log.Printf("Failed to publish %s event for order %s: %v", routingKey, event.OrderNumber, err)
	}
}
