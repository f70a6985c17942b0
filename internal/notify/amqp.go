// Package notify delivers driver notifications for domain events.
//
// The primary implementation publishes JSON events to a durable RabbitMQ
// queue; a separate worker (or an external mailer) consumes them and sends
// the actual email. Publishing is best-effort by contract: callers log and
// swallow errors so a broker outage never blocks a booking.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/ibarry/covoiturage/internal/domain"
)

// ReservationQueue is the durable queue reservation events are published to.
const ReservationQueue = "reservation.created"

// ReservationEvent is the JSON payload handed to the notification consumer.
// It carries everything the mailer needs so the consumer never reads the DB.
type ReservationEvent struct {
	ReservationID uuid.UUID `json:"reservation_id"`
	TripID        uuid.UUID `json:"trip_id"`
	DriverEmail   string    `json:"driver_email"`
	DriverName    string    `json:"driver_name"`
	RiderName     string    `json:"rider_name"`
	RiderPhone    string    `json:"rider_phone"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	Departure     time.Time `json:"departure"`
	ReservedAt    time.Time `json:"reserved_at"`
}

// NewReservationEvent assembles the event for a freshly created reservation.
func NewReservationEvent(driver domain.Driver, trip domain.Trip, res domain.Reservation) ReservationEvent {
	return ReservationEvent{
		ReservationID: res.ID,
		TripID:        trip.ID,
		DriverEmail:   driver.Email,
		DriverName:    driver.FirstName + " " + driver.LastName,
		RiderName:     res.Name,
		RiderPhone:    res.Phone,
		Origin:        trip.Origin,
		Destination:   trip.Destination,
		Departure:     trip.Departure,
		ReservedAt:    res.CreatedAt,
	}
}

// AMQPNotifier publishes reservation events to RabbitMQ. It holds one
// connection and one channel for its lifetime; a mutex serializes publishes
// because amqp channels are not safe for concurrent use.
type AMQPNotifier struct {
	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewAMQPNotifier dials the broker and declares the durable reservation
// queue. The declare is idempotent, so publisher and consumer can start in
// any order.
func NewAMQPNotifier(url string) (*AMQPNotifier, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("notify.NewAMQPNotifier: dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("notify.NewAMQPNotifier: channel: %w", err)
	}
	if _, err := ch.QueueDeclare(ReservationQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("notify.NewAMQPNotifier: queue declare: %w", err)
	}
	return &AMQPNotifier{conn: conn, ch: ch}, nil
}

// ReservationCreated publishes the event as a persistent JSON message on
// the default exchange, routed straight to the reservation queue.
func (n *AMQPNotifier) ReservationCreated(ctx context.Context, driver domain.Driver, trip domain.Trip, res domain.Reservation) error {
	body, err := json.Marshal(NewReservationEvent(driver, trip, res))
	if err != nil {
		return fmt.Errorf("notify.AMQPNotifier.ReservationCreated: marshal: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	err = n.ch.PublishWithContext(ctx, "", ReservationQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("notify.AMQPNotifier.ReservationCreated: publish: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (n *AMQPNotifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if err := n.ch.Close(); err != nil {
		_ = n.conn.Close()
		return fmt.Errorf("notify.AMQPNotifier.Close: %w", err)
	}
	return n.conn.Close()
}
