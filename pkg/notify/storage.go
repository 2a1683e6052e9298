package notify

import (
	"context"

	"github.com/google/uuid"
)

// ListOptions filter and paginate delivery listings. Zero values mean no
// filtering and no limit.
type ListOptions struct {
	Channel Channel
	Status  DeliveryStatus
	Limit   int
	Offset  int
}

// Storage persists the delivery log. Implementations must be safe for
// concurrent use.
type Storage interface {
	// Create appends a delivery record.
	Create(ctx context.Context, d Delivery) error

	// Get returns a delivery by ID, or ErrDeliveryNotFound.
	Get(ctx context.Context, id uuid.UUID) (Delivery, error)

	// List returns deliveries for an appointment, newest first.
	List(ctx context.Context, appointmentID string, opts ListOptions) ([]Delivery, error)
}
