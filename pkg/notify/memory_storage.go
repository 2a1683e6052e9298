package notify

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStorage is an in-memory Storage implementation, suitable for
// development and tests.
type MemoryStorage struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]Delivery
	byAppt map[string][]uuid.UUID
}

// NewMemoryStorage creates an empty in-memory delivery log.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		byID:   make(map[uuid.UUID]Delivery),
		byAppt: make(map[string][]uuid.UUID),
	}
}

func (s *MemoryStorage) Create(ctx context.Context, d Delivery) error {
	if err := validateDelivery(d); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if d.CreatedAt.IsZero() {
		d.CreatedAt = time.Now()
	}

	s.byID[d.ID] = d
	s.byAppt[d.AppointmentID] = append(s.byAppt[d.AppointmentID], d.ID)
	return nil
}

func (s *MemoryStorage) Get(ctx context.Context, id uuid.UUID) (Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.byID[id]
	if !ok {
		return Delivery{}, ErrDeliveryNotFound
	}
	return d, nil
}

func (s *MemoryStorage) List(ctx context.Context, appointmentID string, opts ListOptions) ([]Delivery, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.byAppt[appointmentID]
	filtered := make([]Delivery, 0, len(ids))
	for _, id := range ids {
		d := s.byID[id]
		if opts.Channel != "" && d.Channel != opts.Channel {
			continue
		}
		if opts.Status != "" && d.Status != opts.Status {
			continue
		}
		filtered = append(filtered, d)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})

	start := max(opts.Offset, 0)
	if start > len(filtered) {
		return []Delivery{}, nil
	}
	end := start + opts.Limit
	if opts.Limit <= 0 || end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], nil
}

func validateDelivery(d Delivery) error {
	if d.ID == uuid.Nil {
		return fmt.Errorf("%w: ID is required", ErrInvalidDelivery)
	}
	if d.AppointmentID == "" {
		return fmt.Errorf("%w: AppointmentID is required", ErrInvalidDelivery)
	}
	if !d.Channel.Valid() {
		return fmt.Errorf("%w: unknown channel %q", ErrInvalidDelivery, d.Channel)
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidDelivery, d.Status)
	}
	return nil
}
