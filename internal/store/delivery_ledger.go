package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/storage"
)

const deliveriesKey = "@deliveries"

// ErrInvalidTransition rejects a status change the transition table
// does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// DeliveryLedger owns the authoritative delivery list and mirrors it to
// storage under a fixed key. All mutations run behind a single writer
// lock, so two concurrent updates cannot lose each other's merge.
type DeliveryLedger struct {
	notifier
	mu         sync.RWMutex
	store      storage.Store
	deliveries []models.Delivery
}

// NewDeliveryLedger creates a ledger over the given storage backend.
func NewDeliveryLedger(store storage.Store) *DeliveryLedger {
	return &DeliveryLedger{store: store}
}

// Load populates the in-memory list from storage. A missing key or an
// unreadable value degrades to an empty list rather than failing startup.
func (l *DeliveryLedger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.deliveries = nil

	raw, ok, err := l.store.Get(ctx, deliveriesKey)
	if err != nil {
		log.Printf("delivery ledger: load: %v", err)
		return
	}
	if !ok {
		return
	}

	var deliveries []models.Delivery
	if err := json.Unmarshal([]byte(raw), &deliveries); err != nil {
		log.Printf("delivery ledger: parse stored list: %v", err)
		return
	}
	l.deliveries = deliveries
}

// persist writes the full list and commits it in memory only when the
// write succeeded. Callers hold the write lock.
func (l *DeliveryLedger) persist(ctx context.Context, deliveries []models.Delivery) error {
	raw, err := json.Marshal(deliveries)
	if err != nil {
		return fmt.Errorf("delivery ledger: encode list: %w", err)
	}
	if err := l.store.Set(ctx, deliveriesKey, string(raw)); err != nil {
		return fmt.Errorf("delivery ledger: persist list: %w", err)
	}
	l.deliveries = deliveries
	return nil
}

// Add assigns an id and timestamps, prepends the delivery and persists.
// The list stays newest-first as a side effect of prepending.
func (l *DeliveryLedger) Add(ctx context.Context, delivery models.Delivery) (models.Delivery, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	delivery.ID = uuid.NewString()
	delivery.CreatedAt = now
	delivery.UpdatedAt = now
	if delivery.Status == "" {
		delivery.Status = models.DeliveryPending
	}
	if delivery.Messenger == "" {
		delivery.Messenger = models.UnassignedMessenger
	}

	updated := make([]models.Delivery, 0, len(l.deliveries)+1)
	updated = append(updated, delivery)
	updated = append(updated, l.deliveries...)

	if err := l.persist(ctx, updated); err != nil {
		return models.Delivery{}, err
	}
	l.publish()
	return delivery, nil
}

// DeliveryUpdate carries a partial-field update; nil fields are left
// untouched by the merge.
type DeliveryUpdate struct {
	Sender             *models.Person         `json:"sender"`
	Receiver           *models.Person         `json:"receiver"`
	Messenger          *string                `json:"messenger"`
	MessengerID        *string                `json:"messengerId"`
	Zone               *models.Zone           `json:"zone"`
	PackageCost        *float64               `json:"packageCost"`
	ShippingCost       *float64               `json:"shippingCost"`
	Status             *models.DeliveryStatus `json:"status"`
	Description        *string                `json:"description"`
	NotDeliveredReason *string                `json:"notDeliveredReason"`
	Photos             []string               `json:"photos"`
}

func (u DeliveryUpdate) apply(d *models.Delivery) {
	if u.Sender != nil {
		d.Sender = *u.Sender
	}
	if u.Receiver != nil {
		d.Receiver = *u.Receiver
	}
	if u.Messenger != nil {
		d.Messenger = *u.Messenger
	}
	if u.MessengerID != nil {
		d.MessengerID = *u.MessengerID
	}
	if u.Zone != nil {
		d.Zone = *u.Zone
	}
	if u.PackageCost != nil {
		d.PackageCost = *u.PackageCost
	}
	if u.ShippingCost != nil {
		d.ShippingCost = *u.ShippingCost
	}
	if u.Status != nil {
		d.Status = *u.Status
	}
	if u.Description != nil {
		d.Description = *u.Description
	}
	if u.NotDeliveredReason != nil {
		d.NotDeliveredReason = *u.NotDeliveredReason
	}
	if u.Photos != nil {
		d.Photos = u.Photos
	}
}

// Update shallow-merges the partial fields into the matching record and
// refreshes its UpdatedAt. An unknown id is a silent no-op returning nil.
// The merge path performs no validation; status changes that must honor
// the transition table go through UpdateStatus.
func (l *DeliveryLedger) Update(ctx context.Context, id string, update DeliveryUpdate) (*models.Delivery, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil, nil
	}

	updated := make([]models.Delivery, len(l.deliveries))
	copy(updated, l.deliveries)

	update.apply(&updated[index])
	updated[index].ID = id
	updated[index].UpdatedAt = time.Now()

	if err := l.persist(ctx, updated); err != nil {
		return nil, err
	}
	l.publish()
	result := updated[index]
	return &result, nil
}

// UpdateStatus moves the delivery to the given status after checking the
// transition table. Repeating the current status is accepted.
func (l *DeliveryLedger) UpdateStatus(ctx context.Context, id string, status models.DeliveryStatus) (*models.Delivery, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil, nil
	}

	current := l.deliveries[index].Status
	if !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	updated := make([]models.Delivery, len(l.deliveries))
	copy(updated, l.deliveries)
	updated[index].Status = status
	updated[index].UpdatedAt = time.Now()

	if err := l.persist(ctx, updated); err != nil {
		return nil, err
	}
	l.publish()
	result := updated[index]
	return &result, nil
}

// Remove filters out the matching record and persists. Removing an
// unknown id leaves the list unchanged.
func (l *DeliveryLedger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated := make([]models.Delivery, 0, len(l.deliveries))
	for _, d := range l.deliveries {
		if d.ID != id {
			updated = append(updated, d)
		}
	}
	if len(updated) == len(l.deliveries) {
		return nil
	}

	if err := l.persist(ctx, updated); err != nil {
		return err
	}
	l.publish()
	return nil
}

// Get returns a copy of the matching delivery, or nil.
func (l *DeliveryLedger) Get(id string) *models.Delivery {
	l.mu.RLock()
	defer l.mu.RUnlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil
	}
	result := l.deliveries[index]
	return &result
}

// Deliveries returns a snapshot of the full list, newest first.
func (l *DeliveryLedger) Deliveries() []models.Delivery {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]models.Delivery, len(l.deliveries))
	copy(snapshot, l.deliveries)
	return snapshot
}

// Stats derives the dashboard counters by a linear scan over the list.
func (l *DeliveryLedger) Stats() models.DeliveryStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := models.DeliveryStats{Total: len(l.deliveries)}
	for _, d := range l.deliveries {
		switch d.Status {
		case models.DeliveryPending:
			stats.Pending++
		case models.DeliveryInTransit:
			stats.InTransit++
		case models.DeliveryDelivered:
			stats.Delivered++
		}
		stats.TotalRevenue += d.PackageCost + d.ShippingCost
	}
	return stats
}

// Filter returns the deliveries matching every given predicate. An empty
// status, zone or search term matches everything for that dimension. The
// search is a case-insensitive substring match against the sender,
// receiver and messenger names.
func (l *DeliveryLedger) Filter(status models.DeliveryStatus, zone models.Zone, search string) []models.Delivery {
	l.mu.RLock()
	defer l.mu.RUnlock()

	search = strings.ToLower(search)
	var matched []models.Delivery
	for _, d := range l.deliveries {
		if status != "" && d.Status != status {
			continue
		}
		if zone != "" && d.Zone != zone {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(d.Sender.Name), search) &&
			!strings.Contains(strings.ToLower(d.Receiver.Name), search) &&
			!strings.Contains(strings.ToLower(d.Messenger), search) {
			continue
		}
		matched = append(matched, d)
	}
	return matched
}

func (l *DeliveryLedger) indexOf(id string) int {
	for i, d := range l.deliveries {
		if d.ID == id {
			return i
		}
	}
	return -1
}
