package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/storage"
)

const pickupsKey = "@pickups"

// PickupLedger owns the authoritative pickup list, mirrored to storage
// under its own key. Same contract as the delivery ledger.
type PickupLedger struct {
	notifier
	mu      sync.RWMutex
	store   storage.Store
	pickups []models.Pickup
}

// NewPickupLedger creates a ledger over the given storage backend.
func NewPickupLedger(store storage.Store) *PickupLedger {
	return &PickupLedger{store: store}
}

// Load populates the in-memory list from storage, degrading to an empty
// list on a missing key or unreadable value.
func (l *PickupLedger) Load(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pickups = nil

	raw, ok, err := l.store.Get(ctx, pickupsKey)
	if err != nil {
		log.Printf("pickup ledger: load: %v", err)
		return
	}
	if !ok {
		return
	}

	var pickups []models.Pickup
	if err := json.Unmarshal([]byte(raw), &pickups); err != nil {
		log.Printf("pickup ledger: parse stored list: %v", err)
		return
	}
	l.pickups = pickups
}

func (l *PickupLedger) persist(ctx context.Context, pickups []models.Pickup) error {
	raw, err := json.Marshal(pickups)
	if err != nil {
		return fmt.Errorf("pickup ledger: encode list: %w", err)
	}
	if err := l.store.Set(ctx, pickupsKey, string(raw)); err != nil {
		return fmt.Errorf("pickup ledger: persist list: %w", err)
	}
	l.pickups = pickups
	return nil
}

// Add assigns an id and timestamps, prepends the pickup and persists.
func (l *PickupLedger) Add(ctx context.Context, pickup models.Pickup) (models.Pickup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	pickup.ID = uuid.NewString()
	pickup.CreatedAt = now
	pickup.UpdatedAt = now
	if pickup.Status == "" {
		pickup.Status = models.PickupScheduled
	}
	if pickup.Messenger == "" {
		pickup.Messenger = models.UnassignedMessenger
	}
	if pickup.PackageCount < 1 {
		pickup.PackageCount = 1
	}

	updated := make([]models.Pickup, 0, len(l.pickups)+1)
	updated = append(updated, pickup)
	updated = append(updated, l.pickups...)

	if err := l.persist(ctx, updated); err != nil {
		return models.Pickup{}, err
	}
	l.publish()
	return pickup, nil
}

// PickupUpdate carries a partial-field update; nil fields are left
// untouched by the merge.
type PickupUpdate struct {
	Sender        *models.Person       `json:"sender"`
	Messenger     *string              `json:"messenger"`
	MessengerID   *string              `json:"messengerId"`
	Zone          *models.Zone         `json:"zone"`
	ScheduledDate *string              `json:"scheduledDate"`
	ScheduledTime *string              `json:"scheduledTime"`
	Status        *models.PickupStatus `json:"status"`
	PackageCount  *int                 `json:"packageCount"`
	Notes         *string              `json:"notes"`
	PickupOnly    *bool                `json:"pickupOnly"`
	Cost          *float64             `json:"cost"`
}

func (u PickupUpdate) apply(p *models.Pickup) {
	if u.Sender != nil {
		p.Sender = *u.Sender
	}
	if u.Messenger != nil {
		p.Messenger = *u.Messenger
	}
	if u.MessengerID != nil {
		p.MessengerID = *u.MessengerID
	}
	if u.Zone != nil {
		p.Zone = *u.Zone
	}
	if u.ScheduledDate != nil {
		p.ScheduledDate = *u.ScheduledDate
	}
	if u.ScheduledTime != nil {
		p.ScheduledTime = *u.ScheduledTime
	}
	if u.Status != nil {
		p.Status = *u.Status
	}
	if u.PackageCount != nil {
		p.PackageCount = *u.PackageCount
	}
	if u.Notes != nil {
		p.Notes = *u.Notes
	}
	if u.PickupOnly != nil {
		p.PickupOnly = *u.PickupOnly
	}
	if u.Cost != nil {
		p.Cost = *u.Cost
	}
}

// Update shallow-merges the partial fields into the matching record and
// refreshes its UpdatedAt. An unknown id is a silent no-op returning nil.
func (l *PickupLedger) Update(ctx context.Context, id string, update PickupUpdate) (*models.Pickup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil, nil
	}

	updated := make([]models.Pickup, len(l.pickups))
	copy(updated, l.pickups)

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

// UpdateStatus moves the pickup to the given status after checking the
// transition table. Repeating the current status is accepted.
func (l *PickupLedger) UpdateStatus(ctx context.Context, id string, status models.PickupStatus) (*models.Pickup, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil, nil
	}

	current := l.pickups[index].Status
	if !current.CanTransitionTo(status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, current, status)
	}

	updated := make([]models.Pickup, len(l.pickups))
	copy(updated, l.pickups)
	updated[index].Status = status
	updated[index].UpdatedAt = time.Now()

	if err := l.persist(ctx, updated); err != nil {
		return nil, err
	}
	l.publish()
	result := updated[index]
	return &result, nil
}

// Remove filters out the matching record and persists.
func (l *PickupLedger) Remove(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	updated := make([]models.Pickup, 0, len(l.pickups))
	for _, p := range l.pickups {
		if p.ID != id {
			updated = append(updated, p)
		}
	}
	if len(updated) == len(l.pickups) {
		return nil
	}

	if err := l.persist(ctx, updated); err != nil {
		return err
	}
	l.publish()
	return nil
}

// Get returns a copy of the matching pickup, or nil.
func (l *PickupLedger) Get(id string) *models.Pickup {
	l.mu.RLock()
	defer l.mu.RUnlock()

	index := l.indexOf(id)
	if index < 0 {
		return nil
	}
	result := l.pickups[index]
	return &result
}

// Pickups returns a snapshot of the full list, newest first.
func (l *PickupLedger) Pickups() []models.Pickup {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snapshot := make([]models.Pickup, len(l.pickups))
	copy(snapshot, l.pickups)
	return snapshot
}

// Stats derives per-status counters by a linear scan over the list.
func (l *PickupLedger) Stats() models.PickupStats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	stats := models.PickupStats{Total: len(l.pickups)}
	for _, p := range l.pickups {
		switch p.Status {
		case models.PickupScheduled:
			stats.Scheduled++
		case models.PickupCollected:
			stats.Collected++
		case models.PickupCancelled:
			stats.Cancelled++
		}
	}
	return stats
}

// Filter returns the pickups matching every given predicate. The search
// covers the sender and messenger names only; pickups have no receiver.
func (l *PickupLedger) Filter(status models.PickupStatus, zone models.Zone, search string) []models.Pickup {
	l.mu.RLock()
	defer l.mu.RUnlock()

	search = strings.ToLower(search)
	var matched []models.Pickup
	for _, p := range l.pickups {
		if status != "" && p.Status != status {
			continue
		}
		if zone != "" && p.Zone != zone {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Sender.Name), search) &&
			!strings.Contains(strings.ToLower(p.Messenger), search) {
			continue
		}
		matched = append(matched, p)
	}
	return matched
}

func (l *PickupLedger) indexOf(id string) int {
	for i, p := range l.pickups {
		if p.ID == id {
			return i
		}
	}
	return -1
}
