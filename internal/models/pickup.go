package models

import "time"

// PickupStatus is the lifecycle state of a pickup.
type PickupStatus string

const (
	PickupScheduled PickupStatus = "scheduled"
	PickupCollected PickupStatus = "collected"
	PickupCancelled PickupStatus = "cancelled"
)

func (s PickupStatus) String() string { return string(s) }

func (s PickupStatus) IsValid() bool {
	switch s {
	case PickupScheduled, PickupCollected, PickupCancelled:
		return true
	default:
		return false
	}
}

var pickupTransitions = map[PickupStatus][]PickupStatus{
	PickupScheduled: {PickupCollected, PickupCancelled},
	PickupCollected: {},
	PickupCancelled: {},
}

// CanTransitionTo reports whether the status may move to next.
func (s PickupStatus) CanTransitionTo(next PickupStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range pickupTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Pickup is a scheduled collection from a sender location; there is no
// receiver. ScheduledDate and ScheduledTime stay free text, one of the
// intake forms never validated them as real dates.
type Pickup struct {
	ID            string       `json:"id"`
	Sender        Person       `json:"sender"`
	Messenger     string       `json:"messenger"`
	MessengerID   string       `json:"messengerId,omitempty"`
	Zone          Zone         `json:"zone"`
	ScheduledDate string       `json:"scheduledDate"`
	ScheduledTime string       `json:"scheduledTime"`
	Status        PickupStatus `json:"status"`
	PackageCount  int          `json:"packageCount"`
	Notes         string       `json:"notes,omitempty"`
	PickupOnly    bool         `json:"pickupOnly,omitempty"`
	Cost          float64      `json:"cost,omitempty"`
	CreatedAt     time.Time    `json:"createdAt"`
	UpdatedAt     time.Time    `json:"updatedAt"`
}

// PickupStats are per-status counters derived from the full list.
type PickupStats struct {
	Total     int `json:"total"`
	Scheduled int `json:"scheduled"`
	Collected int `json:"collected"`
	Cancelled int `json:"cancelled"`
}
