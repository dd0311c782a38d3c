package models

import "time"

// Person is an embedded contact value, never stored on its own.
type Person struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// DeliveryStatus is the lifecycle state of a delivery.
type DeliveryStatus string

const (
	DeliveryPending      DeliveryStatus = "pending"
	DeliveryInTransit    DeliveryStatus = "in_transit"
	DeliveryDelivered    DeliveryStatus = "delivered"
	DeliveryNotDelivered DeliveryStatus = "not_delivered"
	DeliveryRescheduled  DeliveryStatus = "rescheduled"
	DeliveryCancelled    DeliveryStatus = "cancelled"
)

func (s DeliveryStatus) String() string { return string(s) }

func (s DeliveryStatus) IsValid() bool {
	switch s {
	case DeliveryPending, DeliveryInTransit, DeliveryDelivered,
		DeliveryNotDelivered, DeliveryRescheduled, DeliveryCancelled:
		return true
	default:
		return false
	}
}

// deliveryTransitions is the allowed-from -> allowed-to table. Delivered
// and cancelled are terminal. Repeating the current status is always
// accepted, see CanTransitionTo.
var deliveryTransitions = map[DeliveryStatus][]DeliveryStatus{
	DeliveryPending:      {DeliveryInTransit, DeliveryCancelled},
	DeliveryInTransit:    {DeliveryDelivered, DeliveryNotDelivered, DeliveryRescheduled, DeliveryCancelled},
	DeliveryNotDelivered: {DeliveryInTransit, DeliveryRescheduled},
	DeliveryRescheduled:  {DeliveryInTransit, DeliveryCancelled},
	DeliveryDelivered:    {},
	DeliveryCancelled:    {},
}

// CanTransitionTo reports whether the status may move to next.
func (s DeliveryStatus) CanTransitionTo(next DeliveryStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range deliveryTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Delivery is a single shipment from a sender to a receiver.
type Delivery struct {
	ID                 string         `json:"id"`
	Sender             Person         `json:"sender"`
	Receiver           Person         `json:"receiver"`
	Messenger          string         `json:"messenger"`
	MessengerID        string         `json:"messengerId,omitempty"`
	Zone               Zone           `json:"zone"`
	PackageCost        float64        `json:"packageCost"`
	ShippingCost       float64        `json:"shippingCost"`
	Status             DeliveryStatus `json:"status"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
	Description        string         `json:"description,omitempty"`
	NotDeliveredReason string         `json:"notDeliveredReason,omitempty"`
	Photos             []string       `json:"photos,omitempty"`
}

// DeliveryStats are the dashboard counters derived from the full list.
type DeliveryStats struct {
	Total        int     `json:"total"`
	Pending      int     `json:"pending"`
	InTransit    int     `json:"inTransit"`
	Delivered    int     `json:"delivered"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// UnassignedMessenger is the display placeholder for deliveries and
// pickups nobody has been assigned to yet.
const UnassignedMessenger = "Sin asignar"
