package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeliveryStatusTransitions(t *testing.T) {
	cases := []struct {
		from    DeliveryStatus
		to      DeliveryStatus
		allowed bool
	}{
		{DeliveryPending, DeliveryInTransit, true},
		{DeliveryPending, DeliveryCancelled, true},
		{DeliveryPending, DeliveryDelivered, false},
		{DeliveryInTransit, DeliveryDelivered, true},
		{DeliveryInTransit, DeliveryNotDelivered, true},
		{DeliveryInTransit, DeliveryRescheduled, true},
		{DeliveryNotDelivered, DeliveryInTransit, true},
		{DeliveryNotDelivered, DeliveryDelivered, false},
		{DeliveryRescheduled, DeliveryInTransit, true},
		{DeliveryDelivered, DeliveryPending, false},
		{DeliveryDelivered, DeliveryInTransit, false},
		{DeliveryCancelled, DeliveryInTransit, false},
		// Repeating the current status is always allowed.
		{DeliveryDelivered, DeliveryDelivered, true},
		{DeliveryPending, DeliveryPending, true},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestPickupStatusTransitions(t *testing.T) {
	assert.True(t, PickupScheduled.CanTransitionTo(PickupCollected))
	assert.True(t, PickupScheduled.CanTransitionTo(PickupCancelled))
	assert.True(t, PickupCollected.CanTransitionTo(PickupCollected))
	assert.False(t, PickupCollected.CanTransitionTo(PickupScheduled))
	assert.False(t, PickupCancelled.CanTransitionTo(PickupCollected))
}

func TestStatusValidity(t *testing.T) {
	assert.True(t, DeliveryNotDelivered.IsValid())
	assert.True(t, DeliveryRescheduled.IsValid())
	assert.True(t, DeliveryCancelled.IsValid())
	assert.False(t, DeliveryStatus("lost").IsValid())
	assert.False(t, PickupStatus("pending").IsValid())
}

func TestZones(t *testing.T) {
	assert.Len(t, AllZones(), 5)
	assert.True(t, Zone1.IsValid())
	assert.False(t, Zone("zona_6").IsValid())
	assert.Equal(t, "Zona 3", Zone3.Label())
	assert.Equal(t, 15.0, Zone1.ShippingCost())
	assert.Equal(t, 35.0, Zone5.ShippingCost())
}

func TestCredentialDisplayName(t *testing.T) {
	cred := Credential{FirstName: "Ana", LastName: "Ruiz"}
	assert.Equal(t, "Ana Ruiz", cred.DisplayName())

	cred.LastName = ""
	assert.Equal(t, "Ana", cred.DisplayName())
}
