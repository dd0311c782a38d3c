package models

// Zone is one of the five fixed delivery areas.
type Zone string

const (
	Zone1 Zone = "zona_1"
	Zone2 Zone = "zona_2"
	Zone3 Zone = "zona_3"
	Zone4 Zone = "zona_4"
	Zone5 Zone = "zona_5"
)

var zoneLabels = map[Zone]string{
	Zone1: "Zona 1",
	Zone2: "Zona 2",
	Zone3: "Zona 3",
	Zone4: "Zona 4",
	Zone5: "Zona 5",
}

// zoneShippingCosts is the fixed per-zone shipping price table.
var zoneShippingCosts = map[Zone]float64{
	Zone1: 15,
	Zone2: 20,
	Zone3: 25,
	Zone4: 30,
	Zone5: 35,
}

func (z Zone) String() string { return string(z) }

func (z Zone) IsValid() bool {
	_, ok := zoneLabels[z]
	return ok
}

// Label returns the display name for the zone.
func (z Zone) Label() string { return zoneLabels[z] }

// ShippingCost returns the flat shipping cost for the zone.
func (z Zone) ShippingCost() float64 { return zoneShippingCosts[z] }

// AllZones returns the zones in display order.
func AllZones() []Zone {
	return []Zone{Zone1, Zone2, Zone3, Zone4, Zone5}
}
