package models

import "time"

// Role gates navigation and API access.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleMessenger Role = "messenger"
	RoleScheduler Role = "scheduler"
)

func (r Role) String() string { return string(r) }

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleMessenger, RoleScheduler:
		return true
	default:
		return false
	}
}

// LicenseType is the driving license class of a messenger.
type LicenseType string

const (
	LicenseA LicenseType = "A"
	LicenseB LicenseType = "B"
	LicenseC LicenseType = "C"
	LicenseM LicenseType = "M"
)

func (l LicenseType) IsValid() bool {
	switch l {
	case LicenseA, LicenseB, LicenseC, LicenseM:
		return true
	default:
		return false
	}
}

// VehicleType is what a messenger rides or drives.
type VehicleType string

const (
	VehicleMoto   VehicleType = "moto"
	VehicleCarro  VehicleType = "carro"
	VehicleCamion VehicleType = "camion"
)

func (v VehicleType) IsValid() bool {
	switch v {
	case VehicleMoto, VehicleCarro, VehicleCamion:
		return true
	default:
		return false
	}
}

// Credential is a user account. Age, LicenseType and VehicleType only
// apply to messengers. PasswordHash is a bcrypt hash and never leaves
// the server.
type Credential struct {
	ID           string      `json:"id"`
	Username     string      `json:"username"`
	PasswordHash string      `json:"-"`
	Role         Role        `json:"role"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	PhoneNumber  string      `json:"phoneNumber"`
	Age          int         `json:"age,omitempty"`
	LicenseType  LicenseType `json:"licenseType,omitempty"`
	VehicleType  VehicleType `json:"vehicleType,omitempty"`
	CreatedAt    time.Time   `json:"createdAt"`
}

// DisplayName joins the credential's first and last name.
func (c Credential) DisplayName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}

// User is the authenticated session identity persisted across restarts.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

// Messenger is the derived view joining a messenger credential with its
// availability flag.
type Messenger struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	IsAvailable bool   `json:"isAvailable"`
}

// MessengerLocation is the last reported position of a messenger.
type MessengerLocation struct {
	MessengerID string    `json:"messengerId"`
	Latitude    float64   `json:"latitude"`
	Longitude   float64   `json:"longitude"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
