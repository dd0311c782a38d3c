package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/courierops/internal/models"
	"github.com/example/courierops/internal/storage"
)

func TestRegisterBootstrapsSingleAdmin(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	user, err := s.Register(ctx, "admin", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.Equal(t, "admin", user.Name)

	// Registration establishes a session immediately.
	current := s.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	// A second registration fails and leaves the single credential alone.
	_, err = s.Register(ctx, "other", "secret123")
	require.ErrorIs(t, err, ErrAdminExists)
	creds := s.Credentials()
	require.Len(t, creds, 1)
	assert.Equal(t, "admin", creds[0].Username)
	assert.Equal(t, "Admin", creds[0].FirstName)
	assert.Equal(t, "Principal", creds[0].LastName)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	_, err := s.Register(ctx, "admin", "secret123")
	require.NoError(t, err)

	_, wrongPassword := s.Login(ctx, "admin", "wrong")
	_, unknownUser := s.Login(ctx, "nobody", "secret123")
	require.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	require.ErrorIs(t, unknownUser, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword, unknownUser)

	// Username matching is case-sensitive.
	_, err = s.Login(ctx, "ADMIN", "secret123")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	user, err := s.Login(ctx, "admin", "secret123")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)
}

func TestLogoutClearsOnlySession(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	_, err := s.Register(ctx, "admin", "secret123")
	require.NoError(t, err)

	require.NoError(t, s.Logout(ctx))
	assert.Nil(t, s.CurrentUser())
	assert.Len(t, s.Credentials(), 1)
}

func TestSessionSurvivesReload(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemory()

	s := NewCredentialStore(backing)
	user, err := s.Register(ctx, "admin", "secret123")
	require.NoError(t, err)

	reloaded := NewCredentialStore(backing)
	reloaded.Load(ctx)

	current := reloaded.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, user.ID, current.ID)

	// Passwords still verify after a reload round-trip.
	_, err = reloaded.Login(ctx, "admin", "secret123")
	require.NoError(t, err)
}

func addMessenger(t *testing.T, s *CredentialStore, username, first, last string) models.Credential {
	t.Helper()
	cred, err := s.AddCredential(context.Background(), models.Credential{
		Username:    username,
		Role:        models.RoleMessenger,
		FirstName:   first,
		LastName:    last,
		PhoneNumber: "555-0100",
	}, "secret123")
	require.NoError(t, err)
	return cred
}

func TestAvailabilityDefaultsToFalse(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	messenger := addMessenger(t, s, "carla", "Carla", "Vega")
	assert.False(t, s.IsAvailable(messenger.ID))

	value, err := s.ToggleAvailability(ctx, messenger.ID)
	require.NoError(t, err)
	assert.True(t, value)
	assert.True(t, s.IsAvailable(messenger.ID))

	require.NoError(t, s.SetAvailability(ctx, messenger.ID, false))
	assert.False(t, s.IsAvailable(messenger.ID))
}

func TestMessengersDerivedView(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	_, err := s.Register(ctx, "admin", "secret123")
	require.NoError(t, err)

	carla := addMessenger(t, s, "carla", "Carla", "Vega")
	addMessenger(t, s, "luis", "Luis", "Soto")

	// The admin is not a messenger.
	messengers := s.Messengers()
	require.Len(t, messengers, 2)
	assert.Equal(t, "Carla Vega", messengers[0].Name)
	assert.False(t, messengers[0].IsAvailable)

	assert.Empty(t, s.AvailableMessengers())

	_, err = s.ToggleAvailability(ctx, carla.ID)
	require.NoError(t, err)

	available := s.AvailableMessengers()
	require.Len(t, available, 1)
	assert.Equal(t, carla.ID, available[0].ID)
}

func TestUsernameTakenIsCaseInsensitive(t *testing.T) {
	s := NewCredentialStore(storage.NewMemory())
	cred := addMessenger(t, s, "Carla", "Carla", "Vega")

	assert.True(t, s.UsernameTaken("carla", ""))
	assert.True(t, s.UsernameTaken("CARLA", ""))
	assert.False(t, s.UsernameTaken("carla", cred.ID))
	assert.False(t, s.UsernameTaken("luis", ""))
}

func TestUpdateAndDeleteCredential(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	cred := addMessenger(t, s, "carla", "Carla", "Vega")

	phone := "555-0199"
	license := models.LicenseM
	vehicle := models.VehicleMoto
	updated, err := s.UpdateCredential(ctx, cred.ID, CredentialUpdate{
		PhoneNumber: &phone,
		LicenseType: &license,
		VehicleType: &vehicle,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "555-0199", updated.PhoneNumber)
	assert.Equal(t, models.LicenseM, updated.LicenseType)
	assert.Equal(t, models.VehicleMoto, updated.VehicleType)
	assert.Equal(t, "carla", updated.Username)

	missing, err := s.UpdateCredential(ctx, "nope", CredentialUpdate{PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, s.DeleteCredential(ctx, cred.ID))
	assert.Empty(t, s.Credentials())
}

func TestLocations(t *testing.T) {
	ctx := context.Background()
	s := NewCredentialStore(storage.NewMemory())

	messenger := addMessenger(t, s, "carla", "Carla", "Vega")
	assert.Empty(t, s.Locations())

	require.NoError(t, s.SetLocation(ctx, messenger.ID, 19.4326, -99.1332))

	locations := s.Locations()
	require.Len(t, locations, 1)
	assert.Equal(t, messenger.ID, locations[0].MessengerID)
	assert.Equal(t, 19.4326, locations[0].Latitude)
	assert.False(t, locations[0].UpdatedAt.IsZero())
}
