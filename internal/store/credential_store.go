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
	"github.com/example/courierops/internal/utils"
)

const (
	credentialsKey  = "@app_credentials"
	availabilityKey = "@messenger_availability"
	locationsKey    = "@messenger_locations"
	sessionKey      = "@auth_user"
)

var (
	// ErrAdminExists rejects registration once the bootstrap admin exists.
	ErrAdminExists = errors.New("an administrator is already registered")
	// ErrInvalidCredentials is returned for both an unknown username and
	// a wrong password, deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// storedCredential is the persistence shape; it carries the password
// hash the public model deliberately never serializes.
type storedCredential struct {
	models.Credential
	PasswordHash string `json:"passwordHash"`
}

// CredentialStore owns the credential list, the messenger availability
// map, reported messenger locations and the persisted session identity.
type CredentialStore struct {
	notifier
	mu           sync.RWMutex
	store        storage.Store
	credentials  []models.Credential
	availability map[string]bool
	locations    map[string]models.MessengerLocation
	session      *models.User
}

// NewCredentialStore creates the store over the given storage backend.
func NewCredentialStore(store storage.Store) *CredentialStore {
	return &CredentialStore{
		store:        store,
		availability: make(map[string]bool),
		locations:    make(map[string]models.MessengerLocation),
	}
}

// Load restores credentials, availability, locations and the session
// from storage. Each key degrades independently to its empty value.
func (s *CredentialStore) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.credentials = nil
	s.availability = make(map[string]bool)
	s.locations = make(map[string]models.MessengerLocation)
	s.session = nil

	if raw, ok := s.read(ctx, credentialsKey); ok {
		var stored []storedCredential
		if err := json.Unmarshal([]byte(raw), &stored); err != nil {
			log.Printf("credential store: parse credentials: %v", err)
		} else {
			for _, sc := range stored {
				cred := sc.Credential
				cred.PasswordHash = sc.PasswordHash
				s.credentials = append(s.credentials, cred)
			}
		}
	}

	if raw, ok := s.read(ctx, availabilityKey); ok {
		if err := json.Unmarshal([]byte(raw), &s.availability); err != nil {
			log.Printf("credential store: parse availability: %v", err)
			s.availability = make(map[string]bool)
		}
	}

	if raw, ok := s.read(ctx, locationsKey); ok {
		if err := json.Unmarshal([]byte(raw), &s.locations); err != nil {
			log.Printf("credential store: parse locations: %v", err)
			s.locations = make(map[string]models.MessengerLocation)
		}
	}

	if raw, ok := s.read(ctx, sessionKey); ok {
		var user models.User
		if err := json.Unmarshal([]byte(raw), &user); err != nil {
			log.Printf("credential store: parse session: %v", err)
		} else {
			s.session = &user
		}
	}
}

func (s *CredentialStore) read(ctx context.Context, key string) (string, bool) {
	raw, ok, err := s.store.Get(ctx, key)
	if err != nil {
		log.Printf("credential store: load %s: %v", key, err)
		return "", false
	}
	return raw, ok
}

// persistCredentials writes the full credential list and commits it in
// memory only when the write succeeded. Callers hold the write lock.
func (s *CredentialStore) persistCredentials(ctx context.Context, credentials []models.Credential) error {
	stored := make([]storedCredential, len(credentials))
	for i, cred := range credentials {
		stored[i] = storedCredential{Credential: cred, PasswordHash: cred.PasswordHash}
	}
	raw, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("credential store: encode credentials: %w", err)
	}
	if err := s.store.Set(ctx, credentialsKey, string(raw)); err != nil {
		return fmt.Errorf("credential store: persist credentials: %w", err)
	}
	s.credentials = credentials
	return nil
}

func (s *CredentialStore) persistSession(ctx context.Context, user models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("credential store: encode session: %w", err)
	}
	if err := s.store.Set(ctx, sessionKey, string(raw)); err != nil {
		return fmt.Errorf("credential store: persist session: %w", err)
	}
	s.session = &user
	return nil
}

// Register creates the bootstrap admin. It refuses when any credential
// already exists and establishes a session for the new admin on success.
func (s *CredentialStore) Register(ctx context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.credentials) > 0 {
		return models.User{}, ErrAdminExists
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.User{}, fmt.Errorf("credential store: hash password: %w", err)
	}

	admin := models.Credential{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		FirstName:    "Admin",
		LastName:     "Principal",
		CreatedAt:    time.Now(),
	}

	if err := s.persistCredentials(ctx, []models.Credential{admin}); err != nil {
		return models.User{}, err
	}

	user := models.User{ID: admin.ID, Name: username, Role: models.RoleAdmin}
	if err := s.persistSession(ctx, user); err != nil {
		return models.User{}, err
	}
	s.publish()
	return user, nil
}

// Login scans for an exact username match and compares the password
// against the stored hash. Success persists the session identity.
func (s *CredentialStore) Login(ctx context.Context, username, password string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, cred := range s.credentials {
		if cred.Username != username {
			continue
		}
		if !utils.CheckPassword(cred.PasswordHash, password) {
			return models.User{}, ErrInvalidCredentials
		}
		user := models.User{ID: cred.ID, Name: username, Role: cred.Role}
		if err := s.persistSession(ctx, user); err != nil {
			return models.User{}, err
		}
		return user, nil
	}
	return models.User{}, ErrInvalidCredentials
}

// Logout clears only the persisted session; credentials are untouched.
func (s *CredentialStore) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.Remove(ctx, sessionKey); err != nil {
		return fmt.Errorf("credential store: clear session: %w", err)
	}
	s.session = nil
	return nil
}

// CurrentUser returns the persisted session identity, or nil.
func (s *CredentialStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.session == nil {
		return nil
	}
	user := *s.session
	return &user
}

// HasAdmin reports whether the bootstrap registration already happened.
func (s *CredentialStore) HasAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.credentials) > 0
}

// AddCredential creates an account with the given plaintext password.
// Uniqueness is left to the caller, the store performs no validation.
func (s *CredentialStore) AddCredential(ctx context.Context, cred models.Credential, password string) (models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, err := utils.HashPassword(password)
	if err != nil {
		return models.Credential{}, fmt.Errorf("credential store: hash password: %w", err)
	}

	cred.ID = uuid.NewString()
	cred.PasswordHash = hash
	cred.CreatedAt = time.Now()

	updated := make([]models.Credential, 0, len(s.credentials)+1)
	updated = append(updated, s.credentials...)
	updated = append(updated, cred)

	if err := s.persistCredentials(ctx, updated); err != nil {
		return models.Credential{}, err
	}
	s.publish()
	return cred, nil
}

// CredentialUpdate carries a partial credential update; nil fields are
// left untouched. A non-nil Password is re-hashed.
type CredentialUpdate struct {
	Username    *string             `json:"username"`
	Password    *string             `json:"password"`
	Role        *models.Role        `json:"role"`
	FirstName   *string             `json:"firstName"`
	LastName    *string             `json:"lastName"`
	PhoneNumber *string             `json:"phoneNumber"`
	Age         *int                `json:"age"`
	LicenseType *models.LicenseType `json:"licenseType"`
	VehicleType *models.VehicleType `json:"vehicleType"`
}

// UpdateCredential merges the partial fields into the matching account.
// An unknown id is a silent no-op returning nil.
func (s *CredentialStore) UpdateCredential(ctx context.Context, id string, update CredentialUpdate) (*models.Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	index := -1
	for i, cred := range s.credentials {
		if cred.ID == id {
			index = i
			break
		}
	}
	if index < 0 {
		return nil, nil
	}

	updated := make([]models.Credential, len(s.credentials))
	copy(updated, s.credentials)
	cred := &updated[index]

	if update.Username != nil {
		cred.Username = *update.Username
	}
	if update.Password != nil && *update.Password != "" {
		hash, err := utils.HashPassword(*update.Password)
		if err != nil {
			return nil, fmt.Errorf("credential store: hash password: %w", err)
		}
		cred.PasswordHash = hash
	}
	if update.Role != nil {
		cred.Role = *update.Role
	}
	if update.FirstName != nil {
		cred.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		cred.LastName = *update.LastName
	}
	if update.PhoneNumber != nil {
		cred.PhoneNumber = *update.PhoneNumber
	}
	if update.Age != nil {
		cred.Age = *update.Age
	}
	if update.LicenseType != nil {
		cred.LicenseType = *update.LicenseType
	}
	if update.VehicleType != nil {
		cred.VehicleType = *update.VehicleType
	}

	if err := s.persistCredentials(ctx, updated); err != nil {
		return nil, err
	}
	s.publish()
	result := updated[index]
	return &result, nil
}

// DeleteCredential removes the account. Deliveries and pickups that
// reference its id are left as they are, there is no cascade.
func (s *CredentialStore) DeleteCredential(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]models.Credential, 0, len(s.credentials))
	for _, cred := range s.credentials {
		if cred.ID != id {
			updated = append(updated, cred)
		}
	}
	if len(updated) == len(s.credentials) {
		return nil
	}

	if err := s.persistCredentials(ctx, updated); err != nil {
		return err
	}
	s.publish()
	return nil
}

// Credentials returns a snapshot of all accounts.
func (s *CredentialStore) Credentials() []models.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]models.Credential, len(s.credentials))
	copy(snapshot, s.credentials)
	return snapshot
}

// FindByID returns a copy of the matching credential, or nil.
func (s *CredentialStore) FindByID(id string) *models.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cred := range s.credentials {
		if cred.ID == id {
			result := cred
			return &result
		}
	}
	return nil
}

// UsernameTaken reports whether a username is already in use,
// case-insensitively, ignoring the excluded id.
func (s *CredentialStore) UsernameTaken(username, excludeID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, cred := range s.credentials {
		if cred.ID == excludeID {
			continue
		}
		if strings.EqualFold(cred.Username, username) {
			return true
		}
	}
	return false
}

// ToggleAvailability flips a messenger's availability flag and returns
// the new value. Absent entries count as unavailable, so the first
// toggle turns a messenger on.
func (s *CredentialStore) ToggleAvailability(ctx context.Context, messengerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	value := !s.availability[messengerID]
	if err := s.persistAvailability(ctx, messengerID, value); err != nil {
		return false, err
	}
	s.publish()
	return value, nil
}

// SetAvailability sets a messenger's availability flag.
func (s *CredentialStore) SetAvailability(ctx context.Context, messengerID string, value bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persistAvailability(ctx, messengerID, value); err != nil {
		return err
	}
	s.publish()
	return nil
}

func (s *CredentialStore) persistAvailability(ctx context.Context, messengerID string, value bool) error {
	updated := make(map[string]bool, len(s.availability)+1)
	for id, v := range s.availability {
		updated[id] = v
	}
	updated[messengerID] = value

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("credential store: encode availability: %w", err)
	}
	if err := s.store.Set(ctx, availabilityKey, string(raw)); err != nil {
		return fmt.Errorf("credential store: persist availability: %w", err)
	}
	s.availability = updated
	return nil
}

// IsAvailable resolves a messenger's availability; missing entries
// default to false.
func (s *CredentialStore) IsAvailable(messengerID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.availability[messengerID]
}

// Messengers joins messenger credentials with their availability flags.
func (s *CredentialStore) Messengers() []models.Messenger {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var messengers []models.Messenger
	for _, cred := range s.credentials {
		if cred.Role != models.RoleMessenger {
			continue
		}
		messengers = append(messengers, models.Messenger{
			ID:          cred.ID,
			Name:        cred.DisplayName(),
			Phone:       cred.PhoneNumber,
			IsAvailable: s.availability[cred.ID],
		})
	}
	return messengers
}

// AvailableMessengers returns only messengers currently flagged available.
func (s *CredentialStore) AvailableMessengers() []models.Messenger {
	var available []models.Messenger
	for _, m := range s.Messengers() {
		if m.IsAvailable {
			available = append(available, m)
		}
	}
	return available
}

// SetLocation records a messenger's last reported position.
func (s *CredentialStore) SetLocation(ctx context.Context, messengerID string, latitude, longitude float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make(map[string]models.MessengerLocation, len(s.locations)+1)
	for id, loc := range s.locations {
		updated[id] = loc
	}
	updated[messengerID] = models.MessengerLocation{
		MessengerID: messengerID,
		Latitude:    latitude,
		Longitude:   longitude,
		UpdatedAt:   time.Now(),
	}

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("credential store: encode locations: %w", err)
	}
	if err := s.store.Set(ctx, locationsKey, string(raw)); err != nil {
		return fmt.Errorf("credential store: persist locations: %w", err)
	}
	s.locations = updated
	s.publish()
	return nil
}

// Locations returns the last reported position of every messenger.
func (s *CredentialStore) Locations() []models.MessengerLocation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	locations := make([]models.MessengerLocation, 0, len(s.locations))
	for _, loc := range s.locations {
		locations = append(locations, loc)
	}
	return locations
}
