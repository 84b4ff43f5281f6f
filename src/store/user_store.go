package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/username/cifra/src/logger"
	"github.com/username/cifra/src/models"
	"github.com/username/cifra/src/storage"
)

const usersKey = "cifra_users"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrEmailTaken    = errors.New("email already registered")
	ErrMissingUserID = errors.New("user id is required")
)

// UserStore keeps every account in one JSON list under the cifra_users key.
type UserStore struct {
	kv storage.Store
}

func NewUserStore(kv storage.Store) *UserStore {
	return &UserStore{kv: kv}
}

func (s *UserStore) loadAll() ([]models.UserProfile, error) {
	raw, ok, err := s.kv.Get(usersKey)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if !ok {
		return []models.UserProfile{}, nil
	}
	var users []models.UserProfile
	if err := json.Unmarshal(raw, &users); err != nil {
		if logger.L != nil {
			logger.L.Warn("Corrupt users blob, resetting to empty", "error", err)
		}
		return []models.UserProfile{}, nil
	}
	return users, nil
}

func (s *UserStore) saveAll(users []models.UserProfile) error {
	raw, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := s.kv.Put(usersKey, raw); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

// Create registers a new account. Email lookups are case-insensitive.
func (s *UserStore) Create(profile models.UserProfile) (models.UserProfile, error) {
	users, err := s.loadAll()
	if err != nil {
		return models.UserProfile{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, profile.Email) {
			return models.UserProfile{}, ErrEmailTaken
		}
	}
	profile.ID = uuid.NewString()
	profile.CreatedAt = time.Now()
	users = append(users, profile)
	if err := s.saveAll(users); err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}

func (s *UserStore) FindByEmail(email string) (models.UserProfile, error) {
	users, err := s.loadAll()
	if err != nil {
		return models.UserProfile{}, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return models.UserProfile{}, ErrUserNotFound
}

func (s *UserStore) FindByID(id string) (models.UserProfile, error) {
	users, err := s.loadAll()
	if err != nil {
		return models.UserProfile{}, err
	}
	for _, u := range users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.UserProfile{}, ErrUserNotFound
}

// Update overwrites the stored profile with the same id.
func (s *UserStore) Update(profile models.UserProfile) error {
	if profile.ID == "" {
		return ErrMissingUserID
	}
	users, err := s.loadAll()
	if err != nil {
		return err
	}
	for i := range users {
		if users[i].ID == profile.ID {
			users[i] = profile
			return s.saveAll(users)
		}
	}
	return ErrUserNotFound
}
