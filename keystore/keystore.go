// SPDX-License-Identifier: GPL-3.0-only

// Package keystore is the single owner of the dashboard's API key list.
// All reads and mutations go through the Store; consumers only ever see
// copies. Every operation, success or failure, raises exactly one toast.
package keystore

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"dandi-server/models"
	"dandi-server/notify"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const SecretPrefix = "dandi-"

var (
	ErrFetchFailed  = errors.New("failed to fetch API keys")
	ErrCreateFailed = errors.New("failed to create API key")
	ErrUpdateFailed = errors.New("failed to update API key")
	ErrDeleteFailed = errors.New("failed to delete API key")
	ErrNotFound     = errors.New("API key not found")
)

type Notifier interface {
	Show(message string, severity notify.Severity)
}

type Store struct {
	mu       sync.Mutex
	conn     *gorm.DB
	notifier Notifier
	keys     []models.ApiKey
	loading  bool
}

func NewStore(conn *gorm.DB, notifier Notifier) *Store {
	return &Store{conn: conn, notifier: notifier}
}

// Load replaces the in-memory list with all persisted keys, newest first.
// On failure the list is left unchanged.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	var keys []models.ApiKey
	err := s.conn.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Find(&keys).Error

	s.mu.Lock()
	s.loading = false
	if err == nil {
		s.keys = keys
	}
	s.mu.Unlock()

	if err != nil {
		s.notifier.Show("Failed to fetch API keys", notify.SeverityError)
		return fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	return nil
}

// Create persists a new key with a freshly generated secret and prepends
// the stored row, with its assigned ID, to the list.
func (s *Store) Create(ctx context.Context, name string) (models.ApiKey, error) {
	key := models.ApiKey{
		Name:   name,
		Secret: SecretPrefix + uuid.NewString(),
		Usage:  0,
	}

	if err := s.conn.WithContext(ctx).Create(&key).Error; err != nil {
		s.notifier.Show("Failed to create API Key", notify.SeverityError)
		return models.ApiKey{}, fmt.Errorf("%w: %v", ErrCreateFailed, err)
	}

	s.mu.Lock()
	s.keys = append([]models.ApiKey{key}, s.keys...)
	s.mu.Unlock()

	s.notifier.Show("API Key created successfully", notify.SeveritySuccess)
	return key, nil
}

// Rename updates the display name of one key, preserving list order. A
// missing ID fails the operation and leaves local state untouched.
func (s *Store) Rename(ctx context.Context, id uint, newName string) error {
	res := s.conn.WithContext(ctx).
		Model(&models.ApiKey{}).
		Where("id = ?", id).
		Update("name", newName)
	if res.Error != nil {
		s.notifier.Show("Failed to update API Key", notify.SeverityError)
		return fmt.Errorf("%w: %v", ErrUpdateFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		s.notifier.Show("Failed to update API Key", notify.SeverityError)
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	s.mu.Lock()
	for i := range s.keys {
		if s.keys[i].ID == id {
			s.keys[i].Name = newName
			break
		}
	}
	s.mu.Unlock()

	s.notifier.Show("API Key updated successfully", notify.SeveritySuccess)
	return nil
}

// Delete removes one key from persistence and the list.
func (s *Store) Delete(ctx context.Context, id uint) error {
	res := s.conn.WithContext(ctx).Delete(&models.ApiKey{}, id)
	if res.Error != nil {
		s.notifier.Show("Failed to delete API Key", notify.SeverityError)
		return fmt.Errorf("%w: %v", ErrDeleteFailed, res.Error)
	}
	if res.RowsAffected == 0 {
		s.notifier.Show("Failed to delete API Key", notify.SeverityError)
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}

	s.mu.Lock()
	for i := range s.keys {
		if s.keys[i].ID == id {
			s.keys = append(s.keys[:i], s.keys[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	// deletion confirmations render in the error style
	s.notifier.Show("API Key deleted successfully", notify.SeverityError)
	return nil
}

// Keys returns a copy of the current list, newest first.
func (s *Store) Keys() []models.ApiKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ApiKey, len(s.keys))
	copy(out, s.keys)
	return out
}

// Loading reports whether a Load round-trip is in flight.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}
