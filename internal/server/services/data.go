package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
	"github.com/Tanaychoubey/user-registration-api/internal/server/repositories/repomanager"
)

// DataService implements CRUD over the key-value store. Keys are global: the
// authenticated user does not scope them.
type DataService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewDataService(db *sql.DB, m repomanager.RepositoryManager) *DataService {
	return &DataService{db: db, repomanager: m}
}

// Store creates a new entry. An existing key yields ErrKeyExists and the
// stored value is left untouched.
func (s *DataService) Store(ctx context.Context, key, value string) error {
	if key == "" || value == "" {
		return common.ErrInvalidRequest
	}

	err := s.repomanager.Entries(s.db).Create(ctx, &models.DataEntry{Key: key, Value: value})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return common.ErrKeyExists
		}
		return fmt.Errorf("error storing entry: %w", err)
	}
	return nil
}

func (s *DataService) Retrieve(ctx context.Context, key string) (*models.DataEntry, error) {
	e, err := s.repomanager.Entries(s.db).Get(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrKeyNotFound
		}
		return nil, fmt.Errorf("error retrieving entry: %w", err)
	}
	return e, nil
}

// Update replaces the value of an existing key. A missing key is never
// created.
func (s *DataService) Update(ctx context.Context, key, value string) error {
	if value == "" {
		return common.ErrInvalidRequest
	}

	err := s.repomanager.Entries(s.db).Update(ctx, key, value)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrKeyNotFound
		}
		return fmt.Errorf("error updating entry: %w", err)
	}
	return nil
}

func (s *DataService) Delete(ctx context.Context, key string) error {
	err := s.repomanager.Entries(s.db).Delete(ctx, key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrKeyNotFound
		}
		return fmt.Errorf("error deleting entry: %w", err)
	}
	return nil
}
