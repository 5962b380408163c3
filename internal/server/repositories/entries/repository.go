package entries

import (
	"context"

	"github.com/Tanaychoubey/user-registration-api/internal/server/models"
)

// Repository is the data store for key-value entries. Create reports
// common.ErrorAlreadyExists for a taken key; Get, Update and Delete report
// common.ErrorNotFound for a missing one.
type Repository interface {
	Create(ctx context.Context, entry *models.DataEntry) error
	Get(ctx context.Context, key string) (*models.DataEntry, error)
	Update(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
