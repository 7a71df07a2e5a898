package method

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no shipping method has the requested id.
var ErrNotFound = errors.New("shipping method not found")

// Repository defines data access for shipping methods.
type Repository interface {
	Create(ctx context.Context, m *ShippingMethod) error
	GetByID(ctx context.Context, id int) (*ShippingMethod, error)
	// List returns the methods available for countryID (0 = every method),
	// ordered by display order then id.
	List(ctx context.Context, countryID int) ([]ShippingMethod, error)
	Update(ctx context.Context, m *ShippingMethod) error
	Delete(ctx context.Context, id int) error
}
