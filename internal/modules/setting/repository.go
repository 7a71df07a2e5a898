package setting

import "context"

// Repository persists raw setting values by key.
type Repository interface {
	// All returns every stored setting.
	All(ctx context.Context) (map[string]string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}
