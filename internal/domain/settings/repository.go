package settings

import "context"

// Repository is the raw key/value store behind typed settings.
type Repository interface {
	// Get returns ErrSettingNotFound for a missing key.
	Get(ctx context.Context, key string) (string, error)
	Upsert(ctx context.Context, key, value string) error
}
