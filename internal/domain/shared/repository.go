package shared

import (
	"context"
)

// Repository is the base store contract shared by every entity collection.
// K is the entity key: a generated uuid or a natural key such as a postal code.
type Repository[T any, K comparable] interface {
	FindAll(ctx context.Context) ([]T, error)
	Save(ctx context.Context, entity *T) error
	Delete(ctx context.Context, key K) error
}
